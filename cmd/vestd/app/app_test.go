package app

import (
	"strings"
	"testing"
	"time"

	"github.com/iov-one/vestd"
	weaveApp "github.com/iov-one/vestd/app"
	"github.com/iov-one/vestd/x/cash"
	"github.com/iov-one/vestd/x/vesting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	day   = 24 * 60 * 60
	year  = 365 * day
	month = year / 12
)

type testChain struct {
	t      *testing.T
	app    abci.Application
	height int64
}

func newTestChain(t *testing.T, admin vestd.Address, reg prometheus.Registerer) *testChain {
	t.Helper()
	myApp, err := GenerateApp("", log.NewNopLogger(), true, reg)
	require.NoError(t, err)

	opts, err := GenInitOptions([]string{"IOV", admin.String()})
	require.NoError(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: "vestd-test", AppStateBytes: opts})
	return &testChain{t: t, app: myApp}
}

// deliver runs a single transaction in its own block.
func (c *testChain) deliver(at time.Time, signer vestd.Condition, msg vestd.Msg) abci.ResponseDeliverTx {
	c.t.Helper()
	tx := &Tx{Signer: signer, Msg: msg}
	bz, err := tx.Marshal()
	require.NoError(c.t, err)

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: c.height, Time: at}})
	res := c.app.DeliverTx(bz)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

func (c *testChain) balance(addr vestd.Address) uint64 {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: "/wallets", Data: addr})
	require.EqualValues(c.t, 0, res.Code, res.Log)
	var w cash.Wallet
	if err := weaveApp.UnmarshalOneResult(res.Value, &w); err != nil {
		return 0
	}
	return w.Balance("IOV")
}

func TestApp(t *testing.T) {
	admin := GenerateDevCondition()
	alice := vestd.NewCondition("dev", "alice", []byte{1})
	bob := vestd.NewCondition("dev", "bob", []byte{2})

	reg := prometheus.NewRegistry()
	chain := newTestChain(t, admin.Address(), reg)
	start := time.Unix(1700000000, 0).UTC()
	meta := &vestd.Metadata{Schema: 1}

	grant := func(addr vestd.Address, allocated uint64) vesting.Grant {
		return vesting.Grant{
			Address:   addr,
			Allocated: allocated,
			Schedule:  vesting.Schedule{Duration: year, Periods: 12},
		}
	}
	res := chain.deliver(start, admin, &vesting.InitializeMsg{
		Metadata:      meta,
		Ticker:        "IOV",
		Deposit:       300000000,
		Decimals:      9,
		Beneficiaries: []vesting.Grant{grant(alice.Address(), 100000000), grant(bob.Address(), 200000000)},
	})
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, []byte(vesting.CustodyAddress("IOV")), res.Data)

	// only the authority can release the pool
	res = chain.deliver(start, alice, &vesting.ReleaseMsg{Metadata: meta, Ticker: "IOV"})
	require.False(t, res.IsOK())
	assert.Equal(t, vesting.ErrInvalidSender.ABCICode(), res.Code)

	res = chain.deliver(start, admin, &vesting.ReleaseMsg{Metadata: meta, Ticker: "IOV"})
	require.True(t, res.IsOK(), res.Log)

	claim := &vesting.ClaimMsg{Metadata: meta, Ticker: "IOV"}
	res = chain.deliver(start.Add(month*time.Second), alice, claim)
	require.True(t, res.IsOK(), res.Log)
	assert.EqualValues(t, 8333333, chain.balance(alice.Address()))

	// nothing more to claim within the same period
	res = chain.deliver(start.Add((month+60)*time.Second), alice, claim)
	require.False(t, res.IsOK())
	assert.Equal(t, vesting.ErrClaimNotAllowed.ABCICode(), res.Code)
	assert.EqualValues(t, 8333333, chain.balance(alice.Address()))

	// bob sends his first quarter to alice
	res = chain.deliver(start.Add(3*month*time.Second), bob, &vesting.ClaimMsg{
		Metadata:    meta,
		Ticker:      "IOV",
		Destination: alice.Address(),
	})
	require.True(t, res.IsOK(), res.Log)
	assert.EqualValues(t, 8333333+50000000, chain.balance(alice.Address()))
	assert.EqualValues(t, 0, chain.balance(bob.Address()))
	assert.EqualValues(t, 300000000-8333333-50000000, chain.balance(vesting.CustodyAddress("IOV")))

	// stranger is not a beneficiary
	res = chain.deliver(start.Add(3*month*time.Second), GenerateDevCondition(), claim)
	assert.Equal(t, vesting.ErrBeneficiaryNotFound.ABCICode(), res.Code)

	// pool state is visible through the query router
	qres := chain.app.Query(abci.RequestQuery{Path: "/vesting/pools", Data: []byte("IOV")})
	require.EqualValues(t, 0, qres.Code, qres.Log)
	var pool vesting.Pool
	require.NoError(t, weaveApp.UnmarshalOneResult(qres.Value, &pool))
	assert.Equal(t, vesting.PoolReleased, pool.State)
	assert.Equal(t, vestd.AsUnixTime(start), pool.ReleasedAt)
	assert.EqualValues(t, 300000000-8333333-50000000, pool.CustodyBalance)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "vestd_tx_total")
	assert.Contains(t, names, "vestd_tx_duration_seconds")
}

func TestCheckTxDoesNotChangeState(t *testing.T) {
	admin := GenerateDevCondition()
	alice := vestd.NewCondition("dev", "alice", []byte{1})
	chain := newTestChain(t, admin.Address(), nil)

	tx := &Tx{Signer: admin, Msg: &vesting.InitializeMsg{
		Metadata: &vestd.Metadata{Schema: 1},
		Ticker:   "IOV",
		Deposit:  1000,
		Decimals: 9,
		Beneficiaries: []vesting.Grant{{
			Address:   alice.Address(),
			Allocated: 1000,
			Schedule:  vesting.Schedule{Duration: year, Periods: 12},
		}},
	}}
	bz, err := tx.Marshal()
	require.NoError(t, err)

	chain.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})
	res := chain.app.CheckTx(bz)
	require.True(t, res.IsOK(), res.Log)
	assert.EqualValues(t, 0, chain.balance(vesting.CustodyAddress("IOV")))
}

func TestTxDecoder(t *testing.T) {
	signer := vestd.NewCondition("dev", "alice", []byte{1})
	dest := vestd.NewCondition("dev", "bob", []byte{2}).Address()
	tx := &Tx{Signer: signer, Msg: &vesting.ClaimMsg{
		Metadata:    &vestd.Metadata{Schema: 1},
		Ticker:      "IOV",
		Destination: dest,
	}}
	bz, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(bz)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)

	var msg vesting.ClaimMsg
	require.NoError(t, vestd.LoadMsg(decoded, &msg))
	assert.Equal(t, dest, msg.Destination)

	_, err = TxDecoder([]byte("not a transaction"))
	assert.Error(t, err)
}

func TestGenInitOptions(t *testing.T) {
	opts, err := GenInitOptions([]string{"ETH", "cond:dev/admin/" + strings.Repeat("ab", 4)})
	require.NoError(t, err)
	assert.Contains(t, string(opts), `"ticker": "ETH"`)
	assert.Contains(t, string(opts), `"max_beneficiaries": 50`)

	_, err = GenInitOptions([]string{"not a ticker"})
	assert.Error(t, err)
}
