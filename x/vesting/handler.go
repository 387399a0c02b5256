package vesting

import (
	"encoding/binary"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/orm"
	"github.com/iov-one/vestd/x"
	"github.com/tendermint/tendermint/libs/common"
)

// CustodyController is the token primitive the vesting pools rely on. All
// operations must happen within the given store so that a failing
// transaction leaves no trace.
type CustodyController interface {
	Balance(db vestd.ReadOnlyKVStore, addr vestd.Address, ticker string) (uint64, error)
	Decimals(db vestd.ReadOnlyKVStore, ticker string) (uint32, error)
	MoveCoins(db vestd.KVStore, src, dst vestd.Address, ticker string, amount uint64) error
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vestd.Registry, auth x.Authenticator, custody CustodyController) {
	bucket := NewPoolBucket()
	r.Handle(pathInitializeMsg, initializeHandler{auth: auth, bucket: bucket, custody: custody})
	r.Handle(pathReleaseMsg, releaseHandler{auth: auth, bucket: bucket})
	r.Handle(pathClaimMsg, claimHandler{auth: auth, bucket: bucket, custody: custody})
}

// RegisterQuery will register the pool bucket as "/vesting/pools".
func RegisterQuery(qr vestd.QueryRouter) {
	NewPoolBucket().Register("vesting/pools", qr)
}

// loadPool returns the pool of given token. A pool that was never stored
// is returned in the uninitialized state.
func loadPool(db vestd.ReadOnlyKVStore, bucket orm.ModelBucket, ticker string) (*Pool, error) {
	var pool Pool
	switch err := bucket.One(db, []byte(ticker), &pool); {
	case err == nil:
		return &pool, nil
	case errors.ErrNotFound.Is(err):
		return &Pool{Ticker: ticker, State: PoolUninitialized}, nil
	default:
		return nil, errors.Wrap(err, "cannot load pool")
	}
}

func signerAddress(ctx vestd.Context, auth x.Authenticator) (vestd.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

type initializeHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	custody CustodyController
}

var _ vestd.Handler = initializeHandler{}

func (h initializeHandler) Check(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vestd.CheckResult{}, nil
}

// Deliver creates the pool and moves the deposit from the signer to the
// custody account.
func (h initializeHandler) Deliver(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.DeliverResult, error) {
	msg, pool, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.custody.MoveCoins(db, pool.Authority, pool.Custody, pool.Ticker, msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.bucket.Put(db, []byte(pool.Ticker), pool); err != nil {
		return nil, errors.Wrap(err, "cannot store pool")
	}

	vestd.GetLogger(ctx).Info("vesting pool initialized",
		"ticker", pool.Ticker,
		"authority", pool.Authority,
		"deposit", pool.Deposited,
		"beneficiaries", len(pool.Beneficiaries))
	return &vestd.DeliverResult{
		Data: pool.Custody,
		Tags: []common.KVPair{
			{Key: []byte("vesting.ticker"), Value: []byte(pool.Ticker)},
			{Key: []byte("vesting.authority"), Value: []byte(pool.Authority.String())},
		},
	}, nil
}

// validate does all common pre-processing between Check and Deliver. It
// returns the initialized pool that is not stored yet.
func (h initializeHandler) validate(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*InitializeMsg, *Pool, error) {
	var msg InitializeMsg
	if err := vestd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	admin, err := signerAddress(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	now, err := vestd.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	pool, err := loadPool(db, h.bucket, msg.Ticker)
	if err != nil {
		return nil, nil, err
	}
	decimals, err := h.custody.Decimals(db, msg.Ticker)
	if err != nil {
		return nil, nil, errors.Wrap(err, "token")
	}
	err = pool.Initialize(InitParams{
		Ticker:           msg.Ticker,
		Authority:        admin,
		Deposit:          msg.Deposit,
		Decimals:         msg.Decimals,
		TokenDecimals:    decimals,
		Grants:           msg.Beneficiaries,
		MaxBeneficiaries: conf.MaxBeneficiaries,
		Now:              now,
	})
	if err != nil {
		return nil, nil, err
	}

	balance, err := h.custody.Balance(db, admin, msg.Ticker)
	if err != nil {
		return nil, nil, errors.Wrap(err, "balance")
	}
	if balance < msg.Deposit {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "deposit of %d, balance of %d", msg.Deposit, balance)
	}
	return &msg, pool, nil
}

type releaseHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ vestd.Handler = releaseHandler{}

func (h releaseHandler) Check(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vestd.CheckResult{}, nil
}

// Deliver starts the vesting clock of the pool.
func (h releaseHandler) Deliver(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.DeliverResult, error) {
	pool, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Put(db, []byte(pool.Ticker), pool); err != nil {
		return nil, errors.Wrap(err, "cannot store pool")
	}
	vestd.GetLogger(ctx).Info("vesting pool released",
		"ticker", pool.Ticker,
		"released_at", pool.ReleasedAt)
	return &vestd.DeliverResult{
		Data: encodeUint64(uint64(pool.ReleasedAt)),
		Tags: []common.KVPair{
			{Key: []byte("vesting.ticker"), Value: []byte(pool.Ticker)},
		},
	}, nil
}

func (h releaseHandler) validate(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*Pool, error) {
	var msg ReleaseMsg
	if err := vestd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := signerAddress(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	now, err := vestd.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	pool, err := loadPool(db, h.bucket, msg.Ticker)
	if err != nil {
		return nil, err
	}
	if err := pool.Release(caller, now, conf.ReleaseTimelock); err != nil {
		return nil, err
	}
	return pool, nil
}

type claimHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	custody CustodyController
}

var _ vestd.Handler = claimHandler{}

func (h claimHandler) Check(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vestd.CheckResult{}, nil
}

// Deliver pays the vested amount out of the custody account. The ledger
// update and the transfer are written together or not at all.
func (h claimHandler) Deliver(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.DeliverResult, error) {
	pool, transfer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.custody.MoveCoins(db, transfer.From, transfer.To, transfer.Ticker, transfer.Amount); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	if err := h.bucket.Put(db, []byte(pool.Ticker), pool); err != nil {
		return nil, errors.Wrap(err, "cannot store pool")
	}
	vestd.GetLogger(ctx).Info("vested tokens claimed",
		"ticker", transfer.Ticker,
		"recipient", transfer.To,
		"amount", transfer.Amount)
	return &vestd.DeliverResult{
		Data: encodeUint64(transfer.Amount),
		Tags: []common.KVPair{
			{Key: []byte("vesting.ticker"), Value: []byte(transfer.Ticker)},
			{Key: []byte("vesting.recipient"), Value: []byte(transfer.To.String())},
		},
	}, nil
}

// validate computes the claim against a copy of the stored pool. The
// returned pool is the updated ledger that must be stored.
func (h claimHandler) validate(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*Pool, *Transfer, error) {
	var msg ClaimMsg
	if err := vestd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	beneficiary, err := signerAddress(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	now, err := vestd.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	pool, err := loadPool(db, h.bucket, msg.Ticker)
	if err != nil {
		return nil, nil, err
	}
	transfer, err := Claim(pool, beneficiary, now)
	if err != nil {
		return nil, nil, err
	}
	if msg.Destination != nil {
		transfer.To = msg.Destination
	}

	// The custody account must hold what the ledger says it holds.
	held, err := h.custody.Balance(db, transfer.From, transfer.Ticker)
	if err != nil {
		return nil, nil, errors.Wrap(err, "custody balance")
	}
	if held < transfer.Amount {
		return nil, nil, errors.Wrapf(ErrInsolvent, "custody account holds %d, claim of %d", held, transfer.Amount)
	}
	return pool, transfer, nil
}

func encodeUint64(v uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, v)
	return raw
}
