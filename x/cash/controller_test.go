package cash

import (
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest"
	"github.com/iov-one/vestd/weavetest/assert"
)

func newTestController(t testing.TB, db vestd.KVStore) BaseController {
	t.Helper()
	tokens := NewTokenBucket()
	err := tokens.Put(db, []byte("IOV"), &Token{
		Metadata: &vestd.Metadata{Schema: 1},
		Name:     "Internet of Values",
		Decimals: 9,
	})
	assert.Nil(t, err)
	return NewController(NewWalletBucket(), tokens)
}

func TestMoveCoins(t *testing.T) {
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	cases := map[string]struct {
		mint      uint64
		src       vestd.Address
		dst       vestd.Address
		ticker    string
		amount    uint64
		wantErr   *errors.Error
		wantAlice uint64
		wantBob   uint64
	}{
		"full balance": {
			mint: 100, src: alice, dst: bob, ticker: "IOV", amount: 100,
			wantAlice: 0, wantBob: 100,
		},
		"partial balance": {
			mint: 100, src: alice, dst: bob, ticker: "IOV", amount: 30,
			wantAlice: 70, wantBob: 30,
		},
		"insufficient funds": {
			mint: 10, src: alice, dst: bob, ticker: "IOV", amount: 11,
			wantErr: errors.ErrInsufficientAmount, wantAlice: 10,
		},
		"unknown sender": {
			src: bob, dst: alice, ticker: "IOV", amount: 1,
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			mint: 10, src: alice, dst: bob, ticker: "IOV", amount: 0,
			wantErr: errors.ErrInvalidAmount, wantAlice: 10,
		},
		"unknown token": {
			mint: 10, src: alice, dst: bob, ticker: "ETH", amount: 1,
			wantErr: errors.ErrNotFound, wantAlice: 10,
		},
		"self transfer": {
			mint: 10, src: alice, dst: alice, ticker: "IOV", amount: 5,
			wantAlice: 10,
		},
		"invalid destination": {
			mint: 10, src: alice, dst: vestd.Address{0x01}, ticker: "IOV", amount: 5,
			wantErr: errors.ErrInvalidInput, wantAlice: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := newTestController(t, db)
			if tc.mint > 0 {
				assert.Nil(t, ctrl.CoinMint(db, alice, "IOV", tc.mint))
			}

			err := ctrl.MoveCoins(db, tc.src, tc.dst, tc.ticker, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			got, err := ctrl.Balance(db, alice, "IOV")
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob, "IOV")
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestEmptyWalletIsRemoved(t *testing.T) {
	db := store.MemStore()
	ctrl := newTestController(t, db)
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	assert.Nil(t, ctrl.CoinMint(db, alice, "IOV", 5))
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, "IOV", 5))
	assert.IsErr(t, errors.ErrNotFound, NewWalletBucket().Has(db, alice))
	assert.Nil(t, NewWalletBucket().Has(db, bob))
}

func TestCoinMintOverflow(t *testing.T) {
	db := store.MemStore()
	ctrl := newTestController(t, db)
	alice := weavetest.NewAddress()

	assert.Nil(t, ctrl.CoinMint(db, alice, "IOV", ^uint64(0)))
	err := ctrl.CoinMint(db, alice, "IOV", 1)
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestDecimals(t *testing.T) {
	db := store.MemStore()
	ctrl := newTestController(t, db)

	got, err := ctrl.Decimals(db, "IOV")
	assert.Nil(t, err)
	assert.Equal(t, uint32(9), got)

	_, err = ctrl.Decimals(db, "ETH")
	assert.IsErr(t, errors.ErrNotFound, err)
}
