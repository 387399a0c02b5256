package vesting

import (
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/weavetest"
	"github.com/iov-one/vestd/weavetest/assert"
)

const initTime = vestd.UnixTime(1700000000)

func monthlyGrant(addr vestd.Address, allocated uint64) Grant {
	return Grant{
		Address:   addr,
		Allocated: allocated,
		Schedule:  Schedule{Duration: year, Periods: 12},
	}
}

func TestPoolInitialize(t *testing.T) {
	admin := weavetest.NewAddress()
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	params := func(mod func(*InitParams)) InitParams {
		p := InitParams{
			Ticker:        "IOV",
			Authority:     admin,
			Deposit:       1000,
			Decimals:      9,
			TokenDecimals: 9,
			Grants: []Grant{
				monthlyGrant(alice, 600),
				monthlyGrant(bob, 400),
			},
			MaxBeneficiaries: DefaultMaxBeneficiaries,
			Now:              initTime,
		}
		if mod != nil {
			mod(&p)
		}
		return p
	}

	cases := map[string]struct {
		pool    Pool
		params  InitParams
		wantErr *errors.Error
	}{
		"exact deposit": {
			params: params(nil),
		},
		"surplus deposit": {
			params: params(func(p *InitParams) { p.Deposit = 5000 }),
		},
		"already initialized": {
			pool:    Pool{State: PoolInitialized},
			params:  params(nil),
			wantErr: ErrAlreadyInitialized,
		},
		"already released": {
			pool:    Pool{State: PoolReleased},
			params:  params(nil),
			wantErr: ErrAlreadyInitialized,
		},
		"decimals mismatch": {
			params:  params(func(p *InitParams) { p.Decimals = 6 }),
			wantErr: ErrInvalidDecimals,
		},
		"no beneficiaries": {
			params:  params(func(p *InitParams) { p.Grants = nil }),
			wantErr: errors.ErrEmpty,
		},
		"too many beneficiaries": {
			params:  params(func(p *InitParams) { p.MaxBeneficiaries = 1 }),
			wantErr: ErrTooManyBeneficiaries,
		},
		"no limit": {
			params: params(func(p *InitParams) { p.MaxBeneficiaries = 0 }),
		},
		"duplicated beneficiary": {
			params: params(func(p *InitParams) {
				p.Grants = []Grant{monthlyGrant(alice, 1), monthlyGrant(alice, 2)}
			}),
			wantErr: errors.ErrDuplicate,
		},
		"invalid schedule": {
			params: params(func(p *InitParams) {
				p.Grants[1].Schedule.Periods = 7
			}),
			wantErr: ErrInvalidSchedule,
		},
		"zero allocation": {
			params: params(func(p *InitParams) {
				p.Grants[0].Allocated = 0
			}),
			wantErr: errors.ErrInvalidAmount,
		},
		"allocations above deposit": {
			params:  params(func(p *InitParams) { p.Deposit = 999 }),
			wantErr: ErrInsufficientDeposit,
		},
		"missing authority": {
			params:  params(func(p *InitParams) { p.Authority = nil }),
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			pool := tc.pool
			before := *pool.Copy()
			err := pool.Initialize(tc.params)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, before, pool)
				return
			}

			assert.Nil(t, pool.Validate())
			assert.Equal(t, PoolInitialized, pool.State)
			assert.Equal(t, admin, pool.Authority)
			assert.Equal(t, CustodyAddress("IOV"), pool.Custody)
			assert.Equal(t, tc.params.Deposit, pool.Deposited)
			assert.Equal(t, tc.params.Deposit, pool.CustodyBalance)
			assert.Equal(t, initTime, pool.InitializedAt)
			assert.Equal(t, vestd.UnixTime(0), pool.ReleasedAt)
			assert.Equal(t, len(tc.params.Grants), len(pool.Beneficiaries))
			for i, b := range pool.Beneficiaries {
				assert.Equal(t, tc.params.Grants[i].Address, b.Address)
				assert.Equal(t, uint64(0), b.Claimed)
				assert.Equal(t, uint32(0), b.PeriodsConfirmed)
			}
		})
	}
}

func newTestPool(t testing.TB, authority vestd.Address, grants ...Grant) *Pool {
	t.Helper()
	var deposit uint64
	for _, g := range grants {
		deposit += g.Allocated
	}
	var pool Pool
	err := pool.Initialize(InitParams{
		Ticker:        "IOV",
		Authority:     authority,
		Deposit:       deposit,
		Decimals:      9,
		TokenDecimals: 9,
		Grants:        grants,
		Now:           initTime,
	})
	assert.Nil(t, err)
	return &pool
}

func TestPoolRelease(t *testing.T) {
	admin := weavetest.NewAddress()
	alice := weavetest.NewAddress()

	cases := map[string]struct {
		state    PoolState
		caller   vestd.Address
		now      vestd.UnixTime
		timelock vestd.UnixDuration
		wantErr  *errors.Error
	}{
		"release by authority": {
			state:  PoolInitialized,
			caller: admin,
			now:    initTime,
		},
		"release after timelock": {
			state:    PoolInitialized,
			caller:   admin,
			now:      initTime.AddDuration(2 * day),
			timelock: 2 * day,
		},
		"release before timelock": {
			state:    PoolInitialized,
			caller:   admin,
			now:      initTime.AddDuration(2*day - 1),
			timelock: 2 * day,
			wantErr:  ErrTimelockNotExpired,
		},
		"release by beneficiary": {
			state:   PoolInitialized,
			caller:  alice,
			now:     initTime,
			wantErr: ErrInvalidSender,
		},
		"release twice": {
			state:   PoolReleased,
			caller:  admin,
			now:     initTime,
			wantErr: ErrAlreadyReleased,
		},
		"release not initialized": {
			state:   PoolUninitialized,
			caller:  admin,
			now:     initTime,
			wantErr: errors.ErrInvalidState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			pool := newTestPool(t, admin, monthlyGrant(alice, 100))
			pool.State = tc.state
			if tc.state == PoolReleased {
				pool.ReleasedAt = initTime
			}
			err := pool.Release(tc.caller, tc.now, tc.timelock)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, tc.state, pool.State)
				return
			}
			assert.Equal(t, PoolReleased, pool.State)
			assert.Equal(t, tc.now, pool.ReleasedAt)
			assert.Nil(t, pool.Validate())
		})
	}
}

func TestPoolValidateDetectsDrift(t *testing.T) {
	admin := weavetest.NewAddress()
	pool := newTestPool(t, admin, monthlyGrant(weavetest.NewAddress(), 100))
	assert.Nil(t, pool.Validate())

	pool.CustodyBalance--
	if err := pool.Validate(); !ErrInsolvent.Is(err) {
		t.Fatalf("want insolvent error, got %+v", err)
	}

	pool.CustodyBalance++
	pool.Beneficiaries[0].Claimed = 101
	if err := pool.Validate(); !ErrInsolvent.Is(err) {
		t.Fatalf("want insolvent error, got %+v", err)
	}
}

func TestPoolCopyIsDeep(t *testing.T) {
	pool := newTestPool(t, weavetest.NewAddress(), monthlyGrant(weavetest.NewAddress(), 100))
	cpy := pool.Copy()
	cpy.Beneficiaries[0].Claimed = 10
	cpy.Beneficiaries[0].Address[0]++
	cpy.Metadata.Schema = 7

	assert.Equal(t, uint64(0), pool.Beneficiaries[0].Claimed)
	assert.Equal(t, uint32(1), pool.Metadata.Schema)
	if pool.Beneficiaries[0].Address.Equals(cpy.Beneficiaries[0].Address) {
		t.Fatal("address shared between copies")
	}
}

func TestPoolSerialization(t *testing.T) {
	pool := newTestPool(t, weavetest.NewAddress(),
		monthlyGrant(weavetest.NewAddress(), 100),
		Grant{
			Address:   weavetest.NewAddress(),
			Allocated: 50,
			Schedule: Schedule{
				UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 10},
				Lockup:    30 * day,
				Duration:  year,
				Periods:   4,
			},
		})
	raw, err := pool.Marshal()
	assert.Nil(t, err)
	var got Pool
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, *pool, got)
}
