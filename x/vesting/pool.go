package vesting

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Grant is the configuration of a single beneficiary, as provided when the
// pool is initialized.
type Grant struct {
	Address   vestd.Address `json:"address"`
	Allocated uint64        `json:"allocated"`
	Schedule  Schedule      `json:"schedule"`
}

// Validate checks a grant in isolation.
func (g Grant) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", g.Address.Validate())
	if g.Allocated == 0 {
		errs = errors.Append(errs, errors.Field("Allocated", errors.ErrInvalidAmount, "must be positive"))
	}
	return errors.Append(errs, g.Schedule.Validate())
}

// InitParams are the inputs of a pool initialization.
type InitParams struct {
	Ticker    string
	Authority vestd.Address
	Deposit   uint64
	// Decimals is the precision declared by the administrator and
	// TokenDecimals the one of the registered token. They must match.
	Decimals      uint32
	TokenDecimals uint32
	Grants        []Grant
	// MaxBeneficiaries limits the number of grants, zero means no limit.
	MaxBeneficiaries uint32
	Now              vestd.UnixTime
}

// Initialize moves an uninitialized pool into the Initialized state. All
// checks are done before the pool is modified.
func (p *Pool) Initialize(params InitParams) error {
	if p.State != PoolUninitialized {
		return errors.Wrapf(ErrAlreadyInitialized, "pool %q is %s", p.Ticker, p.State)
	}
	if err := params.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if params.Decimals != params.TokenDecimals {
		return errors.Wrapf(ErrInvalidDecimals, "declared %d, token has %d", params.Decimals, params.TokenDecimals)
	}
	if len(params.Grants) == 0 {
		return errors.Wrap(errors.ErrEmpty, "beneficiaries")
	}
	if params.MaxBeneficiaries > 0 && len(params.Grants) > int(params.MaxBeneficiaries) {
		return errors.Wrapf(ErrTooManyBeneficiaries, "%d beneficiaries, at most %d allowed", len(params.Grants), params.MaxBeneficiaries)
	}

	total := sdkmath.ZeroUint()
	seen := make(map[string]struct{}, len(params.Grants))
	for i, g := range params.Grants {
		if err := g.Validate(); err != nil {
			return errors.Field(fmt.Sprintf("Beneficiaries.%d", i), err, "")
		}
		if _, ok := seen[string(g.Address)]; ok {
			return errors.Field(fmt.Sprintf("Beneficiaries.%d.Address", i), errors.ErrDuplicate, "%s", g.Address)
		}
		seen[string(g.Address)] = struct{}{}
		total = total.AddUint64(g.Allocated)
	}
	if total.GT(sdkmath.NewUint(params.Deposit)) {
		return errors.Wrapf(ErrInsufficientDeposit, "allocations of %s exceed deposit of %d", total, params.Deposit)
	}

	beneficiaries := make([]Beneficiary, len(params.Grants))
	for i, g := range params.Grants {
		beneficiaries[i] = Beneficiary{
			Address:   g.Address,
			Allocated: g.Allocated,
			Schedule:  g.Schedule,
		}
	}
	*p = Pool{
		Metadata:       &vestd.Metadata{Schema: 1},
		Ticker:         params.Ticker,
		State:          PoolInitialized,
		Authority:      params.Authority,
		Custody:        CustodyAddress(params.Ticker),
		Deposited:      params.Deposit,
		CustodyBalance: params.Deposit,
		Decimals:       params.Decimals,
		InitializedAt:  params.Now,
		Beneficiaries:  beneficiaries,
	}
	return nil
}

// Release starts the vesting clock. Only the authority may release the
// pool, once, and not before the timelock counted from initialization has
// passed.
func (p *Pool) Release(caller vestd.Address, now vestd.UnixTime, timelock vestd.UnixDuration) error {
	if p.State == PoolUninitialized {
		return errors.Wrap(errors.ErrInvalidState, "pool is not initialized")
	}
	if !caller.Equals(p.Authority) {
		return errors.Wrapf(ErrInvalidSender, "%s", caller)
	}
	switch p.State {
	case PoolInitialized:
	case PoolReleased:
		return errors.Wrapf(ErrAlreadyReleased, "at %s", p.ReleasedAt)
	default:
		return errors.Wrapf(errors.ErrInvalidState, "pool is %s", p.State)
	}
	if unlock := p.InitializedAt.AddDuration(timelock); now < unlock {
		return errors.Wrapf(ErrTimelockNotExpired, "release possible at %s", unlock)
	}
	p.State = PoolReleased
	p.ReleasedAt = now
	return nil
}
