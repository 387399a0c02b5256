package vesting

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/orm"
)

// PoolState is the lifecycle state of a vesting pool.
type PoolState uint32

const (
	// PoolUninitialized is the state of a pool that was never stored.
	PoolUninitialized PoolState = iota
	// PoolInitialized pools hold the deposit but nothing can be claimed.
	PoolInitialized
	// PoolReleased pools vest according to the beneficiary schedules.
	PoolReleased
)

func (s PoolState) String() string {
	switch s {
	case PoolUninitialized:
		return "uninitialized"
	case PoolInitialized:
		return "initialized"
	case PoolReleased:
		return "released"
	default:
		return fmt.Sprintf("PoolState(%d)", uint32(s))
	}
}

// Beneficiary is a single ledger entry of a pool.
type Beneficiary struct {
	Address   vestd.Address `json:"address"`
	Allocated uint64        `json:"allocated"`
	Claimed   uint64        `json:"claimed"`
	Schedule  Schedule      `json:"schedule"`
	// PeriodsConfirmed is the number of linear periods already paid out.
	PeriodsConfirmed uint32 `json:"periods_confirmed"`
}

// Validate checks the invariants of a single entry.
func (b *Beneficiary) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", b.Address.Validate())
	if b.Allocated == 0 {
		errs = errors.AppendField(errs, "Allocated", errors.ErrInvalidAmount)
	}
	if b.Claimed > b.Allocated {
		errs = errors.Append(errs, errors.Field("Claimed", ErrInsolvent, "%d claimed of %d allocated", b.Claimed, b.Allocated))
	}
	errs = errors.Append(errs, b.Schedule.Validate())
	if b.PeriodsConfirmed > b.Schedule.Periods {
		errs = errors.Append(errs, errors.Field("PeriodsConfirmed", errors.ErrInvalidState, "more than %d periods", b.Schedule.Periods))
	}
	return errs
}

// ClaimableNow returns the vested amount not yet claimed, and the number of
// elapsed linear periods.
func (b *Beneficiary) ClaimableNow(releasedAt, now vestd.UnixTime) (uint64, uint32) {
	vested, elapsed := VestedAmount(b.Allocated, b.Schedule, releasedAt, now)
	if vested <= b.Claimed {
		return 0, elapsed
	}
	return vested - b.Claimed, elapsed
}

// applyClaim records a payout. It changes nothing when it fails.
func (b *Beneficiary) applyClaim(amount uint64, elapsed uint32) error {
	if amount == 0 {
		return errors.Wrap(ErrClaimNotAllowed, "nothing to claim")
	}
	if amount > b.Allocated-b.Claimed {
		return errors.Wrapf(ErrInsolvent, "claim of %d exceeds the unclaimed allocation", amount)
	}
	b.Claimed += amount
	if elapsed > b.PeriodsConfirmed {
		b.PeriodsConfirmed = elapsed
	}
	return nil
}

// Pool is the vesting ledger of a single token.
type Pool struct {
	Metadata *vestd.Metadata `json:"metadata"`
	Ticker   string          `json:"ticker"`
	State    PoolState       `json:"state"`
	// Authority is the administrator that deposited the funds and may
	// release the pool.
	Authority vestd.Address `json:"authority"`
	// Custody is the account holding the deposit in trust.
	Custody        vestd.Address  `json:"custody"`
	Deposited      uint64         `json:"deposited"`
	CustodyBalance uint64         `json:"custody_balance"`
	Decimals       uint32         `json:"decimals"`
	InitializedAt  vestd.UnixTime `json:"initialized_at"`
	ReleasedAt     vestd.UnixTime `json:"released_at"`
	Beneficiaries  []Beneficiary  `json:"beneficiaries"`
}

var _ orm.Model = (*Pool)(nil)

// Validate checks that a stored pool is consistent, including solvency.
func (p *Pool) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", p.Metadata.Validate())
	if p.Ticker == "" {
		errs = errors.AppendField(errs, "Ticker", errors.ErrEmpty)
	}
	if p.State != PoolInitialized && p.State != PoolReleased {
		errs = errors.Append(errs, errors.Field("State", errors.ErrInvalidState, "%s pool cannot be stored", p.State))
	}
	errs = errors.AppendField(errs, "Authority", p.Authority.Validate())
	errs = errors.AppendField(errs, "Custody", p.Custody.Validate())
	errs = errors.AppendField(errs, "InitializedAt", p.InitializedAt.Validate())
	if p.State == PoolReleased && p.ReleasedAt < p.InitializedAt {
		errs = errors.Append(errs, errors.Field("ReleasedAt", errors.ErrInvalidState, "before initialization"))
	}
	if p.State != PoolReleased && p.ReleasedAt != 0 {
		errs = errors.Append(errs, errors.Field("ReleasedAt", errors.ErrInvalidState, "set before release"))
	}
	if len(p.Beneficiaries) == 0 {
		errs = errors.AppendField(errs, "Beneficiaries", errors.ErrEmpty)
	}
	seen := make(map[string]struct{}, len(p.Beneficiaries))
	for i := range p.Beneficiaries {
		b := &p.Beneficiaries[i]
		if err := b.Validate(); err != nil {
			errs = errors.AppendField(errs, fmt.Sprintf("Beneficiaries.%d", i), err)
		}
		if _, ok := seen[string(b.Address)]; ok {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Beneficiaries.%d.Address", i), errors.ErrDuplicate, "%s", b.Address))
		}
		seen[string(b.Address)] = struct{}{}
	}
	if errs != nil {
		return errs
	}
	return p.CheckSolvency()
}

// CheckSolvency re-derives the ledger totals and ensures that the custody
// balance covers exactly what was deposited and not yet claimed, and that
// the deposit covers all allocations.
func (p *Pool) CheckSolvency() error {
	allocated := sdkmath.ZeroUint()
	claimed := sdkmath.ZeroUint()
	for _, b := range p.Beneficiaries {
		if b.Claimed > b.Allocated {
			return errors.Wrapf(ErrInsolvent, "%s claimed %d of %d", b.Address, b.Claimed, b.Allocated)
		}
		allocated = allocated.AddUint64(b.Allocated)
		claimed = claimed.AddUint64(b.Claimed)
	}
	deposited := sdkmath.NewUint(p.Deposited)
	if allocated.GT(deposited) {
		return errors.Wrapf(ErrInsolvent, "allocated %s exceeds deposit %s", allocated, deposited)
	}
	if !deposited.Sub(claimed).Equal(sdkmath.NewUint(p.CustodyBalance)) {
		return errors.Wrapf(ErrInsolvent, "custody holds %d, ledger expects %s", p.CustodyBalance, deposited.Sub(claimed))
	}
	return nil
}

// Beneficiary returns the ledger entry of given address.
func (p *Pool) Beneficiary(addr vestd.Address) (*Beneficiary, error) {
	for i := range p.Beneficiaries {
		if p.Beneficiaries[i].Address.Equals(addr) {
			return &p.Beneficiaries[i], nil
		}
	}
	return nil, errors.Wrapf(ErrBeneficiaryNotFound, "%s", addr)
}

// Copy returns a deep copy of this pool.
func (p *Pool) Copy() *Pool {
	cpy := *p
	cpy.Metadata = p.Metadata.Copy()
	cpy.Authority = append(vestd.Address(nil), p.Authority...)
	cpy.Custody = append(vestd.Address(nil), p.Custody...)
	if p.Beneficiaries == nil {
		return &cpy
	}
	cpy.Beneficiaries = make([]Beneficiary, len(p.Beneficiaries))
	for i, b := range p.Beneficiaries {
		b.Address = append(vestd.Address(nil), b.Address...)
		cpy.Beneficiaries[i] = b
	}
	return &cpy
}

func (p *Pool) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Pool) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// NewPoolBucket returns a bucket storing pools by ticker.
func NewPoolBucket() orm.ModelBucket {
	return orm.NewModelBucket("vestingpools")
}

// CustodyAddress returns the address of the account holding the deposit of
// the pool of given token. No key can sign for it.
func CustodyAddress(ticker string) vestd.Address {
	return CustodyCondition(ticker).Address()
}

// CustodyCondition returns the condition that authorizes the custody
// account of the pool of given token.
func CustodyCondition(ticker string) vestd.Condition {
	return vestd.NewCondition("vesting", "pool", []byte(ticker))
}
