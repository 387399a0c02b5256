package vesting

import (
	sdkmath "cosmossdk.io/math"
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// maxScheduleSpan caps lockup and duration so that adding them to a block
// time can never overflow.
const maxScheduleSpan = vestd.UnixDuration(100 * 365 * 24 * 60 * 60)

// Schedule describes how an allocation unlocks once the pool is released.
type Schedule struct {
	// UnlockTge is the share of the allocation available right at release.
	UnlockTge vestd.Fraction `json:"unlock_tge"`
	// Lockup is the time after release before linear vesting starts.
	Lockup vestd.UnixDuration `json:"lockup"`
	// Duration is the length of the linear vesting, split into Periods
	// of equal length.
	Duration vestd.UnixDuration `json:"duration"`
	Periods  uint32             `json:"periods"`
}

// Validate returns an error if the schedule cannot be evaluated. The
// duration must split into whole second periods.
func (s Schedule) Validate() error {
	var errs error
	if err := s.UnlockTge.Validate(); err != nil {
		errs = errors.Append(errs, errors.Field("UnlockTge", ErrInvalidSchedule, err.Error()))
	} else if s.UnlockTge.Compare(vestd.Fraction{Numerator: 1, Denominator: 1}) > 0 {
		errs = errors.Append(errs, errors.Field("UnlockTge", ErrInvalidSchedule, "must not be greater than 1"))
	}
	if s.Lockup < 0 || s.Lockup > maxScheduleSpan {
		errs = errors.Append(errs, errors.Field("Lockup", ErrInvalidSchedule, "must be within [0, %s]", maxScheduleSpan))
	}
	if s.Periods == 0 {
		errs = errors.Append(errs, errors.Field("Periods", ErrInvalidSchedule, "must be positive"))
	}
	switch {
	case s.Duration <= 0 || s.Duration > maxScheduleSpan:
		errs = errors.Append(errs, errors.Field("Duration", ErrInvalidSchedule, "must be within (0, %s]", maxScheduleSpan))
	case s.Periods != 0 && int64(s.Duration)%int64(s.Periods) != 0:
		errs = errors.Append(errs, errors.Field("Duration", ErrInvalidSchedule, "%d seconds cannot be split into %d periods", s.Duration, s.Periods))
	}
	return errs
}

// PeriodLength returns the length of a single vesting period. The schedule
// must be valid.
func (s Schedule) PeriodLength() vestd.UnixDuration {
	return s.Duration / vestd.UnixDuration(s.Periods)
}

// VestedAmount returns how much of the allocation has vested at now, for a
// pool released at releasedAt, together with the number of fully elapsed
// linear periods. The schedule must be valid.
//
// The TGE share is available from release. The remainder vests linearly,
// one equal step per elapsed period after the lockup, and the last period
// always completes the allocation.
func VestedAmount(allocated uint64, s Schedule, releasedAt, now vestd.UnixTime) (uint64, uint32) {
	if now < releasedAt {
		return 0, 0
	}
	tge := s.UnlockTge.MulFloor(allocated)
	if tge > allocated {
		tge = allocated
	}

	start := releasedAt.AddDuration(s.Lockup)
	if now < start {
		return tge, 0
	}

	elapsed := uint64(now-start) / uint64(s.PeriodLength())
	if elapsed > uint64(s.Periods) {
		elapsed = uint64(s.Periods)
	}
	linear := sdkmath.NewUint(allocated - tge).
		MulUint64(elapsed).
		QuoUint64(uint64(s.Periods)).
		Uint64()

	// linear never exceeds allocated - tge, so the sum cannot overflow.
	vested := tge + linear
	if vested > allocated {
		vested = allocated
	}
	return vested, uint32(elapsed)
}
