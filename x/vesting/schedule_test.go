package vesting

import (
	"math"
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/weavetest/assert"
)

const (
	day  = vestd.UnixDuration(24 * 60 * 60)
	year = 365 * day
)

func TestScheduleValidate(t *testing.T) {
	cases := map[string]struct {
		schedule  Schedule
		wantField string
	}{
		"valid": {
			schedule: Schedule{Duration: year, Periods: 12},
		},
		"valid with tge and lockup": {
			schedule: Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 10}, Lockup: 30 * day, Duration: year, Periods: 12},
		},
		"full tge": {
			schedule: Schedule{UnlockTge: vestd.Fraction{Numerator: 3, Denominator: 3}, Duration: 1, Periods: 1},
		},
		"zero periods": {
			schedule:  Schedule{Duration: year},
			wantField: "Periods",
		},
		"zero duration": {
			schedule:  Schedule{Periods: 12},
			wantField: "Duration",
		},
		"negative duration": {
			schedule:  Schedule{Duration: -year, Periods: 12},
			wantField: "Duration",
		},
		"uneven split": {
			schedule:  Schedule{Duration: 100, Periods: 3},
			wantField: "Duration",
		},
		"tge above one": {
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 11, Denominator: 10}, Duration: year, Periods: 12},
			wantField: "UnlockTge",
		},
		"tge zero division": {
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 1}, Duration: year, Periods: 12},
			wantField: "UnlockTge",
		},
		"negative lockup": {
			schedule:  Schedule{Lockup: -1, Duration: year, Periods: 12},
			wantField: "Lockup",
		},
		"lockup too long": {
			schedule:  Schedule{Lockup: maxScheduleSpan + 1, Duration: year, Periods: 12},
			wantField: "Lockup",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.schedule.Validate()
			if tc.wantField == "" {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, ErrInvalidSchedule)
		})
	}
}

func TestVestedAmount(t *testing.T) {
	const released = vestd.UnixTime(1700000000)
	monthly := Schedule{Duration: year, Periods: 12}
	month := monthly.PeriodLength()

	cases := map[string]struct {
		allocated   uint64
		schedule    Schedule
		now         vestd.UnixTime
		wantVested  uint64
		wantElapsed uint32
	}{
		"before release": {
			allocated: 100000000, schedule: monthly, now: released - 1,
			wantVested: 0, wantElapsed: 0,
		},
		"at release without tge": {
			allocated: 100000000, schedule: monthly, now: released,
			wantVested: 0, wantElapsed: 0,
		},
		"one period": {
			allocated: 100000000, schedule: monthly, now: released.AddDuration(month),
			wantVested: 8333333, wantElapsed: 1,
		},
		"just before second period": {
			allocated: 100000000, schedule: monthly, now: released.AddDuration(2*month - 1),
			wantVested: 8333333, wantElapsed: 1,
		},
		"two periods": {
			allocated: 100000000, schedule: monthly, now: released.AddDuration(2 * month),
			wantVested: 16666666, wantElapsed: 2,
		},
		"full vesting boundary": {
			allocated: 100000000, schedule: monthly, now: released.AddDuration(year),
			wantVested: 100000000, wantElapsed: 12,
		},
		"long after vesting": {
			allocated: 100000000, schedule: monthly, now: released.AddDuration(10 * year),
			wantVested: 100000000, wantElapsed: 12,
		},
		"tge at release": {
			allocated: 1000,
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 10}, Lockup: 30 * day, Duration: year, Periods: 12},
			now:       released,
			wantVested: 100, wantElapsed: 0,
		},
		"tge during lockup": {
			allocated: 1000,
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 10}, Lockup: 30 * day, Duration: year, Periods: 12},
			now:       released.AddDuration(30*day - 1),
			wantVested: 100, wantElapsed: 0,
		},
		"tge and first period after lockup": {
			allocated: 1000,
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 10}, Lockup: 30 * day, Duration: year, Periods: 12},
			now:       released.AddDuration(30*day + month),
			wantVested: 175, wantElapsed: 1,
		},
		"full tge": {
			allocated: 1000,
			schedule:  Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 1}, Duration: year, Periods: 12},
			now:       released,
			wantVested: 1000, wantElapsed: 0,
		},
		"max allocation does not overflow": {
			allocated: math.MaxUint64, schedule: monthly, now: released.AddDuration(11 * month),
			wantVested: 16909515400900422313, wantElapsed: 11,
		},
		"max allocation fully vested": {
			allocated: math.MaxUint64, schedule: monthly, now: released.AddDuration(year),
			wantVested: math.MaxUint64, wantElapsed: 12,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Nil(t, tc.schedule.Validate())
			vested, elapsed := VestedAmount(tc.allocated, tc.schedule, released, tc.now)
			assert.Equal(t, tc.wantVested, vested)
			assert.Equal(t, tc.wantElapsed, elapsed)
		})
	}
}

func TestVestedAmountMonotonic(t *testing.T) {
	const released = vestd.UnixTime(1000)
	s := Schedule{UnlockTge: vestd.Fraction{Numerator: 1, Denominator: 7}, Lockup: 50, Duration: 700, Periods: 7}

	var last uint64
	for now := released - 10; now < released+1000; now++ {
		vested, _ := VestedAmount(999, s, released, now)
		if vested < last {
			t.Fatalf("vested amount decreased at %d: %d < %d", now, vested, last)
		}
		if vested > 999 {
			t.Fatalf("vested amount %d exceeds allocation", vested)
		}
		last = vested
	}
	assert.Equal(t, uint64(999), last)
}
