package vestd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/iov-one/vestd/errors"
)

// Fraction is an exact rational number. It is used wherever a share of an
// amount must be computed without rounding drift, for example the portion of
// an allocation unlocked at the token generation event.
//
// The zero value represents zero.
type Fraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

// String returns a human readable fraction representation.
func (f *Fraction) String() string {
	if f == nil {
		return "nil"
	}
	if f.Numerator == 0 {
		return "0"
	}
	if f.Denominator == 1 {
		return fmt.Sprint(f.Numerator)
	}
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Numerator   uint32 `json:"numerator"`
		Denominator uint32 `json:"denominator"`
	}{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	})
}

// UnmarshalJSON accepts the structured form, a fraction string such as
// "1/10" and a percentage string such as "12.5%".
func (f *Fraction) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		var (
			frac *Fraction
			err  error
		)
		if strings.HasSuffix(human, "%") {
			frac, err = ParsePercentage(strings.TrimSuffix(human, "%"))
		} else {
			frac, err = ParseFractionString(human)
		}
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = *frac
		return nil
	}

	var frac struct {
		Numerator   uint32
		Denominator uint32
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "fraction")
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator == 0 && f.Numerator != 0 {
		return errors.Wrap(errors.ErrInvalidState, "zero division")
	}
	return nil
}

// IsZero returns true if this fraction represents zero.
func (f Fraction) IsZero() bool {
	return f.Numerator == 0
}

// Compare returns -1, 0 or 1 depending on whether f is smaller, equal to or
// greater than the other fraction. Both fractions must be valid.
func (f Fraction) Compare(other Fraction) int {
	if f.IsZero() || other.IsZero() {
		switch {
		case f.IsZero() && other.IsZero():
			return 0
		case f.IsZero():
			return -1
		default:
			return 1
		}
	}
	// Cross multiplication of two uint32 values fits into uint64.
	a := uint64(f.Numerator) * uint64(other.Denominator)
	b := uint64(other.Numerator) * uint64(f.Denominator)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MulFloor returns floor(amount * f). The product is computed with
// arbitrary precision. The fraction must be valid and not greater than one,
// otherwise the result may not fit uint64 and this function panics.
func (f Fraction) MulFloor(amount uint64) uint64 {
	if f.IsZero() {
		return 0
	}
	return sdkmath.NewUint(amount).
		MulUint64(uint64(f.Numerator)).
		QuoUint64(uint64(f.Denominator)).
		Uint64()
}

// Normalize returns a new fraction instance that has its numerator and
// denominator reduced to the smallest possible representation.
func (f Fraction) Normalize() Fraction {
	if f.IsZero() {
		return Fraction{}
	}
	div := uintGcd(f.Numerator, f.Denominator)
	return Fraction{
		Numerator:   f.Numerator / div,
		Denominator: f.Denominator / div,
	}
}

func uintGcd(a, b uint32) uint32 {
	for b != 0 {
		t := b
		b = a % b
		a = t
	}
	return a
}

// ParseFractionString returns a fraction value that is represented by given
// string. This function fails if given string does not represent a fraction
// value.
// This fuction does not fail if representation format is correct but the value
// is invalid (i.e. value of "2/0").
func ParseFractionString(raw string) (*Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := strconv.ParseUint(chunks[0], 10, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "numerator")
	}
	if len(chunks) == 1 {
		return &Fraction{Numerator: uint32(n), Denominator: 1}, nil
	}
	d, err := strconv.ParseUint(chunks[1], 10, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "denominator")
	}
	return &Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}

// maxPercentDecimals limits the precision of a percentage so that
// 100 * 10^decimals still fits the uint32 denominator.
const maxPercentDecimals = 7

// ParsePercentage converts a decimal percentage string, for example "10" or
// "12.5", into an exact normalized fraction. No floating point arithmetic is
// involved.
func ParsePercentage(raw string) (*Fraction, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "percentage")
	}
	whole, decimals := raw, ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		whole, decimals = raw[:i], raw[i+1:]
	}
	if len(decimals) > maxPercentDecimals {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "more than %d decimal places", maxPercentDecimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + decimals
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid percentage %q", raw)
		}
	}
	num, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrOverflow, "percentage %q", raw)
	}
	den := uint64(100)
	for range decimals {
		den *= 10
	}
	frac := Fraction{Numerator: uint32(num), Denominator: uint32(den)}.Normalize()
	return &frac, nil
}
