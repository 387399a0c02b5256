package vestd

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/weavetest/assert"
)

func TestParsePercentage(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Fraction
		wantErr *errors.Error
	}{
		"whole percent":      {raw: "10", want: Fraction{Numerator: 1, Denominator: 10}},
		"decimal percent":    {raw: "12.5", want: Fraction{Numerator: 1, Denominator: 8}},
		"leading dot":        {raw: ".5", want: Fraction{Numerator: 1, Denominator: 200}},
		"hundred percent":    {raw: "100", want: Fraction{Numerator: 1, Denominator: 1}},
		"zero":               {raw: "0", want: Fraction{}},
		"thirds":             {raw: "33.3333333", want: Fraction{Numerator: 333333333, Denominator: 1000000000}},
		"too precise":        {raw: "1.00000001", wantErr: errors.ErrInvalidInput},
		"negative":           {raw: "-5", wantErr: errors.ErrInvalidInput},
		"garbage":            {raw: "ten", wantErr: errors.ErrInvalidInput},
		"empty":              {raw: "", wantErr: errors.ErrEmpty},
		"numerator overflow": {raw: "99999999999", wantErr: errors.ErrOverflow},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParsePercentage(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, *got)
			}
		})
	}
}

func TestFractionMulFloor(t *testing.T) {
	cases := map[string]struct {
		f      Fraction
		amount uint64
		want   uint64
	}{
		"zero fraction":   {f: Fraction{}, amount: 1000, want: 0},
		"one tenth":       {f: Fraction{Numerator: 1, Denominator: 10}, amount: 100000000, want: 10000000},
		"floored":         {f: Fraction{Numerator: 1, Denominator: 3}, amount: 100, want: 33},
		"whole":           {f: Fraction{Numerator: 7, Denominator: 7}, amount: 42, want: 42},
		"no overflow":     {f: Fraction{Numerator: math.MaxUint32 - 1, Denominator: math.MaxUint32}, amount: math.MaxUint64, want: 18446744069414584318},
		"max amount half": {f: Fraction{Numerator: 1, Denominator: 2}, amount: math.MaxUint64, want: math.MaxUint64 / 2},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.MulFloor(tc.amount))
		})
	}
}

func TestFractionCompare(t *testing.T) {
	one := Fraction{Numerator: 1, Denominator: 1}
	half := Fraction{Numerator: 2, Denominator: 4}
	assert.Equal(t, 1, one.Compare(half))
	assert.Equal(t, -1, half.Compare(one))
	assert.Equal(t, 0, half.Compare(Fraction{Numerator: 1, Denominator: 2}))
	assert.Equal(t, -1, Fraction{}.Compare(half))
	assert.Equal(t, 0, Fraction{}.Compare(Fraction{Numerator: 0, Denominator: 9}))
}

func TestFractionValidate(t *testing.T) {
	assert.Nil(t, Fraction{}.Validate())
	assert.Nil(t, Fraction{Numerator: 1, Denominator: 2}.Validate())
	if err := (Fraction{Numerator: 1}).Validate(); !errors.ErrInvalidState.Is(err) {
		t.Fatalf("want invalid state, got %v", err)
	}
}

func TestFractionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want Fraction
	}{
		"structured": {raw: `{"numerator": 1, "denominator": 4}`, want: Fraction{Numerator: 1, Denominator: 4}},
		"fraction":   {raw: `"3/10"`, want: Fraction{Numerator: 3, Denominator: 10}},
		"percentage": {raw: `"12.5%"`, want: Fraction{Numerator: 1, Denominator: 8}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Fraction
			assert.Nil(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
