// Package money holds the integer minor-unit amount type shared by the split
// allocator and the settlement planner, plus the rounding helpers both rely on.
//
// All arithmetic is done on integer minor units (cents for a two-digit
// currency). Conversion to and from display decimals happens only at the
// service boundary through Parse and Format.
package money

import (
	"cmp"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the number of fractional digits used when a currency does
// not say otherwise.
const DefaultDecimals = 2

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTooPrecise     = errors.New("amount has more fractional digits than the currency allows")
	ErrInvalidWeights = errors.New("weights must be non-negative with a positive sum")
)

// Money is a count of minor currency units.
type Money int64

// Sum adds up a list of amounts.
func Sum(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// SplitEven divides total into n parts. The first total%n parts receive one
// extra unit, so the result always sums to total.
func SplitEven(total Money, n int) []Money {
	if n <= 0 {
		return nil
	}
	base := total / Money(n)
	rem := int(total % Money(n))

	parts := make([]Money, n)
	for i := range parts {
		parts[i] = base
		if i < rem {
			parts[i]++
		}
	}
	return parts
}

// Quotas returns floor(total*w/W) and the matching remainders for every
// weight, where W is the sum of weights. The products are computed in 128 bits
// so large totals do not overflow.
func Quotas(total Money, weights []int64) (quotas []Money, remainders []int64, err error) {
	if total < 0 {
		return nil, nil, fmt.Errorf("%w: negative total %d", ErrInvalidAmount, total)
	}
	var sum uint64
	for _, w := range weights {
		if w < 0 {
			return nil, nil, fmt.Errorf("%w: negative weight %d", ErrInvalidWeights, w)
		}
		var carry uint64
		sum, carry = bits.Add64(sum, uint64(w), 0)
		if carry != 0 || sum > 1<<63-1 {
			return nil, nil, fmt.Errorf("%w: weight sum overflows", ErrInvalidWeights)
		}
	}
	if sum == 0 {
		return nil, nil, ErrInvalidWeights
	}

	quotas = make([]Money, len(weights))
	remainders = make([]int64, len(weights))
	for i, w := range weights {
		// w <= sum, so the high word is always below sum and Div64 cannot overflow.
		hi, lo := bits.Mul64(uint64(total), uint64(w))
		q, r := bits.Div64(hi, lo, sum)
		quotas[i] = Money(q)
		remainders[i] = int64(r)
	}
	return quotas, remainders, nil
}

// Apportion divides total proportionally to weights using the largest
// remainder method. Units left over after flooring go to the parts with the
// largest remainders; equal remainders are resolved by position, earliest
// first. The result always sums to total and parts with zero weight stay zero.
func Apportion(total Money, weights []int64) ([]Money, error) {
	parts, remainders, err := Quotas(total, weights)
	if err != nil {
		return nil, err
	}

	leftover := total - Sum(parts)
	if leftover == 0 {
		return parts, nil
	}

	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(remainders[b], remainders[a])
	})
	for _, i := range order[:leftover] {
		parts[i]++
	}
	return parts, nil
}

// Decimal returns m as a decimal in display units.
func (m Money) Decimal(decimals int32) decimal.Decimal {
	return decimal.New(int64(m), -decimals)
}

// Format renders m in display units with exactly decimals fractional digits.
func (m Money) Format(decimals int32) string {
	return m.Decimal(decimals).StringFixed(decimals)
}

// maxExponent bounds the decimal exponent accepted from user input. Amounts
// beyond it cannot fit in an int64 of minor units anyway, and unbounded
// exponents make the big-integer conversion arbitrarily expensive.
const maxExponent = 18

// maxCoefficientBits bounds the unscaled value of accepted decimals.
const maxCoefficientBits = 127

// maxQuoted is how much of a rejected input is echoed in errors.
const maxQuoted = 32

// Parse converts a display-unit decimal string such as "12.34" into minor
// units. Amounts with more fractional digits than decimals are rejected rather
// than rounded.
func Parse(s string, decimals int32) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, quote(s))
	}
	m, err := FromDecimal(d, decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, quote(s))
	}
	return m, nil
}

// FromDecimal converts a display-unit decimal into minor units.
func FromDecimal(d decimal.Decimal, decimals int32) (Money, error) {
	if exp := d.Exponent(); exp > maxExponent || exp < -(decimals+maxExponent) {
		return 0, fmt.Errorf("%w: exponent %d out of range", ErrInvalidAmount, exp)
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return 0, fmt.Errorf("%w: too many digits", ErrInvalidAmount)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrTooPrecise
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return Money(scaled.IntPart()), nil
}

func quote(s string) string {
	if len(s) > maxQuoted {
		return strconv.Quote(s[:maxQuoted]) + "..."
	}
	return strconv.Quote(s)
}
