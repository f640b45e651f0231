package money

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name  string
		total Money
		n     int
		want  []Money
	}{
		{"exact", 900, 3, []Money{300, 300, 300}},
		{"one leftover unit", 1000, 3, []Money{334, 333, 333}},
		{"two leftover units", 1001, 3, []Money{334, 334, 333}},
		{"single part", 20000, 1, []Money{20000}},
		{"fewer units than parts", 2, 5, []Money{1, 1, 0, 0, 0}},
		{"no parts", 100, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEven(tt.total, tt.n)
			assert.Equal(t, tt.want, got)
			if tt.n > 0 {
				assert.Equal(t, tt.total, Sum(got))
			}
		})
	}
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name    string
		total   Money
		weights []int64
		want    []Money
	}{
		{"proportional without remainder", 600, []int64{1, 2, 3}, []Money{100, 200, 300}},
		{"largest remainder wins", 100, []int64{1, 1, 1}, []Money{34, 33, 33}},
		{"remainder ranking", 10, []int64{3, 3, 4}, []Money{3, 3, 4}},
		{"larger fraction beats position", 100, []int64{1, 2}, []Money{33, 67}},
		{"zero weight gets nothing", 101, []int64{0, 1, 1}, []Money{0, 51, 50}},
		{"percentages", 999, []int64{33, 33, 34}, []Money{330, 330, 339}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apportion(tt.total, tt.weights)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.total, Sum(got))
		})
	}
}

func TestApportion_SumPreservedForManyInputs(t *testing.T) {
	weightSets := [][]int64{
		{1},
		{1, 1},
		{2, 3, 5},
		{7, 0, 13, 1},
		{100, 1, 1, 1, 1},
		{33, 33, 34},
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
	for _, weights := range weightSets {
		for total := Money(1); total <= 257; total++ {
			got, err := Apportion(total, weights)
			require.NoError(t, err)
			require.Len(t, got, len(weights))
			require.Equal(t, total, Sum(got), "total=%d weights=%v", total, weights)
			for i, w := range weights {
				if w == 0 {
					require.Zero(t, got[i])
				}
			}
		}
	}
}

func TestApportion_LargeTotalDoesNotOverflow(t *testing.T) {
	total := Money(math.MaxInt64 - 7)
	got, err := Apportion(total, []int64{1000, 3000})
	require.NoError(t, err)
	assert.Equal(t, total, Sum(got))
}

func TestApportion_InvalidWeights(t *testing.T) {
	_, err := Apportion(100, []int64{0, 0})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = Apportion(100, []int64{2, -1})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = Apportion(100, nil)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestQuotas(t *testing.T) {
	quotas, remainders, err := Quotas(1000, []int64{33, 33, 34})
	require.NoError(t, err)
	assert.Equal(t, []Money{330, 330, 340}, quotas)
	assert.Equal(t, []int64{0, 0, 0}, remainders)

	quotas, remainders, err = Quotas(999, []int64{33, 33, 34})
	require.NoError(t, err)
	assert.Equal(t, []Money{329, 329, 339}, quotas)
	assert.Equal(t, []int64{67, 67, 66}, remainders)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
		want     Money
		wantErr  error
	}{
		{"12.34", 2, 1234, nil},
		{"12", 2, 1200, nil},
		{"0.01", 2, 1, nil},
		{"12.5", 2, 1250, nil},
		{"1000", 0, 1000, nil},
		{"1.234", 3, 1234, nil},
		{"12.345", 2, 0, ErrTooPrecise},
		{"abc", 2, 0, ErrInvalidAmount},
		{"", 2, 0, ErrInvalidAmount},
		{"-3.10", 2, -310, nil},
		{"1.5e2", 2, 15000, nil},
		{"1e20", 2, 0, ErrInvalidAmount},
		{"1e20000000", 2, 0, ErrInvalidAmount},
		{"1e-20000000", 2, 0, ErrInvalidAmount},
		{"123456789012345678901234567890123456789012", 0, 0, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in, tt.decimals)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_HugeExponentRejectedQuickly(t *testing.T) {
	start := time.Now()
	_, err := Parse("1e20000000", 2)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Less(t, elapsed, 100*time.Millisecond)
	assert.Less(t, len(err.Error()), 200, "error must not spell out the number")
}

func TestParse_ErrorQuotesTruncatedInput(t *testing.T) {
	in := strings.Repeat("9", 500)
	_, err := Parse(in, 2)
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Less(t, len(err.Error()), 200)
	assert.Contains(t, err.Error(), "...")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.34", Money(1234).Format(2))
	assert.Equal(t, "0.05", Money(5).Format(2))
	assert.Equal(t, "-0.60", Money(-60).Format(2))
	assert.Equal(t, "200.00", Money(20000).Format(2))
	assert.Equal(t, "7", Money(7).Format(0))
}
