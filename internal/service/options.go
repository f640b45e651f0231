package service

import (
	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/metrics"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
)

// Option configures ExpenseService and PartyService.
type Option func(*options)

type options struct {
	decimals  int32
	allocator calculator.Allocator
	metrics   *metrics.Metrics
}

func newOptions(opts []Option) options {
	o := options{decimals: money.DefaultDecimals}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDecimals sets the number of fractional digits of amounts in currencies
// with a two-digit minor unit, and of PreviewSplit without a currency.
func WithDecimals(decimals int32) Option {
	return func(o *options) { o.decimals = decimals }
}

// WithPercentRounding selects how percentage splits treat rounding leftovers.
func WithPercentRounding(policy calculator.RoundingPolicy) Option {
	return func(o *options) { o.allocator.PercentRounding = policy }
}

// WithMetrics records allocation and settlement metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// forCurrency returns a copy of o that parses and formats amounts with the
// minor unit of currency.
func (o options) forCurrency(currency string) options {
	o.decimals = money.CurrencyDecimals(currency, o.decimals)
	return o
}
