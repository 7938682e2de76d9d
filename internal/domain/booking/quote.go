package booking

import (
	"time"

	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

// QuotePolicy holds the financial-term constants. Defaults mirror the
// standing house policy: 20% deposit up front, remainder due a week
// before arrival.
type QuotePolicy struct {
	DepositPercent       int64
	BalanceDueOffsetDays int
}

func DefaultQuotePolicy() QuotePolicy {
	return QuotePolicy{DepositPercent: 20, BalanceDueOffsetDays: 7}
}

// Terms are the computed financial terms for a stay.
type Terms struct {
	Nights         int
	Nightly        money.Money
	Total          money.Money
	Deposit        money.Money
	Balance        money.Money
	BalanceDueDate time.Time
}

// Quote computes terms for the given nightly rate and range. The balance is
// derived as total minus deposit so the split always sums exactly even when
// the percentage truncates.
func (p QuotePolicy) Quote(nightly money.Money, dr daterange.DateRange) (Terms, error) {
	if err := dr.Validate(); err != nil {
		return Terms{}, err
	}
	nights := dr.Nights()
	if nights <= 0 {
		return Terms{}, daterange.ErrInvalidRange
	}
	total := nightly.Multiply(int64(nights))
	deposit := total.Percent(p.DepositPercent)
	balance, err := total.Sub(deposit)
	if err != nil {
		return Terms{}, err
	}
	return Terms{
		Nights:         nights,
		Nightly:        nightly,
		Total:          total,
		Deposit:        deposit,
		Balance:        balance,
		BalanceDueDate: dr.Arrival.AddDate(0, 0, -p.BalanceDueOffsetDays),
	}, nil
}
