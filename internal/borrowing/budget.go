package borrowing

import "math"

// DownPaymentMode selects how the deposit is expressed.
type DownPaymentMode int

const (
	DownPaymentPercentage DownPaymentMode = iota
	DownPaymentAmount
)

// Budget is the purchase budget implied by an estimate plus a deposit.
type Budget struct {
	TotalBudget float64
	DownPayment float64
}

// Plan combines borrowing power with a deposit. Percentage mode accepts
// 5 up to but excluding 100, since a 100% deposit leaves no loan to size
// the budget against; amount mode requires at least 5% of the estimate.
// Out-of-range input yields a zero budget rather than an error.
func Plan(estimate float64, mode DownPaymentMode, value float64) Budget {
	if estimate < 0 {
		estimate = 0
	}
	switch mode {
	case DownPaymentPercentage:
		if value < 5 || value >= 100 {
			return Budget{}
		}
		total := math.Round(estimate / (1 - value/100))
		return Budget{
			TotalBudget: total,
			DownPayment: math.Round(total * value / 100),
		}
	case DownPaymentAmount:
		if value < estimate*0.05 {
			return Budget{}
		}
		return Budget{
			TotalBudget: math.Round(estimate + value),
			DownPayment: value,
		}
	}
	return Budget{}
}
