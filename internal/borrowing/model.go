// Package borrowing computes a serviceability-style borrowing power
// estimate from annualized income and expenses.
package borrowing

import (
	"fmt"
	"math"

	"mortgagemate/internal/api"
)

// hemMonthly is the monthly household-expenditure benchmark by
// borrowing type, indexed by dependent count (capped at 3).
var hemMonthly = map[string][4]float64{
	"Individual": {1650, 2250, 2750, 3200},
	"Couple":     {2450, 3000, 3500, 3950},
}

// Result carries every intermediate figure so hosts can show the
// working, not just the headline number.
type Result struct {
	TotalIncome          float64
	Tax                  float64
	IncomeAfterTax       float64
	HecsRepayment        float64
	StatedLivingExpenses float64
	HemBenchmark         float64
	TotalExpenses        float64
	NetIncome            float64
	BorrowingPower       float64
	MonthlyRepayment     float64
}

// Assess runs the full model on a borrower request.
func Assess(req api.EstimateRequest) (Result, error) {
	if req.LoanTerm <= 0 {
		return Result{}, fmt.Errorf("loan term must be positive, got %d", req.LoanTerm)
	}
	if req.InterestRate <= 0 {
		return Result{}, fmt.Errorf("interest rate must be positive, got %v", req.InterestRate)
	}

	var r Result
	r.TotalIncome = annualize(req.GrossIncome, req.IncomeFrequency) +
		annualize(req.OtherIncome, req.OtherIncomeFrequency) +
		annualize(req.SecondPersonIncome, req.SecondPersonIncomeFrequency) +
		annualize(req.SecondPersonOtherIncome, req.SecondPersonOtherIncomeFrequency) +
		req.RentalIncome*52 // rental income is entered weekly

	r.Tax = Tax(r.TotalIncome)
	r.IncomeAfterTax = r.TotalIncome - r.Tax
	if req.HasHecs {
		r.HecsRepayment = HecsRepayment(r.TotalIncome)
	}

	r.StatedLivingExpenses = req.LivingExpenses * 12
	r.HemBenchmark = hemFloor(req.BorrowingType, req.Dependents)
	living := r.StatedLivingExpenses
	if living < r.HemBenchmark {
		living = r.HemBenchmark
	}
	r.TotalExpenses = req.RentBoard*12 + living +
		req.LoanRepayment*12 + req.CreditCardLimits*0.04

	r.NetIncome = r.IncomeAfterTax - r.HecsRepayment - r.TotalExpenses
	if r.NetIncome <= 0 {
		r.NetIncome = round2(r.NetIncome)
		return r, nil
	}
	r.NetIncome = round2(r.NetIncome)

	annualRate := req.InterestRate / 100
	years := float64(req.LoanTerm)
	r.BorrowingPower = round2(r.NetIncome * (1 - math.Pow(1+annualRate, -years)) / annualRate)
	r.MonthlyRepayment = round2(monthlyRepayment(r.BorrowingPower, annualRate, req.LoanTerm))
	return r, nil
}

func annualize(amount float64, frequency string) float64 {
	switch frequency {
	case "weekly":
		return amount * 52
	case "monthly":
		return amount * 12
	default:
		return amount
	}
}

func hemFloor(borrowingType string, dependents int) float64 {
	bench, ok := hemMonthly[borrowingType]
	if !ok {
		bench = hemMonthly["Individual"]
	}
	if dependents > 3 {
		dependents = 3
	}
	if dependents < 0 {
		dependents = 0
	}
	return bench[dependents] * 12
}

// monthlyRepayment amortizes a principal over the loan term.
func monthlyRepayment(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 {
		return 0
	}
	monthlyRate := annualRate / 12
	months := float64(termYears * 12)
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -months))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
