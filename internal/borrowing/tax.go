package borrowing

// 2024-25 resident brackets. Each row carries the rate above its lower
// bound and the tax accumulated at that bound.
var taxBrackets = []struct {
	upper float64
	rate  float64
	base  float64
}{
	{18200, 0, 0},
	{45000, 0.16, 0},
	{135000, 0.30, 4288},
	{190000, 0.37, 31288},
	{999999999, 0.45, 51638},
}

const medicareLevyRate = 0.02

// Tax returns income tax plus the Medicare levy on an annual gross
// income. Resident rates only.
func Tax(grossIncome float64) float64 {
	if grossIncome <= 0 {
		return 0
	}
	var rate, base, cutoff float64
	for _, b := range taxBrackets {
		if grossIncome <= b.upper {
			rate = b.rate
			base = b.base
			break
		}
		cutoff = b.upper
	}
	tax := (grossIncome-cutoff)*rate + base
	return tax + grossIncome*medicareLevyRate
}
