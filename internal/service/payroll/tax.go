package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/policy"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// AnnualTax applies the progressive slabs to an annualized gross. Each slab
// taxes the part of the income between its lower bound and the next slab's.
func AnnualTax(annual decimal.Decimal, slabs []policy.TaxSlab) decimal.Decimal {
	tax := decimal.Zero
	for i, slab := range slabs {
		if !annual.GreaterThan(slab.LowerBound) {
			break
		}
		upper := annual
		if i+1 < len(slabs) && slabs[i+1].LowerBound.LessThan(annual) {
			upper = slabs[i+1].LowerBound
		}
		tax = tax.Add(upper.Sub(slab.LowerBound).Mul(slab.Rate))
	}
	return tax
}

// MonthlyTax is AnnualTax spread over twelve months, rounded to cents.
func MonthlyTax(annual decimal.Decimal, slabs []policy.TaxSlab) decimal.Decimal {
	return AnnualTax(annual, slabs).Div(monthsPerYear).Round(2)
}
