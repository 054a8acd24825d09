package merge

import (
	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
)

// ComputeRevenue derives an admission's total billable amount. Priority:
// settlement amount, then gross settlement plus deposit balance, then
// approved amount plus deposit balance, then the raw bill. The first
// strictly positive candidate wins.
func ComputeRevenue(settlement, settlementGross, approved, depositBalance, bill decimal.Decimal) decimal.Decimal {
	switch {
	case settlement.IsPositive():
		return settlement
	case settlementGross.IsPositive():
		return settlementGross.Add(depositBalance)
	case approved.IsPositive():
		return approved.Add(depositBalance)
	default:
		return bill
	}
}

// ApportionLines books each charge line's share of its admission's revenue:
// line amount divided by the admission's total raw charge amount, times the
// computed revenue. Admissions with a zero charge total book zero to every
// line; shares of a non-zero total sum back to the admission revenue within
// division precision.
func ApportionLines(lines []model.ChargeLine, totals, revenue map[string]decimal.Decimal) {
	for i := range lines {
		total := totals[lines[i].AdmissionNo]
		if total.IsZero() {
			lines[i].LineRevenue = decimal.Zero
			continue
		}
		rev := revenue[lines[i].AdmissionNo]
		lines[i].LineRevenue = lines[i].Amount.Div(total).Mul(rev)
	}
}
