package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
)

// KPIs are the dashboard headline numbers for a row set.
type KPIs struct {
	Admissions int             `json:"admissions"`
	Revenue    decimal.Decimal `json:"revenue"`
	ATS        decimal.Decimal `json:"ats"` // average ticket size, zero when no admissions
	ATSValid   bool            `json:"ats_valid"`
}

// Compute aggregates the headline KPIs: unique admission count, summed
// revenue and average ticket size.
func Compute(rows []model.Admission) KPIs {
	seen := make(map[string]bool, len(rows))
	k := KPIs{Revenue: decimal.Zero, ATS: decimal.Zero}
	for _, r := range rows {
		if !seen[r.AdmissionNo] {
			seen[r.AdmissionNo] = true
			k.Admissions++
		}
		k.Revenue = k.Revenue.Add(r.Revenue)
	}
	if k.Admissions > 0 {
		k.ATS = k.Revenue.Div(decimal.NewFromInt(int64(k.Admissions)))
		k.ATSValid = true
	}
	return k
}

// Window is a half-open-at-neither-end discharge date range [From, To].
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (w Window) filter(rows []model.Admission) []model.Admission {
	f := Filter{From: &w.From, To: &w.To}
	return f.Apply(rows)
}

// PreviousWindow derives the comparison window one month before w: the
// same day span ending a calendar month before w's end, clamped so it never
// starts earlier than the first day of its own month.
func PreviousWindow(w Window) Window {
	return windowBefore(w, 1)
}

func windowBefore(w Window, months int) Window {
	span := int(w.To.Sub(w.From).Hours()/24) + 1
	to := monthsBack(w.To, months)
	from := to.AddDate(0, 0, -(span - 1))
	monthStart := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	if from.Before(monthStart) {
		from = monthStart
	}
	return Window{From: from, To: to}
}

// monthsBack subtracts calendar months with end-of-month clamping, so
// March 31 minus one month is the last day of February rather than
// normalizing into March.
func monthsBack(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, -months, 0)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// Comparison is the period-over-period view for a chosen window.
type Comparison struct {
	Current        KPIs    `json:"current"`
	Previous       KPIs    `json:"previous"`
	BeforePrevious KPIs    `json:"before_previous"`
	CurrentWindow  Window  `json:"current_window"`
	PreviousWindow Window  `json:"previous_window"`
	BeforeWindow   Window  `json:"before_window"`
	AvgPriorMonths float64 `json:"avg_prior_two_months"` // mean discharges of the two prior comparison windows
	Occupancy      int     `json:"occupancy"`            // in-progress stays admitted in the trailing 90 days
	OccupancyPrior int     `json:"occupancy_prior"`      // same measure for the 90 days before that
}

// Compare computes KPIs for the window and the equal-span windows one and
// two months before it (each anchored independently at the window's end),
// plus the average of those two windows' discharges and the occupancy
// measures as of the window's end.
func Compare(rows []model.Admission, w Window) Comparison {
	prev := windowBefore(w, 1)
	before := windowBefore(w, 2)

	c := Comparison{
		Current:        Compute(w.filter(rows)),
		Previous:       Compute(prev.filter(rows)),
		BeforePrevious: Compute(before.filter(rows)),
		CurrentWindow:  w,
		PreviousWindow: prev,
		BeforeWindow:   before,
	}
	c.AvgPriorMonths = float64(c.Previous.Admissions+c.BeforePrevious.Admissions) / 2

	c.Occupancy = Occupancy(rows, w.To)
	c.OccupancyPrior = Occupancy(rows, w.To.AddDate(0, 0, -90))
	return c
}

// Occupancy counts stays still in progress: admitted within the 90 days up
// to asOf (both bounds inclusive) with no discharge date recorded.
func Occupancy(rows []model.Admission, asOf time.Time) int {
	cutoff := asOf.AddDate(0, 0, -90)
	n := 0
	for _, r := range rows {
		if r.DischargeDate != nil || r.AdmissionDate == nil {
			continue
		}
		if !r.AdmissionDate.Before(cutoff) && !r.AdmissionDate.After(asOf) {
			n++
		}
	}
	return n
}

// BreakdownRow is one line of a grouped KPI table.
type BreakdownRow struct {
	Key        string          `json:"key"`
	Admissions int             `json:"admissions"`
	Revenue    decimal.Decimal `json:"revenue"`
	ATS        decimal.Decimal `json:"ats"`
}

// Breakdown groups rows by keyFn and computes per-group KPIs, sorted by
// revenue descending with a Total row appended.
func Breakdown(rows []model.Admission, keyFn func(model.Admission) string) []BreakdownRow {
	grouped := map[string][]model.Admission{}
	for _, r := range rows {
		k := keyFn(r)
		if k == "" {
			k = model.UnknownCategory
		}
		grouped[k] = append(grouped[k], r)
	}
	out := make([]BreakdownRow, 0, len(grouped)+1)
	for k, g := range grouped {
		kpi := Compute(g)
		out = append(out, BreakdownRow{Key: k, Admissions: kpi.Admissions, Revenue: kpi.Revenue, ATS: kpi.ATS})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Key < out[j].Key
	})
	total := Compute(rows)
	out = append(out, BreakdownRow{Key: "Total", Admissions: total.Admissions, Revenue: total.Revenue, ATS: total.ATS})
	return out
}

func ByDoctor(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.DoctorName })
}

func ByReferrer(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.ReferrerName })
}

func ByConsultantSpecialty(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.ConsultantSpecialty })
}

func ByGroup(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.Group })
}

func ByCreditCompany(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.CreditCompany })
}

func ByTPACategory(rows []model.Admission) []BreakdownRow {
	return Breakdown(rows, func(a model.Admission) string { return a.TPACategory })
}
