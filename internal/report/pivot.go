package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
)

const pivotYears = 5

// YearlyRow is one discharge year's revenue and unique admission count.
type YearlyRow struct {
	Year       int             `json:"year"`
	Admissions int             `json:"admissions"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Yearly aggregates discharged admissions by discharge year, most recent
// five years, ascending. In-progress stays carry no discharge year and are
// excluded.
func Yearly(rows []model.Admission) []YearlyRow {
	byYear := map[int][]model.Admission{}
	for _, r := range rows {
		y, ok := r.DischargeYear()
		if !ok {
			continue
		}
		byYear[y] = append(byYear[y], r)
	}
	years := lastYears(byYear)
	out := make([]YearlyRow, 0, len(years))
	for _, y := range years {
		kpi := Compute(byYear[y])
		out = append(out, YearlyRow{Year: y, Admissions: kpi.Admissions, Revenue: kpi.Revenue})
	}
	return out
}

// MonthlyTable is the January-to-December by year pivot of a measure.
type MonthlyTable struct {
	Years []int        `json:"years"`
	Rows  []MonthlyRow `json:"rows"` // twelve rows, January first
}

// MonthlyRow is one calendar month across the pivot years; Values aligns
// index-for-index with MonthlyTable.Years.
type MonthlyRow struct {
	Month  string            `json:"month"`
	Values []decimal.Decimal `json:"values"`
}

// MonthlyRevenue pivots revenue by discharge month and year.
func MonthlyRevenue(rows []model.Admission) *MonthlyTable {
	return monthly(rows, func(g []model.Admission) decimal.Decimal {
		return Compute(g).Revenue
	})
}

// MonthlyCount pivots unique admission counts by discharge month and year.
func MonthlyCount(rows []model.Admission) *MonthlyTable {
	return monthly(rows, func(g []model.Admission) decimal.Decimal {
		return decimal.NewFromInt(int64(Compute(g).Admissions))
	})
}

func monthly(rows []model.Admission, measure func([]model.Admission) decimal.Decimal) *MonthlyTable {
	type cell struct {
		year  int
		month time.Month
	}
	byYear := map[int][]model.Admission{}
	byCell := map[cell][]model.Admission{}
	for _, r := range rows {
		y, ok := r.DischargeYear()
		if !ok {
			continue
		}
		m, _ := r.DischargeMonth()
		byYear[y] = append(byYear[y], r)
		byCell[cell{y, m}] = append(byCell[cell{y, m}], r)
	}
	years := lastYears(byYear)

	t := &MonthlyTable{Years: years, Rows: make([]MonthlyRow, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		row := MonthlyRow{Month: m.String(), Values: make([]decimal.Decimal, len(years))}
		for i, y := range years {
			row.Values[i] = measure(byCell[cell{y, m}])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func lastYears(byYear map[int][]model.Admission) []int {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) > pivotYears {
		years = years[len(years)-pivotYears:]
	}
	return years
}
