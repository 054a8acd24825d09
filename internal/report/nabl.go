package report

import (
	"strings"
	"time"

	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
)

// NABLRow is one age band of a cross-tab: admissions, discharges or deaths
// split by sex.
type NABLRow struct {
	Band   string `json:"band"`
	Male   int    `json:"male"`
	Female int    `json:"female"`
	Total  int    `json:"total"`
}

// NABLReport is the accreditation return for one calendar month: age-banded
// admission, discharge and death counts by sex.
type NABLReport struct {
	Year       int       `json:"year"`
	Month      string    `json:"month"`
	Admissions []NABLRow `json:"admissions"`
	Discharges []NABLRow `json:"discharges"`
	Deaths     []NABLRow `json:"deaths"`
}

var nablBands = []string{
	normalize.BandUnder18,
	normalize.BandUnder65,
	normalize.Band65Plus,
	normalize.BandUnknown,
}

// NABL builds the monthly accreditation cross-tabs. Admissions count rows
// admitted in the month; discharges count rows discharged in the month;
// deaths count discharged rows flagged expired.
func NABL(rows []model.Admission, year int, month time.Month) *NABLReport {
	rep := &NABLReport{Year: year, Month: month.String()}

	inMonth := func(t *time.Time) bool {
		return t != nil && t.Year() == year && t.Month() == month
	}

	var admitted, discharged, died []model.Admission
	for _, r := range rows {
		if inMonth(r.AdmissionDate) {
			admitted = append(admitted, r)
		}
		if inMonth(r.DischargeDate) {
			discharged = append(discharged, r)
			if r.Expired == "yes" {
				died = append(died, r)
			}
		}
	}
	rep.Admissions = crossTab(admitted)
	rep.Discharges = crossTab(discharged)
	rep.Deaths = crossTab(died)
	return rep
}

func crossTab(rows []model.Admission) []NABLRow {
	byBand := map[string]*NABLRow{}
	for _, band := range nablBands {
		byBand[band] = &NABLRow{Band: band}
	}
	for _, r := range rows {
		row := byBand[normalize.AgeBand(r.Age)]
		switch sexOf(r.Sex) {
		case "M":
			row.Male++
		case "F":
			row.Female++
		}
		row.Total++
	}

	out := make([]NABLRow, 0, len(nablBands)+1)
	total := NABLRow{Band: "Total"}
	for _, band := range nablBands {
		row := *byBand[band]
		out = append(out, row)
		total.Male += row.Male
		total.Female += row.Female
		total.Total += row.Total
	}
	return append(out, total)
}

// sexOf folds HIS sex spellings ("M", "Male", "female") onto M/F; anything
// else counts only toward the band total.
func sexOf(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	switch s[0] {
	case 'M':
		return "M"
	case 'F':
		return "F"
	}
	return ""
}
