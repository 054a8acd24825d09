package clean

import (
	"strings"

	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
	"github.com/meditrak/opsdash/internal/source"
)

// Patients cleans the patient master: only the most recent record per
// patient number (by created date) is retained.
func Patients(tbl *source.Table) ([]model.Patient, error) {
	if err := tbl.Require("crt_dt", "ptn_no", "PtnName", "Age", "sex", "Religion", "prmnt_addrs1", "prmnt_addrs2", "mobile"); err != nil {
		return nil, err
	}

	byPtn := make(map[string]model.Patient, tbl.Len())
	order := make([]string, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		ptnNo := normalize.ID(tbl.Field(i, "ptn_no"))
		if ptnNo == "" {
			continue
		}
		var age *int64
		if n, ok := normalize.Age(tbl.Field(i, "Age")); ok {
			age = &n
		}
		p := model.Patient{
			CreatedAt: normalize.ParseDate(tbl.Field(i, "crt_dt")),
			PatientNo: ptnNo,
			Name:      strings.TrimSpace(tbl.Field(i, "PtnName")),
			Age:       age,
			Sex:       strings.TrimSpace(tbl.Field(i, "sex")),
			Religion:  strings.TrimSpace(tbl.Field(i, "Religion")),
			Address1:  strings.TrimSpace(tbl.Field(i, "prmnt_addrs1")),
			Address2:  strings.TrimSpace(tbl.Field(i, "prmnt_addrs2")),
			Mobile:    strings.TrimSpace(tbl.Field(i, "mobile")),
		}
		prev, ok := byPtn[ptnNo]
		if !ok {
			order = append(order, ptnNo)
			byPtn[ptnNo] = p
		} else if newerOrSame(p.CreatedAt, prev.CreatedAt) {
			byPtn[ptnNo] = p
		}
	}

	out := make([]model.Patient, 0, len(order))
	for _, ptnNo := range order {
		out = append(out, byPtn[ptnNo])
	}
	return out, nil
}
