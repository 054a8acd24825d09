package clean

import (
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
	"github.com/meditrak/opsdash/internal/source"
)

// OPDetail cleans the outpatient service export into per-voucher lines.
func OPDetail(tbl *source.Table) ([]model.OPService, error) {
	if err := tbl.Require("vch_no", "vch_dt", "DoctorFullName", "srv_desc", "ShrDoc", "UNITS1", "NetAmt"); err != nil {
		return nil, err
	}

	lines := make([]model.OPService, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		vchNo := normalize.ID(tbl.Field(i, "vch_no"))
		if vchNo == "" {
			continue
		}
		units, _ := normalize.Float(tbl.Field(i, "UNITS1"))
		net, _ := normalize.Amount(tbl.Field(i, "NetAmt"))
		doc := tbl.Field(i, "DoctorFullName")
		lines = append(lines, model.OPService{
			VoucherNo:   vchNo,
			VisitDate:   normalize.ParseDate(tbl.Field(i, "vch_dt")),
			DoctorName:  doc,
			DoctorKey:   normalize.Key(doc),
			ServiceDesc: tbl.Field(i, "srv_desc"),
			ShareDoctor: tbl.Field(i, "ShrDoc"),
			Units:       units,
			NetAmount:   net,
		})
	}
	return lines, nil
}

// OPDischarge cleans the OP discharge register: one row per voucher, latest
// visit date winning, with the "Credit Company:- N" prefix stripped from the
// payer cell.
func OPDischarge(tbl *source.Table) ([]model.OPDischarge, error) {
	if err := tbl.Require("vch_no", "ptn_no", "rev_dt1", "Textbox88"); err != nil {
		return nil, err
	}

	byVch := make(map[string]model.OPDischarge, tbl.Len())
	order := make([]string, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		vchNo := normalize.ID(tbl.Field(i, "vch_no"))
		if vchNo == "" {
			continue
		}
		d := model.OPDischarge{
			VoucherNo:     vchNo,
			PatientNo:     normalize.ID(tbl.Field(i, "ptn_no")),
			VisitDate:     normalize.ParseDate(tbl.Field(i, "rev_dt1")),
			CreditCompany: normalize.OPCreditCompany(tbl.Field(i, "Textbox88")),
		}
		prev, ok := byVch[vchNo]
		if !ok {
			order = append(order, vchNo)
			byVch[vchNo] = d
		} else if newerOrSame(d.VisitDate, prev.VisitDate) {
			byVch[vchNo] = d
		}
	}

	out := make([]model.OPDischarge, 0, len(order))
	for _, vchNo := range order {
		out = append(out, byVch[vchNo])
	}
	return out, nil
}

// Deposits cleans the OP deposit export: one row per patient number, first
// occurrence winning.
func Deposits(tbl *source.Table) ([]model.Deposit, error) {
	if err := tbl.Require("rev_dt", "Textbox53", "dep_typ_dcd1", "Dep_Amt", "Textbox29"); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, tbl.Len())
	out := make([]model.Deposit, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		ptnNo := normalize.ID(tbl.Field(i, "Textbox53"))
		if ptnNo == "" || seen[ptnNo] {
			continue
		}
		seen[ptnNo] = true
		amt, _ := normalize.Amount(tbl.Field(i, "Dep_Amt"))
		pkg, _ := normalize.Amount(tbl.Field(i, "Textbox29"))
		out = append(out, model.Deposit{
			PatientNo: ptnNo,
			Date:      normalize.ParseDate(tbl.Field(i, "rev_dt")),
			Type:      normalize.ID(tbl.Field(i, "dep_typ_dcd1")),
			Amount:    amt,
			Package:   pkg,
		})
	}
	return out, nil
}
