package clean

import (
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
	"github.com/meditrak/opsdash/internal/source"
)

// IPDetail cleans the itemized inpatient charge export into charge lines.
// Lines are not deduplicated; the merge step aggregates them per admission.
func IPDetail(tbl *source.Table) ([]model.ChargeLine, error) {
	if err := tbl.Require("ip_no", "vch_dt", "rev_dt", "srv_desc", "chrg_cd3", "chrg_desc2", "ShrDoc1", "ptn_cls_desc", "no_units", "amt"); err != nil {
		return nil, err
	}

	lines := make([]model.ChargeLine, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		admNo := normalize.ID(tbl.Field(i, "ip_no"))
		if admNo == "" {
			continue
		}
		amt, _ := normalize.Amount(tbl.Field(i, "amt"))
		units, _ := normalize.Float(tbl.Field(i, "no_units"))
		code, _ := normalize.Int(tbl.Field(i, "chrg_cd3"))
		svcDesc := tbl.Field(i, "srv_desc")
		svcDoc := tbl.Field(i, "ShrDoc1")
		lines = append(lines, model.ChargeLine{
			AdmissionNo:      admNo,
			VoucherDate:      normalize.ParseDate(tbl.Field(i, "vch_dt")),
			RevenueDate:      normalize.ParseDate(tbl.Field(i, "rev_dt")),
			ServiceDesc:      svcDesc,
			ServiceKey:       normalize.Key(svcDesc),
			ChargeCode:       code,
			ChargeDesc:       tbl.Field(i, "chrg_desc2"),
			ServiceDoctor:    svcDoc,
			ServiceDoctorKey: normalize.Key(svcDoc),
			PatientClass:     tbl.Field(i, "ptn_cls_desc"),
			Units:            units,
			Amount:           amt,
		})
	}
	return lines, nil
}

// AdmissionList cleans the admission register: the admission date is
// recovered from the free-text "Admission Date : dd/mm/yyyy" cell and rows
// without a parseable date are dropped. The first occurrence of an
// admission number wins.
func AdmissionList(tbl *source.Table) ([]model.AdmissionEntry, error) {
	if err := tbl.Require("ip_no", "Textbox73"); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, tbl.Len())
	entries := make([]model.AdmissionEntry, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		admNo := normalize.ID(tbl.Field(i, "ip_no"))
		if admNo == "" || seen[admNo] {
			continue
		}
		dt := normalize.ExtractDate(tbl.Field(i, "Textbox73"))
		if dt == nil {
			continue
		}
		seen[admNo] = true
		entries = append(entries, model.AdmissionEntry{AdmissionNo: admNo, AdmissionDate: *dt})
	}
	return entries, nil
}

// IPDischarge cleans the discharge register: one row per admission number,
// latest discharge date winning, with the credit company extracted from the
// "CREDIT COMPANY : NAME" cell and a New/Existing patient status derived
// from the patient's first discharge.
func IPDischarge(tbl *source.Table) ([]model.Discharge, error) {
	if err := tbl.Require("Textbox142", "ip_no", "Ptn_No", "WrdDesc", "cse_typ_dcd", "dcd", "rm_name", "bed_no", "Ptn_Cls_Dcd", "DocName", "refname", "dschg_dt", "BillAmt", "ConcAmt", "stlmt_amt", "DepBalAmt", "trnvalue"); err != nil {
		return nil, err
	}

	byAdm := make(map[string]model.Discharge, tbl.Len())
	order := make([]string, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		admNo := normalize.ID(tbl.Field(i, "ip_no"))
		if admNo == "" {
			continue
		}
		bill, _ := normalize.Amount(tbl.Field(i, "BillAmt"))
		conc, _ := normalize.Amount(tbl.Field(i, "ConcAmt"))
		stlmt, _ := normalize.Amount(tbl.Field(i, "stlmt_amt"))
		depBal, _ := normalize.Amount(tbl.Field(i, "DepBalAmt"))
		trn, _ := normalize.Amount(tbl.Field(i, "trnvalue"))
		bed, _ := normalize.Int(tbl.Field(i, "bed_no"))
		docName := tbl.Field(i, "DocName")
		refName := tbl.Field(i, "refname")
		d := model.Discharge{
			AdmissionNo:      admNo,
			PatientNo:        normalize.ID(tbl.Field(i, "Ptn_No")),
			CreditCompany:    normalize.CreditCompany(tbl.Field(i, "Textbox142"), model.CreditNotFound),
			Ward:             tbl.Field(i, "WrdDesc"),
			CaseType:         tbl.Field(i, "cse_typ_dcd"),
			DischargeType:    tbl.Field(i, "dcd"),
			Room:             tbl.Field(i, "rm_name"),
			BedNo:            bed,
			PatientClass:     tbl.Field(i, "Ptn_Cls_Dcd"),
			DoctorName:       docName,
			DoctorKey:        normalize.Key(docName),
			ReferrerName:     refName,
			ReferrerKey:      normalize.Key(refName),
			DischargeDate:    normalize.ParseDate(tbl.Field(i, "dschg_dt")),
			BillAmount:       bill,
			ConcessionAmount: conc,
			SettlementAmount: stlmt,
			DepositBalance:   depBal,
			TransactionValue: trn,
		}
		prev, ok := byAdm[admNo]
		if !ok {
			order = append(order, admNo)
			byAdm[admNo] = d
		} else if newerOrSame(d.DischargeDate, prev.DischargeDate) {
			byAdm[admNo] = d
		}
	}

	// First discharge date per patient decides New vs Existing.
	firstByPatient := make(map[string]*model.Discharge)
	for _, admNo := range order {
		d := byAdm[admNo]
		if d.PatientNo == "" || d.DischargeDate == nil {
			continue
		}
		first, ok := firstByPatient[d.PatientNo]
		if !ok || d.DischargeDate.Before(*first.DischargeDate) {
			dd := d
			firstByPatient[d.PatientNo] = &dd
		}
	}

	out := make([]model.Discharge, 0, len(order))
	for _, admNo := range order {
		d := byAdm[admNo]
		d.PatientStatus = "Existing"
		if first, ok := firstByPatient[d.PatientNo]; ok && d.DischargeDate != nil && d.DischargeDate.Equal(*first.DischargeDate) {
			d.PatientStatus = "New"
		}
		out = append(out, d)
	}
	return out, nil
}

// Expired cleans the expired-patients list into a set of admission numbers.
func Expired(tbl *source.Table) (map[string]bool, error) {
	if err := tbl.Require("ip_no"); err != nil {
		return nil, err
	}
	set := make(map[string]bool, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		if admNo := normalize.ID(tbl.Field(i, "ip_no")); admNo != "" {
			set[admNo] = true
		}
	}
	return set, nil
}
