package merge

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
)

// Inputs holds the cleaned sources the merge consumes.
type Inputs struct {
	Admissions    []model.AdmissionEntry
	Discharges    []model.Discharge
	ChargeLines   []model.ChargeLine
	Patients      []model.Patient
	Doctors       []model.DoctorRef
	ServiceGroups []model.ServiceGroupRef
	TPAMap        []model.TPARef
	Claims        []model.TPAClaim
	Expired       map[string]bool
	OPDischarges  []model.OPDischarge
	OPServices    []model.OPService
	Deposits      []model.Deposit
}

// Result is the output of a merge: the two fact tables plus the apportioned
// charge lines.
type Result struct {
	IP                []model.Admission
	IPLines           []model.ChargeLine
	OP                []model.OPVisit
	DuplicatesDropped int
}

// chargeAgg is the per-admission rollup of itemized charges.
type chargeAgg struct {
	total     decimal.Decimal
	units     float64
	svcDesc   string
	svcKey    string
	svcDoctor string
}

// Merge joins the cleaned sources into the IP and OP fact tables. The
// admission list drives the IP side: each entry becomes exactly one fact
// row; discharge, patient, charge, reference and claim data attach by key.
func Merge(log zerolog.Logger, in *Inputs) *Result {
	dischByAdm := make(map[string]model.Discharge, len(in.Discharges))
	for _, d := range in.Discharges {
		dischByAdm[d.AdmissionNo] = d
	}
	patientByNo := make(map[string]model.Patient, len(in.Patients))
	for _, p := range in.Patients {
		patientByNo[p.PatientNo] = p
	}
	specialtyByKey := make(map[string]string, len(in.Doctors))
	for _, d := range in.Doctors {
		specialtyByKey[d.Key] = d.Specialty
	}
	groupByKey := make(map[string]string, len(in.ServiceGroups))
	for _, g := range in.ServiceGroups {
		groupByKey[g.Key] = g.Group
	}
	categoryByKey := make(map[string]string, len(in.TPAMap))
	for _, t := range in.TPAMap {
		categoryByKey[t.Key] = t.Category
	}
	claimByVch := make(map[string]model.TPAClaim, len(in.Claims))
	for _, c := range in.Claims {
		claimByVch[c.VoucherNo] = c
	}

	// Aggregate charge lines per admission; the first line supplies the
	// representative service description and doctor.
	aggByAdm := make(map[string]*chargeAgg)
	totals := make(map[string]decimal.Decimal)
	for _, l := range in.ChargeLines {
		agg, ok := aggByAdm[l.AdmissionNo]
		if !ok {
			agg = &chargeAgg{svcDesc: l.ServiceDesc, svcKey: l.ServiceKey, svcDoctor: l.ServiceDoctor}
			aggByAdm[l.AdmissionNo] = agg
		}
		agg.total = agg.total.Add(l.Amount)
		agg.units += l.Units
	}
	for admNo, agg := range aggByAdm {
		totals[admNo] = agg.total
	}

	rows := make([]model.Admission, 0, len(in.Admissions))
	revenueByAdm := make(map[string]decimal.Decimal, len(in.Admissions))
	for _, entry := range in.Admissions {
		admDate := entry.AdmissionDate
		row := model.Admission{
			AdmissionNo:   entry.AdmissionNo,
			AdmissionDate: &admDate,
		}

		if d, ok := dischByAdm[entry.AdmissionNo]; ok {
			row.PatientNo = d.PatientNo
			row.DischargeDate = d.DischargeDate
			row.Ward = d.Ward
			row.Room = d.Room
			row.BedNo = d.BedNo
			row.CaseType = d.CaseType
			row.DischargeType = d.DischargeType
			row.PatientClass = d.PatientClass
			row.DoctorName = d.DoctorName
			row.DoctorKey = d.DoctorKey
			row.ReferrerName = d.ReferrerName
			row.ReferrerKey = d.ReferrerKey
			row.CreditCompany = d.CreditCompany
			row.PatientStatus = d.PatientStatus
			row.BillAmount = d.BillAmount
			row.ConcessionAmount = d.ConcessionAmount
			row.SettlementAmount = d.SettlementAmount
			row.DepositBalance = d.DepositBalance
			row.TransactionValue = d.TransactionValue
		}

		if p, ok := patientByNo[row.PatientNo]; ok {
			row.PatientName = p.Name
			row.Age = p.Age
			row.Sex = p.Sex
			row.Religion = p.Religion
			row.Address1 = p.Address1
			row.Address2 = p.Address2
			row.Mobile = p.Mobile
		}

		if agg, ok := aggByAdm[entry.AdmissionNo]; ok {
			row.ChargeTotal = agg.total
			row.UnitsTotal = agg.units
			row.ServiceDesc = agg.svcDesc
			row.ServiceKey = agg.svcKey
			row.ServiceDoctor = agg.svcDoctor
		}

		row.Group = groupByKey[row.ServiceKey]
		row.ConsultantSpecialty = specialtyByKey[row.DoctorKey]
		row.ReferralSpecialty = specialtyByKey[row.ReferrerKey]

		// Claim data from the external sheet; the local credit-company
		// field wins when the discharge register populated it.
		if c, ok := claimByVch[entry.AdmissionNo]; ok {
			row.ClaimNo = c.ClaimNo
			row.ApprovedAmount = c.ApprovedAmount
			row.SettlementGross = c.SettlementGross
			if row.CreditCompany == "" {
				row.CreditCompany = c.CreditCompany
			}
		}
		row.TPACategory = categoryByKey[normalize.Key(row.CreditCompany)]

		row.Revenue = ComputeRevenue(row.SettlementAmount, row.SettlementGross, row.ApprovedAmount, row.DepositBalance, row.BillAmount)
		if row.ChargeTotal.IsPositive() {
			row.LineRevenue = row.Revenue
		} else {
			// Zero-total admissions book zero rather than an unknown.
			row.LineRevenue = decimal.Zero
		}
		revenueByAdm[entry.AdmissionNo] = row.Revenue

		rows = append(rows, row)
	}

	rows, dropped := ResolveDuplicates(log, rows)

	for i := range rows {
		if in.Expired[rows[i].AdmissionNo] {
			rows[i].Expired = "yes"
		} else {
			rows[i].Expired = "no"
		}
	}
	backfill(rows)

	lines := make([]model.ChargeLine, len(in.ChargeLines))
	copy(lines, in.ChargeLines)
	ApportionLines(lines, totals, revenueByAdm)

	return &Result{
		IP:                rows,
		IPLines:           lines,
		OP:                mergeOP(in),
		DuplicatesDropped: dropped,
	}
}

// ResolveDuplicates enforces at most one fact row per admission number:
// the first surviving row wins and the discarded count plus a sample of the
// conflicting numbers is logged for the operator.
func ResolveDuplicates(log zerolog.Logger, rows []model.Admission) ([]model.Admission, int) {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	var sample []string
	dropped := 0
	for _, r := range rows {
		if seen[r.AdmissionNo] {
			dropped++
			if len(sample) < 10 {
				sample = append(sample, r.AdmissionNo)
			}
			continue
		}
		seen[r.AdmissionNo] = true
		out = append(out, r)
	}
	if dropped > 0 {
		log.Warn().
			Int("dropped", dropped).
			Strs("sample", sample).
			Msg("duplicate admission numbers resolved (first wins)")
	}
	return out, dropped
}

// backfill replaces still-missing canonical columns with sentinels so the
// reporting layer never faces absent values.
func backfill(rows []model.Admission) {
	for i := range rows {
		r := &rows[i]
		if r.Group == "" {
			r.Group = model.UnknownCategory
		}
		if r.ConsultantSpecialty == "" {
			r.ConsultantSpecialty = model.UnknownCategory
		}
		if r.ReferralSpecialty == "" {
			r.ReferralSpecialty = model.UnknownCategory
		}
		if r.TPACategory == "" {
			r.TPACategory = model.UnknownCategory
		}
		if r.CreditCompany == "" {
			r.CreditCompany = model.CreditNotFound
		}
		if r.PatientStatus == "" {
			r.PatientStatus = model.UnknownCategory
		}
	}
}

// mergeOP builds the OP fact table: one row per discharge voucher with the
// first matching service line, patient demographics and deposit attached.
func mergeOP(in *Inputs) []model.OPVisit {
	svcByVch := make(map[string]model.OPService, len(in.OPServices))
	for _, s := range in.OPServices {
		if _, ok := svcByVch[s.VoucherNo]; !ok {
			svcByVch[s.VoucherNo] = s
		}
	}
	patientByNo := make(map[string]model.Patient, len(in.Patients))
	for _, p := range in.Patients {
		patientByNo[p.PatientNo] = p
	}
	depositByNo := make(map[string]model.Deposit, len(in.Deposits))
	for _, d := range in.Deposits {
		depositByNo[d.PatientNo] = d
	}

	visits := make([]model.OPVisit, 0, len(in.OPDischarges))
	for _, d := range in.OPDischarges {
		v := model.OPVisit{
			VoucherNo:     d.VoucherNo,
			PatientNo:     d.PatientNo,
			VisitDate:     d.VisitDate,
			CreditCompany: d.CreditCompany,
		}
		if s, ok := svcByVch[d.VoucherNo]; ok {
			v.DoctorName = s.DoctorName
			v.DoctorKey = s.DoctorKey
			v.NetAmount = s.NetAmount
		}
		if p, ok := patientByNo[d.PatientNo]; ok {
			v.PatientName = p.Name
			v.Age = p.Age
			v.Sex = p.Sex
		}
		if dep, ok := depositByNo[d.PatientNo]; ok {
			v.DepositType = dep.Type
			v.DepositAmount = dep.Amount
			v.PackageAmount = dep.Package
		}
		visits = append(visits, v)
	}
	return visits
}
