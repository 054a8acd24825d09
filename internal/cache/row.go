package cache

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
)

// ipRow is the flat Parquet shape of one IP fact row. Money travels as
// float64 rupees; dates as optional unix seconds.
type ipRow struct {
	AdmissionNo         string  `parquet:"admission_no"`
	PatientNo           string  `parquet:"patient_no"`
	AdmissionDate       *int64  `parquet:"admission_date,optional"`
	DischargeDate       *int64  `parquet:"discharge_date,optional"`
	Ward                string  `parquet:"ward"`
	Room                string  `parquet:"room"`
	BedNo               int64   `parquet:"bed_no"`
	CaseType            string  `parquet:"case_type"`
	DischargeType       string  `parquet:"discharge_type"`
	PatientClass        string  `parquet:"patient_class"`
	DoctorName          string  `parquet:"doctor_name"`
	DoctorKey           string  `parquet:"doctor_key"`
	ReferrerName        string  `parquet:"referrer_name"`
	ReferrerKey         string  `parquet:"referrer_key"`
	CreditCompany       string  `parquet:"credit_company"`
	TPACategory         string  `parquet:"tpa_category"`
	PatientStatus       string  `parquet:"patient_status"`
	PatientName         string  `parquet:"patient_name"`
	Age                 *int64  `parquet:"age,optional"`
	Sex                 string  `parquet:"sex"`
	Religion            string  `parquet:"religion"`
	Address1            string  `parquet:"address1"`
	Address2            string  `parquet:"address2"`
	Mobile              string  `parquet:"mobile"`
	ServiceDesc         string  `parquet:"service_desc"`
	ServiceKey          string  `parquet:"service_key"`
	ServiceDoctor       string  `parquet:"service_doctor"`
	Group               string  `parquet:"group"`
	ConsultantSpecialty string  `parquet:"consultant_specialty"`
	ReferralSpecialty   string  `parquet:"referral_specialty"`
	ChargeTotal         float64 `parquet:"charge_total"`
	UnitsTotal          float64 `parquet:"units_total"`
	BillAmount          float64 `parquet:"bill_amount"`
	ConcessionAmount    float64 `parquet:"concession_amount"`
	SettlementAmount    float64 `parquet:"settlement_amount"`
	DepositBalance      float64 `parquet:"deposit_balance"`
	TransactionValue    float64 `parquet:"transaction_value"`
	ApprovedAmount      float64 `parquet:"approved_amount"`
	SettlementGross     float64 `parquet:"settlement_gross"`
	ClaimNo             string  `parquet:"claim_no"`
	Revenue             float64 `parquet:"revenue"`
	LineRevenue         float64 `parquet:"line_revenue"`
	Expired             string  `parquet:"expired"`
}

type lineRow struct {
	AdmissionNo      string  `parquet:"admission_no"`
	VoucherDate      *int64  `parquet:"voucher_date,optional"`
	RevenueDate      *int64  `parquet:"revenue_date,optional"`
	ServiceDesc      string  `parquet:"service_desc"`
	ServiceKey       string  `parquet:"service_key"`
	ChargeCode       int64   `parquet:"charge_code"`
	ChargeDesc       string  `parquet:"charge_desc"`
	ServiceDoctor    string  `parquet:"service_doctor"`
	ServiceDoctorKey string  `parquet:"service_doctor_key"`
	PatientClass     string  `parquet:"patient_class"`
	Units            float64 `parquet:"units"`
	Amount           float64 `parquet:"amount"`
	LineRevenue      float64 `parquet:"line_revenue"`
}

type opRow struct {
	VoucherNo     string  `parquet:"voucher_no"`
	PatientNo     string  `parquet:"patient_no"`
	VisitDate     *int64  `parquet:"visit_date,optional"`
	CreditCompany string  `parquet:"credit_company"`
	DoctorName    string  `parquet:"doctor_name"`
	DoctorKey     string  `parquet:"doctor_key"`
	NetAmount     float64 `parquet:"net_amount"`
	PatientName   string  `parquet:"patient_name"`
	Age           *int64  `parquet:"age,optional"`
	Sex           string  `parquet:"sex"`
	DepositType   string  `parquet:"deposit_type"`
	DepositAmount float64 `parquet:"deposit_amount"`
	PackageAmount float64 `parquet:"package_amount"`
}

func unix(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}

func fromUnix(u *int64) *time.Time {
	if u == nil {
		return nil
	}
	t := time.Unix(*u, 0).UTC()
	return &t
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toIPRow(a model.Admission) ipRow {
	return ipRow{
		AdmissionNo:         a.AdmissionNo,
		PatientNo:           a.PatientNo,
		AdmissionDate:       unix(a.AdmissionDate),
		DischargeDate:       unix(a.DischargeDate),
		Ward:                a.Ward,
		Room:                a.Room,
		BedNo:               a.BedNo,
		CaseType:            a.CaseType,
		DischargeType:       a.DischargeType,
		PatientClass:        a.PatientClass,
		DoctorName:          a.DoctorName,
		DoctorKey:           a.DoctorKey,
		ReferrerName:        a.ReferrerName,
		ReferrerKey:         a.ReferrerKey,
		CreditCompany:       a.CreditCompany,
		TPACategory:         a.TPACategory,
		PatientStatus:       a.PatientStatus,
		PatientName:         a.PatientName,
		Age:                 a.Age,
		Sex:                 a.Sex,
		Religion:            a.Religion,
		Address1:            a.Address1,
		Address2:            a.Address2,
		Mobile:              a.Mobile,
		ServiceDesc:         a.ServiceDesc,
		ServiceKey:          a.ServiceKey,
		ServiceDoctor:       a.ServiceDoctor,
		Group:               a.Group,
		ConsultantSpecialty: a.ConsultantSpecialty,
		ReferralSpecialty:   a.ReferralSpecialty,
		ChargeTotal:         money(a.ChargeTotal),
		UnitsTotal:          a.UnitsTotal,
		BillAmount:          money(a.BillAmount),
		ConcessionAmount:    money(a.ConcessionAmount),
		SettlementAmount:    money(a.SettlementAmount),
		DepositBalance:      money(a.DepositBalance),
		TransactionValue:    money(a.TransactionValue),
		ApprovedAmount:      money(a.ApprovedAmount),
		SettlementGross:     money(a.SettlementGross),
		ClaimNo:             a.ClaimNo,
		Revenue:             money(a.Revenue),
		LineRevenue:         money(a.LineRevenue),
		Expired:             a.Expired,
	}
}

func fromIPRow(r ipRow) model.Admission {
	return model.Admission{
		AdmissionNo:         r.AdmissionNo,
		PatientNo:           r.PatientNo,
		AdmissionDate:       fromUnix(r.AdmissionDate),
		DischargeDate:       fromUnix(r.DischargeDate),
		Ward:                r.Ward,
		Room:                r.Room,
		BedNo:               r.BedNo,
		CaseType:            r.CaseType,
		DischargeType:       r.DischargeType,
		PatientClass:        r.PatientClass,
		DoctorName:          r.DoctorName,
		DoctorKey:           r.DoctorKey,
		ReferrerName:        r.ReferrerName,
		ReferrerKey:         r.ReferrerKey,
		CreditCompany:       r.CreditCompany,
		TPACategory:         r.TPACategory,
		PatientStatus:       r.PatientStatus,
		PatientName:         r.PatientName,
		Age:                 r.Age,
		Sex:                 r.Sex,
		Religion:            r.Religion,
		Address1:            r.Address1,
		Address2:            r.Address2,
		Mobile:              r.Mobile,
		ServiceDesc:         r.ServiceDesc,
		ServiceKey:          r.ServiceKey,
		ServiceDoctor:       r.ServiceDoctor,
		Group:               r.Group,
		ConsultantSpecialty: r.ConsultantSpecialty,
		ReferralSpecialty:   r.ReferralSpecialty,
		ChargeTotal:         decimal.NewFromFloat(r.ChargeTotal),
		UnitsTotal:          r.UnitsTotal,
		BillAmount:          decimal.NewFromFloat(r.BillAmount),
		ConcessionAmount:    decimal.NewFromFloat(r.ConcessionAmount),
		SettlementAmount:    decimal.NewFromFloat(r.SettlementAmount),
		DepositBalance:      decimal.NewFromFloat(r.DepositBalance),
		TransactionValue:    decimal.NewFromFloat(r.TransactionValue),
		ApprovedAmount:      decimal.NewFromFloat(r.ApprovedAmount),
		SettlementGross:     decimal.NewFromFloat(r.SettlementGross),
		ClaimNo:             r.ClaimNo,
		Revenue:             decimal.NewFromFloat(r.Revenue),
		LineRevenue:         decimal.NewFromFloat(r.LineRevenue),
		Expired:             r.Expired,
	}
}

func toLineRow(l model.ChargeLine) lineRow {
	return lineRow{
		AdmissionNo:      l.AdmissionNo,
		VoucherDate:      unix(l.VoucherDate),
		RevenueDate:      unix(l.RevenueDate),
		ServiceDesc:      l.ServiceDesc,
		ServiceKey:       l.ServiceKey,
		ChargeCode:       l.ChargeCode,
		ChargeDesc:       l.ChargeDesc,
		ServiceDoctor:    l.ServiceDoctor,
		ServiceDoctorKey: l.ServiceDoctorKey,
		PatientClass:     l.PatientClass,
		Units:            l.Units,
		Amount:           money(l.Amount),
		LineRevenue:      money(l.LineRevenue),
	}
}

func fromLineRow(r lineRow) model.ChargeLine {
	return model.ChargeLine{
		AdmissionNo:      r.AdmissionNo,
		VoucherDate:      fromUnix(r.VoucherDate),
		RevenueDate:      fromUnix(r.RevenueDate),
		ServiceDesc:      r.ServiceDesc,
		ServiceKey:       r.ServiceKey,
		ChargeCode:       r.ChargeCode,
		ChargeDesc:       r.ChargeDesc,
		ServiceDoctor:    r.ServiceDoctor,
		ServiceDoctorKey: r.ServiceDoctorKey,
		PatientClass:     r.PatientClass,
		Units:            r.Units,
		Amount:           decimal.NewFromFloat(r.Amount),
		LineRevenue:      decimal.NewFromFloat(r.LineRevenue),
	}
}

func toOPRow(v model.OPVisit) opRow {
	return opRow{
		VoucherNo:     v.VoucherNo,
		PatientNo:     v.PatientNo,
		VisitDate:     unix(v.VisitDate),
		CreditCompany: v.CreditCompany,
		DoctorName:    v.DoctorName,
		DoctorKey:     v.DoctorKey,
		NetAmount:     money(v.NetAmount),
		PatientName:   v.PatientName,
		Age:           v.Age,
		Sex:           v.Sex,
		DepositType:   v.DepositType,
		DepositAmount: money(v.DepositAmount),
		PackageAmount: money(v.PackageAmount),
	}
}

func fromOPRow(r opRow) model.OPVisit {
	return model.OPVisit{
		VoucherNo:     r.VoucherNo,
		PatientNo:     r.PatientNo,
		VisitDate:     fromUnix(r.VisitDate),
		CreditCompany: r.CreditCompany,
		DoctorName:    r.DoctorName,
		DoctorKey:     r.DoctorKey,
		NetAmount:     decimal.NewFromFloat(r.NetAmount),
		PatientName:   r.PatientName,
		Age:           r.Age,
		Sex:           r.Sex,
		DepositType:   r.DepositType,
		DepositAmount: decimal.NewFromFloat(r.DepositAmount),
		PackageAmount: decimal.NewFromFloat(r.PackageAmount),
	}
}
