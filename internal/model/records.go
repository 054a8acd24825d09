package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel values backfilled into fact rows so the reporting layer never
// sees an absent column.
const (
	UnknownCategory = "UNKNOWN"
	CreditNotFound  = "NOT FOUND"
)

// ChargeLine is one cleaned itemized IP charge. Amounts that failed numeric
// parsing are zero; they contribute nothing to per-admission totals.
type ChargeLine struct {
	AdmissionNo      string
	VoucherDate      *time.Time
	RevenueDate      *time.Time
	ServiceDesc      string
	ServiceKey       string // normalized join key for the charge-code master
	ChargeCode       int64
	ChargeDesc       string
	ServiceDoctor    string
	ServiceDoctorKey string
	PatientClass     string
	Units            float64
	Amount           decimal.Decimal
	LineRevenue      decimal.Decimal // apportioned share, set during merge
}

// AdmissionEntry is one row of the admission list: an admission number and
// the admission date recovered from the free-text register cell.
type AdmissionEntry struct {
	AdmissionNo   string
	AdmissionDate time.Time
}

// Discharge is one cleaned IP discharge register row, at most one per
// admission number (latest discharge date wins).
type Discharge struct {
	AdmissionNo      string
	PatientNo        string
	CreditCompany    string
	Ward             string
	CaseType         string
	DischargeType    string
	Room             string
	BedNo            int64
	PatientClass     string
	DoctorName       string
	DoctorKey        string
	ReferrerName     string
	ReferrerKey      string
	DischargeDate    *time.Time
	BillAmount       decimal.Decimal
	ConcessionAmount decimal.Decimal
	SettlementAmount decimal.Decimal
	DepositBalance   decimal.Decimal
	TransactionValue decimal.Decimal
	PatientStatus    string // "New" on the patient's first discharge, else "Existing"
}

// Patient is the latest demographic record for a patient number.
type Patient struct {
	CreatedAt *time.Time
	PatientNo string
	Name      string
	Age       *int64
	Sex       string
	Religion  string
	Address1  string
	Address2  string
	Mobile    string
}

// DoctorRef maps a normalized doctor-name key to a specialty.
type DoctorRef struct {
	Key       string
	Name      string
	Specialty string
}

// ServiceGroupRef maps a normalized service-description key to a group.
type ServiceGroupRef struct {
	Key         string
	ServiceDesc string
	Group       string
}

// TPARef maps a normalized credit-company key to a TPA/corporate category.
type TPARef struct {
	Key      string
	Company  string
	Category string
}

// AgentRef is one marketing-agent master row keyed by normalized name.
type AgentRef struct {
	Key  string
	Name string
}

// TPAClaim is one row of the external TPA settlement sheet, keyed by the
// admission (voucher) number.
type TPAClaim struct {
	VoucherNo       string
	ClaimNo         string
	ApprovedAmount  decimal.Decimal
	SettlementGross decimal.Decimal
	CreditCompany   string
}

// OPDischarge is one cleaned OP discharge row, at most one per voucher
// number (latest visit date wins).
type OPDischarge struct {
	VoucherNo     string
	PatientNo     string
	VisitDate     *time.Time
	CreditCompany string
}

// OPService is one cleaned outpatient service line.
type OPService struct {
	VoucherNo   string
	VisitDate   *time.Time
	DoctorName  string
	DoctorKey   string
	ServiceDesc string
	ShareDoctor string
	Units       float64
	NetAmount   decimal.Decimal
}

// Deposit is the first deposit record per patient number.
type Deposit struct {
	PatientNo string
	Date      *time.Time
	Type      string
	Amount    decimal.Decimal
	Package   decimal.Decimal
}

// Admission is one row of the IP fact table: exactly one per admission
// number after merge.
type Admission struct {
	AdmissionNo         string
	PatientNo           string
	AdmissionDate       *time.Time
	DischargeDate       *time.Time
	Ward                string
	Room                string
	BedNo               int64
	CaseType            string
	DischargeType       string
	PatientClass        string
	DoctorName          string
	DoctorKey           string
	ReferrerName        string
	ReferrerKey         string
	CreditCompany       string
	TPACategory         string
	PatientStatus       string
	PatientName         string
	Age                 *int64
	Sex                 string
	Religion            string
	Address1            string
	Address2            string
	Mobile              string
	ServiceDesc         string
	ServiceKey          string
	ServiceDoctor       string
	Group               string
	ConsultantSpecialty string
	ReferralSpecialty   string
	ChargeTotal         decimal.Decimal // summed itemized charge amounts
	UnitsTotal          float64
	BillAmount          decimal.Decimal
	ConcessionAmount    decimal.Decimal
	SettlementAmount    decimal.Decimal
	DepositBalance      decimal.Decimal
	TransactionValue    decimal.Decimal
	ApprovedAmount      decimal.Decimal
	SettlementGross     decimal.Decimal
	ClaimNo             string
	Revenue             decimal.Decimal // total billable amount (priority rule)
	LineRevenue         decimal.Decimal // apportioned revenue booked to the fact row
	Expired             string          // "yes" or "no"
}

// DischargeYear reports the calendar year of discharge, ok=false for
// in-progress stays.
func (a *Admission) DischargeYear() (int, bool) {
	if a.DischargeDate == nil {
		return 0, false
	}
	return a.DischargeDate.Year(), true
}

// DischargeMonth reports the discharge month, ok=false for in-progress stays.
func (a *Admission) DischargeMonth() (time.Month, bool) {
	if a.DischargeDate == nil {
		return 0, false
	}
	return a.DischargeDate.Month(), true
}

// OPVisit is one row of the OP fact table, keyed by voucher number.
type OPVisit struct {
	VoucherNo     string
	PatientNo     string
	VisitDate     *time.Time
	CreditCompany string
	DoctorName    string
	DoctorKey     string
	NetAmount     decimal.Decimal
	PatientName   string
	Age           *int64
	Sex           string
	DepositType   string
	DepositAmount decimal.Decimal
	PackageAmount decimal.Decimal
}
