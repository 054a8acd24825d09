package merge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestComputeRevenuePriority(t *testing.T) {
	cases := []struct {
		name                                          string
		settlement, gross, approved, depBalance, bill string
		want                                          string
	}{
		{"settlement wins", "900", "800", "700", "50", "1000", "900"},
		{"gross plus deposit", "0", "800", "700", "50", "1000", "850"},
		{"approved plus deposit", "0", "0", "700", "50", "1000", "750"},
		{"bill fallback", "0", "0", "0", "50", "1000", "1000"},
		{"negative settlement skipped", "-10", "0", "0", "0", "1000", "1000"},
		{"all zero", "0", "0", "0", "0", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeRevenue(dec(tc.settlement), dec(tc.gross), dec(tc.approved), dec(tc.depBalance), dec(tc.bill))
			if !got.Equal(dec(tc.want)) {
				t.Errorf("revenue = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestApportionLinesZeroTotal(t *testing.T) {
	lines := []model.ChargeLine{
		{AdmissionNo: "A1", Amount: decimal.Zero},
	}
	totals := map[string]decimal.Decimal{"A1": decimal.Zero}
	revenue := map[string]decimal.Decimal{"A1": dec("1000")}
	ApportionLines(lines, totals, revenue)
	if !lines[0].LineRevenue.IsZero() {
		t.Errorf("zero-total admission should book zero, got %s", lines[0].LineRevenue)
	}
}

// The canonical join scenario: one admission with a 1000 bill and two
// itemized charges of 600 and 400 yields exactly one fact row carrying the
// full revenue, with the lines apportioned 600 and 400.
func TestMergeEndToEnd(t *testing.T) {
	in := &Inputs{
		Admissions: []model.AdmissionEntry{
			{AdmissionNo: "A1", AdmissionDate: *date(2024, time.March, 1)},
		},
		Discharges: []model.Discharge{
			{
				AdmissionNo:   "A1",
				PatientNo:     "P1",
				DischargeDate: date(2024, time.March, 5),
				DoctorKey:     "ABSHARMA",
				CreditCompany: "STAR HEALTH",
				BillAmount:    dec("1000"),
				PatientStatus: "New",
			},
		},
		ChargeLines: []model.ChargeLine{
			{AdmissionNo: "A1", ServiceDesc: "OT Charges", ServiceKey: "OTCHARGES", Amount: dec("600"), Units: 1},
			{AdmissionNo: "A1", ServiceDesc: "Pharmacy", ServiceKey: "PHARMACY", Amount: dec("400"), Units: 2},
		},
		Patients: []model.Patient{
			{PatientNo: "P1", Name: "Test Patient", Sex: "M"},
		},
		Doctors: []model.DoctorRef{
			{Key: "ABSHARMA", Specialty: "Cardiology"},
		},
		ServiceGroups: []model.ServiceGroupRef{
			{Key: "OTCHARGES", Group: "SURGICAL"},
		},
		TPAMap: []model.TPARef{
			{Key: "STARHEALTH", Category: "TPA"},
		},
		Expired: map[string]bool{},
	}

	res := Merge(zerolog.Nop(), in)

	if len(res.IP) != 1 {
		t.Fatalf("expected 1 fact row, got %d", len(res.IP))
	}
	row := res.IP[0]
	if !row.Revenue.Equal(dec("1000")) {
		t.Errorf("revenue = %s, want 1000", row.Revenue)
	}
	if !row.ChargeTotal.Equal(dec("1000")) {
		t.Errorf("charge total = %s, want 1000", row.ChargeTotal)
	}
	if row.Group != "SURGICAL" {
		t.Errorf("group = %q", row.Group)
	}
	if row.ConsultantSpecialty != "Cardiology" {
		t.Errorf("consultant specialty = %q", row.ConsultantSpecialty)
	}
	if row.TPACategory != "TPA" {
		t.Errorf("tpa category = %q", row.TPACategory)
	}
	if row.PatientName != "Test Patient" {
		t.Errorf("patient name = %q", row.PatientName)
	}
	if row.Expired != "no" {
		t.Errorf("expired = %q", row.Expired)
	}

	if len(res.IPLines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(res.IPLines))
	}
	if !res.IPLines[0].LineRevenue.Equal(dec("600")) {
		t.Errorf("line 0 revenue = %s, want 600", res.IPLines[0].LineRevenue)
	}
	if !res.IPLines[1].LineRevenue.Equal(dec("400")) {
		t.Errorf("line 1 revenue = %s, want 400", res.IPLines[1].LineRevenue)
	}
	sum := res.IPLines[0].LineRevenue.Add(res.IPLines[1].LineRevenue)
	if !sum.Equal(row.Revenue) {
		t.Errorf("apportioned sum %s != revenue %s", sum, row.Revenue)
	}
}

func TestMergeBackfillsSentinels(t *testing.T) {
	in := &Inputs{
		Admissions: []model.AdmissionEntry{
			{AdmissionNo: "A9", AdmissionDate: *date(2024, time.April, 2)},
		},
		Expired: map[string]bool{},
	}
	res := Merge(zerolog.Nop(), in)
	if len(res.IP) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.IP))
	}
	row := res.IP[0]
	if row.Group != model.UnknownCategory {
		t.Errorf("group = %q", row.Group)
	}
	if row.TPACategory != model.UnknownCategory {
		t.Errorf("tpa category = %q", row.TPACategory)
	}
	if row.CreditCompany != model.CreditNotFound {
		t.Errorf("credit company = %q", row.CreditCompany)
	}
	if row.PatientStatus != model.UnknownCategory {
		t.Errorf("patient status = %q", row.PatientStatus)
	}
	if !row.LineRevenue.IsZero() {
		t.Errorf("zero-charge admission should book zero line revenue, got %s", row.LineRevenue)
	}
}

func TestMergeClaimCoalesce(t *testing.T) {
	in := &Inputs{
		Admissions: []model.AdmissionEntry{
			{AdmissionNo: "A1", AdmissionDate: *date(2024, time.May, 1)},
			{AdmissionNo: "A2", AdmissionDate: *date(2024, time.May, 2)},
		},
		Discharges: []model.Discharge{
			{AdmissionNo: "A1", CreditCompany: "STAR HEALTH", BillAmount: dec("100")},
			{AdmissionNo: "A2", BillAmount: dec("100")},
		},
		Claims: []model.TPAClaim{
			{VoucherNo: "A1", ClaimNo: "C1", CreditCompany: "CARE TPA", SettlementGross: dec("90")},
			{VoucherNo: "A2", ClaimNo: "C2", CreditCompany: "CARE TPA"},
		},
		Expired: map[string]bool{},
	}
	res := Merge(zerolog.Nop(), in)
	byAdm := map[string]model.Admission{}
	for _, r := range res.IP {
		byAdm[r.AdmissionNo] = r
	}
	if byAdm["A1"].CreditCompany != "STAR HEALTH" {
		t.Errorf("local credit company should win, got %q", byAdm["A1"].CreditCompany)
	}
	if byAdm["A2"].CreditCompany != "CARE TPA" {
		t.Errorf("claim should fill missing credit company, got %q", byAdm["A2"].CreditCompany)
	}
	if !byAdm["A1"].Revenue.Equal(dec("90")) {
		t.Errorf("gross settlement should drive revenue, got %s", byAdm["A1"].Revenue)
	}
}

func TestResolveDuplicatesFirstWins(t *testing.T) {
	rows := []model.Admission{
		{AdmissionNo: "A1", Ward: "ICU"},
		{AdmissionNo: "A1", Ward: "General"},
		{AdmissionNo: "A2"},
	}
	out, dropped := ResolveDuplicates(zerolog.Nop(), rows)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].Ward != "ICU" {
		t.Errorf("first occurrence should win, ward = %q", out[0].Ward)
	}
}

func TestMergeOPJoins(t *testing.T) {
	age := int64(40)
	in := &Inputs{
		OPDischarges: []model.OPDischarge{
			{VoucherNo: "V1", PatientNo: "P1", VisitDate: date(2024, time.June, 3), CreditCompany: "CASH"},
		},
		OPServices: []model.OPService{
			{VoucherNo: "V1", DoctorName: "Dr Mehta", DoctorKey: "MEHTA", NetAmount: dec("500")},
			{VoucherNo: "V1", DoctorName: "Dr Other", DoctorKey: "OTHER", NetAmount: dec("250")},
		},
		Patients: []model.Patient{
			{PatientNo: "P1", Name: "OP Patient", Age: &age, Sex: "F"},
		},
		Deposits: []model.Deposit{
			{PatientNo: "P1", Type: "Advance", Amount: dec("200")},
		},
		Expired: map[string]bool{},
	}
	res := Merge(zerolog.Nop(), in)
	if len(res.OP) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(res.OP))
	}
	v := res.OP[0]
	if v.DoctorKey != "MEHTA" {
		t.Errorf("first service line should attach, doctor = %q", v.DoctorKey)
	}
	if !v.NetAmount.Equal(dec("500")) {
		t.Errorf("net amount = %s", v.NetAmount)
	}
	if v.PatientName != "OP Patient" || v.Sex != "F" {
		t.Errorf("patient join failed: %+v", v)
	}
	if v.DepositType != "Advance" || !v.DepositAmount.Equal(dec("200")) {
		t.Errorf("deposit join failed: %+v", v)
	}
}
