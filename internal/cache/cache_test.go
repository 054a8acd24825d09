package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	admDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	dischDate := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	age := int64(45)

	res := &merge.Result{
		IP: []model.Admission{
			{
				AdmissionNo:   "A1",
				PatientNo:     "P1",
				AdmissionDate: &admDate,
				DischargeDate: &dischDate,
				Ward:          "ICU",
				Age:           &age,
				Sex:           "M",
				Group:         "SURGICAL",
				Revenue:       decimal.NewFromInt(1000),
				LineRevenue:   decimal.NewFromInt(1000),
				ChargeTotal:   decimal.NewFromInt(1000),
				Expired:       "no",
			},
			{AdmissionNo: "A2", Expired: "no"},
		},
		IPLines: []model.ChargeLine{
			{AdmissionNo: "A1", ServiceDesc: "OT", Amount: decimal.NewFromInt(600), LineRevenue: decimal.NewFromInt(600)},
		},
		OP: []model.OPVisit{
			{VoucherNo: "V1", PatientNo: "P1", VisitDate: &admDate, NetAmount: decimal.NewFromInt(500)},
		},
	}

	if err := Save(dir, res); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("snapshot should exist after save")
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.IP) != 2 || len(got.IPLines) != 1 || len(got.OP) != 1 {
		t.Fatalf("row counts = %d/%d/%d", len(got.IP), len(got.IPLines), len(got.OP))
	}
	row := got.IP[0]
	if row.AdmissionNo != "A1" || row.Ward != "ICU" {
		t.Errorf("row = %+v", row)
	}
	if row.AdmissionDate == nil || !row.AdmissionDate.Equal(admDate) {
		t.Errorf("admission date = %v", row.AdmissionDate)
	}
	if row.Age == nil || *row.Age != 45 {
		t.Errorf("age = %v", row.Age)
	}
	if !row.Revenue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("revenue = %s", row.Revenue)
	}
	if got.IP[1].AdmissionDate != nil {
		t.Errorf("missing date should stay nil, got %v", got.IP[1].AdmissionDate)
	}
	if !got.IPLines[0].LineRevenue.Equal(decimal.NewFromInt(600)) {
		t.Errorf("line revenue = %s", got.IPLines[0].LineRevenue)
	}
	if !got.OP[0].NetAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("op net = %s", got.OP[0].NetAmount)
	}
}

func TestSaveEmptyResult(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &merge.Result{}); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(got.IP) != 0 || len(got.OP) != 0 {
		t.Fatalf("expected empty tables, got %d/%d", len(got.IP), len(got.OP))
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	if Exists(t.TempDir()) {
		t.Fatal("Exists should be false for empty dir")
	}
}
