package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meditrak/opsdash/internal/model"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFolderConcatenates(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Admission list")
	os.MkdirAll(sub, 0755)
	writeCSV(t, sub, "a.csv", "ip_no,Textbox73\nA1,Admission Date : 01/02/2024\n")
	writeCSV(t, sub, "b.csv", "Textbox73,ip_no\nAdmission Date : 02/02/2024,A2\n")

	src, _ := model.SourceByName("admission_list")
	tbl, err := Load(dir, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	// b.csv has the columns reversed; remapping must still line them up.
	if got := tbl.Field(1, "ip_no"); got != "A2" {
		t.Errorf("row 1 ip_no = %q, want A2", got)
	}
	if got := tbl.Field(1, "Textbox73"); got != "Admission Date : 02/02/2024" {
		t.Errorf("row 1 Textbox73 = %q", got)
	}
}

func TestLoadSkipRows(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "IP Details")
	os.MkdirAll(sub, 0755)
	writeCSV(t, sub, "detail.csv",
		"Report,,,,,,,,,\nGenerated,,,,,,,,,\nBy HIS,,,,,,,,,\n"+
			"ip_no,vch_dt,rev_dt,srv_desc,chrg_cd3,chrg_desc2,ShrDoc1,ptn_cls_desc,no_units,amt\n"+
			"A1,01/02/2024,01/02/2024,Surgery,101,OT,Dr X,General,1,600\n")

	src, _ := model.SourceByName("ip_detail")
	tbl, err := Load(dir, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", tbl.Len())
	}
	if got := tbl.Field(0, "amt"); got != "600" {
		t.Errorf("amt = %q", got)
	}
}

func TestLoadMissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Admission list")
	os.MkdirAll(sub, 0755)
	writeCSV(t, sub, "a.csv", "ip_no\nA1\n")

	src, _ := model.SourceByName("admission_list")
	if _, err := Load(dir, src); err == nil {
		t.Fatal("expected error for missing Textbox73 column")
	}
}

func TestLoadEmptyFolderFails(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "Admission list"), 0755)
	src, _ := model.SourceByName("admission_list")
	if _, err := Load(dir, src); err == nil {
		t.Fatal("expected error for folder without CSV files")
	}
}

func TestWindows1252Decode(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "Reference"), 0755)
	// 0xE9 is é in Windows-1252; invalid as a bare UTF-8 byte.
	content := append([]byte("srv_desc,Group\nCaf"), 0xE9)
	content = append(content, []byte(" Meal,DIET\n")...)
	if err := os.WriteFile(filepath.Join(dir, "Reference", "Ipd_Charge_Code_Commercial.csv"), content, 0644); err != nil {
		t.Fatal(err)
	}

	src, _ := model.SourceByName("code_master")
	tbl, err := Load(dir, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.Field(0, "srv_desc"); got != "Café Meal" {
		t.Errorf("srv_desc = %q, want Café Meal", got)
	}
}
