package model

// Source describes one raw input feeding the pipeline. Folder sources hold
// one or more CSV exports that are concatenated row-wise; file sources are
// single reference CSVs under the data directory.
type Source struct {
	Name     string // pipeline name, e.g. "ip_detail"
	Dir      string // folder under the data dir; empty for file sources
	File     string // reference file path under the data dir; empty for folder sources
	SkipRows int    // leading rows to discard before the header
	Encoding string // "" (UTF-8) or "windows-1252"
	Columns  []string
}

// AllSources lists every raw input in canonical load order. Column lists are
// the raw HIS export headers each cleaner requires; a missing column aborts
// the batch.
var AllSources = []Source{
	{
		Name: "ip_detail", Dir: "IP Details", SkipRows: 3,
		Columns: []string{"ip_no", "vch_dt", "rev_dt", "srv_desc", "chrg_cd3", "chrg_desc2", "ShrDoc1", "ptn_cls_desc", "no_units", "amt"},
	},
	{
		Name: "ip_discharge", Dir: "IP Discharge",
		Columns: []string{"Textbox142", "ip_no", "Ptn_No", "WrdDesc", "cse_typ_dcd", "dcd", "rm_name", "bed_no", "Ptn_Cls_Dcd", "DocName", "refname", "dschg_dt", "BillAmt", "ConcAmt", "stlmt_amt", "DepBalAmt", "trnvalue"},
	},
	{
		Name: "admission_list", Dir: "Admission list",
		Columns: []string{"ip_no", "Textbox73"},
	},
	{
		Name: "op_detail", Dir: "OP details", SkipRows: 3,
		Columns: []string{"vch_no", "vch_dt", "DoctorFullName", "srv_desc", "ShrDoc", "UNITS1", "NetAmt"},
	},
	{
		Name: "op_discharge", Dir: "OP Discharge",
		Columns: []string{"vch_no", "ptn_no", "rev_dt1", "Textbox88"},
	},
	{
		Name: "patient_details", Dir: "Patient Details",
		Columns: []string{"crt_dt", "ptn_no", "PtnName", "Age", "sex", "Religion", "prmnt_addrs1", "prmnt_addrs2", "mobile"},
	},
	{
		Name: "op_deposit", Dir: "OP Deposit",
		Columns: []string{"rev_dt", "Textbox53", "dep_typ_dcd1", "Dep_Amt", "Textbox29"},
	},
	{
		Name: "expired_patients", Dir: "Expire Patient",
		Columns: []string{"ip_no"},
	},
	{
		Name: "doctor_master", File: "Reference/Doctor_Master.csv",
		Columns: []string{"DOCTOR NAME", "SPECIALITY"},
	},
	{
		Name: "code_master", File: "Reference/Ipd_Charge_Code_Commercial.csv", Encoding: "windows-1252",
		Columns: []string{"srv_desc", "Group"},
	},
	{
		Name: "opd_group_master", File: "Reference/opd_group.csv",
		Columns: []string{"srv_desc", "Group"},
	},
	{
		Name: "marketing_agents", File: "Reference/Marketing Agents.csv",
		Columns: []string{"Marketing Agents"},
	},
	{
		Name: "tpa_mapping", File: "Reference/tpa.csv",
		Columns: []string{"Company", "Type of Company"},
	},
	{
		Name: "op_charge_codes", File: "Reference/op_charge_codes.csv",
		Columns: []string{"srv_desc"},
	},
}

// SourceByName returns the Source for the given name, or ok=false.
func SourceByName(name string) (Source, bool) {
	for _, s := range AllSources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// SourceNames returns the names of all sources in canonical order.
func SourceNames() []string {
	names := make([]string, len(AllSources))
	for i, s := range AllSources {
		names[i] = s.Name
	}
	return names
}
