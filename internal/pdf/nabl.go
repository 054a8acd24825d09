package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/meditrak/opsdash/internal/report"
)

type nablSection struct {
	Title string
	Rows  []report.NABLRow
}

// nablTemplate lays out the three monthly cross-tabs on one A4 document.
var nablTemplate = template.Must(template.New("nabl").Funcs(template.FuncMap{
	"section": func(title string, rows []report.NABLRow) nablSection {
		return nablSection{Title: title, Rows: rows}
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>NABL Monthly Report - {{.Month}} {{.Year}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; font-size: 12px; margin: 24px; }
  h1 { font-size: 18px; text-align: center; }
  h2 { font-size: 14px; margin-top: 28px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #444; padding: 4px 8px; text-align: center; }
  th { background: #eee; }
  td.band { text-align: left; }
  tr.total { font-weight: bold; }
</style>
</head>
<body>
<h1>Monthly Admission / Discharge / Death Report - {{.Month}} {{.Year}}</h1>
{{template "crosstab" section "Admissions" .Admissions}}
{{template "crosstab" section "Discharges" .Discharges}}
{{template "crosstab" section "Deaths" .Deaths}}
</body>
</html>
{{define "crosstab"}}
<h2>{{.Title}}</h2>
<table>
  <tr><th>Age group</th><th>Male</th><th>Female</th><th>Total</th></tr>
  {{range .Rows}}
  <tr{{if eq .Band "Total"}} class="total"{{end}}>
    <td class="band">{{.Band}}</td><td>{{.Male}}</td><td>{{.Female}}</td><td>{{.Total}}</td>
  </tr>
  {{end}}
</table>
{{end}}`))

// NABLHTML builds the printable HTML document for the monthly report. Kept
// separate from rendering so it is testable without Chrome.
func NABLHTML(rep *report.NABLReport) (string, error) {
	var buf bytes.Buffer
	if err := nablTemplate.Execute(&buf, rep); err != nil {
		return "", fmt.Errorf("build NABL document: %w", err)
	}
	return buf.String(), nil
}
