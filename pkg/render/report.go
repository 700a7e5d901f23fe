// Render HTML for the run report

package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/yosssi/gohtml"
)

var report_page_template *template.Template

// init initializes the templates used for rendering the run report.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Domain architecture report</title>
	</head>
	<body>
		<h1>Domain architecture report</h1>
		<p>Run {{ .RunID }} (domarch {{ .Version }})</p>
		{{template "family_table" .}}
	</body>
	</html>`

	familyTableTmpl := `
	{{define "family_table"}}
	<table border="1">
		<tr>
			<th>Family</th>
			<th>Systems</th>
			<th>Skipped systems</th>
			<th>Skipped records</th>
			<th>Characteristic domains</th>
			<th>Artifacts</th>
		</tr>
		{{range .Families}}
		<tr>
			<td>{{ .FamID }}{{ if .Rescue }} (rescue){{ end }}{{ if .Empty }} [empty]{{ end }}{{ if .Failed }} [failed]{{ end }}</td>
			<td>{{ .Systems }}</td>
			<td>{{ .SkippedSystems }}</td>
			<td>{{ .SkippedRecords }}</td>
			<td>{{ join .Characteristic ", " }}</td>
			<td>
				{{range .Plots}}[<a href="{{ . }}">{{ plotName . }}</a>] {{end}}
				{{ if .CSV }}[<a href="{{ .CSV }}">csv</a>]{{ end }}
			</td>
		</tr>
		{{end}}
	</table>
	{{end}}`

	funcMap := template.FuncMap{
		"join": strings.Join,
		"plotName": func(p string) string {
			base := p[strings.LastIndex(p, "/")+1:]
			return strings.TrimSuffix(base, ".svg")
		},
	}

	report_page_template = template.Must(template.New("report_page").Funcs(funcMap).Parse(mainTmpl))
	template.Must(report_page_template.Parse(familyTableTmpl))
}

// ReportFamily is one family row in the run report.
type ReportFamily struct {
	FamID          string
	Systems        int
	SkippedSystems int
	SkippedRecords int
	Empty          bool
	Rescue         bool
	Failed         bool
	Characteristic []string
	Plots          []string // paths relative to the report page
	CSV            string
}

// ReportData feeds the report page.
type ReportData struct {
	RunID    string
	Version  string
	Families []ReportFamily
}

// RenderReportPage writes the index page linking every family's artifacts.
func RenderReportPage(w io.Writer, data ReportData) error {

	var buf bytes.Buffer
	if err := report_page_template.Execute(&buf, data); err != nil {
		return err
	}

	_, err := w.Write(gohtml.FormatBytes(buf.Bytes()))
	return err
}
