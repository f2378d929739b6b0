package export

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/report"
)

// Analysis is everything the reporter renders for one dataset.
type Analysis struct {
	Path       string
	Summary    report.Summary
	SampleKind domain.ResourceKind
	Sample     report.Sample
}

type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Handle(analysis Analysis) error {
	funcMap := template.FuncMap{
		"joinTags": func(tags []string) string {
			return strings.Join(tags, ", ")
		},
	}

	tmpl := `Analyzing: {{.Path}}

Total resources with missing tags: {{.Summary.Total}}

Resources by type:
{{- range .Summary.ByKind}}
  {{.Key}}: {{.Count}}
{{- end}}

Resources by region:
{{- range .Summary.ByRegion}}
  {{.Key}}: {{.Count}}
{{- end}}

Most commonly missing tags:
{{- range .Summary.ByTag}}
  {{.Key}}: {{.Count}} resources
{{- end}}
{{- if .Sample.Findings}}

{{.SampleKind}}s with missing tags ({{len .Sample.Findings}} shown):
{{- range .Sample.Findings}}
  {{.Region}}: {{.ARN}} (missing: {{joinTags .MissingTags}})
{{- end}}
{{- if gt .Sample.Omitted 0}}
  ... and {{.Sample.Omitted}} more
{{- end}}
{{- end}}
`

	t, err := template.New("analysis").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return err
	}
	return t.Execute(r.writer, analysis)
}
