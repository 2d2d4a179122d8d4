// Package report renders a RunReport for the console and as a Markdown or JSON artifact.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/utils"
)

const histogramWidth = 30

var funcs = template.FuncMap{
	"peso":      utils.FormatPeso,
	"pct":       func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
	"dur":       func(d time.Duration) string { return d.Round(time.Millisecond).String() },
	"date":      func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"bar":       histogramBar,
	"maxBucket": maxBucket,
	"classes": func(m map[string]int) string {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
		}
		return strings.Join(parts, " ")
	},
}

var markdownTmpl = template.Must(template.New("report.md").Funcs(funcs).Parse(`# Seeder run {{.RunID}}

| | |
|---|---|
| Command | {{.Command}} |
| Backend | {{.Backend}}{{if .DryRun}} (dry run){{end}} |
| Profile | {{.Profile}}{{if .RepairProfile}} / repair {{.RepairProfile}}{{end}} |
| Started | {{date .StartedAt}} |
| Duration | {{dur .Duration}} |
| Transactions at start | {{.Snapshot.TransactionCount}} |
| Items at start | {{.Snapshot.ItemCount}} |
{{- if .Snapshot.CatalogSynthesized}}
| Catalog | synthesized fallback |
{{- end}}
{{with .Generation}}
## Generation

- Requested: {{.Requested}}
- Transactions created: {{.TransactionsCreated}} (missed {{.TransactionsMissed}})
- Items created: {{.ItemsCreated}} (dropped {{.ItemsDropped}})
- Totals updated: {{.TotalsUpdated}}
{{end}}
{{- with .Commits}}
## Writes

| Table | Attempted | Committed | Failed | Batches | Skipped | Retries | Failures |
|---|---:|---:|---:|---:|---:|---:|---|
{{- range .}}
| {{.Table}} | {{.Attempted}} | {{.Committed}} | {{.Failed}} | {{.Batches}} | {{.SkippedBatches}} | {{.Retries}} | {{classes .FailuresByClass}} |
{{- end}}
{{end}}
{{- with .Repair}}
## Gap repair

- Passes: {{.Passes}}, gaps per pass: {{.GapsPerPass}}
- Repaired: {{.Repaired}} of {{.InitialGaps}}, items added {{.ItemsAdded}}
- Residual: {{.Residual}}
{{end}}
{{- with .Enhance}}
## Enhancement

- Examined {{.Examined}}, enhanced {{.Enhanced}}, items added {{.ItemsAdded}}
{{end}}
{{- with .Satellites}}
## Flavor data

- Substitutions: {{.SubstitutionsCreated}} of {{.SubstitutionAttempts}} attempts
- Customers updated: {{.CustomersUpdated}} of {{.CustomersExamined}}
{{end}}
{{- with .Verification}}
## Verification: {{if .Passed}}PASSED{{else}}NEEDS ATTENTION{{end}}

- Transactions: {{.TransactionCount}} / target {{.Target}}
- Items: {{.ItemCount}} ({{printf "%.2f" .ItemsPerTransaction}} per transaction)
- Zero-item transactions: {{.ZeroItemCount}}
- Invalid items: {{.InvalidItemCount}}
- Floor violations: {{.FloorViolations}}
- Revenue: stored {{peso .StoredRevenue}} vs items {{peso .ItemRevenue}} ({{pct .DiscrepancyPct}}, {{.Grade}})

| Items | Transactions |
|---:|---:|
{{- range .Histogram}}
| {{.Items}} | {{.Transactions}} |
{{- end}}
{{end}}
{{- with .Warnings}}
## Warnings
{{range .}}
- {{.}}
{{- end}}
{{end}}`))

var consoleTmpl = template.Must(template.New("console").Funcs(funcs).Parse(`
==== {{.Command}} summary ({{.Backend}}{{if .DryRun}}, dry run{{end}}) ====
Run {{.RunID}} finished in {{dur .Duration}}, profile {{.Profile}}
Start: {{.Snapshot.TransactionCount}} transactions, {{.Snapshot.ItemCount}} items
{{- with .Generation}}
Created {{.TransactionsCreated}}/{{.Requested}} transactions ({{.TransactionsMissed}} missed), {{.ItemsCreated}} items ({{.ItemsDropped}} dropped)
{{- end}}
{{- range .Commits}}
  {{printf "%-22s" .Table}} {{.Committed}}/{{.Attempted}} committed{{if .Failed}}, {{.Failed}} failed [{{classes .FailuresByClass}}]{{end}}
{{- end}}
{{- with .Repair}}
Repair: {{.Repaired}}/{{.InitialGaps}} gaps fixed in {{.Passes}} passes, residual {{.Residual}}
{{- end}}
{{- with .Enhance}}
Enhance: {{.Enhanced}}/{{.Examined}} transactions, +{{.ItemsAdded}} items
{{- end}}
{{- with .Satellites}}
Flavor: {{.SubstitutionsCreated}} substitutions, {{.CustomersUpdated}} customers updated
{{- end}}
{{- with .Verification}}
Verification: {{if .Passed}}PASSED{{else}}NEEDS ATTENTION{{end}}
  transactions {{.TransactionCount}}/{{.Target}}, items {{.ItemCount}} ({{printf "%.2f" .ItemsPerTransaction}}/txn)
  revenue {{peso .StoredRevenue}} vs {{peso .ItemRevenue}} ({{pct .DiscrepancyPct}}, {{.Grade}})
  items per transaction:
{{- $max := maxBucket .Histogram}}
{{- range .Histogram}}
  {{printf "%3d" .Items}} | {{bar .Transactions $max}} {{.Transactions}}
{{- end}}
{{- end}}
{{- range .Warnings}}
WARN {{.}}
{{- end}}
`))

func maxBucket(buckets []domain.HistogramBucket) int64 {
	var m int64
	for _, b := range buckets {
		m = max(m, b.Transactions)
	}
	return m
}

func histogramBar(n, top int64) string {
	if top <= 0 {
		return ""
	}
	width := int(n * histogramWidth / top)
	if n > 0 && width == 0 {
		width = 1
	}
	return strings.Repeat("#", width)
}

// PrintSummary writes the human-readable run summary.
func PrintSummary(w io.Writer, r domain.RunReport) error {
	return consoleTmpl.Execute(w, r)
}

// RenderMarkdown writes the Markdown artifact.
func RenderMarkdown(w io.Writer, r domain.RunReport) error {
	return markdownTmpl.Execute(w, r)
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r domain.RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path, as JSON when the extension is .json and as
// Markdown otherwise.
func WriteFile(path string, r domain.RunReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	render := RenderMarkdown
	if strings.EqualFold(filepath.Ext(path), ".json") {
		render = RenderJSON
	}
	if err := render(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
