package output

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-jobradar/internal/models"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>JobRadar – {{.RunDate}}</title>
  <style>
    body { font-family: Arial, sans-serif; font-size: 13px; margin: 20px; }
    h1   { color: #2c3e50; }
    table { border-collapse: collapse; width: 100%; }
    th   { background: #2c3e50; color: white; padding: 8px; text-align: left; }
    td   { border: 1px solid #ddd; padding: 6px; vertical-align: top; }
    tr:nth-child(even) { background: #f9f9f9; }
    .score-high { color: green; font-weight: bold; }
    .score-low  { color: red; font-weight: bold; }
    .score-mid  { color: #888; }
    a { color: #2980b9; }
  </style>
</head>
<body>
  <h1>JobRadar – Junior/Grad Tech Jobs</h1>
  <p>Adelaide &amp; Melbourne | Run date: {{.RunDate}} | {{.Count}} listings</p>
  <table>
    <thead>
      <tr>
        <th>Date</th><th>Source</th><th>Title</th><th>Company</th>
        <th>Location</th><th>Summary</th><th>Tags</th>
        <th>Visa Score</th><th>Visa Reason</th>
      </tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr>
        <td>{{.Date}}</td>
        <td>{{.Source}}</td>
        <td><a href="{{.URL}}" target="_blank">{{.Title}}</a></td>
        <td>{{.Company}}</td>
        <td>{{.Location}}</td>
        <td>{{.Summary}}</td>
        <td>{{.Tags}}</td>
        <td class="{{.ScoreClass}}">{{.Score}}</td>
        <td>{{.Reason}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportData struct {
	RunDate string
	Count   int
	Rows    []reportRow
}

type reportRow struct {
	Date       string
	Source     string
	Title      string
	Company    string
	Location   string
	Summary    string
	Tags       string
	Score      string
	ScoreClass string
	URL        template.URL
	Reason     string
}

// SaveHTML writes jobs to <dir>/jobs_YYYY-MM-DD.html and returns the path.
func SaveHTML(jobs []models.Job, dir string, runDate time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("jobs_%s.html", runDate.Format("2006-01-02")))

	data := reportData{
		RunDate: runDate.Format("2006-01-02"),
		Count:   len(jobs),
		Rows:    make([]reportRow, 0, len(jobs)),
	}
	for _, j := range jobs {
		data.Rows = append(data.Rows, buildRow(j))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := reportTmpl.Execute(f, data); err != nil {
		return "", err
	}
	return path, nil
}

func buildRow(j models.Job) reportRow {
	summary := j.Summary
	if r := []rune(summary); len(r) > 200 {
		summary = string(r[:200])
	}
	score := "–"
	if j.Scored() {
		score = fmt.Sprintf("%d", j.VisaScore)
	}
	return reportRow{
		Date:       j.DateFound.Format("2006-01-02"),
		Source:     j.Source,
		Title:      j.Title,
		Company:    j.Company,
		Location:   j.Location,
		Summary:    summary,
		Tags:       strings.Join(j.Tags, ", "),
		Score:      score,
		ScoreClass: scoreClass(j.VisaScore),
		URL:        template.URL(j.URL),
		Reason:     j.VisaReason,
	}
}

func scoreClass(score int) string {
	switch {
	case score >= 4:
		return "score-high"
	case score >= 0 && score <= 1:
		return "score-low"
	default:
		return "score-mid"
	}
}
