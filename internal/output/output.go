// Package output renders a scored job list to the local artifacts: CSV,
// HTML, and Markdown. Each renderer is a pure function of the job list;
// one format failing never blocks the others.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-jobradar/internal/models"
)

// Artifact is one rendered output file.
type Artifact struct {
	Format string
	Path   string
}

// RenderError is a per-format failure; the run reports partial success.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// RenderAll writes every format into dir, collecting per-format errors
// instead of stopping at the first.
func RenderAll(jobs []models.Job, dir string, runDate time.Time) ([]Artifact, []error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, []error{&RenderError{Format: "all", Err: err}}
	}

	var artifacts []Artifact
	var errs []error

	renderers := []struct {
		format string
		render func([]models.Job, string, time.Time) (string, error)
	}{
		{"csv", SaveCSV},
		{"html", SaveHTML},
		{"markdown", SaveMarkdown},
		{"json", SaveJSON},
	}
	for _, r := range renderers {
		path, err := r.render(jobs, dir, runDate)
		if err != nil {
			errs = append(errs, &RenderError{Format: r.format, Err: err})
			continue
		}
		artifacts = append(artifacts, Artifact{Format: r.format, Path: path})
	}
	return artifacts, errs
}

// SaveCSV writes jobs to <dir>/jobs_YYYY-MM-DD.csv and returns the path.
func SaveCSV(jobs []models.Job, dir string, runDate time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("jobs_%s.csv", runDate.Format("2006-01-02")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader); err != nil {
		return "", err
	}
	for _, job := range jobs {
		if err := w.Write(job.CSVRow()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// SaveJSON writes the full job records to <dir>/jobs_YYYY-MM-DD.json,
// the machine-readable run log.
func SaveJSON(jobs []models.Job, dir string, runDate time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("jobs_%s.json", runDate.Format("2006-01-02")))
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveMarkdown writes jobs to <dir>/jobs_YYYY-MM-DD.md and returns the path.
func SaveMarkdown(jobs []models.Job, dir string, runDate time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("jobs_%s.md", runDate.Format("2006-01-02")))

	var b []byte
	b = fmt.Appendf(b, "# JobRadar – %s\n\n", runDate.Format("2006-01-02"))
	b = fmt.Appendf(b, "*Adelaide & Melbourne | %d listings*\n\n", len(jobs))
	b = append(b, "| Date | Source | Title | Company | Location | Tags | Visa | Visa Reason |\n"...)
	b = append(b, "|------|--------|-------|---------|----------|------|------|-------------|\n"...)
	for _, j := range jobs {
		score := "–"
		if j.Scored() {
			score = fmt.Sprintf("%d", j.VisaScore)
		}
		b = fmt.Appendf(b, "| %s | %s | [%s](%s) | %s | %s | %s | %s | %s |\n",
			j.DateFound.Format("2006-01-02"), j.Source,
			mdEscape(j.Title), j.URL, mdEscape(j.Company), j.Location,
			mdEscape(joinTags(j.Tags)), score, mdEscape(j.VisaReason))
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}

// mdEscape keeps pipes out of table cells.
func mdEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
