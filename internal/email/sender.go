// Package email sends the run summary over SMTP: an inline HTML table of
// the new jobs plus the CSV artifact attached.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
)

// DeliveryError wraps a transport failure. The pipeline downgrades it to
// a warning; state is persisted either way and the local artifacts exist.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// Configured reports whether SMTP credentials are present.
func (s *Sender) Configured() bool {
	return s.cfg.EmailAddress != "" && s.cfg.EmailPassword != ""
}

// Send delivers the daily summary with the CSV attached.
func (s *Sender) Send(ctx context.Context, jobs []models.Job, csvPath string, runDate time.Time) error {
	subject := fmt.Sprintf("Daily Junior/Grad Jobs – Adelaide & Melbourne – %s", runDate.Format("2006-01-02"))
	body, err := buildHTMLBody(jobs, runDate)
	if err != nil {
		return &DeliveryError{Channel: "email", Err: err}
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.EmailAddress); err != nil {
		return &DeliveryError{Channel: "email", Err: err}
	}
	if err := msg.To(s.cfg.EmailTo); err != nil {
		return &DeliveryError{Channel: "email", Err: err}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	if csvPath != "" {
		msg.AttachFile(csvPath)
	}

	client, err := mail.NewClient(s.cfg.SMTPServer,
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.EmailAddress),
		mail.WithPassword(s.cfg.EmailPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return &DeliveryError{Channel: "email", Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Channel: "email", Err: err}
	}
	return nil
}

const bodyTemplate = `<html><body>
<h2>JobRadar – Daily Junior/Grad Jobs</h2>
<p>Adelaide &amp; Melbourne | {{.RunDate}} | <strong>{{.Count}} new listings</strong></p>
<table border="1" cellspacing="0" cellpadding="5" style="border-collapse:collapse;font-size:12px">
<thead style="background:#2c3e50;color:white">
  <tr>
    <th>Date</th><th>Source</th><th>Title</th><th>Company</th>
    <th>Location</th><th>Tags</th><th>Visa</th><th>Visa Reason</th>
  </tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
  <td>{{.Date}}</td>
  <td>{{.Source}}</td>
  <td><a href="{{.URL}}">{{.Title}}</a></td>
  <td>{{.Company}}</td>
  <td>{{.Location}}</td>
  <td>{{.Tags}}</td>
  <td style="color:{{.Color}};font-weight:bold">{{.Score}}</td>
  <td>{{.Reason}}</td>
</tr>
{{- end}}
</tbody>
</table>
<p style="font-size:11px;color:#888">Sent by JobRadar – automated job aggregator</p>
</body></html>
`

var bodyTmpl = template.Must(template.New("body").Parse(bodyTemplate))

type bodyRow struct {
	Date, Source, Title, Company, Location, Tags, Score, Reason string
	Color                                                       string
	URL                                                         template.URL
}

func buildHTMLBody(jobs []models.Job, runDate time.Time) (string, error) {
	rows := make([]bodyRow, 0, len(jobs))
	for _, j := range jobs {
		score := "–"
		if j.Scored() {
			score = fmt.Sprintf("%d", j.VisaScore)
		}
		rows = append(rows, bodyRow{
			Date:     j.DateFound.Format("2006-01-02"),
			Source:   j.Source,
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			Tags:     strings.Join(j.Tags, ", "),
			Score:    score,
			Reason:   j.VisaReason,
			Color:    scoreColor(j.VisaScore),
			URL:      template.URL(j.URL),
		})
	}

	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, struct {
		RunDate string
		Count   int
		Rows    []bodyRow
	}{runDate.Format("2006-01-02"), len(jobs), rows})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func scoreColor(score int) string {
	switch {
	case score >= 4:
		return "green"
	case score >= 0 && score <= 1:
		return "red"
	default:
		return "gray"
	}
}
