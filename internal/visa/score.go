// Package visa scores listings for work-visa friendliness using ordered
// phrase tables. Every matched phrase lands in the reason string.
//
// Score range 0-5:
//
//	0-1  negative signals (citizen/PR required, clearance)
//	2-3  no clear signals
//	4-5  positive signals (sponsorship, international candidates)
package visa

import (
	"strings"

	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
)

// NoSignalsReason is the reason attached when nothing matches.
const NoSignalsReason = "no visa-related signals detected"

const (
	baseline      = 3
	negativeDelta = -2
	moderateDelta = -1
	positiveDelta = +2
)

type Scorer struct {
	signals config.VisaSignals
}

func New(signals config.VisaSignals) *Scorer {
	return &Scorer{signals: signals}
}

// Score evaluates title+summary against the four signal tables in order:
// negative, moderate-negative, positive, neutral. The same text always
// yields the same score and reason.
func (s *Scorer) Score(job models.Job) (int, string) {
	text := strings.ToLower(job.Title + " " + job.Summary)

	score := baseline
	var reasons []string

	for _, sig := range s.signals.Negative {
		if strings.Contains(text, sig.Phrase) {
			score += negativeDelta
			reasons = append(reasons, "[-] "+sig.Label)
		}
	}
	for _, sig := range s.signals.ModerateNegative {
		if strings.Contains(text, sig.Phrase) {
			score += moderateDelta
			reasons = append(reasons, "[-] "+sig.Label)
		}
	}
	for _, sig := range s.signals.Positive {
		if strings.Contains(text, sig.Phrase) {
			score += positiveDelta
			reasons = append(reasons, "[+] "+sig.Label)
		}
	}
	for _, sig := range s.signals.Neutral {
		if strings.Contains(text, sig.Phrase) {
			// recorded but worth nothing
			reasons = append(reasons, "[~] "+sig.Label)
		}
	}

	if len(reasons) == 0 {
		return baseline, NoSignalsReason
	}
	return clamp(score), strings.Join(reasons, "; ")
}

// ScoreAll scores every job in place and returns the slice.
func (s *Scorer) ScoreAll(jobs []models.Job) []models.Job {
	for i := range jobs {
		jobs[i].VisaScore, jobs[i].VisaReason = s.Score(jobs[i])
	}
	return jobs
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}
