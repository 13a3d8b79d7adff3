package models

import (
	"strconv"
	"strings"
	"time"
)

// VisaScoreUnset marks a job that has not been through the visa scorer yet.
const VisaScoreUnset = -1

// Job is a single normalised job listing from any source.
// Connectors never touch it after creation; the dedup engine sets HashID
// and the visa scorer sets VisaScore/VisaReason.
type Job struct {
	Source     string    `json:"source"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	URL        string    `json:"url"`
	DateFound  time.Time `json:"date_found"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	VisaScore  int       `json:"visa_score"`
	VisaReason string    `json:"visa_reason"`
	HashID     string    `json:"hash_id"`
}

// Scored reports whether the visa scorer has run on this job.
func (j Job) Scored() bool {
	return j.VisaScore >= 0
}

// HasTag reports whether the job carries the given tag.
func (j Job) HasTag(tag string) bool {
	for _, t := range j.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CSVHeader is the column order used by the CSV renderer and email attachment.
var CSVHeader = []string{
	"source", "title", "company", "location", "url",
	"date_found", "summary", "tags", "visa_score", "visa_reason", "hash_id",
}

// CSVRow returns the job as a row matching CSVHeader. Tags are pipe-joined.
func (j Job) CSVRow() []string {
	score := "-"
	if j.Scored() {
		score = strconv.Itoa(j.VisaScore)
	}
	return []string{
		j.Source,
		j.Title,
		j.Company,
		j.Location,
		j.URL,
		j.DateFound.Format("2006-01-02"),
		j.Summary,
		strings.Join(j.Tags, "|"),
		score,
		j.VisaReason,
		j.HashID,
	}
}
