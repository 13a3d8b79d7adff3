package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"

	"go-jobradar/internal/models"
)

// Dedupe filters jobs against the known fingerprint set and collapses
// duplicates within the batch. Returns the fresh jobs with HashID set and
// the updated fingerprint set. The input set is not mutated; the caller
// persists the updated set after the run succeeds.
//
// Within-run duplicates keep the job with the longer summary, ties broken
// by earliest source in sourcePriority.
func Dedupe(jobs []models.Job, known mapset.Set[string], sourcePriority []string) ([]models.Job, mapset.Set[string]) {
	prio := make(map[string]int, len(sourcePriority))
	for i, s := range sourcePriority {
		prio[s] = i
	}

	fresh := make([]models.Job, 0, len(jobs))
	byFingerprint := make(map[string]int) // fingerprint -> index in fresh

	for _, job := range jobs {
		job.HashID = Fingerprint(job.Title, job.Company, job.Location, job.URL)

		if known.Contains(job.HashID) {
			continue // already seen in a prior run
		}
		if idx, ok := byFingerprint[job.HashID]; ok {
			fresh[idx] = pickRepresentative(fresh[idx], job, prio)
			continue
		}
		byFingerprint[job.HashID] = len(fresh)
		fresh = append(fresh, job)
	}

	updated := known.Clone()
	for _, job := range fresh {
		updated.Add(job.HashID)
	}
	return fresh, updated
}

func pickRepresentative(a, b models.Job, prio map[string]int) models.Job {
	if len(b.Summary) > len(a.Summary) {
		return b
	}
	if len(b.Summary) == len(a.Summary) && priorityOf(b.Source, prio) < priorityOf(a.Source, prio) {
		return b
	}
	return a
}

func priorityOf(source string, prio map[string]int) int {
	if i, ok := prio[source]; ok {
		return i
	}
	return len(prio) // unlisted sources lose ties
}
