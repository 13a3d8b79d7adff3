// Package pipeline sequences one batch run: collect from every source,
// normalize, dedupe against persistent state, score, render, deliver.
// One connector blowing up never takes the run down; only state-store
// failure is fatal.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"go-jobradar/internal/config"
	"go-jobradar/internal/connector"
	"go-jobradar/internal/dedup"
	"go-jobradar/internal/models"
	"go-jobradar/internal/normalize"
	"go-jobradar/internal/output"
	"go-jobradar/internal/visa"
)

// Stage is where a run currently is, or where it ended.
type Stage string

const (
	StageInit        Stage = "init"
	StageCollecting  Stage = "collecting"
	StageNormalizing Stage = "normalizing"
	StageDeduping    Stage = "deduping"
	StageScoring     Stage = "scoring"
	StageRendering   Stage = "rendering"
	StageDelivering  Stage = "delivering"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// collectLimit bounds concurrent connector fetches so per-source rate
// limits stay meaningful.
const collectLimit = 3

// EmailSender is the email delivery collaborator.
type EmailSender interface {
	Configured() bool
	Send(ctx context.Context, jobs []models.Job, csvPath string, runDate time.Time) error
}

// Notifier is the per-job push collaborator (Telegram).
type Notifier interface {
	SendJob(job models.Job) error
	SendStatus(text string) error
}

// SourceResult is one connector's contribution to a run.
type SourceResult struct {
	Source    string
	Collected int
	Err       error
}

// Report summarizes a finished run for the caller and the logs.
type Report struct {
	Stage   Stage
	RunDate time.Time

	Sources    []SourceResult
	Collected  int // raw records from all sources
	Rejected   int // dropped by the normalizer's filtering policy
	Normalized int // canonical jobs before dedupe
	Duplicates int // dropped as within-run or cross-run duplicates
	Fresh      int // new jobs that made it to output

	Artifacts      []output.Artifact
	RenderErrors   []error
	DeliveryErrors []error

	Err error // set when Stage == StageFailed
}

// Pipeline wires the run. Collaborators are injectable so tests can swap
// fakes in; New fills production defaults.
type Pipeline struct {
	Cfg        *config.Config
	Connectors []connector.Connector
	Store      dedup.Store
	Email      EmailSender // nil = no email channel
	Notifier   Notifier    // nil = no telegram channel

	// NoPersist skips the state save (--no-persist); unlike dry-run it
	// leaves delivery on.
	NoPersist bool

	normalizer *normalize.Normalizer
	scorer     *visa.Scorer
}

func New(cfg *config.Config, connectors []connector.Connector, store dedup.Store) *Pipeline {
	return &Pipeline{
		Cfg:        cfg,
		Connectors: connectors,
		Store:      store,
		normalizer: normalize.New(cfg),
		scorer:     visa.New(cfg.Visa),
	}
}

// Run executes one batch run and always returns a report; the error is
// non-nil only for fatal failures (report.Stage == StageFailed).
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{Stage: StageInit, RunDate: time.Now()}

	if p.normalizer == nil {
		p.normalizer = normalize.New(p.Cfg)
	}
	if p.scorer == nil {
		p.scorer = visa.New(p.Cfg.Visa)
	}

	// ── Init: load prior fingerprint state ────────────────────────────
	known, err := p.Store.Load(ctx)
	if err != nil {
		return p.fail(report, err)
	}
	log.Printf("📋 [pipeline] Loaded %d previously seen fingerprints", known.Cardinality())

	since, err := p.Cfg.Since()
	if err != nil {
		return p.fail(report, err)
	}
	opts := connector.FetchOptions{
		Locations: p.Cfg.Locations,
		Since:     since,
	}

	// ── Collecting: all sources, bounded concurrency, isolated failures ──
	report.Stage = StageCollecting
	results := p.collect(ctx, opts)

	// ── Normalizing ───────────────────────────────────────────────────
	report.Stage = StageNormalizing
	var all []models.Job
	for _, res := range results {
		report.Sources = append(report.Sources, SourceResult{
			Source:    res.name,
			Collected: len(res.records),
			Err:       res.err,
		})
		report.Collected += len(res.records)

		jobs, rejected := p.normalizer.NormalizeAll(res.records, res.name)
		report.Rejected += rejected
		all = append(all, jobs...)
	}
	report.Normalized = len(all)
	log.Printf("📦 [pipeline] Collected %d raw records → %d normalized (%d rejected)",
		report.Collected, report.Normalized, report.Rejected)

	// ── Deduping ──────────────────────────────────────────────────────
	report.Stage = StageDeduping
	fresh, updated := dedup.Dedupe(all, known, p.Cfg.SourcePriority)
	report.Duplicates = report.Normalized - len(fresh)
	report.Fresh = len(fresh)
	log.Printf("🔍 [pipeline] Dedupe: %d → %d new (filtered %d duplicates)",
		report.Normalized, report.Fresh, report.Duplicates)

	// ── Scoring (strictly post-dedupe) ────────────────────────────────
	report.Stage = StageScoring
	fresh = p.scorer.ScoreAll(fresh)
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].VisaScore != fresh[j].VisaScore {
			return fresh[i].VisaScore > fresh[j].VisaScore
		}
		return strings.ToLower(fresh[i].Title) < strings.ToLower(fresh[j].Title)
	})

	// ── Rendering: each format isolated ───────────────────────────────
	report.Stage = StageRendering
	var csvPath string
	if len(fresh) > 0 {
		artifacts, errs := output.RenderAll(fresh, p.Cfg.OutputDir, report.RunDate)
		report.Artifacts = artifacts
		report.RenderErrors = errs
		for _, e := range errs {
			log.Printf("⚠️ [pipeline] Render error: %v", e)
		}
		for _, a := range artifacts {
			log.Printf("📁 [pipeline] %s saved → %s", a.Format, a.Path)
			if a.Format == "csv" {
				csvPath = a.Path
			}
		}
	} else {
		log.Println("ℹ️ [pipeline] No new listings after deduplication")
	}

	// ── Persist state before delivery: "seen" means notification-worthy,
	// not successfully delivered ──────────────────────────────────────
	if p.NoPersist {
		log.Println("ℹ️ [pipeline] State persistence skipped (--no-persist)")
	} else if err := p.Store.Save(ctx, updated); err != nil {
		return p.fail(report, err)
	}

	// ── Delivering ────────────────────────────────────────────────────
	report.Stage = StageDelivering
	if p.Cfg.DryRun {
		log.Println("ℹ️ [pipeline] Delivery skipped (dry run)")
	} else if len(fresh) > 0 {
		report.DeliveryErrors = p.deliver(ctx, fresh, csvPath, report.RunDate)
	}

	report.Stage = StageDone
	log.Printf("🏁 [pipeline] Done. %d new jobs", report.Fresh)
	return report, nil
}

type collectResult struct {
	name    string
	records []connector.RawRecord
	err     error
}

func (p *Pipeline) collect(ctx context.Context, opts connector.FetchOptions) []collectResult {
	results := make([]collectResult, len(p.Connectors))

	var g errgroup.Group
	g.SetLimit(collectLimit)
	for i, c := range p.Connectors {
		g.Go(func() error {
			log.Printf("▶️ [pipeline] Starting source: %s", c.Name())
			records, err := c.Fetch(ctx, opts)
			if err != nil {
				// isolated: this source contributes nothing, run continues
				log.Printf("❌ [pipeline] Source %s failed: %v", c.Name(), err)
			}
			results[i] = collectResult{name: c.Name(), records: records, err: err}
			return nil
		})
	}
	g.Wait()
	return results
}

func (p *Pipeline) deliver(ctx context.Context, jobs []models.Job, csvPath string, runDate time.Time) []error {
	var errs []error

	if p.Email != nil && p.Email.Configured() {
		if err := p.Email.Send(ctx, jobs, csvPath, runDate); err != nil {
			log.Printf("⚠️ [pipeline] Email delivery failed: %v", err)
			errs = append(errs, err)
		} else {
			log.Println("📧 [pipeline] Email sent")
		}
	}

	if p.Notifier != nil {
		sent := 0
		for _, job := range jobs {
			if err := p.Notifier.SendJob(job); err != nil {
				log.Printf("⚠️ [pipeline] Telegram send failed: %v", err)
				errs = append(errs, err)
				break
			}
			sent++
			throttle(ctx) // avoid 429s
		}
		status := fmt.Sprintf("✅ Found %d new jobs, sent %d.", len(jobs), sent)
		if err := p.Notifier.SendStatus(status); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (p *Pipeline) fail(report *Report, err error) (*Report, error) {
	report.Stage = StageFailed
	report.Err = err
	return report, err
}

func throttle(ctx context.Context) {
	t := time.NewTimer(time.Second)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
