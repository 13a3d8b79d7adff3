// Define an interface for all source connectors
// Ensure consistency

package connector

import (
	"context"
	"fmt"
	"time"
)

// RawRecord is one listing as a connector saw it: source-specific field
// names, string values. The normalizer maps these to the canonical Job.
// Every connector should set at minimum: title, company, location, url,
// summary (optional).
type RawRecord map[string]string

// FetchOptions is what the pipeline passes down to every connector.
type FetchOptions struct {
	Locations []string      // canonical target locations
	Since     time.Duration // recency window, informational for HTML sources
}

// Connector is the interface every job source must implement.
type Connector interface {
	// Fetch collects raw records from the source. Empty results are not an
	// error; irrecoverable network/auth failure returns a *FetchError.
	Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error)

	// Name is the source name ("GradConnection", "Adzuna", ...)
	Name() string
}

// FetchError is an irrecoverable failure from one source. The pipeline
// catches it, logs it, and carries on with the other sources.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// sleep respects a per-source politeness delay, bailing out early if the
// run context is cancelled.
func sleep(ctx context.Context, seconds float64) {
	if seconds <= 0 {
		return
	}
	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
