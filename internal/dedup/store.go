package dedup

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"go-jobradar/internal/config"
)

// Store persists the seen-fingerprint set between runs. Loaded once at
// run start, replaced atomically at run end.
type Store interface {
	Load(ctx context.Context) (mapset.Set[string], error)
	Save(ctx context.Context, fingerprints mapset.Set[string]) error
	Reset(ctx context.Context) error
	Close()
}

// StoreError is fatal: proceeding without reliable dedupe state risks
// double notification or permanent loss of history.
type StoreError struct {
	Op  string // "load" | "save" | "open" | "reset"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("state store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// OpenStore builds the configured state store backend.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StateBackend {
	case "file":
		return NewFileStore(cfg.StatePath), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("unknown backend %q", cfg.StateBackend)}
	}
}
