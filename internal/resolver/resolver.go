package resolver

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/geobatch/internal/models"
)

// QueryFunc performs a single provider lookup. geocoding.Provider.Search satisfies it.
type QueryFunc func(ctx context.Context, query string) ([]models.GeoMatch, error)

// Observer receives a callback per provider query and per truncation retry.
// It is optional; metrics implement it.
type Observer interface {
	ObserveQuery(matches int, err error)
	ObserveRetry()
}

// Result is the outcome accepted for one input address.
type Result struct {
	Address   string            // Original input line, never trimmed.
	Candidate string            // Last candidate actually sent to the provider.
	Matches   []models.GeoMatch // Accepted matches, empty when nothing resolved.
	Err       error             // Error of the last query, if it failed.
	Attempts  int               // Number of provider queries issued.
}

// Resolved reports whether the accepted result carries at least one match.
func (r Result) Resolved() bool {
	return r.Err == nil && len(r.Matches) > 0
}

// Resolver looks up an address and, while the provider fails or finds nothing,
// drops leading tokens and retries until the candidate is empty or a single token.
type Resolver struct {
	query    QueryFunc
	pacer    Pacer
	log      *slog.Logger
	observer Observer
}

// New creates a Resolver. observer may be nil.
func New(query QueryFunc, pacer Pacer, log *slog.Logger, observer Observer) *Resolver {
	return &Resolver{
		query:    query,
		pacer:    pacer,
		log:      log,
		observer: observer,
	}
}

// Resolve queries address and applies the truncation policy. Errors of
// individual queries are held in the Result, never returned; the only way to
// stop early is a canceled context, in which case the last held result is returned.
func (r *Resolver) Resolve(ctx context.Context, address string) Result {
	res := Result{Address: address, Candidate: address}
	res.Matches, res.Err = r.lookup(ctx, address)
	res.Attempts++

	candidate := address
	for res.Err != nil || len(res.Matches) == 0 {
		if res.Err != nil {
			r.log.WarnContext(ctx, "Got error", "address", res.Candidate, "error", res.Err)
		}

		candidate = TrimLeadingToken(candidate)
		if IsExhausted(candidate) {
			break
		}

		r.log.InfoContext(ctx, "Trimming and retrying new address", "address", candidate)
		if r.observer != nil {
			r.observer.ObserveRetry()
		}

		if err := r.pacer.Wait(ctx); err != nil {
			r.log.DebugContext(ctx, "Retry canceled", "address", candidate, "error", err)
			break
		}

		res.Candidate = candidate
		res.Matches, res.Err = r.lookup(ctx, candidate)
		res.Attempts++
	}

	return res
}

func (r *Resolver) lookup(ctx context.Context, query string) ([]models.GeoMatch, error) {
	matches, err := r.query(ctx, query)
	if r.observer != nil {
		r.observer.ObserveQuery(len(matches), err)
	}

	return matches, err
}
