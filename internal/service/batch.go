package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/geobatch/internal/geocoding"
	"github.com/UnknownOlympus/geobatch/internal/metrics"
	"github.com/UnknownOlympus/geobatch/internal/models"
	"github.com/UnknownOlympus/geobatch/internal/repository"
	"github.com/UnknownOlympus/geobatch/internal/resolver"
	"github.com/prometheus/client_golang/prometheus"
)

// maxLineSize bounds a single input address.
const maxLineSize = 1 << 20

// RecordWriter receives the CSV output. Every Write must be durable before it returns.
type RecordWriter interface {
	WriteHeader() error
	Write(record models.OutputRecord) error
}

// Progress is notified once per processed address.
type Progress interface {
	Add(num int) error
}

// Summary counts what a batch run did.
type Summary struct {
	Addresses int // Input lines processed.
	Matched   int // Addresses with at least one record.
	Empty     int // Addresses abandoned with zero matches.
	Failed    int // Addresses abandoned on a provider error.
	Records   int // CSV rows written.
}

// BatchService resolves addresses one at a time, in input order,
// and writes one record per match.
type BatchService struct {
	log      *slog.Logger         // Logger for diagnostics on stderr
	resolver *resolver.Resolver   // Truncation retry policy around the provider
	pacer    resolver.Pacer       // Pause between addresses
	writer   RecordWriter         // CSV output
	store    repository.Interface // Optional record mirror, may be nil
	metrics  *metrics.Metrics     // Metrics for tracking service performance
	progress Progress             // Optional progress indicator
}

// NewBatchService creates a new instance of BatchService. store may be nil to
// disable the database mirror; appMetrics may be nil to discard metrics.
func NewBatchService(
	log *slog.Logger,
	provider geocoding.Provider,
	pacer resolver.Pacer,
	writer RecordWriter,
	store repository.Interface,
	appMetrics *metrics.Metrics,
) *BatchService {
	if appMetrics == nil {
		appMetrics = metrics.NewMetrics(prometheus.NewRegistry())
	}

	bs := &BatchService{
		log:     log,
		pacer:   pacer,
		writer:  writer,
		store:   store,
		metrics: appMetrics,
	}
	bs.resolver = resolver.New(bs.timed(provider.Search), pacer, log, appMetrics)

	return bs
}

// WithProgress attaches a progress indicator.
func (bs *BatchService) WithProgress(progress Progress) *BatchService {
	bs.progress = progress
	return bs
}

// Run writes the CSV header, then processes input line by line until EOF.
// Per-address failures are logged and skipped. Run returns an error only when
// the input cannot be read, the output cannot be written, or ctx is canceled.
func (bs *BatchService) Run(ctx context.Context, input io.Reader) (Summary, error) {
	var summary Summary

	if err := bs.writer.WriteHeader(); err != nil {
		return summary, err
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := bs.processAddress(ctx, scanner.Text(), &summary); err != nil {
			return summary, err
		}

		if err := bs.pacer.Wait(ctx); err != nil {
			return summary, err
		}
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read input: %w", err)
	}

	return summary, nil
}

// processAddress resolves one line and emits its records. Only output failures are returned.
func (bs *BatchService) processAddress(ctx context.Context, address string, summary *Summary) error {
	bs.log.DebugContext(ctx, "Processing address", "address", address)

	res := bs.resolver.Resolve(ctx, address)
	summary.Addresses++
	bs.tick(ctx)

	switch {
	case res.Err != nil:
		bs.log.ErrorContext(ctx, res.Err.Error(), "address", address, "attempts", res.Attempts)
		bs.metrics.AddressesProcessed.WithLabelValues(metrics.StatusFailed).Inc()
		summary.Failed++
		return nil
	case len(res.Matches) == 0:
		bs.log.WarnContext(ctx, "Got 0 results", "address", res.Candidate, "attempts", res.Attempts)
		bs.metrics.AddressesProcessed.WithLabelValues(metrics.StatusEmpty).Inc()
		summary.Empty++
		return nil
	}

	for _, record := range models.NewOutputRecords(res.Address, res.Matches) {
		if err := bs.writer.Write(record); err != nil {
			return err
		}
		bs.metrics.RecordsWritten.Inc()
		summary.Records++

		bs.mirror(ctx, record)
	}

	bs.metrics.AddressesProcessed.WithLabelValues(metrics.StatusMatched).Inc()
	summary.Matched++

	if res.Candidate != res.Address {
		bs.log.InfoContext(ctx, "Resolved after trimming", "address", address, "query", res.Candidate)
	}

	return nil
}

// mirror copies a written record to the optional store. Store failures never stop the batch.
func (bs *BatchService) mirror(ctx context.Context, record models.OutputRecord) {
	if bs.store == nil {
		return
	}

	if err := bs.store.SaveRecord(ctx, record); err != nil {
		bs.log.ErrorContext(ctx, "Failed to mirror record", "address", record.Address, "error", err)
	}
}

func (bs *BatchService) tick(ctx context.Context) {
	if bs.progress == nil {
		return
	}

	if err := bs.progress.Add(1); err != nil {
		bs.log.DebugContext(ctx, "Failed to update progress", "error", err)
	}
}

// timed wraps a query with the request duration histogram.
func (bs *BatchService) timed(query resolver.QueryFunc) resolver.QueryFunc {
	return func(ctx context.Context, address string) ([]models.GeoMatch, error) {
		startTime := time.Now()
		matches, err := query(ctx, address)
		bs.metrics.RequestSeconds.Observe(time.Since(startTime).Seconds())

		return matches, err
	}
}

// IsInterrupted reports whether err only means the run was canceled.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
