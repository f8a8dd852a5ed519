package retention

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"meridian-hq/lexgate/pkg/ledger"
	"meridian-hq/lexgate/pkg/ledger/export"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// MaxAge prunes records older than this duration. Zero disables the
	// age criterion.
	MaxAge time.Duration

	// MaxRecords caps the live record count. Zero disables the count
	// criterion.
	MaxRecords int64

	// ArchiveDir is where pruned segments are exported before removal.
	ArchiveDir string

	// ArchiveFormat is "json" or "csv". JSON archives can be re-verified
	// against the chain; prefer it unless a spreadsheet needs the data.
	ArchiveFormat string

	// Schedule is a cron expression for scheduled pruning.
	// Example: "0 2 * * *" (daily at 2 AM)
	Schedule string

	// Clock supplies the current time for age comparisons.
	// Default: time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		ArchiveDir:    "./lexgate-archive",
		ArchiveFormat: "json",
		Schedule:      "0 2 * * *",
	}
}

// Pruner enforces retention on the audit ledger. Because the ledger is a
// hash chain, only a leading contiguous segment can ever be removed: the
// segment is archived first, then pruned, and the storage checkpoint anchors
// the retained suffix so it stays verifiable.
type Pruner struct {
	storage   ledger.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage ledger.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "ledger.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)
	return pruner
}

// Scheduler returns the pruner's scheduler.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}

// Prune archives and removes the leading segment selected by the age and
// count criteria. Returns the number of records pruned.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	boundary, found, err := p.pruneBoundary(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		p.logger.Debug("no records eligible for pruning",
			"max_age", p.config.MaxAge,
			"max_records", p.config.MaxRecords,
		)
		return 0, nil
	}

	cp, err := p.storage.Checkpoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}

	segment, err := p.storage.Range(ctx, cp.NextSeq, boundary)
	if err != nil {
		return 0, fmt.Errorf("read prune segment: %w", err)
	}
	if len(segment) == 0 {
		return 0, nil
	}

	archivePath, err := p.archive(ctx, segment)
	if err != nil {
		return 0, fmt.Errorf("archive segment: %w", err)
	}

	pruned, err := p.storage.PruneThrough(ctx, boundary)
	if err != nil {
		return 0, fmt.Errorf("prune through %d: %w", boundary, err)
	}

	p.logger.Info("ledger segment archived and pruned",
		"pruned_count", pruned,
		"through_seq", boundary,
		"archive", archivePath,
	)
	return pruned, nil
}

// pruneBoundary selects the highest sequence the criteria allow removing.
// Both criteria select leading records only; the stricter of the two wins
// nothing extra because each independently marks a prefix.
func (p *Pruner) pruneBoundary(ctx context.Context) (int64, bool, error) {
	cp, err := p.storage.Checkpoint(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("read checkpoint: %w", err)
	}

	records, err := p.storage.Range(ctx, cp.NextSeq, -1)
	if err != nil {
		return 0, false, fmt.Errorf("read records: %w", err)
	}
	if len(records) == 0 {
		return 0, false, nil
	}

	boundary := int64(-1)
	found := false

	if p.config.MaxAge > 0 {
		cutoff := p.config.Clock().Add(-p.config.MaxAge)
		for _, record := range records {
			if !record.Timestamp.Before(cutoff) {
				break
			}
			boundary = record.Seq
			found = true
		}
	}

	if p.config.MaxRecords > 0 {
		excess := int64(len(records)) - p.config.MaxRecords
		if excess > 0 {
			countBoundary := records[excess-1].Seq
			if countBoundary > boundary {
				boundary = countBoundary
			}
			found = true
		}
	}

	// Never prune the tail: an empty live chain would make the next
	// append depend solely on the checkpoint, which is fine, but keeping
	// the newest record makes operational inspection cheaper.
	if found && boundary >= records[len(records)-1].Seq {
		boundary = records[len(records)-1].Seq - 1
		if boundary < records[0].Seq {
			return 0, false, nil
		}
	}

	return boundary, found, nil
}

// archive exports the segment to a timestamped file in the archive
// directory and returns the file path.
func (p *Pruner) archive(ctx context.Context, segment []*ledger.AuditRecord) (string, error) {
	if err := os.MkdirAll(p.config.ArchiveDir, 0o750); err != nil {
		return "", err
	}

	name := fmt.Sprintf("audit-%d-%d-%s.%s",
		segment[0].Seq,
		segment[len(segment)-1].Seq,
		p.config.Clock().UTC().Format("20060102T150405Z"),
		p.config.ArchiveFormat,
	)
	path := filepath.Join(p.config.ArchiveDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := p.export(ctx, segment, f); err != nil {
		os.Remove(path)
		return "", err
	}
	if err := f.Sync(); err != nil {
		return "", err
	}
	return path, nil
}

func (p *Pruner) export(ctx context.Context, segment []*ledger.AuditRecord, w io.Writer) error {
	switch p.config.ArchiveFormat {
	case "csv":
		return export.NewCSVExporter(true).Export(ctx, segment, w)
	case "json", "":
		return export.NewJSONExporter(false).Export(ctx, segment, w)
	default:
		return fmt.Errorf("unknown archive format %q", p.config.ArchiveFormat)
	}
}
