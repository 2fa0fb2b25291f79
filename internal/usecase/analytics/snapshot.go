package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"time"

	domain "github.com/BruksfildServices01/smartq/internal/domain/analytics"
	"github.com/BruksfildServices01/smartq/internal/models"
)

// Archiver stores an exported document under key.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

type SnapshotResult struct {
	Day        string                     `json:"day"`
	Snapshots  []models.AnalyticsSnapshot `json:"snapshots"`
	Archived   bool                       `json:"archived"`
	ArchiveKey string                     `json:"archive_key,omitempty"`
}

// ======================================================
// TAKE SNAPSHOT
// ======================================================

type TakeSnapshot struct {
	repo     domain.Repository
	archiver Archiver
	prefix   string
	now      clock
}

// NewTakeSnapshot builds the daily snapshot job. archiver may be nil.
func NewTakeSnapshot(
	repo domain.Repository,
	archiver Archiver,
	prefix string,
	tz string,
) *TakeSnapshot {
	return &TakeSnapshot{
		repo:     repo,
		archiver: archiver,
		prefix:   prefix,
		now:      clockIn(tz),
	}
}

// Execute recomputes today's per-service snapshot and upserts it.
func (uc *TakeSnapshot) Execute(ctx context.Context) (*SnapshotResult, error) {
	now := uc.now()

	rows, err := breakdownFor(ctx, uc.repo, now)
	if err != nil {
		return nil, err
	}

	snaps := domain.Snapshots(now, rows)
	if len(snaps) > 0 {
		if err := uc.repo.UpsertSnapshots(ctx, snaps); err != nil {
			return nil, err
		}
	}

	res := &SnapshotResult{
		Day:       now.Format("2006-01-02"),
		Snapshots: snaps,
	}

	if uc.archiver == nil {
		return res, nil
	}

	key := path.Join(uc.prefix, res.Day+".json")
	if err := uc.archive(ctx, key, res); err != nil {
		log.Printf("snapshot: archive %s failed: %v", key, err)
		return res, nil
	}
	res.Archived = true
	res.ArchiveKey = key
	return res, nil
}

func (uc *TakeSnapshot) archive(ctx context.Context, key string, res *SnapshotResult) error {
	body, err := json.Marshal(struct {
		Day        string                     `json:"day"`
		ExportedAt time.Time                  `json:"exported_at"`
		Snapshots  []models.AnalyticsSnapshot `json:"snapshots"`
	}{
		Day:        res.Day,
		ExportedAt: time.Now().UTC(),
		Snapshots:  res.Snapshots,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return uc.archiver.Put(ctx, key, body)
}

// ======================================================
// LIST SNAPSHOTS
// ======================================================

type ListSnapshots struct {
	repo domain.Repository
}

func NewListSnapshots(repo domain.Repository) *ListSnapshots {
	return &ListSnapshots{repo: repo}
}

func (uc *ListSnapshots) Execute(
	ctx context.Context,
	f domain.SnapshotFilter,
) ([]models.AnalyticsSnapshot, error) {
	return uc.repo.ListSnapshots(ctx, f)
}

// Run takes a snapshot immediately and then every interval until ctx is done.
func (uc *TakeSnapshot) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := uc.Execute(ctx); err != nil && ctx.Err() == nil {
			log.Printf("snapshot: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
