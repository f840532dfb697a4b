package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

// DirectoryMetrics summarizes the state of the directory
type DirectoryMetrics struct {
	TotalLocations  int                        `json:"total_locations"`
	LocationsByType map[model.LocationType]int `json:"locations_by_type"`
	TotalAgencies   int                        `json:"total_agencies"`
	SeededPages     int                        `json:"seeded_pages"`
	PopulatedBlocks int                        `json:"populated_blocks"`
}

// MetricsSnapshot is a dated copy of the directory metrics
type MetricsSnapshot struct {
	ID              int64     `json:"id"`
	TotalLocations  int       `json:"total_locations"`
	TotalAgencies   int       `json:"total_agencies"`
	SeededPages     int       `json:"seeded_pages"`
	PopulatedBlocks int       `json:"populated_blocks"`
	SnapshotDate    time.Time `json:"snapshot_date"`
}

// MetricsService computes and stores directory metrics
type MetricsService struct {
	db            *sql.DB
	locationStore *store.LocationStore
	agencyStore   *store.AgencyStore
	contentStore  *store.ContentStore
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(db *sql.DB) *MetricsService {
	return &MetricsService{
		db:            db,
		locationStore: store.NewLocationStore(db),
		agencyStore:   store.NewAgencyStore(db),
		contentStore:  store.NewContentStore(db),
	}
}

// Calculate computes the current directory metrics
func (m *MetricsService) Calculate(ctx context.Context) (*DirectoryMetrics, error) {
	byType, err := m.locationStore.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byType {
		total += n
	}

	agencies, err := m.agencyStore.CountAgencies(ctx)
	if err != nil {
		return nil, err
	}

	seeded, err := m.contentStore.CountSeededPages(ctx)
	if err != nil {
		return nil, err
	}

	populated, err := m.contentStore.CountPopulatedBlocks(ctx)
	if err != nil {
		return nil, err
	}

	return &DirectoryMetrics{
		TotalLocations:  total,
		LocationsByType: byType,
		TotalAgencies:   agencies,
		SeededPages:     seeded,
		PopulatedBlocks: populated,
	}, nil
}

// CalculateAndStore computes the metrics and records today's snapshot,
// overwriting an earlier snapshot for the same date.
func (m *MetricsService) CalculateAndStore(ctx context.Context) (*DirectoryMetrics, error) {
	metrics, err := m.Calculate(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO metrics_snapshots (total_locations, total_agencies, seeded_pages,
		                               populated_blocks, snapshot_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			total_locations = EXCLUDED.total_locations,
			total_agencies = EXCLUDED.total_agencies,
			seeded_pages = EXCLUDED.seeded_pages,
			populated_blocks = EXCLUDED.populated_blocks
	`

	today := time.Now().Truncate(24 * time.Hour)
	if _, err := m.db.ExecContext(ctx, query,
		metrics.TotalLocations, metrics.TotalAgencies, metrics.SeededPages,
		metrics.PopulatedBlocks, today); err != nil {
		return nil, fmt.Errorf("failed to store metrics snapshot: %w", err)
	}

	return metrics, nil
}

// History returns stored snapshots, newest first
func (m *MetricsService) History(ctx context.Context, limit int) ([]MetricsSnapshot, error) {
	query := `
		SELECT id, total_locations, total_agencies, seeded_pages, populated_blocks, snapshot_date
		FROM metrics_snapshots
		ORDER BY snapshot_date DESC
		LIMIT $1
	`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics history: %w", err)
	}
	defer rows.Close()

	var snapshots []MetricsSnapshot
	for rows.Next() {
		var s MetricsSnapshot
		if err := rows.Scan(&s.ID, &s.TotalLocations, &s.TotalAgencies,
			&s.SeededPages, &s.PopulatedBlocks, &s.SnapshotDate); err != nil {
			return nil, fmt.Errorf("failed to scan metrics snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
