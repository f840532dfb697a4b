package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gosimple/slug"

	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

// ImportStats tracks feed import statistics
type ImportStats struct {
	Total    int
	Imported int
	Changed  int
	Unlinked int
	Skipped  int
	Failed   int
}

// Importer orchestrates the Ofsted feed import
type Importer struct {
	client        *OfstedClient
	parser        *Parser
	agencyStore   *store.AgencyStore
	locationStore *store.LocationStore
	logger        *log.Logger
	errLogger     *log.Logger
}

// NewImporter creates a new Importer
func NewImporter(client *OfstedClient, parser *Parser, agencyStore *store.AgencyStore, locationStore *store.LocationStore) *Importer {
	return &Importer{
		client:        client,
		parser:        parser,
		agencyStore:   agencyStore,
		locationStore: locationStore,
		logger:        log.New(os.Stdout, "", log.LstdFlags),
		errLogger:     log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Import fetches the providers feed and upserts every agency, linking
// each to the location matching its local authority name. Finishes by
// refreshing the denormalized per-location agency counts.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	stats := &ImportStats{}

	i.logger.Println("Fetching providers feed...")
	data, err := i.client.FetchProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	records, err := i.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	stats.Total = len(records)
	i.logger.Printf("Found %d providers to process", stats.Total)

	for idx, rec := range records {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("[%d/%d]", idx+1, stats.Total)

		if err := i.importRecord(ctx, rec, stats); err != nil {
			i.errLogger.Printf("%s Failed to import %s (%s): %v", progress, rec.Name, rec.URN, err)
			stats.Failed++
		}
	}

	i.logger.Println("Refreshing agency counts...")
	if err := i.locationStore.RefreshAgencyCounts(ctx); err != nil {
		return stats, err
	}

	return stats, nil
}

func (i *Importer) importRecord(ctx context.Context, rec model.AgencyRecord, stats *ImportStats) error {
	// An unchanged checksum means the feed row is identical to what we
	// stored last time; its location links are already in place.
	existing, err := i.agencyStore.GetByURN(ctx, rec.URN)
	if err != nil {
		return err
	}
	if existing != nil && existing.Checksum == rec.Checksum {
		stats.Skipped++
		return nil
	}

	agency := &model.Agency{
		Name:     rec.Name,
		Slug:     slug.Make(rec.Name),
		Checksum: rec.Checksum,
		IsActive: true,
	}
	setNullable(&agency.URN, rec.URN)
	setNullable(&agency.Website, rec.Website)
	setNullable(&agency.Phone, rec.Phone)
	setNullable(&agency.Email, rec.Email)
	setNullable(&agency.Rating, rec.Rating)

	changed, err := i.agencyStore.Upsert(ctx, agency)
	if err != nil {
		return err
	}
	stats.Imported++
	if changed {
		stats.Changed++
	}

	if rec.PlaceName == "" {
		stats.Unlinked++
		return nil
	}

	loc, err := i.locationStore.FindByName(ctx, rec.PlaceName)
	if err != nil {
		return err
	}
	if loc == nil {
		stats.Unlinked++
		return nil
	}

	return i.agencyStore.LinkLocation(ctx, agency.ID, loc.ID)
}

func setNullable(dst *sql.NullString, value string) {
	if value != "" {
		*dst = sql.NullString{String: value, Valid: true}
	}
}

// PrintSummary logs the import results
func (i *Importer) PrintSummary(stats *ImportStats) {
	i.logger.Println("")
	i.logger.Println("=== Import Summary ===")
	i.logger.Printf("Total providers:   %d", stats.Total)
	i.logger.Printf("Imported:          %d", stats.Imported)
	i.logger.Printf("Changed:           %d", stats.Changed)
	i.logger.Printf("Unchanged:         %d", stats.Skipped)
	i.logger.Printf("Without location:  %d", stats.Unlinked)
	i.logger.Printf("Failed:            %d", stats.Failed)
}
