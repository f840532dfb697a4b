package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mreeves/fosterhub/internal/model"
)

const locationColumns = `id, name, slug, type, parent_id, description, seo_title,
	       seo_description, population, latitude, longitude, is_active,
	       agency_count, created_at, updated_at`

// LocationStore handles database operations for locations
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore creates a new LocationStore
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

func scanLocation(row interface{ Scan(...any) error }) (*model.Location, error) {
	var l model.Location
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Slug,
		&l.Type,
		&l.ParentID,
		&l.Description,
		&l.SEOTitle,
		&l.SEODescription,
		&l.Population,
		&l.Latitude,
		&l.Longitude,
		&l.IsActive,
		&l.AgencyCount,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID retrieves a location by its ID
func (s *LocationStore) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1`, locationColumns)

	loc, err := scanLocation(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return loc, nil
}

// GetBySlug retrieves a location by slug within a parent. parentID is nil
// for root locations: slugs are only unique among siblings.
func (s *LocationStore) GetBySlug(ctx context.Context, slug string, parentID *int64) (*model.Location, error) {
	var (
		loc *model.Location
		err error
	)
	if parentID == nil {
		query := fmt.Sprintf(`SELECT %s FROM locations WHERE slug = $1 AND parent_id IS NULL`, locationColumns)
		loc, err = scanLocation(s.db.QueryRowContext(ctx, query, slug))
	} else {
		query := fmt.Sprintf(`SELECT %s FROM locations WHERE slug = $1 AND parent_id = $2`, locationColumns)
		loc, err = scanLocation(s.db.QueryRowContext(ctx, query, slug, *parentID))
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", slug, err)
	}
	return loc, nil
}

// GetByPath resolves a root-to-leaf slug path segment by segment.
// A miss at any segment returns (nil, nil): the caller treats that as a
// terminal not-found for the whole request.
func (s *LocationStore) GetByPath(ctx context.Context, slugs []string) (*model.Location, error) {
	var parentID *int64
	var current *model.Location

	for _, slug := range slugs {
		loc, err := s.GetBySlug(ctx, slug, parentID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, nil
		}
		current = loc
		parentID = &loc.ID
	}

	return current, nil
}

// GetChildren retrieves the active children of a location, name order
func (s *LocationStore) GetChildren(ctx context.Context, parentID int64) ([]model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE parent_id = $1 AND is_active ORDER BY name`, locationColumns)
	return s.queryLocations(ctx, query, parentID)
}

// GetRoots retrieves the active top-level locations
func (s *LocationStore) GetRoots(ctx context.Context) ([]model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE parent_id IS NULL AND is_active ORDER BY name`, locationColumns)
	return s.queryLocations(ctx, query)
}

// GetAll retrieves every location, including inactive ones, for admin
// listings and bulk path building.
func (s *LocationStore) GetAll(ctx context.Context) ([]model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations ORDER BY name`, locationColumns)
	return s.queryLocations(ctx, query)
}

// FindByName retrieves an active location by exact (case-insensitive)
// name. Deeper levels win when names collide across levels, since feed
// place names refer to the most specific area.
func (s *LocationStore) FindByName(ctx context.Context, name string) (*model.Location, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM locations
		WHERE LOWER(name) = LOWER($1) AND is_active
		ORDER BY CASE type
			WHEN 'city' THEN 0
			WHEN 'county' THEN 1
			WHEN 'region' THEN 2
			ELSE 3
		END
		LIMIT 1
	`, locationColumns)

	loc, err := scanLocation(s.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find location %q: %w", name, err)
	}
	return loc, nil
}

// Search finds active locations whose name matches the query
func (s *LocationStore) Search(ctx context.Context, term string, limit int) ([]model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE name ILIKE $1 AND is_active ORDER BY name LIMIT $2`, locationColumns)
	return s.queryLocations(ctx, query, "%"+term+"%", limit)
}

func (s *LocationStore) queryLocations(ctx context.Context, query string, args ...any) ([]model.Location, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, *loc)
	}
	return locations, rows.Err()
}

// Create inserts a location and fills in its ID
func (s *LocationStore) Create(ctx context.Context, l *model.Location) error {
	query := `
		INSERT INTO locations (name, slug, type, parent_id, description, seo_title,
		                       seo_description, population, latitude, longitude, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		l.Name, l.Slug, l.Type, l.ParentID, l.Description, l.SEOTitle,
		l.SEODescription, l.Population, l.Latitude, l.Longitude, l.IsActive,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create location %s: %w", l.Slug, err)
	}
	return nil
}

// Update saves an edited location
func (s *LocationStore) Update(ctx context.Context, l *model.Location) error {
	query := `
		UPDATE locations
		SET name = $2, slug = $3, type = $4, parent_id = $5, description = $6,
		    seo_title = $7, seo_description = $8, population = $9,
		    latitude = $10, longitude = $11, is_active = $12, updated_at = $13
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Slug, l.Type, l.ParentID, l.Description,
		l.SEOTitle, l.SEODescription, l.Population, l.Latitude, l.Longitude,
		l.IsActive, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update location %d: %w", l.ID, err)
	}
	return nil
}

// CountChildren returns how many locations sit directly under parentID
func (s *LocationStore) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE parent_id = $1`, parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count children of %d: %w", parentID, err)
	}
	return count, nil
}

// Delete removes a location. It is rejected before any delete is issued
// if the location still has children; agency links go first so the row
// can be removed cleanly.
func (s *LocationStore) Delete(ctx context.Context, id int64) error {
	children, err := s.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("location %d still has %d children", id, children)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM agency_locations WHERE location_id = $1`, id); err != nil {
		return fmt.Errorf("failed to unlink agencies from location %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete location %d: %w", id, err)
	}

	return tx.Commit()
}

// CountByType returns the number of active locations per type
func (s *LocationStore) CountByType(ctx context.Context) (map[model.LocationType]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM locations WHERE is_active GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count locations: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.LocationType]int)
	for rows.Next() {
		var t model.LocationType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan location count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// RefreshAgencyCounts recomputes the denormalized agency_count column
func (s *LocationStore) RefreshAgencyCounts(ctx context.Context) error {
	query := `
		UPDATE locations l
		SET agency_count = (
			SELECT COUNT(*) FROM agency_locations al
			INNER JOIN agencies a ON a.id = al.agency_id
			WHERE al.location_id = l.id AND a.is_active
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to refresh agency counts: %w", err)
	}
	return nil
}
