package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mreeves/fosterhub/internal/model"
)

// AgencyStore handles database operations for agencies
type AgencyStore struct {
	db *sql.DB
}

// NewAgencyStore creates a new AgencyStore
func NewAgencyStore(db *sql.DB) *AgencyStore {
	return &AgencyStore{db: db}
}

const agencyColumns = `id, name, slug, urn, description, website, phone, email,
	       rating, checksum, is_active, created_at, updated_at`

func scanAgency(row interface{ Scan(...any) error }) (*model.Agency, error) {
	var a model.Agency
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.URN,
		&a.Description,
		&a.Website,
		&a.Phone,
		&a.Email,
		&a.Rating,
		&a.Checksum,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetBySlug retrieves an agency by its slug
func (s *AgencyStore) GetBySlug(ctx context.Context, slug string) (*model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies WHERE slug = $1`, agencyColumns)

	a, err := scanAgency(s.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agency %s: %w", slug, err)
	}
	return a, nil
}

// GetByURN retrieves an agency by its Ofsted reference number
func (s *AgencyStore) GetByURN(ctx context.Context, urn string) (*model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies WHERE urn = $1`, agencyColumns)

	a, err := scanAgency(s.db.QueryRowContext(ctx, query, urn))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agency urn %s: %w", urn, err)
	}
	return a, nil
}

// GetAll retrieves all active agencies in name order
func (s *AgencyStore) GetAll(ctx context.Context) ([]model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies WHERE is_active ORDER BY name`, agencyColumns)
	return s.queryAgencies(ctx, query)
}

// GetForLocation retrieves active agencies serving a location. With
// includeDescendants, agencies linked anywhere under the location count
// too; the recursive walk is bounded by the four hierarchy levels.
func (s *AgencyStore) GetForLocation(ctx context.Context, locationID int64, includeDescendants bool) ([]model.Agency, error) {
	if !includeDescendants {
		query := fmt.Sprintf(`
			SELECT %s FROM agencies a
			INNER JOIN agency_locations al ON al.agency_id = a.id
			WHERE al.location_id = $1 AND a.is_active
			ORDER BY a.name
		`, prefixedAgencyColumns("a"))
		return s.queryAgencies(ctx, query, locationID)
	}

	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id, 1 AS depth FROM locations WHERE id = $1
			UNION ALL
			SELECT l.id, subtree.depth + 1
			FROM locations l
			INNER JOIN subtree ON l.parent_id = subtree.id
			WHERE subtree.depth < 4
		)
		SELECT DISTINCT %s FROM agencies a
		INNER JOIN agency_locations al ON al.agency_id = a.id
		INNER JOIN subtree st ON st.id = al.location_id
		WHERE a.is_active
		ORDER BY a.name
	`, prefixedAgencyColumns("a"))
	return s.queryAgencies(ctx, query, locationID)
}

func prefixedAgencyColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.name, %[1]s.slug, %[1]s.urn, %[1]s.description,
	       %[1]s.website, %[1]s.phone, %[1]s.email, %[1]s.rating, %[1]s.checksum,
	       %[1]s.is_active, %[1]s.created_at, %[1]s.updated_at`, alias)
}

func (s *AgencyStore) queryAgencies(ctx context.Context, query string, args ...any) ([]model.Agency, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query agencies: %w", err)
	}
	defer rows.Close()

	var agencies []model.Agency
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agency: %w", err)
		}
		agencies = append(agencies, *a)
	}
	return agencies, rows.Err()
}

// Upsert inserts or updates an agency keyed by slug, returning whether
// the stored row actually changed (checksum comparison).
func (s *AgencyStore) Upsert(ctx context.Context, a *model.Agency) (changed bool, err error) {
	existing, err := s.GetBySlug(ctx, a.Slug)
	if err != nil {
		return false, err
	}
	if existing != nil && existing.Checksum == a.Checksum {
		a.ID = existing.ID
		return false, nil
	}

	query := `
		INSERT INTO agencies (name, slug, urn, description, website, phone, email,
		                      rating, checksum, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			urn = EXCLUDED.urn,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			rating = EXCLUDED.rating,
			checksum = EXCLUDED.checksum,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
		a.Name, a.Slug, a.URN, a.Description, a.Website, a.Phone, a.Email,
		a.Rating, a.Checksum, a.IsActive, time.Now(),
	).Scan(&a.ID)
	if err != nil {
		return false, fmt.Errorf("failed to upsert agency %s: %w", a.Slug, err)
	}
	return true, nil
}

// LinkLocation associates an agency with a location it serves
func (s *AgencyStore) LinkLocation(ctx context.Context, agencyID, locationID int64) error {
	query := `
		INSERT INTO agency_locations (agency_id, location_id)
		VALUES ($1, $2)
		ON CONFLICT (agency_id, location_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, agencyID, locationID); err != nil {
		return fmt.Errorf("failed to link agency %d to location %d: %w", agencyID, locationID, err)
	}
	return nil
}

// UnlinkLocations removes all of an agency's location links
func (s *AgencyStore) UnlinkLocations(ctx context.Context, agencyID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM agency_locations WHERE agency_id = $1`, agencyID); err != nil {
		return fmt.Errorf("failed to unlink agency %d: %w", agencyID, err)
	}
	return nil
}

// Delete removes an agency; its location links cascade
func (s *AgencyStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM agencies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete agency %d: %w", id, err)
	}
	return nil
}

// CountAgencies returns the number of active agencies
func (s *AgencyStore) CountAgencies(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agencies WHERE is_active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count agencies: %w", err)
	}
	return count, nil
}
