package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mreeves/fosterhub/internal/model"
)

// FAQStore handles database operations for FAQs
type FAQStore struct {
	db *sql.DB
}

// NewFAQStore creates a new FAQStore
func NewFAQStore(db *sql.DB) *FAQStore {
	return &FAQStore{db: db}
}

const faqColumns = `id, page_key, location_id, question, answer, display_order,
	       is_active, created_at, updated_at`

func (s *FAQStore) queryFAQs(ctx context.Context, query string, args ...any) ([]model.FAQ, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var faqs []model.FAQ
	for rows.Next() {
		var f model.FAQ
		err := rows.Scan(
			&f.ID,
			&f.PageKey,
			&f.LocationID,
			&f.Question,
			&f.Answer,
			&f.DisplayOrder,
			&f.IsActive,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// GetForPage retrieves active FAQs for a page key, display order
func (s *FAQStore) GetForPage(ctx context.Context, pageKey string) ([]model.FAQ, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM faqs
		WHERE page_key = $1 AND is_active
		ORDER BY display_order, id
	`, faqColumns)
	return s.queryFAQs(ctx, query, pageKey)
}

// GetForLocation retrieves active FAQs attached to a location
func (s *FAQStore) GetForLocation(ctx context.Context, locationID int64) ([]model.FAQ, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM faqs
		WHERE location_id = $1 AND is_active
		ORDER BY display_order, id
	`, faqColumns)
	return s.queryFAQs(ctx, query, locationID)
}

// GetByID retrieves a single FAQ
func (s *FAQStore) GetByID(ctx context.Context, id int64) (*model.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs WHERE id = $1`, faqColumns)

	var f model.FAQ
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.PageKey,
		&f.LocationID,
		&f.Question,
		&f.Answer,
		&f.DisplayOrder,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faq %d: %w", id, err)
	}
	return &f, nil
}

// Create inserts an FAQ and fills in its ID
func (s *FAQStore) Create(ctx context.Context, f *model.FAQ) error {
	query := `
		INSERT INTO faqs (page_key, location_id, question, answer, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		f.PageKey, f.LocationID, f.Question, f.Answer, f.DisplayOrder, f.IsActive,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

// Update saves an edited FAQ
func (s *FAQStore) Update(ctx context.Context, f *model.FAQ) error {
	query := `
		UPDATE faqs
		SET page_key = $2, location_id = $3, question = $4, answer = $5,
		    display_order = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query,
		f.ID, f.PageKey, f.LocationID, f.Question, f.Answer,
		f.DisplayOrder, f.IsActive, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update faq %d: %w", f.ID, err)
	}
	return nil
}

// Delete removes an FAQ
func (s *FAQStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq %d: %w", id, err)
	}
	return nil
}
