package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mreeves/fosterhub/internal/content"
	"github.com/mreeves/fosterhub/internal/model"
)

// ContentStore handles database operations for page content blocks
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const blockColumns = `id, page_key, block_key, block_type, title, content, metadata,
	       display_order, is_active, created_at, updated_at`

func scanBlock(row interface{ Scan(...any) error }) (*model.ContentBlock, error) {
	var b model.ContentBlock
	err := row.Scan(
		&b.ID,
		&b.PageKey,
		&b.BlockKey,
		&b.BlockType,
		&b.Title,
		&b.Content,
		&b.Metadata,
		&b.DisplayOrder,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBlocksForPage retrieves every block for a page key, display order
// first. Inactive blocks are included; public resolution filters them.
func (s *ContentStore) GetBlocksForPage(ctx context.Context, pageKey string) ([]model.ContentBlock, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM page_content_blocks
		WHERE page_key = $1
		ORDER BY display_order, id
	`, blockColumns)

	rows, err := s.db.QueryContext(ctx, query, pageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks for %s: %w", pageKey, err)
	}
	defer rows.Close()

	var blocks []model.ContentBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// GetBlocksForLocation reads a location page's blocks under the canonical
// key, falling back to the legacy single-level key for rows written
// before key derivation was unified.
func (s *ContentStore) GetBlocksForLocation(ctx context.Context, chain []model.Location) ([]model.ContentBlock, error) {
	blocks, err := s.GetBlocksForPage(ctx, content.PageKeyForChain(chain))
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		return blocks, nil
	}

	leaf := chain[len(chain)-1]
	return s.GetBlocksForPage(ctx, content.LegacyPageKey(&leaf))
}

// GetBlock retrieves a single block by ID
func (s *ContentStore) GetBlock(ctx context.Context, id int64) (*model.ContentBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM page_content_blocks WHERE id = $1`, blockColumns)

	b, err := scanBlock(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", id, err)
	}
	return b, nil
}

// UpsertBlock inserts or updates a block addressed by (page_key, block_key)
func (s *ContentStore) UpsertBlock(ctx context.Context, b *model.ContentBlock) error {
	query := `
		INSERT INTO page_content_blocks (page_key, block_key, block_type, title, content,
		                                 metadata, display_order, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (page_key, block_key) DO UPDATE SET
			block_type = EXCLUDED.block_type,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			display_order = EXCLUDED.display_order,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		b.PageKey, b.BlockKey, b.BlockType, b.Title, b.Content,
		b.Metadata, b.DisplayOrder, b.IsActive, time.Now(),
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert block %s/%s: %w", b.PageKey, b.BlockKey, err)
	}
	return nil
}

// SetBlockActive toggles a block's active flag
func (s *ContentStore) SetBlockActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE page_content_blocks SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to toggle block %d: %w", id, err)
	}
	return nil
}

// DeleteBlock removes a block. Terminal for that key until re-seeded.
func (s *ContentStore) DeleteBlock(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM page_content_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete block %d: %w", id, err)
	}
	return nil
}

// SeedDefaults inserts the template blocks a page is missing, with empty
// content and template order. A re-run finds nothing missing and inserts
// zero. Each insert still ignores a (page_key, block_key) conflict, so
// two concurrent seeds cannot duplicate rows either. Returns the number
// of blocks actually inserted.
func (s *ContentStore) SeedDefaults(ctx context.Context, pageKey string, tmpl []content.TemplateBlock) (int, error) {
	existing, err := s.GetBlocksForPage(ctx, pageKey)
	if err != nil {
		return 0, err
	}

	want := make(map[string]bool)
	for _, tb := range content.MissingBlocks(existing, tmpl) {
		want[tb.BlockKey] = true
	}

	query := `
		INSERT INTO page_content_blocks (page_key, block_key, block_type, title, display_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (page_key, block_key) DO NOTHING
	`

	inserted := 0
	for i, tb := range tmpl {
		if !want[tb.BlockKey] {
			continue
		}
		res, err := s.db.ExecContext(ctx, query, pageKey, tb.BlockKey, tb.BlockType, tb.Title, i)
		if err != nil {
			// A serialization quirk can still surface the constraint as an
			// error; that means someone else seeded this block first.
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
				continue
			}
			return inserted, fmt.Errorf("failed to seed block %s/%s: %w", pageKey, tb.BlockKey, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// MigrateLegacyKey rewrites a location's legacy-keyed rows to the
// canonical key. Rows whose block key already exists under the canonical
// key are dropped rather than duplicated.
func (s *ContentStore) MigrateLegacyKey(ctx context.Context, chain []model.Location) (int, error) {
	leaf := chain[len(chain)-1]
	legacy := content.LegacyPageKey(&leaf)
	canonical := content.PageKeyForChain(chain)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin key migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM page_content_blocks
		WHERE page_key = $1
		AND block_key IN (SELECT block_key FROM page_content_blocks WHERE page_key = $2)
	`, legacy, canonical); err != nil {
		return 0, fmt.Errorf("failed to drop shadowed legacy blocks for %s: %w", legacy, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE page_content_blocks SET page_key = $2, updated_at = $3 WHERE page_key = $1`,
		legacy, canonical, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to migrate %s to %s: %w", legacy, canonical, err)
	}

	moved, _ := res.RowsAffected()
	return int(moved), tx.Commit()
}

// CountSeededPages returns how many distinct page keys have blocks
func (s *ContentStore) CountSeededPages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT page_key) FROM page_content_blocks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count seeded pages: %w", err)
	}
	return count, nil
}

// CountPopulatedBlocks returns how many blocks carry non-empty content
func (s *ContentStore) CountPopulatedBlocks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_content_blocks WHERE content IS NOT NULL AND content <> ''`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count populated blocks: %w", err)
	}
	return count, nil
}
