package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreeves/fosterhub/internal/content"
)

var blockRowColumns = []string{
	"id", "page_key", "block_key", "block_type", "title", "content",
	"metadata", "display_order", "is_active", "created_at", "updated_at",
}

func TestSeedDefaultsInsertsMissingBlocks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT (.+) FROM page_content_blocks`).
		WithArgs("about").
		WillReturnRows(sqlmock.NewRows(blockRowColumns))
	for range content.StaticPageTemplate {
		mock.ExpectExec(`INSERT INTO page_content_blocks`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	s := NewContentStore(db)
	inserted, err := s.SeedDefaults(context.Background(), "about", content.StaticPageTemplate)
	require.NoError(t, err)
	assert.Equal(t, len(content.StaticPageTemplate), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDefaultsSecondRunInsertsNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Every template block already exists, so the seeder reads the page
	// and issues no inserts at all.
	now := time.Now()
	rows := sqlmock.NewRows(blockRowColumns)
	for i, tb := range content.StaticPageTemplate {
		rows.AddRow(int64(i+1), "about", tb.BlockKey, string(tb.BlockType), tb.Title,
			nil, nil, i, true, now, now)
	}
	mock.ExpectQuery(`(?s)SELECT (.+) FROM page_content_blocks`).
		WithArgs("about").
		WillReturnRows(rows)

	s := NewContentStore(db)
	inserted, err := s.SeedDefaults(context.Background(), "about", content.StaticPageTemplate)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
