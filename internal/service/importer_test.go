package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

var agencyRowColumns = []string{
	"id", "name", "slug", "urn", "description", "website", "phone", "email",
	"rating", "checksum", "is_active", "created_at", "updated_at",
}

func TestImportSkipsUnchangedProviders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The stored checksum matches the feed row, so the record is counted
	// as skipped and no upsert or link query runs.
	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT (.+) FROM agencies WHERE urn`).
		WithArgs("SC123456").
		WillReturnRows(sqlmock.NewRows(agencyRowColumns).
			AddRow(int64(1), "Sunrise Fostering", "sunrise-fostering", "SC123456",
				nil, nil, nil, nil, nil, "abc123", true, now, now))

	imp := NewImporter(nil, nil, store.NewAgencyStore(db), store.NewLocationStore(db))
	stats := &ImportStats{}
	rec := model.AgencyRecord{URN: "SC123456", Name: "Sunrise Fostering", Checksum: "abc123"}

	require.NoError(t, imp.importRecord(context.Background(), rec, stats))
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Imported)
	assert.Zero(t, stats.Changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
