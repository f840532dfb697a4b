package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteRejectedWhileChildrenExist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The child count comes back non-zero and no delete statement is
	// ever issued: the mock would fail on any unexpected Exec.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE parent_id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	s := NewLocationStore(db)
	err = s.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "children")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnlinksAgenciesFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE parent_id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM agency_locations WHERE location_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM locations WHERE id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewLocationStore(db)
	require.NoError(t, s.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
