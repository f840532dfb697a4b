package model

import (
	"database/sql"
	"time"
)

// FAQ is a question/answer pair attached to a page key or a location
type FAQ struct {
	ID           int64
	PageKey      sql.NullString
	LocationID   sql.NullInt64
	Question     string
	Answer       string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
