package model

import (
	"database/sql"
	"time"
)

// Agency represents a foster-care agency listed in the directory
type Agency struct {
	ID          int64
	Name        string
	Slug        string
	URN         sql.NullString // Ofsted unique reference number
	Description sql.NullString
	Website     sql.NullString
	Phone       sql.NullString
	Email       sql.NullString
	Rating      sql.NullString // latest Ofsted inspection rating
	Checksum    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgencyLocation links an agency to a location it serves
type AgencyLocation struct {
	AgencyID   int64
	LocationID int64
}

// AgencyRecord is a normalized row from the Ofsted providers feed
type AgencyRecord struct {
	URN       string
	Name      string
	PlaceName string
	Website   string
	Phone     string
	Email     string
	Rating    string
	Checksum  string
}
