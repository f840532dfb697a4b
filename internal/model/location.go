package model

import (
	"database/sql"
	"time"
)

// LocationType identifies a level in the location hierarchy
type LocationType string

const (
	TypeCountry LocationType = "country"
	TypeRegion  LocationType = "region"
	TypeCounty  LocationType = "county"
	TypeCity    LocationType = "city"
)

// Valid reports whether t is one of the four known hierarchy levels
func (t LocationType) Valid() bool {
	switch t {
	case TypeCountry, TypeRegion, TypeCounty, TypeCity:
		return true
	}
	return false
}

// Location represents a browsable place in the directory
type Location struct {
	ID             int64
	Name           string
	Slug           string
	Type           LocationType
	ParentID       sql.NullInt64
	Description    sql.NullString
	SEOTitle       sql.NullString
	SEODescription sql.NullString
	Population     sql.NullInt64
	Latitude       sql.NullFloat64
	Longitude      sql.NullFloat64
	IsActive       bool
	AgencyCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasParent reports whether the location sits below another one
func (l *Location) HasParent() bool {
	return l.ParentID.Valid
}
