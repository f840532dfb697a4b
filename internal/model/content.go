package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// BlockType identifies what kind of UI region a content block feeds
type BlockType string

const (
	BlockHero         BlockType = "hero"
	BlockText         BlockType = "text"
	BlockCTA          BlockType = "cta"
	BlockFeatures     BlockType = "features"
	BlockTestimonials BlockType = "testimonials"
	BlockFAQ          BlockType = "faq"
	BlockStats        BlockType = "stats"
	BlockImage        BlockType = "image"
)

// ContentBlock is one named, orderable unit of editable page content.
// (page_key, block_key) is unique in the store.
type ContentBlock struct {
	ID           int64
	PageKey      string
	BlockKey     string
	BlockType    BlockType
	Title        string
	Content      sql.NullString
	Metadata     json.RawMessage
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Populated reports whether the block carries non-empty content
func (b *ContentBlock) Populated() bool {
	return b.Content.Valid && b.Content.String != ""
}
