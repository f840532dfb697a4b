package content

import (
	"encoding/json"

	"github.com/mreeves/fosterhub/internal/model"
)

// Fallback carries the hardcoded defaults a call site supplies for a
// section. Making it a parameter of Resolve means a call site cannot
// forget it and silently render blank.
type Fallback struct {
	Title   string
	Content string
}

// Resolved is the outcome of a section lookup: either the stored block's
// values or the fallback, with Found telling the caller which it got.
type Resolved struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Found    bool            `json:"found"`
}

// Resolve scans blocks (already filtered to one page key) for the first
// active block whose key matches section. Absent is a value, not an
// error: the fallback fills in whatever the block doesn't provide.
func Resolve(blocks []model.ContentBlock, section string, fallback Fallback) Resolved {
	for i := range blocks {
		b := &blocks[i]
		if b.BlockKey != section || !b.IsActive {
			continue
		}

		r := Resolved{
			Title:    b.Title,
			Metadata: b.Metadata,
			Found:    true,
		}
		if b.Populated() {
			r.Content = b.Content.String
		} else {
			r.Content = fallback.Content
		}
		if r.Title == "" {
			r.Title = fallback.Title
		}
		return r
	}

	return Resolved{
		Title:   fallback.Title,
		Content: fallback.Content,
		Found:   false,
	}
}

// MissingBlocks returns the template entries that have no block yet for
// the page, preserving template order. Seeding inserts exactly these.
func MissingBlocks(existing []model.ContentBlock, tmpl []TemplateBlock) []TemplateBlock {
	have := make(map[string]bool, len(existing))
	for _, b := range existing {
		have[b.BlockKey] = true
	}

	var missing []TemplateBlock
	for _, t := range tmpl {
		if !have[t.BlockKey] {
			missing = append(missing, t)
		}
	}
	return missing
}
