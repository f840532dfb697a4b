package service

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/mreeves/fosterhub/internal/model"
)

// Parser turns the raw providers CSV into normalized agency records
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Columns the feed must carry. Header matching is case-insensitive and
// ignores surrounding whitespace.
var requiredColumns = []string{"urn", "provider name", "local authority"}

// Parse reads the CSV feed and returns one record per provider row.
// Rows without a URN or name are skipped rather than failing the feed.
func (p *Parser) Parse(data []byte) ([]model.AgencyRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("feed is missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []model.AgencyRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read feed row: %w", err)
		}

		rec := model.AgencyRecord{
			URN:       field(row, "urn"),
			Name:      field(row, "provider name"),
			PlaceName: field(row, "local authority"),
			Website:   field(row, "website"),
			Phone:     field(row, "telephone"),
			Email:     field(row, "email"),
			Rating:    field(row, "overall effectiveness"),
		}
		if rec.URN == "" || rec.Name == "" {
			continue
		}

		rec.Checksum = checksumRecord(rec)
		records = append(records, rec)
	}

	return records, nil
}

// checksumRecord computes an MD5 over the fields that matter for change
// detection, so unchanged providers are skipped on re-import.
func checksumRecord(r model.AgencyRecord) string {
	h := md5.New()
	for _, f := range []string{r.URN, r.Name, r.PlaceName, r.Website, r.Phone, r.Email, r.Rating} {
		io.WriteString(h, f)
		io.WriteString(h, "\x1f")
	}
	return hex.EncodeToString(h.Sum(nil))
}
