package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `URN,Provider name,Local authority,Website,Telephone,Email,Overall effectiveness
SC123456,Bright Futures Fostering,Surrey,https://example.org,01483 000000,hello@example.org,Good
SC654321,Caring Hands Agency,Kent,,,,Outstanding
,Missing URN Agency,Surrey,,,,
SC777777,,Surrey,,,,
`

func TestParseFeed(t *testing.T) {
	records, err := NewParser().Parse([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 2, "rows without a URN or name are skipped")

	first := records[0]
	assert.Equal(t, "SC123456", first.URN)
	assert.Equal(t, "Bright Futures Fostering", first.Name)
	assert.Equal(t, "Surrey", first.PlaceName)
	assert.Equal(t, "Good", first.Rating)
	assert.NotEmpty(t, first.Checksum)

	assert.NotEqual(t, records[0].Checksum, records[1].Checksum)
}

func TestParseFeedChecksumStable(t *testing.T) {
	a, err := NewParser().Parse([]byte(sampleFeed))
	require.NoError(t, err)
	b, err := NewParser().Parse([]byte(sampleFeed))
	require.NoError(t, err)

	assert.Equal(t, a[0].Checksum, b[0].Checksum)
}

func TestParseFeedMissingColumn(t *testing.T) {
	_, err := NewParser().Parse([]byte("URN,Website\nSC1,https://example.org\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
