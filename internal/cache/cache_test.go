package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "content:loc_england/surrey", Key("content", "loc_england/surrey"))
	assert.Equal(t, "location:england:surrey", Key("location", "england", "surrey"))
	assert.Equal(t, "stats", Key("stats"))
}

func TestContentInvalidation(t *testing.T) {
	c := New()
	key := Key("content", "about")

	c.SetContent(key, "payload")
	v, ok := c.GetContent(key)
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	c.InvalidateContent(key)
	_, ok = c.GetContent(key)
	assert.False(t, ok)
}

func TestLocationFlush(t *testing.T) {
	c := New()
	c.SetLocation(Key("location", "england"), 1)
	c.SetLocation(Key("location", "england", "surrey"), 2)

	c.InvalidateLocations()

	_, ok := c.GetLocation(Key("location", "england"))
	assert.False(t, ok)
	_, ok = c.GetLocation(Key("location", "england", "surrey"))
	assert.False(t, ok)
}
