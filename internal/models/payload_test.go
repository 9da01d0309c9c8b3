package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, doc string) RawSitePayload {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return NewRawSitePayload(v)
}

func TestNodeWalksOptionalNesting(t *testing.T) {
	p := decodePayload(t, `{
		"metadata": {"site": {"name": "Acme", "created": 1700000000}},
		"items": [{"metadata": {"images": ["a.png", "b.png"]}}]
	}`)

	name, ok := p.Metadata().Get("site").Get("name").Text()
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)

	created, ok := p.Metadata().Get("site").Get("created").Float()
	assert.True(t, ok)
	assert.Equal(t, float64(1700000000), created)

	_, ok = p.Metadata().Get("theme").Get("name").Text()
	assert.False(t, ok, "missing branch must be absent, not a panic")

	items, ok := p.Items().Array()
	require.True(t, ok)
	require.Len(t, items, 1)
	img, ok := items[0].Get("metadata").Get("images").Index(0).Text()
	assert.True(t, ok)
	assert.Equal(t, "a.png", img)

	assert.False(t, items[0].Get("metadata").Get("images").Index(5).Present())
	assert.False(t, p.Description().Present())
}

func TestNodeTextOnlyScalars(t *testing.T) {
	p := decodePayload(t, `{"s": "x", "n": 12.50, "b": true, "o": {}, "z": null}`)

	s, ok := p.Root.Get("s").Text()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	n, ok := p.Root.Get("n").Text()
	assert.True(t, ok)
	assert.Equal(t, "12.50", n)

	for _, key := range []string{"b", "o", "z", "missing"} {
		_, ok := p.Root.Get(key).Text()
		assert.False(t, ok, key)
	}
	assert.False(t, p.Root.Get("z").Present())
}

func TestNodeTruthy(t *testing.T) {
	p := decodePayload(t, `{
		"obj": {}, "arr": [], "str": "x", "num": 1, "t": true,
		"null": null, "f": false, "zero": 0, "empty": ""
	}`)

	for _, key := range []string{"obj", "arr", "str", "num", "t"} {
		assert.True(t, p.Root.Get(key).Truthy(), key)
	}
	for _, key := range []string{"null", "f", "zero", "empty", "missing"} {
		assert.False(t, p.Root.Get(key).Truthy(), key)
	}
}

func TestNodeOnNonObjectRoot(t *testing.T) {
	p := NewRawSitePayload(nil)
	assert.False(t, p.Root.Present())
	assert.False(t, p.Metadata().Present())
	_, ok := p.Items().Array()
	assert.False(t, ok)

	p = decodePayload(t, `[1, 2]`)
	assert.True(t, p.Root.IsArray())
	assert.False(t, p.Metadata().Present())
}
