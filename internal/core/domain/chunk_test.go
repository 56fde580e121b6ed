package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUIDDeterministic(t *testing.T) {
	a := MakeUID(SourceNotion, "data_sources/notion/a.md", 0, "some chunk text")
	b := MakeUID(SourceNotion, "data_sources/notion/a.md", 0, "some chunk text")

	assert.Equal(t, a, b)
	assert.Len(t, a, 40) // hex-encoded SHA-1
}

func TestMakeUIDVariesByInputs(t *testing.T) {
	base := MakeUID(SourceNotion, "a.md", 0, "text")

	assert.NotEqual(t, base, MakeUID(SourceX, "a.md", 0, "text"))
	assert.NotEqual(t, base, MakeUID(SourceNotion, "b.md", 0, "text"))
	assert.NotEqual(t, base, MakeUID(SourceNotion, "a.md", 1, "text"))
	assert.NotEqual(t, base, MakeUID(SourceNotion, "a.md", 0, "other"))
}

func TestMakeUIDOnlyPrefixMatters(t *testing.T) {
	prefix := strings.Repeat("x", 200)
	a := MakeUID(SourceX, "a.json", 2, prefix+"tail one")
	b := MakeUID(SourceX, "a.json", 2, prefix+"different tail")

	assert.Equal(t, a, b)
}

func TestMakeUIDPrefixCountsCharacters(t *testing.T) {
	// 200 characters of CJK text is three times as many bytes; the
	// prefix bound is still 200 characters.
	prefix := strings.Repeat("思", 200)
	a := MakeUID(SourceNotion, "n.md", 0, prefix+"尾一")
	b := MakeUID(SourceNotion, "n.md", 0, prefix+"尾二")
	assert.Equal(t, a, b)

	// Divergence inside the first 200 characters still changes the UID.
	c := MakeUID(SourceNotion, "n.md", 0, strings.Repeat("思", 150)+"变"+strings.Repeat("思", 60))
	assert.NotEqual(t, a, c)
}

func TestGuessSource(t *testing.T) {
	tests := []struct {
		path string
		want Source
	}{
		{"data_sources/notion/2025-01-01_note.md", SourceNotion},
		{"data_sources/x/tweets.json", SourceX},
		{"data_sources/twitter/archive.json", SourceX},
		{"data_sources/trades/journal.md", SourceTrades},
		{"data_sources/hyperliquid/fills.json", SourceTrades},
		{"data_sources/misc/readme.txt", SourceUnknown},
		{`data_sources\notion\note.md`, SourceNotion},
		{"data_sources/NOTION/note.md", SourceNotion},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GuessSource(tt.path), "path %q", tt.path)
	}
}
