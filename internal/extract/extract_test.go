package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestItemsMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "note.md", "# Title\n\nBody text.")

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "# Title\n\nBody text.", items[0].Text)
	assert.Empty(t, items[0].Meta)
}

func TestItemsJSONPostList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tweets.json", `[
		{"full_text": "first post", "tweet_id": "t1", "url": "https://x.com/1", "created_at": "2025-01-01T00:00:00Z"},
		{"text": "second post", "id": 42},
		{"no_text_field": true},
		"not an object"
	]`)

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first post", items[0].Text)
	assert.Equal(t, "t1", items[0].Meta["id"])
	assert.Equal(t, "https://x.com/1", items[0].Meta["url"])
	assert.Equal(t, "2025-01-01T00:00:00Z", items[0].Meta["created_at"])
	assert.Equal(t, "second post", items[1].Text)
	assert.Equal(t, float64(42), items[1].Meta["id"])
}

func TestItemsJSONWrappedList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "export.json", `{
		"posts": [
			{"content": "wrapped post", "id": "p1", "created_at": "2025-02-02"},
			{"content": ""}
		]
	}`)

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "wrapped post", items[0].Text)
	assert.Equal(t, "p1", items[0].Meta["id"])
}

func TestItemsJSONDictFallbackStringifies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.json", `{"theme": "dark", "count": 3}`)

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Text, `"theme":"dark"`)
	assert.Equal(t, true, items[0].Meta["json_fallback"])
}

func TestItemsJSONArrayWithoutPostsKeepsRawText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lines.json", `["first note", "second note"]`)

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, `["first note", "second note"]`, items[0].Text)
	assert.Equal(t, true, items[0].Meta["binary_as_text"])
}

func TestItemsJSONScalarKeepsRawText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scalar.json", `"a bare string note"`)

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, `"a bare string note"`, items[0].Text)
	assert.Equal(t, true, items[0].Meta["binary_as_text"])
}

func TestItemsJSONInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", `{not json`)

	items, err := Items(path)

	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestItemsUnknownExtensionAsText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "export.csv", "a,b,c\n1,2,3")

	items, err := Items(path)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a,b,c\n1,2,3", items[0].Text)
	assert.Equal(t, true, items[0].Meta["binary_as_text"])
}

func TestItemsMissingFile(t *testing.T) {
	_, err := Items(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}
