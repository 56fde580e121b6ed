// Package extract turns raw source files into text items ready for
// chunking. Parsing is deliberately forgiving: structured files fall
// back to coarser interpretations rather than being dropped, so no file
// silently disappears from the corpus.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Item is one extracted text unit plus whatever metadata the source
// reported for it.
type Item struct {
	Text string
	Meta map[string]any
}

// listKeys are the dict fields probed for a list of post-like objects.
var listKeys = []string{"tweets", "posts", "items", "data"}

// Items extracts the text items from a file based on its extension.
//
// Markdown and plain text files become a single item. JSON files are
// interpreted as a list of post-like objects, then as a dict wrapping
// such a list; dicts without one stringify wholesale and any other
// shape keeps its raw bytes. Unknown extensions are read as text with
// a marker noting the fallback.
func Items(path string) ([]Item, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		text, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return []Item{{Text: text, Meta: map[string]any{}}}, nil

	case ".json":
		return jsonItems(path)

	default:
		text, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return []Item{{Text: text, Meta: map[string]any{"binary_as_text": true}}}, nil
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func jsonItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	switch v := parsed.(type) {
	case []any:
		if items := postList(v); len(items) > 0 {
			return items, nil
		}
		return rawTextItem(data), nil

	case map[string]any:
		for _, key := range listKeys {
			list, ok := v[key].([]any)
			if !ok {
				continue
			}
			if items := wrappedPostList(list); len(items) > 0 {
				return items, nil
			}
		}

		// Last resort: stringify the whole object so the file still
		// contributes something searchable.
		blob, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("stringify %s: %w", path, err)
		}
		return []Item{{Text: string(blob), Meta: map[string]any{"json_fallback": true}}}, nil

	default:
		// Scalar top level: keep the raw bytes rather than dropping
		// the file.
		return rawTextItem(data), nil
	}
}

func rawTextItem(data []byte) []Item {
	return []Item{{Text: string(data), Meta: map[string]any{"binary_as_text": true}}}
}

// postList interprets a top-level JSON array as post-like objects.
func postList(list []any) []Item {
	var items []Item
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		text := firstString(obj, "text", "content", "full_text")
		if text == "" {
			continue
		}
		items = append(items, Item{
			Text: text,
			Meta: map[string]any{
				"id":         firstValue(obj, "id", "tweet_id", "uuid"),
				"url":        obj["url"],
				"created_at": firstValue(obj, "created_at", "time"),
			},
		})
	}
	return items
}

// wrappedPostList interprets a list nested under a known dict key.
// Fewer metadata fields are probed here, matching what wrapped exports
// actually carry.
func wrappedPostList(list []any) []Item {
	var items []Item
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		text := firstString(obj, "text", "content")
		if text == "" {
			continue
		}
		items = append(items, Item{
			Text: text,
			Meta: map[string]any{
				"id":         obj["id"],
				"created_at": obj["created_at"],
			},
		})
	}
	return items
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
