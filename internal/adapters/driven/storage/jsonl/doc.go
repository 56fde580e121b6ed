// Package jsonl provides the file-backed persistence adapters: the
// append-only corpus (one JSON chunk per line) plus the small JSON state
// files for ingest digests and the profile cursor.
//
// The corpus file is the source of truth for ingested content. Appends
// go through a single O_APPEND writer guarded by a mutex; readers
// tolerate and skip malformed lines so one bad record never takes the
// corpus offline. State files are replaced atomically via a temp file
// and rename.
package jsonl
