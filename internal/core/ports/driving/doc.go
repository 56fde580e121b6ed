// Package driving defines the interfaces the core exposes to its
// callers: the CLI, the watch loop and any future front end.
package driving
