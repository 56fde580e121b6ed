// Package file provides the TOML-based settings store. It persists the
// non-secret knobs (paths, weighting flags, routing thresholds, LLM
// provider selection) in ~/.secondbrain/config.toml; secrets stay in the
// environment.
package file
