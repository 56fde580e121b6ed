// Package weighting contains the pure scoring functions behind chunk
// ranking: the ingestion-time content weight, the heuristic depth score,
// the cognitive-weight multiplier and the recency decay. Nothing here
// performs I/O; every function is deterministic given its inputs.
package weighting
