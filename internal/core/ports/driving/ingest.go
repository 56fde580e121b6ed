package driving

import "context"

// IngestResult summarises one ingestion run.
type IngestResult struct {
	// AddedChunks is the number of newly appended chunks. Downstream
	// consumers use a nonzero count as the trigger for profile updates.
	AddedChunks int

	// FilesProcessed counts the files that entered the pipeline.
	FilesProcessed int

	// FilesSkipped counts the files skipped as unchanged.
	FilesSkipped int

	// FilesFailed counts the files whose parsing failed; they are
	// still marked processed so they do not fail again on every run.
	FilesFailed int
}

// Ingestor converts the source-document tree into corpus chunks.
type Ingestor interface {
	// Ingest runs one pass over the tree. When full is false, files
	// whose content digest is unchanged are skipped entirely.
	Ingest(ctx context.Context, full bool) (IngestResult, error)
}
