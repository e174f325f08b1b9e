// Package ingest discovers lab report PDFs on the local filesystem and
// fingerprints their content, so the same report saved under two names
// is only extracted once.
package ingest

// FileResult is the per-file discovery outcome.
type FileResult struct {
	Path         string
	HashHex      string
	Deduplicated bool   // same content already seen earlier in this scan
	Err          string // non-empty when the entry could not be read
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Deduplicated uint32
	Failed       uint32
}
