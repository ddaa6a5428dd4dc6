package models

// DownloadTask is derived from a ManifestEntry and consumed by one orchestrator run.
type DownloadTask struct {
	SourceURL        string
	CanonicalName    string
	RetriesRemaining int
}

// ProcessResult holds the outcome of one downloader invocation.
type ProcessResult struct {
	Err    error
	Stdout string
	Stderr string
}

// OK reports whether the process launched and exited cleanly.
func (r ProcessResult) OK() bool {
	return r.Err == nil
}
