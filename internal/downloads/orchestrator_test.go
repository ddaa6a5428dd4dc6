package downloads_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"postgrab/internal/domain/errs"
	"postgrab/internal/downloads"
	"postgrab/internal/ledger"
	"postgrab/internal/locate"
	"postgrab/internal/models"
)

const testURL = "http://x/y/abc123.mp4"

// fakeFetcher fails the first failures calls, then succeeds, optionally writing a file.
type fakeFetcher struct {
	dir      string
	failures int
	writes   string
	calls    int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) models.ProcessResult {
	f.calls++
	if f.calls <= f.failures {
		return models.ProcessResult{Err: errors.New("exit status 1")}
	}
	if f.writes != "" {
		if err := os.WriteFile(filepath.Join(f.dir, f.writes), []byte("video"), 0o644); err != nil {
			return models.ProcessResult{Err: err}
		}
	}
	return models.ProcessResult{}
}

// immediateLocator scans without waiting.
type immediateLocator struct{ calls int }

func (l *immediateLocator) Locate(_ context.Context, dir, prefix string) (string, error) {
	l.calls++
	return locate.ScanDir(dir, prefix)
}

// memStore keeps saved ledgers in memory.
type memStore struct {
	saved [][]string
	err   error
}

func (m *memStore) Load(context.Context) (*ledger.Ledger, error) { return ledger.New(), nil }

func (m *memStore) Save(_ context.Context, l *ledger.Ledger) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, l.URLs())
	return nil
}

func entry() models.ManifestEntry {
	return models.ManifestEntry{
		Time:     "20230101",
		Title:    "My Clip!",
		Desc:     "a/b",
		VideoURL: testURL,
		Type:     "video",
	}
}

func newTestOrch(t *testing.T, f *fakeFetcher, s ledger.Store, l *ledger.Ledger) (*downloads.Orchestrator, *immediateLocator, string) {
	t.Helper()
	dir := t.TempDir()
	f.dir = dir
	loc := &immediateLocator{}
	return downloads.NewOrchestrator(l, s, f, loc, dir), loc, dir
}

// TestDownloadSkipsKnownURL checks a ledger hit does nothing ---------------------------------------------------------------------
func TestDownloadSkipsKnownURL(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{writes: "abc123.mp4.part"}
	s := &memStore{}
	o, loc, dir := newTestOrch(t, f, s, ledger.New(testURL))

	res, err := o.Download(context.Background(), entry())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.Skipped || res.State != models.StateDone {
		t.Fatalf("expected skipped DONE result, got %+v", res)
	}
	if f.calls != 0 || loc.calls != 0 || len(s.saved) != 0 {
		t.Fatalf("expected no fetch, locate or save; got %d/%d/%d", f.calls, loc.calls, len(s.saved))
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("expected no file operations, found %d files", len(entries))
	}
}

// TestDownloadRetriesThenSucceeds checks two failures then success ----------------------------------------------------------------
func TestDownloadRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{failures: 2, writes: "abc123.mp4.part"}
	s := &memStore{}
	l := ledger.New()
	o, _, dir := newTestOrch(t, f, s, l)

	res, err := o.Download(context.Background(), entry())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if f.calls != 3 || res.Attempts != 3 {
		t.Fatalf("expected exactly 3 fetch attempts, got %d (result %d)", f.calls, res.Attempts)
	}
	if res.State != models.StateDone {
		t.Fatalf("expected DONE, got %s", res.State)
	}
	if l.Len() != 1 || !l.Contains(testURL) {
		t.Fatalf("expected ledger to gain exactly one entry, got %v", l.URLs())
	}
	if len(s.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(s.saved))
	}
	if _, err := os.Stat(filepath.Join(dir, "20230101_My Clip_ab.mp4")); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
}

// TestDownloadExhaustsRetries checks three failures end in FAILED ------------------------------------------------------------------
func TestDownloadExhaustsRetries(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{failures: 3, writes: "abc123.mp4.part"}
	s := &memStore{}
	l := ledger.New()
	o, loc, _ := newTestOrch(t, f, s, l)

	res, err := o.Download(context.Background(), entry())
	if !errs.IsFetchProcess(err) {
		t.Fatalf("expected FetchProcessError, got %v", err)
	}
	var fpe *errs.FetchProcessError
	if errors.As(err, &fpe) && fpe.Attempt != 3 {
		t.Fatalf("expected last error from attempt 3, got %d", fpe.Attempt)
	}
	if res.State != models.StateFailed {
		t.Fatalf("expected FAILED, got %s", res.State)
	}
	if f.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", f.calls)
	}
	if loc.calls != 0 {
		t.Fatalf("expected no locate after exhausted retries")
	}
	if l.Len() != 0 || len(s.saved) != 0 {
		t.Fatalf("expected ledger unchanged, got %v (saves %d)", l.URLs(), len(s.saved))
	}
}

// TestDownloadArtifactNotFound checks a missing file is not retried ----------------------------------------------------------------
func TestDownloadArtifactNotFound(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{writes: "unrelated.mp4"}
	s := &memStore{}
	l := ledger.New()
	o, _, _ := newTestOrch(t, f, s, l)

	res, err := o.Download(context.Background(), entry())
	if !errs.IsArtifactNotFound(err) {
		t.Fatalf("expected ArtifactNotFoundError, got %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected no retry on missing file, got %d fetches", f.calls)
	}
	if res.State != models.StateFailed || l.Len() != 0 {
		t.Fatalf("expected FAILED with unchanged ledger, got %s / %v", res.State, l.URLs())
	}
}

// TestDownloadRenameError checks a failed move surfaces as RenameError --------------------------------------------------------------
func TestDownloadRenameError(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{writes: "abc123.mp4.part"}
	l := ledger.New()
	o, _, dir := newTestOrch(t, f, &memStore{}, l)

	// A non-empty directory at the destination makes the rename fail
	dst := filepath.Join(dir, "20230101_My Clip_ab.mp4")
	if err := os.MkdirAll(filepath.Join(dst, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := o.Download(context.Background(), entry())
	if !errs.IsRename(err) {
		t.Fatalf("expected RenameError, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected ledger unchanged after rename failure")
	}
}

// TestDownloadSaveFailure checks ledger persistence is best-effort unless strict ----------------------------------------------------
func TestDownloadSaveFailure(t *testing.T) {
	t.Parallel()

	// Best-effort
	f := &fakeFetcher{writes: "abc123.mp4.part"}
	l := ledger.New()
	o, _, _ := newTestOrch(t, f, &memStore{err: errors.New("disk full")}, l)

	res, err := o.Download(context.Background(), entry())
	if err != nil {
		t.Fatalf("expected save failure to be swallowed, got %v", err)
	}
	if res.State != models.StateDone || !l.Contains(testURL) {
		t.Fatalf("expected DONE with in-memory ledger updated, got %s / %v", res.State, l.URLs())
	}

	// Strict
	f = &fakeFetcher{writes: "abc123.mp4.part"}
	strict := ledger.New()
	o, _, _ = newTestOrch(t, f, &memStore{err: errors.New("disk full")}, strict)
	o.StrictLedger = true
	if _, err := o.Download(context.Background(), entry()); err == nil {
		t.Fatalf("expected strict ledger save failure to fail the entry")
	}
	if strict.Contains(testURL) {
		t.Fatalf("expected unsaved URL dropped from the in-memory ledger, got %v", strict.URLs())
	}

	// A later duplicate of the same URL is fetched again, not skipped
	res, err = o.Download(context.Background(), entry())
	if res.Skipped || f.calls != 2 {
		t.Fatalf("expected duplicate to be fetched again, got %+v after %d fetches (err %v)", res, f.calls, err)
	}
}

// TestDownloadDryRun checks nothing runs in dry-run mode ----------------------------------------------------------------------------
func TestDownloadDryRun(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{writes: "abc123.mp4.part"}
	l := ledger.New()
	o, _, _ := newTestOrch(t, f, &memStore{}, l)
	o.DryRun = true

	res, err := o.Download(context.Background(), entry())
	if err != nil || !res.DryRun {
		t.Fatalf("expected dry run result, got %+v / %v", res, err)
	}
	if f.calls != 0 || l.Len() != 0 {
		t.Fatalf("expected no fetch and no ledger change in dry run")
	}
}

// TestDownloadEndToEnd runs two passes against a real ledger file and directory locator ---------------------------------------------
func TestDownloadEndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store := ledger.NewJSONStore(filepath.Join(dir, "downloaded_videos.json"))

	// First run
	l, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	f := &fakeFetcher{dir: dir, writes: "abc123.mp4.part"}
	o := downloads.NewOrchestrator(l, store, f, locate.NewDirLocator(0), dir)

	if _, err := o.Download(ctx, entry()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "20230101_My Clip_ab.mp4")); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc123.mp4.part")); !os.IsNotExist(err) {
		t.Fatalf("expected original artifact gone, got %v", err)
	}

	// Second run with the persisted ledger
	l2, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !l2.Contains(testURL) {
		t.Fatalf("expected persisted ledger to contain %q, got %v", testURL, l2.URLs())
	}

	f2 := &fakeFetcher{dir: dir, writes: "abc123.mp4.part"}
	o2 := downloads.NewOrchestrator(l2, store, f2, locate.NewDirLocator(0), dir)
	res, err := o2.Download(ctx, entry())
	if err != nil || !res.Skipped {
		t.Fatalf("expected skip on second run, got %+v / %v", res, err)
	}
	if f2.calls != 0 {
		t.Fatalf("expected no subprocess on second run, got %d", f2.calls)
	}
}

// TestNewTask checks the derived task fields -------------------------------------------------------------------------------------
func TestNewTask(t *testing.T) {
	t.Parallel()

	o := downloads.NewOrchestrator(ledger.New(), &memStore{}, &fakeFetcher{}, &immediateLocator{}, t.TempDir())
	task := o.NewTask(entry())
	if task.SourceURL != testURL || task.CanonicalName != "20230101_My Clip_ab.mp4" || task.RetriesRemaining != 3 {
		t.Fatalf("unexpected task %+v", task)
	}

	o.TimeFormat = "2006-01-02"
	e := entry()
	e.Time = "2023-01-01T10:00:00Z"
	if got := o.NewTask(e).CanonicalName; got != "2023-01-01_My Clip_ab.mp4" {
		t.Fatalf("expected reformatted time, got %q", got)
	}
}
