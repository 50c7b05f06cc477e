package organize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/litsort/litsort/internal/reference"
)

// fakeExtractor maps base filenames to canned DOI extraction results.
type fakeExtractor struct {
	dois map[string]string
	errs map[string]error
}

func (f fakeExtractor) ExtractDOI(path string) (string, error) {
	base := filepath.Base(path)
	if err, ok := f.errs[base]; ok {
		return "", err
	}
	return f.dois[base], nil
}

// fakeResolver maps DOIs to canned metadata.
type fakeResolver struct {
	metas map[string]*reference.Metadata
}

func (f fakeResolver) Resolve(ctx context.Context, doi string) *reference.Metadata {
	return f.metas[doi]
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub "+name), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func smithMeta() *reference.Metadata {
	return &reference.Metadata{
		DOI:     "10.1/a",
		Title:   "Foo",
		Authors: []reference.Author{{Family: "Smith"}},
		Year:    "2020",
		Journal: "J",
		Source:  "openalex",
	}
}

func TestRun_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "good.pdf")
	writePDF(t, dir, "nodoi.pdf")
	writePDF(t, dir, "unresolved.pdf")

	extractor := fakeExtractor{dois: map[string]string{
		"good.pdf":       "10.1/a",
		"nodoi.pdf":      "",
		"unresolved.pdf": "10.9/zzz",
	}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{
		"10.1/a": smithMeta(),
	}}

	p := New(Options{
		Directory:         dir,
		CollectReferences: true,
		MoveProblematic:   true,
	}, extractor, resolver, zerolog.Nop())

	var events []Event
	p.OnFileDone(func(e Event) { events = append(events, e) })

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.Processed != 3 {
		t.Errorf("Processed = %d, want 3", result.Stats.Processed)
	}
	if result.Stats.Renamed != 1 {
		t.Errorf("Renamed = %d, want 1", result.Stats.Renamed)
	}
	if result.Stats.Problematic != 2 {
		t.Errorf("Problematic = %d, want 2", result.Stats.Problematic)
	}
	if len(events) != 3 {
		t.Errorf("got %d completion events, want 3", len(events))
	}

	renamed := filepath.Join(dir, NamedDirName, "(Smith, 2020) - Foo.pdf")
	if _, err := os.Stat(renamed); err != nil {
		t.Errorf("renamed file missing at %s: %v", renamed, err)
	}

	if len(result.References) != 1 {
		t.Fatalf("got %d references, want 1", len(result.References))
	}
	ref := result.References[0]
	if ref.DOI != "10.1/a" || ref.AuthorFamily != "Smith" {
		t.Errorf("reference entry = %+v", ref)
	}
	if ref.Filename != "(Smith, 2020) - Foo.pdf" {
		t.Errorf("reference filename = %q", ref.Filename)
	}
}

func TestRun_QuarantineMovesOriginal(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "mystery.pdf")
	original, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	p := New(Options{
		Directory:       dir,
		MoveProblematic: true,
	}, fakeExtractor{}, fakeResolver{}, zerolog.Nop())

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("original still exists at %s", src)
	}

	quarantined := filepath.Join(dir, UnnamedDirName, "mystery.pdf")
	copied, err := os.ReadFile(quarantined)
	if err != nil {
		t.Fatalf("quarantined copy missing: %v", err)
	}
	if string(copied) != string(original) {
		t.Error("quarantined copy differs from original")
	}
}

func TestRun_QuarantineReasonPrefix(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "mystery.pdf")

	p := New(Options{
		Directory:       dir,
		MoveProblematic: true,
		PrefixReasons:   true,
	}, fakeExtractor{}, fakeResolver{}, zerolog.Nop())

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tagged := filepath.Join(dir, UnnamedDirName, "MISSING_DOI_mystery.pdf")
	if _, err := os.Stat(tagged); err != nil {
		t.Errorf("tagged quarantine file missing at %s: %v", tagged, err)
	}
}

func TestRun_CollisionSuffixes(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "one.pdf")
	writePDF(t, dir, "two.pdf")
	writePDF(t, dir, "three.pdf")

	// All three resolve to identical metadata, forcing name collisions.
	extractor := fakeExtractor{dois: map[string]string{
		"one.pdf": "10.1/a", "two.pdf": "10.1/a", "three.pdf": "10.1/a",
	}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{"10.1/a": smithMeta()}}

	p := New(Options{Directory: dir, Workers: 1}, extractor, resolver, zerolog.Nop())
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Renamed != 3 {
		t.Fatalf("Renamed = %d, want 3", result.Stats.Renamed)
	}

	named := filepath.Join(dir, NamedDirName)
	for _, name := range []string{
		"(Smith, 2020) - Foo.pdf",
		"(Smith, 2020) - Foo_1.pdf",
		"(Smith, 2020) - Foo_2.pdf",
	} {
		if _, err := os.Stat(filepath.Join(named, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRun_CategoryCounters(t *testing.T) {
	dir := t.TempDir()
	extractor := fakeExtractor{dois: map[string]string{}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{}}

	for i := 0; i < 5; i++ {
		name := string(rune('a'+i)) + ".pdf"
		writePDF(t, dir, name)
		doi := "10.1038/nature" + name
		extractor.dois[name] = doi
		resolver.metas[doi] = &reference.Metadata{
			DOI:     doi,
			Title:   "Paper " + name,
			Authors: []reference.Author{{Family: "Author" + name}},
			Year:    "2021",
			Journal: "Nature",
		}
	}

	p := New(Options{Directory: dir, ByJournal: true}, extractor, resolver, zerolog.Nop())
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := result.Stats.CategoryCounts[AxisJournal]["Nature"]; got != 5 {
		t.Errorf("CategoryCounts[journal][Nature] = %d, want 5", got)
	}
	if got := result.Stats.CategorizedFiles[AxisJournal]; got != 5 {
		t.Errorf("CategorizedFiles[journal] = %d, want 5", got)
	}

	catDir := filepath.Join(dir, CategorizedDirName, "by_journal", "Nature")
	entries, err := os.ReadDir(catDir)
	if err != nil {
		t.Fatalf("reading %s: %v", catDir, err)
	}
	if len(entries) != 5 {
		t.Errorf("%d files in %s, want 5", len(entries), catDir)
	}
}

func TestRun_UncategorizedFallback(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "nojournal.pdf")

	meta := smithMeta()
	meta.Journal = ""
	extractor := fakeExtractor{dois: map[string]string{"nojournal.pdf": "10.1/a"}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{"10.1/a": meta}}

	p := New(Options{Directory: dir, ByJournal: true}, extractor, resolver, zerolog.Nop())
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := result.Stats.CategoryCounts[AxisJournal][uncategorizedValue]; got != 1 {
		t.Errorf("uncategorized count = %d, want 1", got)
	}
}

func TestRun_NothingToDo(t *testing.T) {
	p := New(Options{Directory: t.TempDir()}, fakeExtractor{}, fakeResolver{}, zerolog.Nop())
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.NothingToDo {
		t.Error("NothingToDo = false for empty directory")
	}
	if result.Stats.Processed != 0 {
		t.Errorf("Processed = %d, want 0", result.Stats.Processed)
	}
}

// blockingResolver parks the first lookup until released, so a test can flip
// the stop flag while that file is in flight.
type blockingResolver struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingResolver) Resolve(ctx context.Context, doi string) *reference.Metadata {
	b.once.Do(func() { close(b.started) })
	<-b.release
	m := smithMeta()
	m.DOI = doi
	return m
}

func TestRun_StopSkipsUnstartedFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}
	dois := map[string]string{}
	for _, name := range names {
		writePDF(t, dir, name)
		dois[name] = "10.1/" + name
	}

	resolver := &blockingResolver{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := New(Options{Directory: dir, Workers: 1}, fakeExtractor{dois: dois}, resolver, zerolog.Nop())

	// Stop while the first file is mid-resolution; with one worker, no other
	// file has started yet.
	go func() {
		<-resolver.started
		p.Stop()
		close(resolver.release)
	}()

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Only the in-flight file counts; the rest never started.
	if result.Stats.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Stats.Processed)
	}
	if result.Stats.Renamed != 1 {
		t.Errorf("Renamed = %d, want 1", result.Stats.Renamed)
	}

	remaining := 0
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			remaining++
		}
	}
	if remaining != 3 {
		t.Errorf("%d originals left in place, want 3 (unstarted files untouched)", remaining)
	}
}

func TestRun_BackupWrittenBeforeMove(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "keep.pdf")

	extractor := fakeExtractor{dois: map[string]string{"keep.pdf": "10.1/a"}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{"10.1/a": smithMeta()}}

	p := New(Options{Directory: dir, CreateBackups: true}, extractor, resolver, zerolog.Nop())
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	backup := filepath.Join(dir, BackupDirName, "keep.pdf")
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("backup missing at %s: %v", backup, err)
	}
}

func TestRun_BackupFailureQuarantines(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "keep.pdf")

	// A plain file squats on the backup directory name, making mkdir fail.
	if err := os.WriteFile(filepath.Join(dir, BackupDirName), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	extractor := fakeExtractor{dois: map[string]string{"keep.pdf": "10.1/a"}}
	resolver := fakeResolver{metas: map[string]*reference.Metadata{"10.1/a": smithMeta()}}

	p := New(Options{
		Directory:       dir,
		CreateBackups:   true,
		MoveProblematic: true,
		PrefixReasons:   true,
	}, extractor, resolver, zerolog.Nop())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Problematic != 1 {
		t.Errorf("Problematic = %d, want 1", result.Stats.Problematic)
	}

	// The file is quarantined with the filesystem-error tag like every other
	// failure path, not stranded at the source.
	quarantined := filepath.Join(dir, UnnamedDirName, "FS_ERROR_keep.pdf")
	if _, err := os.Stat(quarantined); err != nil {
		t.Errorf("quarantined copy missing at %s: %v", quarantined, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("original still exists at %s", src)
	}
}

func TestRun_ReadErrorOutcome(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "broken.pdf")

	extractor := fakeExtractor{errs: map[string]error{"broken.pdf": errors.New("truncated xref")}}
	p := New(Options{Directory: dir}, extractor, fakeResolver{}, zerolog.Nop())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Problematic != 1 {
		t.Errorf("Problematic = %d, want 1", result.Stats.Problematic)
	}
	// MoveProblematic is off: the file must stay put.
	if _, err := os.Stat(filepath.Join(dir, "broken.pdf")); err != nil {
		t.Errorf("original should remain in place: %v", err)
	}
}

func TestTargetFilename(t *testing.T) {
	meta := smithMeta()
	if got := targetFilename(meta, ".pdf"); got != "(Smith, 2020) - Foo.pdf" {
		t.Errorf("targetFilename() = %q", got)
	}

	long := smithMeta()
	for len(long.Title) < 400 {
		long.Title += " very long title segment"
	}
	got := targetFilename(long, ".pdf")
	if len(got) > stemMaxLen+len(".pdf") {
		t.Errorf("filename length = %d, want <= %d", len(got), stemMaxLen+len(".pdf"))
	}
}
