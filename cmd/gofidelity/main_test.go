package main

import (
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/gofidelity/internal/app"
)

// Smoke test: run() over a directory with one textually identical pair
// completes with a clean summary and leaves a report behind.
func TestRun_Smoke(t *testing.T) {
	dir := t.TempDir()
	html := "<html><body><p>same text on both sides</p></body></html>"
	if err := os.WriteFile(filepath.Join(dir, "ch.html"), []byte(html), 0o644); err != nil {
		t.Fatalf("write html: %v", err)
	}
	// A deliberately broken PDF: the pair must be isolated, not abort.
	if err := os.WriteFile(filepath.Join(dir, "ch.pdf"), []byte("%PDF-1.4 junk"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	sum, err := run(apppkg.Config{Dir: dir})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if sum.Errored != 1 || sum.Processed != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	if _, err := run(apppkg.Config{Dir: filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
