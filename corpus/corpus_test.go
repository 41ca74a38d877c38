package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func collect(t *testing.T, src Source) []Document {
	t.Helper()
	var docs []Document
	if err := src.Documents(context.Background(), func(d Document) error {
		docs = append(docs, d)
		return nil
	}); err != nil {
		t.Fatalf("Documents: %v", err)
	}
	return docs
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Jane Doe appeared in court.")
	writeFile(t, dir, "a.txt", "John Smith was deposed.")
	writeFile(t, dir, "sub/c.html", "<html><body><p>Pat O'Brien testified.</p></body></html>")
	writeFile(t, dir, "ignored.pdf", "%PDF-1.4 binary stuff")

	src := NewDirSource(dir, "https://example.com/files", nil)
	docs := collect(t, src)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	// Lexical order, non-corpus extensions ignored.
	if diff := cmp.Diff([]string{"a.txt", "b.txt", "sub/c.html"}, ids); diff != "" {
		t.Errorf("document order mismatch (-want +got):\n%s", diff)
	}

	if docs[0].Text != "John Smith was deposed." {
		t.Errorf("a.txt text = %q", docs[0].Text)
	}
	if docs[2].Text != "Pat O'Brien testified." {
		t.Errorf("c.html text = %q, want extracted plain text", docs[2].Text)
	}
	if docs[1].SourceURL != "https://example.com/files/b.txt" {
		t.Errorf("SourceURL = %q", docs[1].SourceURL)
	}
	if src.Skipped() != 0 {
		t.Errorf("Skipped = %d, want 0", src.Skipped())
	}
}

func TestDirSourceFileURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "text")

	docs := collect(t, NewDirSource(dir, "", nil))
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0].SourceURL != "file://"+filepath.Join(dir, "a.txt") {
		t.Errorf("SourceURL = %q", docs[0].SourceURL)
	}
}

func TestDirSourceUnreadableSubtree(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Jane Doe appeared.")
	writeFile(t, dir, "locked/b.txt", "John Smith was deposed.")

	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o750) }) //nolint:errcheck // best-effort cleanup

	src := NewDirSource(dir, "", nil)
	docs := collect(t, src)

	if len(docs) != 1 || docs[0].ID != "a.txt" {
		t.Errorf("docs = %+v, want just a.txt (unreadable subtree skipped)", docs)
	}
	if src.Skipped() == 0 {
		t.Error("Skipped = 0, want the unreadable subtree counted")
	}
}

func TestDirSourceMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	err := NewDirSource(missing, "", nil).Documents(context.Background(), func(Document) error {
		t.Error("no documents expected from a missing directory")
		return nil
	})
	if err == nil {
		t.Error("expected an error for a missing corpus directory")
	}
}

func TestDirSourceInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0x00, 0x41}, 0o600); err != nil {
		t.Fatal(err)
	}

	docs := collect(t, NewDirSource(dir, "", nil))
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1 (undecodable content is not a failure)", len(docs))
	}
	if docs[0].Text != "" {
		t.Errorf("Text = %q, want empty for undecodable content", docs[0].Text)
	}
}

func TestDirSourceCallbackError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "text")

	sentinel := errors.New("stop")
	err := NewDirSource(dir, "", nil).Documents(context.Background(), func(Document) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Documents = %v, want callback error", err)
	}
}

func TestDirSourceCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDirSource(dir, "", nil).Documents(ctx, func(Document) error {
		t.Error("callback should not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Documents = %v, want context.Canceled", err)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"paragraphs",
			"<html><body><p>Jane Doe</p><p>was present.</p></body></html>",
			"Jane Doe was present.",
		},
		{
			"script_removed",
			"<html><body><script>var JaneDoe = 1;</script><p>John Smith</p></body></html>",
			"John Smith",
		},
		{
			"style_removed",
			"<html><head><style>.x{}</style></head><body>text</body></html>",
			"text",
		},
		{
			"nested",
			"<div><span>Pat</span> <b>O'Brien</b></div>",
			"Pat O'Brien",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.html); got != tt.want {
				t.Errorf("ExtractText = %q, want %q", got, tt.want)
			}
		})
	}
}
