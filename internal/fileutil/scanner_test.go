package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("= Doc\n"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func baseNames(files []string) []string {
	names := make([]string, len(files))
	for i, path := range files {
		names[i] = filepath.Base(path)
	}
	return names
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"intro.adoc",
		"guide.md",
		"GUIDE2.MD",
		"notes.txt",
		"style.css",
		"chapters/ch1.adoc",
		"chapters/ch2.markdown",
		"chapters/deep/ch3.asciidoc",
		".hidden/secret.adoc",
		"node_modules/pkg/readme.md",
		"vendor/dep/doc.adoc",
	})

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
	}{
		{
			name: "default document extensions, recursive",
			opts: ScanOptions{},
			wantFileNames: []string{
				"GUIDE2.MD", "ch1.adoc", "ch2.markdown", "ch3.asciidoc",
				"guide.md", "intro.adoc",
			},
		},
		{
			name:          "single extension",
			opts:          ScanOptions{Extensions: []string{".adoc"}},
			wantFileNames: []string{"ch1.adoc", "intro.adoc"},
		},
		{
			name:          "extension without dot prefix",
			opts:          ScanOptions{Extensions: []string{"md"}},
			wantFileNames: []string{"GUIDE2.MD", "guide.md"},
		},
		{
			name:          "max depth 1",
			opts:          ScanOptions{MaxDepth: 1},
			wantFileNames: []string{"GUIDE2.MD", "guide.md", "intro.adoc"},
		},
		{
			name:          "max depth 2",
			opts:          ScanOptions{MaxDepth: 2},
			wantFileNames: []string{"GUIDE2.MD", "ch1.adoc", "ch2.markdown", "guide.md", "intro.adoc"},
		},
		{
			name:          "extra excluded directory",
			opts:          ScanOptions{ExcludeDirs: []string{"chapters"}},
			wantFileNames: []string{"GUIDE2.MD", "guide.md", "intro.adoc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if len(result.Errors) != 0 {
				t.Errorf("unexpected scan errors: %v", result.Errors)
			}

			got := baseNames(result.Files)
			if len(got) != len(tt.wantFileNames) {
				t.Fatalf("file count = %d, want %d\ngot: %v\nwant: %v",
					len(got), len(tt.wantFileNames), got, tt.wantFileNames)
			}
			// Output is sorted, so compare element by element.
			for i, want := range tt.wantFileNames {
				if got[i] != want {
					t.Errorf("files[%d] = %s, want %s", i, got[i], want)
				}
			}
		})
	}
}

func TestScanDirectoryAbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"doc.md"})

	result, err := ScanDirectory(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if !filepath.IsAbs(result.Files[0]) {
		t.Errorf("returned relative path: %s", result.Files[0])
	}
	if _, err := os.Stat(result.Files[0]); err != nil {
		t.Errorf("file at returned path does not exist: %v", err)
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "non-existent directory",
			setup:   func(t *testing.T) string { return "/nonexistent/directory/path" },
			wantErr: "failed to access directory",
		},
		{
			name: "path is a file not directory",
			setup: func(t *testing.T) string {
				tmpDir := t.TempDir()
				writeTree(t, tmpDir, []string{"doc.md"})
				return filepath.Join(tmpDir, "doc.md")
			},
			wantErr: "path is not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tt.setup(t), ScanOptions{})
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want error containing %q", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("expected nil result on error, got %+v", result)
			}
		})
	}
}

func TestScanDirectoryEmpty(t *testing.T) {
	result, err := ScanDirectory(t.TempDir(), ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("empty dir returned %d files, want 0", len(result.Files))
	}
}

func TestDiscoverDocumentsFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"tutorial.adoc"})

	result, err := DiscoverDocuments(filepath.Join(tmpDir, "tutorial.adoc"))
	if err != nil {
		t.Fatalf("DiscoverDocuments() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if !filepath.IsAbs(result.Files[0]) {
		t.Errorf("single file path must be absolute, got %s", result.Files[0])
	}
	if filepath.Base(result.Files[0]) != "tutorial.adoc" {
		t.Errorf("got %s", result.Files[0])
	}
}

func TestDiscoverDocumentsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"a.adoc",
		"sub/b.md",
		"sub/skip.txt",
	})

	result, err := DiscoverDocuments(tmpDir)
	if err != nil {
		t.Fatalf("DiscoverDocuments() error = %v", err)
	}
	got := baseNames(result.Files)
	want := []string{"a.adoc", "b.md"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiscoverDocumentsMissingPath(t *testing.T) {
	if _, err := DiscoverDocuments("/no/such/path.adoc"); err == nil {
		t.Fatal("expected error for missing path")
	}
}
