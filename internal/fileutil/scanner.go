package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentExtensions are the file extensions recognized as tutorial
// documents.
var DocumentExtensions = []string{".adoc", ".asciidoc", ".md", ".markdown"}

// defaultExcludeDirs are directory names skipped during recursive scans
// in addition to hidden directories.
var defaultExcludeDirs = []string{"node_modules", "vendor", "target"}

// ScanOptions configures document discovery.
type ScanOptions struct {
	// Extensions restricts matched files; defaults to DocumentExtensions.
	Extensions []string
	// ExcludeDirs lists extra directory names to skip.
	ExcludeDirs []string
	// MaxDepth limits recursion depth (0 = unlimited, 1 = top level only).
	MaxDepth int
}

// ScanResult holds the outcome of a document scan.
type ScanResult struct {
	// Files contains the absolute paths of matched documents, sorted.
	Files []string
	// Errors contains non-fatal errors encountered while walking.
	Errors []error
}

// DiscoverDocuments resolves a path argument into the list of documents
// to verify. A file path yields that single file; a directory is scanned
// recursively for documents.
func DiscoverDocuments(path string) (*ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		return &ScanResult{Files: []string{abs}}, nil
	}

	return ScanDirectory(path, ScanOptions{})
}

// ScanDirectory walks dir collecting documents matching opts.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DocumentExtensions
	}
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	excludeMap := make(map[string]bool)
	for _, name := range defaultExcludeDirs {
		excludeMap[name] = true
	}
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}

		if path == dir {
			return nil
		}

		if d.IsDir() {
			if excludeMap[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 {
				relPath, _ := filepath.Rel(dir, path)
				depth := strings.Count(relPath, string(filepath.Separator)) + 1
				if depth >= opts.MaxDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !extMap[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		result.Files = append(result.Files, absPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)
	return result, nil
}
