// Package fileutil discovers tutorial documents on disk.
//
// It walks directories collecting AsciiDoc and Markdown files while
// skipping hidden directories and common vendored trees, returning
// absolute paths in sorted order so runs are deterministic. Scanning is
// error tolerant: unreadable subdirectories are collected as non-fatal
// errors and the walk continues.
package fileutil
