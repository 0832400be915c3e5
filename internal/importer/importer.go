// Package importer turns uploaded text files into candidate reference items.
// Comma-separated and plain text files are read the same way: one item per
// line, optionally wrapped in one layer of quotes.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkordes/product-registry/internal/domain"
)

// Format is a recognised import file format.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatText
)

// String returns the file extension of f without the dot.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatText:
		return "txt"
	}
	return "unknown"
}

// ContentType is the media type a file of format f is served with.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// DetectFormat infers the format from the file extension, case-insensitively.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".txt":
		return FormatText, nil
	}
	if ext == "" {
		return 0, fmt.Errorf("file %q has no extension: %w", filename, domain.ErrUnsupportedFormat)
	}
	return 0, fmt.Errorf("%s files are not supported, use .csv or .txt: %w", ext, domain.ErrUnsupportedFormat)
}

// ParseFormat parses "csv" or "txt".
func ParseFormat(s string) (Format, error) {
	return DetectFormat("x." + s)
}

// Result partitions the unique items of an import.
type Result struct {
	// New holds items absent from the current list, in order of first occurrence.
	New []string
	// Duplicates holds items already in the current list.
	Duplicates []string
}

// Examples returns up to n items of each partition for user feedback.
func (r Result) Examples(n int) (newItems, duplicates []string) {
	return head(r.New, n), head(r.Duplicates, n)
}

// Normalize splits content into lines, trims them, strips one layer of
// matching surrounding quotes, drops empty lines and repeated items, and
// partitions what is left by exact match against existing.
func Normalize(content string, existing []string) Result {
	have := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		have[e] = struct{}{}
	}

	res := Result{New: []string{}, Duplicates: []string{}}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		item := strings.TrimSpace(unquote(strings.TrimSpace(line)))
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		if _, ok := have[item]; ok {
			res.Duplicates = append(res.Duplicates, item)
		} else {
			res.New = append(res.New, item)
		}
	}
	return res
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func head(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(items) < n {
		n = len(items)
	}
	return append([]string{}, items[:n]...)
}
