// Package imageindex maps specimen numbers to their photograph filenames.
//
// The index is built once at startup from a directory scan and is immutable
// afterwards, so handlers may read it concurrently without synchronization.
// A reload constructs a fresh index rather than mutating a live one.
package imageindex

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vmcollection/spidermap-go/internal/errors"
)

// Index is the read-only mapping from specimen token (e.g. "VM100") to the
// ordered list of image filenames carrying that token.
type Index struct {
	byToken map[string][]string
	count   int
}

// New builds an index from a list of filenames. Filenames follow the legacy
// convention <prefix>_<token>_<suffix>.<ext>; the second underscore-delimited
// segment is the specimen token. Filenames with no extractable token are
// skipped, not errors.
func New(filenames []string) *Index {
	idx := &Index{byToken: make(map[string][]string)}
	for _, name := range filenames {
		token, ok := tokenFromFilename(name)
		if !ok {
			continue
		}
		idx.byToken[token] = append(idx.byToken[token], name)
		idx.count++
	}
	return idx
}

// Load scans a directory and builds the index from its regular files.
func Load(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(err).
			Component("imageindex").
			Category(errors.CategoryFileIO).
			Context("dir", dir).
			Build()
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	return New(filenames), nil
}

// tokenFromFilename extracts the specimen token: the second underscore-delimited
// segment, extension-trimmed when the token is the final segment, uppercased.
func tokenFromFilename(name string) (string, bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return "", false
	}
	token := parts[1]
	if len(parts) == 2 {
		token = strings.TrimSuffix(token, filepath.Ext(token))
	}
	if token == "" {
		return "", false
	}
	return strings.ToUpper(token), true
}

// Filenames returns the image filenames for a specimen token. A missing token
// yields an empty list, never an error.
func (idx *Index) Filenames(token string) []string {
	return idx.byToken[strings.ToUpper(token)]
}

// Tokens returns the number of distinct specimen tokens indexed.
func (idx *Index) Tokens() int {
	return len(idx.byToken)
}

// Size returns the number of filenames indexed.
func (idx *Index) Size() int {
	return idx.count
}
