package library

import (
	"path/filepath"
	"strings"
)

// ValidatePath ensures the path is within the expected root directory.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if cleanPath != cleanRoot && !strings.HasPrefix(cleanPath, prefix) {
		return ErrPathTraversal
	}
	return nil
}
