package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrWriteGuard is returned when a write would shrink the store file. A
// shorter document almost always means a truncated or partially generated
// payload, never a legitimate append.
var ErrWriteGuard = errors.New("write refused: new content has fewer lines than existing file")

// LineCount returns the number of lines in the file at path, 0 if the file
// does not exist.
func LineCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count lines: %w", err)
	}
	return countLines(string(data)), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// SafeWrite overwrites path with content, refusing with ErrWriteGuard when
// the content has strictly fewer lines than the current file. The guard is a
// heuristic against silent history loss, not a diff. The overwrite itself is
// a single full write and is not atomic against a crash mid-write.
func SafeWrite(path string, content []byte) error {
	before, err := LineCount(path)
	if err != nil {
		return err
	}
	after := countLines(string(content))

	if after < before {
		return fmt.Errorf("%w (%d -> %d lines)", ErrWriteGuard, before, after)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
