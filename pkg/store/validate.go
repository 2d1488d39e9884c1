package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// Validate checks that the file at path is syntactically valid JSON. It
// returns the verdict and a human-readable diagnostic. Syntax failures
// include the byte offset and the derived line/column of the first error.
// Validation never modifies the file.
func Validate(path string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("file not found: %s", path)
		}
		return false, fmt.Sprintf("unable to read %s: %v", path, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if syn, ok := err.(*json.SyntaxError); ok {
			line, col := offsetPosition(data, syn.Offset)
			return false, fmt.Sprintf("invalid JSON: %v at line %d column %d (offset %d)", syn, line, col, syn.Offset)
		}
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, "JSON is valid"
}

// offsetPosition converts a byte offset into 1-based line and column.
func offsetPosition(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
