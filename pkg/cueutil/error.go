// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError formats a CUE error with JSON path prefixes for clear error messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Example:
//   - config.cue: ui.color_scheme: 3 errors in empty disjunction
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts a CUE error path (["entries", "0", "directory"]) to
// JSON-path notation ("entries[0].directory").
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
