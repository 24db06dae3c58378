package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateIncludeURL validates the locator of a custom URL include.
// The URL must be absolute and use the http or https scheme; PlantUML
// resolves it when the diagram is rendered, so nothing is fetched here.
func ValidateIncludeURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInclude, "include URL cannot be empty")
	}
	if hasControl(rawURL) {
		return New(ErrCodeInvalidInclude, "include URL contains invalid characters")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInclude, err, "malformed include URL %q", rawURL)
	}
	if !u.IsAbs() || u.Host == "" {
		return New(ErrCodeInvalidInclude, "include URL must be absolute: %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInclude, "include URL must use http or https scheme: %q", rawURL)
	}
	return nil
}

// ValidateIncludeFile validates the locator of a custom file include.
// Absolute and relative paths are both allowed; the path is emitted verbatim
// and resolved by PlantUML relative to the generated file.
func ValidateIncludeFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInclude, "include file cannot be empty")
	}
	if hasControl(path) {
		return New(ErrCodeInvalidInclude, "include file contains invalid characters")
	}
	return nil
}

// ValidatePath validates an output directory or workspace path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if hasControl(path) {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	return nil
}

// viewKeyRegex matches keys that are safe to use as output file names.
var viewKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateViewKey validates a view key. Keys become file names
// (<key>.puml), so they must not contain path separators.
func ValidateViewKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "view key cannot be empty")
	}
	if len(key) > 256 {
		return New(ErrCodeInvalidInput, "view key too long (max 256 characters)")
	}
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "view key cannot contain '..': %q", key)
	}
	if !viewKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid view key: %q", key)
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
