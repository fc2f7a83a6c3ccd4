package storage

import (
	"fmt"
	"strings"
)

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo" -> []string{"foo"}
//   - "/foo//bar/" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no trailing
// or repeated slashes.
func CleanPath(path string) string {
	return "/" + strings.Join(SplitPath(path), "/")
}

// JoinPath joins a group path and a child name.
func JoinPath(groupPath, name string) string {
	g := CleanPath(groupPath)
	if g == "/" {
		return "/" + name
	}
	return g + "/" + name
}

// ValidName checks a group or dataset name. Names must be non-empty, contain
// no slash and not start with a dot; dot names are reserved for metadata.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidPath)
	case strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: name %q contains '/'", ErrInvalidPath, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: name %q starts with '.'", ErrInvalidPath, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name %q contains NUL", ErrInvalidPath, name)
	}
	return nil
}

// ValidPath checks every component of a group path.
func ValidPath(path string) error {
	for _, name := range SplitPath(path) {
		if err := ValidName(name); err != nil {
			return err
		}
	}
	return nil
}
