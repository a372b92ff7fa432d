package reddit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidInput is returned when a profile reference cannot be parsed
// into a username.
var ErrInvalidInput = errors.New("invalid profile URL or username")

// ParseUsername extracts the bare username from a profile reference.
// Accepted shapes: "u/name", "/u/name", "reddit.com/u/name",
// "reddit.com/user/name", any full URL on a reddit.com host with a
// /user/name or /u/name path, or a bare username. Parsing a bare
// username is the identity, so the function is idempotent.
func ParseUsername(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	switch {
	case strings.HasPrefix(s, "u/"), strings.HasPrefix(s, "/u/"):
		return lastSegment(s)
	case strings.HasPrefix(s, "reddit.com/u/"), strings.HasPrefix(s, "reddit.com/user/"):
		return lastSegment(s)
	case strings.Contains(s, "reddit.com"):
		return usernameFromURL(s)
	default:
		// Bare username.
		return s, nil
	}
}

func lastSegment(s string) (string, error) {
	parts := strings.Split(s, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return name, nil
}

func usernameFromURL(s string) (string, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) >= 2 && (parts[0] == "user" || parts[0] == "u") && parts[1] != "" {
		return parts[1], nil
	}
	return "", fmt.Errorf("%w: unrecognized profile path in %q", ErrInvalidInput, s)
}
