package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UsernamePattern matches X handles: letters, digits and underscore, 1-15 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)

const (
	// MaxNameLen is the longest folder name accepted, in runes.
	MaxNameLen = 255
	// MaxTitleLen is the longest bookmark title accepted, in runes.
	MaxTitleLen = 512
	// MaxURLLen is the longest bookmark URL accepted, in bytes.
	MaxURLLen = 2048
)

// ValidateUsername checks a handle returned by the identity provider.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and underscores (1-15 characters)")
	}
	return nil
}

// NormalizeName trims a folder name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return name, nil
}

// NormalizeTitle trims a bookmark title and checks its length.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title cannot be blank")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}
	return title, nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if len(raw) > MaxURLLen {
		return fmt.Errorf("url must not exceed %d characters", MaxURLLen)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url is malformed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must have a host")
	}
	return nil
}

// ValidateID checks that id is a UUID as issued by this service.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("id %q is not a valid identifier", id)
	}
	return nil
}
