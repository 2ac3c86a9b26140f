package common

import (
	"errors"
	"regexp"
	"strings"
)

const (
	SlugMinLen = 2
	SlugMaxLen = 50
)

var (
	ErrEmptySlug   = errors.New("slug cannot be empty")
	ErrInvalidSlug = errors.New("slug must be 2-50 lowercase alphanumerics and hyphens")

	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
)

// Slugify derives a URL-safe slug from input, falling back to the given
// default when input carries no usable characters.
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// ValidateSlug checks a caller-provided slug without normalizing it.
// Lookups are exact-match, so the slug must already be canonical.
func ValidateSlug(slug string) error {
	if len(slug) < SlugMinLen || len(slug) > SlugMaxLen {
		return ErrInvalidSlug
	}
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
