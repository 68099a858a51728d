package validation

import (
	"regexp"
	"strings"
)

// OwnerPattern defines the valid repository owner format: alphanumeric and hyphens,
// no leading/trailing hyphen.
var OwnerPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

// RepoPattern defines the valid repository name format: alphanumeric, hyphens,
// underscores and dots.
var RepoPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateOwner checks if a repository owner matches the allowed pattern.
func ValidateOwner(owner string) bool {
	if owner == "" || len(owner) > 39 {
		return false
	}
	return OwnerPattern.MatchString(owner)
}

// ValidateRepoName checks if a repository name matches the allowed pattern.
func ValidateRepoName(name string) bool {
	if name == "" || len(name) > 100 {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return RepoPattern.MatchString(name)
}

// ValidateQuery checks that a free-text query is non-empty after trimming and
// within a sane length bound.
func ValidateQuery(query string) (bool, string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false, "query is required"
	}
	if len(trimmed) > 2000 {
		return false, "query exceeds 2000 characters"
	}
	return true, ""
}
