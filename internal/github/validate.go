package github

import "strings"

// ValidateRepositoryName checks a name against GitHub's naming rule before
// any request is sent: 1-100 characters, alphanumerics plus `.`, `-`, `_`,
// and none of those three at either end.
func ValidateRepositoryName(name string) bool {
	if len(name) < 1 || len(name) > 100 {
		return false
	}

	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") {
		return false
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}
