package services

import (
	"strings"

	"nathanbeddoewebdev/namectl/internal/util"
)

func cacheKey(provider string, parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	if provider != "" {
		values = append(values, util.NormalizeKey(provider))
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, util.NormalizeKey(part))
	}
	if len(values) == 0 {
		return "names"
	}
	return strings.Join(values, "_")
}

// migrationKey keys the migration cache. An empty resolver yields the
// prefix shared by every resolver of name.
func migrationKey(name, resolver string) string {
	return name + "|" + resolver
}
