package config

import "strings"

// DefaultNonNetworkSchemes returns URL schemes whose resources are never
// fetched over the network. An LCP image served from one of these has no
// network record and therefore no load phases.
func DefaultNonNetworkSchemes() []string {
	return []string{
		// Inline
		"data",
		"blob",

		// Browser internals
		"about",
		"chrome",
		"chrome-extension",
		"moz-extension",
		"safari-extension",
		"edge",

		// Local
		"file",
		"filesystem",
	}
}

// requiredNonNetworkSchemes are kept even when a config file replaces the
// scheme list.
func requiredNonNetworkSchemes() []string {
	return []string{"data", "blob"}
}

// mergeSchemes returns base followed by every entry of extra not already in
// base, compared case-insensitively.
func mergeSchemes(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":"))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
