package validation

import "strings"

// SplitList turns a comma-separated input into a normalized list.
func SplitList(raw string) []string {
	return NormalizeList([]string{raw})
}

// NormalizeList splits every item on commas, trims, drops empty entries and
// removes case-insensitive duplicates, keeping the first spelling.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.Join(strings.Fields(part), " ")
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
