package catalog

import "strings"

const SuggestionLimit = 5

func Suggest(snapshot []Product, query string, limit int) []Product {
	out := []Product{}
	if query == "" || limit <= 0 {
		return out
	}

	q := strings.ToLower(query)
	for _, p := range snapshot {
		if !titleMatches(p.Title, q) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
