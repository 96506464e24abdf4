package usecase

import "strings"

// resolveBySubstring picks the entity an intent refers to. An explicit id
// wins; otherwise the first item whose name contains query,
// case-insensitively, is returned.
func resolveBySubstring[T any](items []T, id, query string, idOf, nameOf func(T) string) (T, bool) {
	var zero T
	if id = strings.TrimSpace(id); id != "" {
		for _, it := range items {
			if idOf(it) == id {
				return it, true
			}
		}
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return zero, false
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(nameOf(it)), query) {
			return it, true
		}
	}
	return zero, false
}

// isBulk reports whether a habit name addresses every habit.
func isBulk(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "all", "every habit", "everything":
		return true
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
