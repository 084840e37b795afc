// Package sliceutil provides generic helpers for slices.
package sliceutil

import "strings"

// GroupBy partitions slice by the key returned for each element.
//
// It returns the distinct keys in first-seen order together with the groups.
// Elements keep their input order inside each group. The input is not modified.
func GroupBy[T any, K comparable](slice []T, key func(T) K) ([]K, map[K][]T) {
	order := make([]K, 0)
	groups := make(map[K][]T)
	for _, item := range slice {
		k := key(item)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], item)
	}
	return order, groups
}

// Filter returns the elements of slice for which keep returns true, in order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	result := make([]T, 0, len(slice))
	for _, item := range slice {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}

// ContainsAny reports whether s contains at least one of substrings.
func ContainsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
