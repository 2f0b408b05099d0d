package compare

// FindMissing computes which keys are present on one side only. It returns
// the keys of b absent from a (missingFromA) and the keys of a absent from
// b (missingFromB). Duplicate keys within one side are collapsed; only
// presence matters, not multiplicity. Output order is unspecified; callers
// needing deterministic output must sort.
func FindMissing[T any, K comparable](keyOf func(T) K, a, b []T) (missingFromA, missingFromB []K) {
	keysA := keySet(keyOf, a)
	keysB := keySet(keyOf, b)
	for k := range keysB {
		if _, ok := keysA[k]; !ok {
			missingFromA = append(missingFromA, k)
		}
	}
	for k := range keysA {
		if _, ok := keysB[k]; !ok {
			missingFromB = append(missingFromB, k)
		}
	}
	return missingFromA, missingFromB
}

func keySet[T any, K comparable](keyOf func(T) K, items []T) map[K]struct{} {
	set := make(map[K]struct{}, len(items))
	for _, item := range items {
		set[keyOf(item)] = struct{}{}
	}
	return set
}

// MissingBy returns every element of a that has no equal element in b,
// using eq for full-value equality. Used where the element is its own key,
// e.g. transaction entries.
func MissingBy[T any](a, b []T, eq func(T, T) bool) []T {
	var missing []T
	for _, item := range a {
		found := false
		for _, other := range b {
			if eq(item, other) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, item)
		}
	}
	return missing
}
