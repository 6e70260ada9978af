package utils

// FindIndex returns the index of the first item equal to item, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// RemoveAt drops slice[i] keeping the order. The backing array is reused.
func RemoveAt[T any](slice []T, i int) []T {
	if i < 0 || i >= len(slice) {
		return slice
	}
	return append(slice[:i], slice[i+1:]...)
}
