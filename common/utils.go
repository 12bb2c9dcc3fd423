package common

// Coalesce picks the first argument that is not the zero value of T, so an unset option field
// can fall back to its default: Coalesce(opts.Threshold, 1).
func Coalesce[T comparable](values ...T) T {
	var unset T
	for _, v := range values {
		if v != unset {
			return v
		}
	}
	return unset
}
