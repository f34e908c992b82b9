package utils

// Map applies mapper to each element.
//
// The result is not nil even when sli is nil.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for i, v := range sli {
		ret[i] = mapper(v)
	}
	return ret
}
