package hermestools

// Map returns a new slice holding transform applied to each element of input.
func Map[T any, Y any](input []T, transform func(T) Y) []Y {
	result := make([]Y, 0, len(input))
	for _, i := range input {
		result = append(result, transform(i))
	}

	return result
}
