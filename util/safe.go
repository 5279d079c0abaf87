package util

// SafeString returns empty string if null
func SafeString(input *string) string {
	if input == nil {
		return ""
	}
	return *input
}

// RefString returns a reference to a string
func RefString(input string) *string {
	return &input
}

// RefInt32 returns a reference to an int32
func RefInt32(input int32) *int32 {
	return &input
}

// CopyBytes returns a copy of input that does not alias it; nil stays nil.
func CopyBytes(input []byte) []byte {
	if input == nil {
		return nil
	}
	out := make([]byte, len(input))
	copy(out, input)
	return out
}
