package utils

import "strconv"

// ParsePositiveID parses a route parameter as a positive integer id.
// A value that does not parse, or parses to zero or below, is a malformed
// identifier, which callers report separately from "not found".
func ParsePositiveID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
