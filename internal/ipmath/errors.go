// Copyright (c) 2025 Berik Ashimov

package ipmath

import "strconv"

// ParseError reports malformed address, prefix or mask text.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return "parse " + strconv.Quote(e.Input) + ": " + e.Reason
}
