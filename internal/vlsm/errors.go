// Copyright (c) 2025 Berik Ashimov

package vlsm

// AllocationError reports a requirement that cannot be placed, such as too
// many hosts for the address space, a block running past the top of the
// space, a base address off the block boundary or a repeated name.
type AllocationError struct {
	Requirement string
	Reason      string
}

func (e *AllocationError) Error() string {
	if e.Requirement == "" {
		return "allocate: " + e.Reason
	}
	return "allocate " + e.Requirement + ": " + e.Reason
}
