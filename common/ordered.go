// Package common holds small generic helpers shared across the router's
// engines — chiefly maintenance of the "ascending, no duplicates" sequences
// that recur throughout the data model (OutgoingParas, NeedsDispatch, HRMP
// ingress/egress indexes, open/close request lists).
package common

import "golang.org/x/exp/slices"

// InsertUnique inserts v into the ascending slice s if not already present,
// preserving order. Returns the (possibly unchanged) slice and whether an
// insertion happened.
func InsertUnique[T ~uint32 | ~uint64](s []T, v T) ([]T, bool) {
	idx, found := slices.BinarySearch(s, v)
	if found {
		return s, false
	}
	s = slices.Insert(s, idx, v)
	return s, true
}

// RemoveValue removes v from the ascending slice s if present. Returns the
// (possibly unchanged) slice and whether a removal happened.
func RemoveValue[T ~uint32 | ~uint64](s []T, v T) ([]T, bool) {
	idx, found := slices.BinarySearch(s, v)
	if !found {
		return s, false
	}
	return slices.Delete(s, idx, idx+1), true
}

// Contains reports whether the ascending slice s contains v.
func Contains[T ~uint32 | ~uint64](s []T, v T) bool {
	_, found := slices.BinarySearch(s, v)
	return found
}

// IndexOf returns the position of v in the ascending slice s, or -1.
func IndexOf[T ~uint32 | ~uint64](s []T, v T) int {
	idx, found := slices.BinarySearch(s, v)
	if !found {
		return -1
	}
	return idx
}
