// Package store persists the two rate generations and the comparison document.
//
// Each backend keeps three physical slots arranged in a ring and a pointer naming the
// slot that holds the newer generation. The slot before it holds the older generation
// and the slot after it stages the next one. A cycle fills the staging slot while both
// published generations stay readable; Rotate then advances the pointer in one step, so
// the previous newer generation becomes the older one without being copied.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Generation labels one of the retained snapshots of the dataset.
type Generation int

const (
	// Older is the previous cycle's data ("day1").
	Older Generation = iota
	// Newer is the current cycle's data ("day2").
	Newer
	// Staging is the next cycle's data while it is being fetched. Readers never see it.
	Staging
)

func (g Generation) String() string {
	switch g {
	case Older:
		return "day1"
	case Newer:
		return "day2"
	case Staging:
		return "staging"
	default:
		return fmt.Sprintf("generation(%d)", int(g))
	}
}

// ErrNotFound is returned when a snapshot or the comparison document does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidGeneration is returned for an unknown Generation.
var ErrInvalidGeneration = errors.New("invalid generation")

// Store reads and writes whole documents; no document is ever updated in place.
// Base codes are case-insensitive keys.
type Store interface {
	ReadSnapshot(ctx context.Context, gen Generation, base string) ([]byte, error)
	WriteSnapshot(ctx context.Context, gen Generation, base string, doc []byte) error
	// ClearStaging drops whatever an earlier, unfinished cycle left in the staging slot.
	ClearStaging(ctx context.Context) error
	// Rotate publishes the staging generation as the newer one, turns the newer
	// generation into the older one and discards the previous older generation.
	// It is a no-op while the staging generation holds no snapshots.
	Rotate(ctx context.Context) error
	ReadComparison(ctx context.Context) ([]byte, error)
	WriteComparison(ctx context.Context, doc []byte) error
}

// Slot names the physical parts a generation pointer can refer to.
type Slot string

const (
	SlotA Slot = "a"
	SlotB Slot = "b"
	SlotC Slot = "c"
)

var ring = []Slot{SlotA, SlotB, SlotC}

// Slots lists every slot in ring order.
func Slots() []Slot {
	return append([]Slot(nil), ring...)
}

func (s Slot) index() int {
	for i, sl := range ring {
		if sl == s {
			return i
		}
	}
	return -1
}

// Next returns the slot after s in the ring.
func (s Slot) Next() Slot {
	return ring[(s.index()+1)%len(ring)]
}

// Prev returns the slot before s in the ring.
func (s Slot) Prev() Slot {
	return ring[(s.index()+len(ring)-1)%len(ring)]
}

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	return s.index() >= 0
}

// SlotFor resolves gen to a physical slot given the slot that currently holds Newer.
func SlotFor(newer Slot, gen Generation) (Slot, error) {
	if !newer.Valid() {
		return "", fmt.Errorf("unknown slot %q", newer)
	}
	switch gen {
	case Newer:
		return newer, nil
	case Older:
		return newer.Prev(), nil
	case Staging:
		return newer.Next(), nil
	default:
		return "", ErrInvalidGeneration
	}
}
