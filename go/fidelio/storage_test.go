// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"testing"

	"pgregory.net/rand"
)

func TestDetermineStorageStatus_TransitionClasses(t *testing.T) {
	zero := Word{}
	x := Word{1}
	y := Word{2}
	z := Word{3}

	tests := map[string]struct {
		original, current, new Word
		want                   StorageStatus
	}{
		"0 -> 0 -> 0": {zero, zero, zero, StorageUnchanged},
		"X -> X -> X": {x, x, x, StorageUnchanged},
		"X -> Y -> Y": {x, y, y, StorageUnchanged},
		"0 -> 0 -> Z": {zero, zero, z, StorageAdded},
		"X -> X -> 0": {x, x, zero, StorageDeleted},
		"X -> X -> Z": {x, x, z, StorageModified},
		"X -> Y -> Z": {x, y, z, StorageModifiedAgain},
		"X -> Y -> 0": {x, y, zero, StorageModifiedAgain},
		"X -> 0 -> Z": {x, zero, z, StorageModifiedAgain},
		"X -> 0 -> X": {x, zero, x, StorageModifiedAgain},
		"0 -> Y -> 0": {zero, y, zero, StorageModifiedAgain},
		"0 -> Y -> Z": {zero, y, z, StorageModifiedAgain},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := DetermineStorageStatus(test.original, test.current, test.new)
			if want := test.want; want != got {
				t.Errorf("unexpected status, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestDetermineStorageStatus_EveryTransitionMapsToExactlyOneClass(t *testing.T) {
	// Enumerate all combinations over a small value domain; each must map
	// to one of the five defined classes.
	domain := []Word{{}, {1}, {2}, {3}}
	known := GetAllStorageStatuses()

	for _, original := range domain {
		for _, current := range domain {
			for _, new := range domain {
				got := DetermineStorageStatus(original, current, new)
				found := false
				for _, status := range known {
					if got == status {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("transition (%v,%v,%v) produced undefined status %v", original, current, new, got)
				}
			}
		}
	}
}

func TestDetermineStorageStatus_RandomWordsFollowTransitionRules(t *testing.T) {
	rnd := rand.New(0)
	randomWord := func() Word {
		var w Word
		// Bias towards zero words to cover the add/delete classes.
		if rnd.Intn(4) == 0 {
			return w
		}
		rnd.Read(w[:])
		return w
	}

	for i := 0; i < 1000; i++ {
		original := randomWord()
		current := randomWord()
		new := randomWord()

		got := DetermineStorageStatus(original, current, new)
		switch {
		case current == new:
			if got != StorageUnchanged {
				t.Fatalf("write of identical value must be unchanged, got %v", got)
			}
		case original != current:
			if got != StorageModifiedAgain {
				t.Fatalf("repeated modification must be classified as such, got %v", got)
			}
		case current == (Word{}):
			if got != StorageAdded {
				t.Fatalf("zero to non-zero must be added, got %v", got)
			}
		case new == (Word{}):
			if got != StorageDeleted {
				t.Fatalf("non-zero to zero must be deleted, got %v", got)
			}
		default:
			if got != StorageModified {
				t.Fatalf("first overwrite must be modified, got %v", got)
			}
		}
	}
}

func TestStorageStatus_String(t *testing.T) {
	for _, status := range GetAllStorageStatuses() {
		if status.String() == "" {
			t.Errorf("missing string representation for %d", int(status))
		}
	}
	if want, got := "StorageStatus(42)", StorageStatus(42).String(); want != got {
		t.Errorf("unexpected fallback representation, wanted %v, got %v", want, got)
	}
}
