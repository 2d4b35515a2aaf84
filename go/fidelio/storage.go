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

import "fmt"

// StorageStatus is an enum classifying the effect of a storage write on the
// respective slot in the context of the current execution. It is derived
// purely from the value transition of the slot and is needed by virtual
// machines to perform proper gas accounting of storage operations.
type StorageStatus int

const (
	// The comment indicates the storage values for the corresponding
	// transition. X, Y, Z are non-zero numbers, distinct from each other,
	// while 0 is zero. <original> is the value of the slot at the start of
	// the call, <current> the value directly before the write.
	//
	// <original> -> <current> -> <new>
	StorageUnchanged     StorageStatus = iota // X -> X -> X
	StorageModified                           // X -> X -> Z
	StorageModifiedAgain                      // X -> Y -> Z
	StorageAdded                              // 0 -> 0 -> Z
	StorageDeleted                            // X -> X -> 0
)

func (s StorageStatus) String() string {
	switch s {
	case StorageUnchanged:
		return "StorageUnchanged"
	case StorageModified:
		return "StorageModified"
	case StorageModifiedAgain:
		return "StorageModifiedAgain"
	case StorageAdded:
		return "StorageAdded"
	case StorageDeleted:
		return "StorageDeleted"
	}
	return fmt.Sprintf("StorageStatus(%d)", int(s))
}

func GetAllStorageStatuses() []StorageStatus {
	return []StorageStatus{
		StorageUnchanged,
		StorageModified,
		StorageModifiedAgain,
		StorageAdded,
		StorageDeleted,
	}
}

// DetermineStorageStatus obtains the status code to be reported by a host
// implementation when mutating a storage slot with the given original
// (=value at the start of the call), current, and new value. Every possible
// transition maps to exactly one status.
func DetermineStorageStatus(original, current, new Word) StorageStatus {
	var zero = Word{}

	if current == new {
		return StorageUnchanged
	}

	// The slot was already modified in the ongoing call.
	if original != current {
		return StorageModifiedAgain
	}

	// 0 -> 0 -> Z
	if current == zero {
		return StorageAdded
	}

	// X -> X -> 0
	if new == zero {
		return StorageDeleted
	}

	// X -> X -> Z
	return StorageModified
}
