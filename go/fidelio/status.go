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

// StatusCode classifies the outcome of executing a message. Zero is success,
// positive values are failure modes defined by the execution specification,
// and negative values are reserved for issues internal to a virtual machine
// implementation. Negative codes must never be surfaced past the host
// boundary as if they were execution outcomes; in this package they travel
// on the error channel of VirtualMachine.Execute instead.
type StatusCode int

const (
	StatusSuccess StatusCode = 0

	StatusFailure                   StatusCode = 1
	StatusRevert                    StatusCode = 2
	StatusOutOfGas                  StatusCode = 3
	StatusInvalidInstruction        StatusCode = 4
	StatusUndefinedInstruction      StatusCode = 5
	StatusStackOverflow             StatusCode = 6
	StatusStackUnderflow            StatusCode = 7
	StatusBadJumpDestination        StatusCode = 8
	StatusInvalidMemoryAccess       StatusCode = 9
	StatusCallDepthExceeded         StatusCode = 10
	StatusStaticModeViolation       StatusCode = 11
	StatusPrecompileFailure         StatusCode = 12
	StatusContractValidationFailure StatusCode = 13
	StatusArgumentOutOfRange        StatusCode = 14

	StatusInternalError StatusCode = -1
	StatusRejected      StatusCode = -2
	StatusOutOfMemory   StatusCode = -3
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRevert:
		return "revert"
	case StatusOutOfGas:
		return "out_of_gas"
	case StatusInvalidInstruction:
		return "invalid_instruction"
	case StatusUndefinedInstruction:
		return "undefined_instruction"
	case StatusStackOverflow:
		return "stack_overflow"
	case StatusStackUnderflow:
		return "stack_underflow"
	case StatusBadJumpDestination:
		return "bad_jump_destination"
	case StatusInvalidMemoryAccess:
		return "invalid_memory_access"
	case StatusCallDepthExceeded:
		return "call_depth_exceeded"
	case StatusStaticModeViolation:
		return "static_mode_violation"
	case StatusPrecompileFailure:
		return "precompile_failure"
	case StatusContractValidationFailure:
		return "contract_validation_failure"
	case StatusArgumentOutOfRange:
		return "argument_out_of_range"
	case StatusInternalError:
		return "internal_error"
	case StatusRejected:
		return "rejected"
	case StatusOutOfMemory:
		return "out_of_memory"
	default:
		return fmt.Sprintf("StatusCode(%d)", int(s))
	}
}

// IsError returns true for every status but success.
func (s StatusCode) IsError() bool {
	return s != StatusSuccess
}

// IsInternal returns true for status codes reserved for VM-internal issues.
func (s StatusCode) IsInternal() bool {
	return s < 0
}

// RetainsGas returns true if an execution ending with this status retains
// unconsumed gas. All other outcomes consume the full gas budget of the
// message.
func (s StatusCode) RetainsGas() bool {
	return s == StatusSuccess || s == StatusRevert
}
