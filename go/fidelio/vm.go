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
	"errors"
	"fmt"
)

//go:generate mockgen -source vm.go -destination vm_mock.go -package fidelio

// VirtualMachine is a bytecode execution engine attachable to a Host. An
// instance transitions through the states
//
//	Created -> [Configured]* -> Executing -> Configured|Executing -> Destroyed
//
// where Destroyed is terminal; no method may be invoked after Destroy. The
// embedding host is responsible for honoring this life cycle, it is not
// detected by implementations.
type VirtualMachine interface {
	// Name returns the non-empty identifier of this implementation.
	Name() string

	// Version returns the non-empty version string of this implementation.
	Version() string

	// Execute runs the given code in the context of the provided message
	// and host and blocks until the full call tree, including nested calls
	// dispatched through the host, has completed. The code may be empty,
	// in which case the execution trivially succeeds.
	//
	// The host reference and the message input are borrowed for the
	// duration of the call and must not be retained past return. The
	// returned error channel is reserved for issues internal to the
	// implementation (the negative status codes of the binary contract);
	// whenever it is non-nil the Result is undefined. Execution-domain
	// failures, including reverts, are regular Results. An unsupported
	// revision is reported as an ErrUnsupportedRevision error.
	//
	// Execute may be invoked multiple times, and concurrently if the
	// implementation advertises it, provided each invocation operates on
	// an independent host state.
	Execute(host Host, revision Revision, msg Message, code Code) (Result, error)

	// GetCapabilities returns the set of features advertised by this
	// implementation. The value may depend on preceding configuration
	// calls, but only on those completed before this invocation.
	GetCapabilities() Capabilities

	// Destroy invalidates this instance and releases all resources bound
	// by it.
	Destroy()
}

// ConfigurableVirtualMachine is an optional extension for implementations
// accepting named configuration options.
type ConfigurableVirtualMachine interface {
	VirtualMachine

	// SetOption applies a pure configuration change. On a failure, reported
	// through ErrInvalidOptionName or ErrInvalidOptionValue, no partial
	// state change remains.
	SetOption(name string, value string) error
}

var (
	ErrInvalidOptionName  = errors.New("invalid option name")
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// Capabilities is a 32-bit set of feature flags a virtual machine
// advertises. Bit positions are part of the connector contract and must not
// be renumbered.
type Capabilities uint32

const (
	// CapabilityEVM1 signals support for EVM1 bytecode.
	CapabilityEVM1 Capabilities = 1 << 0
	// CapabilityEWASM signals support for ewasm bytecode.
	CapabilityEWASM Capabilities = 1 << 1
	// CapabilityPrecompiles signals support for executing precompiled
	// contracts addressed through empty-code messages.
	CapabilityPrecompiles Capabilities = 1 << 2
)

// Has returns true if all capabilities of the given set are advertised.
func (c Capabilities) Has(o Capabilities) bool {
	return c&o == o
}

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	res := ""
	add := func(mask Capabilities, name string) {
		if c&mask != 0 {
			if res != "" {
				res += "|"
			}
			res += name
		}
	}
	add(CapabilityEVM1, "evm1")
	add(CapabilityEWASM, "ewasm")
	add(CapabilityPrecompiles, "precompiles")
	if rest := c &^ (CapabilityEVM1 | CapabilityEWASM | CapabilityPrecompiles); rest != 0 {
		if res != "" {
			res += "|"
		}
		res += fmt.Sprintf("0x%x", uint32(rest))
	}
	return res
}
