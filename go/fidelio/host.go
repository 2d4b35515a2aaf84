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

//go:generate mockgen -source host.go -destination host_mock.go -package fidelio

// Host is the fixed set of operations a virtual machine may invoke against
// blockchain state during the execution of a message. It is the Go rendition
// of the callback table of the connector contract; the opaque execution
// context token passed alongside the table in the binary contract is
// subsumed by the receiver of a concrete implementation.
//
// A Host implementation is immutable from the perspective of a VM and may
// be shared read-only between concurrent executions, as long as each call
// tree operates on its own underlying execution state. None of the
// operations report failures out-of-band; absence is signaled through zero
// values and nested execution outcomes through the status of the returned
// Result. Every operation is synchronous; Call may recurse back into the
// calling virtual machine.
type Host interface {
	// AccountExists answers the existence of the given account without any
	// side effects.
	AccountExists(Address) bool

	// GetStorage returns the current value of the given storage slot, or a
	// zero word if the account or the slot does not exist.
	GetStorage(Address, Key) Word

	// SetStorage updates the given storage slot and classifies the effect
	// of the write. Virtual machines only ever target the account they are
	// executing, whose existence the host has established beforehand.
	SetStorage(Address, Key, Word) StorageStatus

	// GetBalance returns the balance of the given account, or zero if the
	// account does not exist.
	GetBalance(Address) Value

	// GetCodeSize returns the size of the code deployed at the given
	// account, or zero if the account does not exist.
	GetCodeSize(Address) int

	// GetCodeHash returns the hash of the code of the given account, the
	// hash of empty data if the account exists without code, or a zero hash
	// if the account does not exist.
	GetCodeHash(Address) Hash

	// CopyCode copies min(len(buffer), codeSize-offset) bytes of the code
	// deployed at the given account, starting at the given offset, into the
	// buffer. It returns the number of bytes copied, which is zero if the
	// offset is at or beyond the end of the code.
	CopyCode(addr Address, offset int, buffer []byte) int

	// SelfDestruct marks the given account for destruction and transfers
	// its balance to the beneficiary. It does not halt the execution; the
	// virtual machine decides whether to stop.
	SelfDestruct(addr Address, beneficiary Address)

	// EmitLog records a log entry with up to four topics. The order of log
	// entries emitted by one call tree is preserved.
	EmitLog(Log)

	// Call dispatches a nested message, potentially into a different
	// virtual machine or a precompiled contract. Depth and gas accounting
	// are propagated per the message. Ownership of the returned Result
	// transfers to the caller, who must eventually release it.
	Call(Message) Result

	// GetTxContext returns the ambient transaction and block environment,
	// stable for the lifetime of one top-level transaction.
	GetTxContext() TxContext

	// GetBlockHash returns the hash of the block with the given number, or
	// a zero hash if the block is outside the retrievable window.
	GetBlockHash(number int64) Hash
}

// MaxLogTopics is the upper bound for the number of topics of a single log
// entry.
const MaxLogTopics = 4

// Log is the type summarizing a log message emitted as a side effect of a
// contract execution.
type Log struct {
	Address Address
	Topics  []Hash // at most MaxLogTopics entries
	Data    Data
}
