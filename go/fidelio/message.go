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
	"encoding/json"
	"fmt"
	"strings"
)

// CallKind is an enum enabling the differentiation of the different types
// of recursive contract calls supported by the connector contract.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	CallCode
	Create
	Create2
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case DelegateCall:
		return "delegate_call"
	case CallCode:
		return "call_code"
	case Create:
		return "create"
	case Create2:
		return "create2"
	default:
		return "unknown"
	}
}

func (k CallKind) MarshalJSON() ([]byte, error) {
	var res string
	switch k {
	case Call, DelegateCall, CallCode, Create, Create2:
		res = k.String()
	default:
		return nil, fmt.Errorf("invalid call kind: %v", k)
	}
	return json.Marshal(res)
}

func (k *CallKind) UnmarshalJSON(data []byte) error {
	var kind string
	if err := json.Unmarshal(data, &kind); err != nil {
		return err
	}
	switch strings.ToLower(kind) {
	case "call":
		*k = Call
	case "delegate_call":
		*k = DelegateCall
	case "call_code":
		*k = CallCode
	case "create":
		*k = Create
	case "create2":
		*k = Create2
	default:
		return fmt.Errorf("unknown call kind: %s", kind)
	}
	return nil
}

// MessageFlags is a 32-bit set of flags modifying the execution of a single
// message. Bit positions are part of the connector contract and must not be
// renumbered; bits without an assigned meaning must remain zero.
type MessageFlags uint32

const (
	// StaticFlag marks an execution in which any state modification is
	// prohibited.
	StaticFlag MessageFlags = 1 << 0
)

// Valid returns true if only flag bits with an assigned meaning are set.
func (f MessageFlags) Valid() bool {
	return f&^StaticFlag == 0
}

// Message summarizes a single call or create request to be executed by a
// virtual machine.
type Message struct {
	Kind      CallKind
	Flags     MessageFlags
	Depth     int     // the current call depth, 0 for a top-level call
	Gas       Gas     // the gas available for the execution
	Recipient Address // the account to be executed, target of a value transfer
	Sender    Address
	Input     Data  // borrowed from the caller, nil if empty
	Value     Value // the amount of currency transferred with the message
	Salt      Hash  // only meaningful for Create2 messages
}

// IsStatic returns true if the message prohibits state modifications.
func (m *Message) IsStatic() bool {
	return m.Flags&StaticFlag != 0
}

// TxContext is an immutable snapshot of the transaction and block
// environment a call tree is executed in. It is stable for the lifetime of
// one top-level transaction.
type TxContext struct {
	GasPrice    Value
	Origin      Address
	Coinbase    Address
	BlockNumber int64
	Timestamp   int64
	GasLimit    Gas
	Difficulty  Hash
	ChainID     Word
}
