// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package morse

import "fmt"

// OpCode is the instruction encoding interpreted by this machine. The
// subset follows the standard EVM numbering.
type OpCode byte

const (
	STOP OpCode = 0x00
	ADD  OpCode = 0x01
	SUB  OpCode = 0x03

	ADDRESS      OpCode = 0x30
	BALANCE      OpCode = 0x31
	CALLER       OpCode = 0x33
	CALLVALUE    OpCode = 0x34
	CALLDATALOAD OpCode = 0x35
	CALLDATASIZE OpCode = 0x36
	EXTCODESIZE  OpCode = 0x3B
	EXTCODEHASH  OpCode = 0x3F

	BLOCKHASH OpCode = 0x40
	TIMESTAMP OpCode = 0x42
	NUMBER    OpCode = 0x43

	POP    OpCode = 0x50
	MLOAD  OpCode = 0x51
	MSTORE OpCode = 0x52
	SLOAD  OpCode = 0x54
	SSTORE OpCode = 0x55

	PUSH1  OpCode = 0x60
	PUSH32 OpCode = 0x7F
	DUP1   OpCode = 0x80
	DUP16  OpCode = 0x8F
	SWAP1  OpCode = 0x90
	SWAP16 OpCode = 0x9F

	LOG0 OpCode = 0xA0
	LOG1 OpCode = 0xA1
	LOG2 OpCode = 0xA2
	LOG3 OpCode = 0xA3
	LOG4 OpCode = 0xA4

	CREATE       OpCode = 0xF0
	CALL         OpCode = 0xF1
	RETURN       OpCode = 0xF3
	REVERT       OpCode = 0xFD
	SELFDESTRUCT OpCode = 0xFF
)

func (op OpCode) String() string {
	switch {
	case op >= PUSH1 && op <= PUSH32:
		return fmt.Sprintf("PUSH%d", op-PUSH1+1)
	case op >= DUP1 && op <= DUP16:
		return fmt.Sprintf("DUP%d", op-DUP1+1)
	case op >= SWAP1 && op <= SWAP16:
		return fmt.Sprintf("SWAP%d", op-SWAP1+1)
	case op >= LOG0 && op <= LOG4:
		return fmt.Sprintf("LOG%d", op-LOG0)
	}
	switch op {
	case STOP:
		return "STOP"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case ADDRESS:
		return "ADDRESS"
	case BALANCE:
		return "BALANCE"
	case CALLER:
		return "CALLER"
	case CALLVALUE:
		return "CALLVALUE"
	case CALLDATALOAD:
		return "CALLDATALOAD"
	case CALLDATASIZE:
		return "CALLDATASIZE"
	case EXTCODESIZE:
		return "EXTCODESIZE"
	case EXTCODEHASH:
		return "EXTCODEHASH"
	case BLOCKHASH:
		return "BLOCKHASH"
	case TIMESTAMP:
		return "TIMESTAMP"
	case NUMBER:
		return "NUMBER"
	case POP:
		return "POP"
	case MLOAD:
		return "MLOAD"
	case MSTORE:
		return "MSTORE"
	case SLOAD:
		return "SLOAD"
	case SSTORE:
		return "SSTORE"
	case CREATE:
		return "CREATE"
	case CALL:
		return "CALL"
	case RETURN:
		return "RETURN"
	case REVERT:
		return "REVERT"
	case SELFDESTRUCT:
		return "SELFDESTRUCT"
	default:
		return fmt.Sprintf("op(0x%02x)", byte(op))
	}
}
