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

import (
	"math"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/holiman/uint256"
)

// Gas costs are a deliberately coarse approximation of the EVM fee
// schedule; this machine is a host-callback exerciser, not a gas oracle.
const (
	gasQuick        = 2
	gasBase         = 3
	gasBlockHash    = 20
	gasExternal     = 700
	gasSloadCost    = 800
	gasSstoreCost   = 5000
	gasLogBase      = 375
	gasLogPerByte   = 8
	gasCreateCost   = 32000
	gasCallCost     = 700
	gasSelfDestruct = 5000
	gasMemoryWord   = 3
)

// maxMemorySize bounds the linear memory of a single execution.
const maxMemorySize = 1 << 22

type execution struct {
	host       fidelio.Host
	revision   fidelio.Revision
	msg        fidelio.Message
	code       fidelio.Code
	gas        fidelio.Gas
	stackLimit int

	stack  []uint256.Int
	memory []byte
	pc     int
	output fidelio.Data
}

func (e *execution) run() fidelio.Result {
	status := e.interpret()
	result := fidelio.Result{Status: status}
	if status.RetainsGas() {
		result.GasLeft = e.gas
		result.Output = e.output
	}
	return result
}

func (e *execution) interpret() fidelio.StatusCode {
	for e.pc < len(e.code) {
		op := OpCode(e.code[e.pc])

		switch {
		case op >= PUSH1 && op <= PUSH32:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			n := int(op-PUSH1) + 1
			var word [32]byte
			data := e.code[e.pc+1:]
			if len(data) > n {
				data = data[:n]
			}
			// Immediate arguments reaching beyond the code end are
			// zero-padded.
			copy(word[32-n:], data)
			if !e.pushBytes(word[:]) {
				return fidelio.StatusStackOverflow
			}
			e.pc += n + 1
			continue

		case op >= DUP1 && op <= DUP16:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			n := int(op-DUP1) + 1
			if len(e.stack) < n {
				return fidelio.StatusStackUnderflow
			}
			if !e.pushValue(e.stack[len(e.stack)-n]) {
				return fidelio.StatusStackOverflow
			}
			e.pc++
			continue

		case op >= SWAP1 && op <= SWAP16:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			n := int(op-SWAP1) + 1
			if len(e.stack) < n+1 {
				return fidelio.StatusStackUnderflow
			}
			top := len(e.stack) - 1
			e.stack[top], e.stack[top-n] = e.stack[top-n], e.stack[top]
			e.pc++
			continue

		case op >= LOG0 && op <= LOG4:
			if status := e.opLog(int(op - LOG0)); status != fidelio.StatusSuccess {
				return status
			}
			e.pc++
			continue
		}

		switch op {
		case STOP:
			return fidelio.StatusSuccess

		case ADD, SUB:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			a, okA := e.pop()
			b, okB := e.pop()
			if !okA || !okB {
				return fidelio.StatusStackUnderflow
			}
			var res uint256.Int
			if op == ADD {
				res.Add(&a, &b)
			} else {
				res.Sub(&a, &b)
			}
			e.pushValue(res)

		case POP:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			if _, ok := e.pop(); !ok {
				return fidelio.StatusStackUnderflow
			}

		case ADDRESS:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			if !e.pushAddress(e.msg.Recipient) {
				return fidelio.StatusStackOverflow
			}

		case CALLER:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			if !e.pushAddress(e.msg.Sender) {
				return fidelio.StatusStackOverflow
			}

		case CALLVALUE:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			if !e.pushBytes(e.msg.Value[:]) {
				return fidelio.StatusStackOverflow
			}

		case CALLDATASIZE:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			var size uint256.Int
			size.SetUint64(uint64(len(e.msg.Input)))
			if !e.pushValue(size) {
				return fidelio.StatusStackOverflow
			}

		case CALLDATALOAD:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			offset, ok := e.pop()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			var word [32]byte
			if offset.IsUint64() && offset.Uint64() < uint64(len(e.msg.Input)) {
				copy(word[:], e.msg.Input[offset.Uint64():])
			}
			e.pushBytes(word[:])

		case BALANCE:
			if !e.useGas(gasExternal) {
				return fidelio.StatusOutOfGas
			}
			addr, ok := e.popAddress()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			balance := e.host.GetBalance(addr)
			e.pushBytes(balance[:])

		case EXTCODESIZE:
			if !e.useGas(gasExternal) {
				return fidelio.StatusOutOfGas
			}
			addr, ok := e.popAddress()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			var size uint256.Int
			size.SetUint64(uint64(e.host.GetCodeSize(addr)))
			e.pushValue(size)

		case EXTCODEHASH:
			if !e.useGas(gasExternal) {
				return fidelio.StatusOutOfGas
			}
			addr, ok := e.popAddress()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			hash := e.host.GetCodeHash(addr)
			e.pushBytes(hash[:])

		case BLOCKHASH:
			if !e.useGas(gasBlockHash) {
				return fidelio.StatusOutOfGas
			}
			number, ok := e.pop()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			var hash fidelio.Hash
			if number.IsUint64() && number.Uint64() <= math.MaxInt64 {
				hash = e.host.GetBlockHash(int64(number.Uint64()))
			}
			e.pushBytes(hash[:])

		case TIMESTAMP:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			var res uint256.Int
			res.SetUint64(uint64(e.host.GetTxContext().Timestamp))
			if !e.pushValue(res) {
				return fidelio.StatusStackOverflow
			}

		case NUMBER:
			if !e.useGas(gasQuick) {
				return fidelio.StatusOutOfGas
			}
			var res uint256.Int
			res.SetUint64(uint64(e.host.GetTxContext().BlockNumber))
			if !e.pushValue(res) {
				return fidelio.StatusStackOverflow
			}

		case MLOAD:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			offset, ok := e.pop()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			data, status := e.readMemory(&offset, 32)
			if status != fidelio.StatusSuccess {
				return status
			}
			e.pushBytes(data)

		case MSTORE:
			if !e.useGas(gasBase) {
				return fidelio.StatusOutOfGas
			}
			offset, okO := e.pop()
			value, okV := e.pop()
			if !okO || !okV {
				return fidelio.StatusStackUnderflow
			}
			word := value.Bytes32()
			if status := e.writeMemory(&offset, word[:]); status != fidelio.StatusSuccess {
				return status
			}

		case SLOAD:
			if !e.useGas(gasSloadCost) {
				return fidelio.StatusOutOfGas
			}
			key, ok := e.pop()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			word := e.host.GetStorage(e.msg.Recipient, fidelio.Key(key.Bytes32()))
			e.pushBytes(word[:])

		case SSTORE:
			if e.msg.IsStatic() {
				return fidelio.StatusStaticModeViolation
			}
			if !e.useGas(gasSstoreCost) {
				return fidelio.StatusOutOfGas
			}
			key, okK := e.pop()
			value, okV := e.pop()
			if !okK || !okV {
				return fidelio.StatusStackUnderflow
			}
			// The transition class is relevant for refund accounting only,
			// which this machine does not model.
			e.host.SetStorage(e.msg.Recipient, fidelio.Key(key.Bytes32()), fidelio.Word(value.Bytes32()))

		case CREATE:
			if status := e.opCreate(); status != fidelio.StatusSuccess {
				return status
			}

		case CALL:
			if status := e.opCall(); status != fidelio.StatusSuccess {
				return status
			}

		case RETURN, REVERT:
			offset, okO := e.pop()
			size, okS := e.pop()
			if !okO || !okS {
				return fidelio.StatusStackUnderflow
			}
			if !size.IsUint64() {
				return fidelio.StatusOutOfGas
			}
			data, status := e.readMemory(&offset, size.Uint64())
			if status != fidelio.StatusSuccess {
				return status
			}
			e.output = append(fidelio.Data(nil), data...)
			if op == RETURN {
				return fidelio.StatusSuccess
			}
			return fidelio.StatusRevert

		case SELFDESTRUCT:
			if e.msg.IsStatic() {
				return fidelio.StatusStaticModeViolation
			}
			if !e.useGas(gasSelfDestruct) {
				return fidelio.StatusOutOfGas
			}
			beneficiary, ok := e.popAddress()
			if !ok {
				return fidelio.StatusStackUnderflow
			}
			e.host.SelfDestruct(e.msg.Recipient, beneficiary)
			return fidelio.StatusSuccess

		default:
			return fidelio.StatusUndefinedInstruction
		}
		e.pc++
	}

	// Running off the end of the code is a regular stop.
	return fidelio.StatusSuccess
}

func (e *execution) opLog(topicCount int) fidelio.StatusCode {
	if e.msg.IsStatic() {
		return fidelio.StatusStaticModeViolation
	}
	offset, okO := e.pop()
	size, okS := e.pop()
	if !okO || !okS {
		return fidelio.StatusStackUnderflow
	}
	if !size.IsUint64() {
		return fidelio.StatusOutOfGas
	}
	cost := fidelio.Gas(gasLogBase*(topicCount+1)) + fidelio.Gas(gasLogPerByte)*fidelio.Gas(size.Uint64())
	if !e.useGas(cost) {
		return fidelio.StatusOutOfGas
	}

	topics := make([]fidelio.Hash, topicCount)
	for i := 0; i < topicCount; i++ {
		topic, ok := e.pop()
		if !ok {
			return fidelio.StatusStackUnderflow
		}
		topics[i] = fidelio.Hash(topic.Bytes32())
	}

	data, status := e.readMemory(&offset, size.Uint64())
	if status != fidelio.StatusSuccess {
		return status
	}

	e.host.EmitLog(fidelio.Log{
		Address: e.msg.Recipient,
		Topics:  topics,
		Data:    append(fidelio.Data(nil), data...),
	})
	return fidelio.StatusSuccess
}

func (e *execution) opCreate() fidelio.StatusCode {
	if e.msg.IsStatic() {
		return fidelio.StatusStaticModeViolation
	}
	if !e.useGas(gasCreateCost) {
		return fidelio.StatusOutOfGas
	}
	value, okV := e.pop()
	offset, okO := e.pop()
	size, okS := e.pop()
	if !okV || !okO || !okS {
		return fidelio.StatusStackUnderflow
	}
	if !size.IsUint64() {
		return fidelio.StatusOutOfGas
	}
	initCode, status := e.readMemory(&offset, size.Uint64())
	if status != fidelio.StatusSuccess {
		return status
	}

	childGas := e.gas
	e.gas = 0
	result := e.host.Call(fidelio.Message{
		Kind:   fidelio.Create,
		Flags:  e.msg.Flags,
		Depth:  e.msg.Depth + 1,
		Gas:    childGas,
		Sender: e.msg.Recipient,
		Input:  append(fidelio.Data(nil), initCode...),
		Value:  fidelio.Value(value.Bytes32()),
	})
	e.gas += result.GasLeft

	var res uint256.Int
	if result.Status == fidelio.StatusSuccess {
		res.SetBytes(result.CreatedAddress[:])
	}
	result.Release()
	if !e.pushValue(res) {
		return fidelio.StatusStackOverflow
	}
	return fidelio.StatusSuccess
}

func (e *execution) opCall() fidelio.StatusCode {
	if !e.useGas(gasCallCost) {
		return fidelio.StatusOutOfGas
	}
	gasReq, okG := e.pop()
	addr, okA := e.popAddress()
	value, okV := e.pop()
	inOffset, okIO := e.pop()
	inSize, okIS := e.pop()
	outOffset, okOO := e.pop()
	outSize, okOS := e.pop()
	if !okG || !okA || !okV || !okIO || !okIS || !okOO || !okOS {
		return fidelio.StatusStackUnderflow
	}
	if e.msg.IsStatic() && !value.IsZero() {
		return fidelio.StatusStaticModeViolation
	}
	if !inSize.IsUint64() || !outSize.IsUint64() {
		return fidelio.StatusOutOfGas
	}

	input, status := e.readMemory(&inOffset, inSize.Uint64())
	if status != fidelio.StatusSuccess {
		return status
	}

	childGas := e.gas
	if gasReq.IsUint64() && fidelio.Gas(gasReq.Uint64()) < childGas {
		childGas = fidelio.Gas(gasReq.Uint64())
	}
	e.gas -= childGas

	result := e.host.Call(fidelio.Message{
		Kind:      fidelio.Call,
		Flags:     e.msg.Flags,
		Depth:     e.msg.Depth + 1,
		Gas:       childGas,
		Recipient: addr,
		Sender:    e.msg.Recipient,
		Input:     append(fidelio.Data(nil), input...),
		Value:     fidelio.Value(value.Bytes32()),
	})
	e.gas += result.GasLeft

	if len(result.Output) > 0 && outSize.Uint64() > 0 {
		out := result.Output
		if uint64(len(out)) > outSize.Uint64() {
			out = out[:outSize.Uint64()]
		}
		if status := e.writeMemory(&outOffset, out); status != fidelio.StatusSuccess {
			result.Release()
			return status
		}
	}

	var res uint256.Int
	if result.Status == fidelio.StatusSuccess {
		res.SetUint64(1)
	}
	result.Release()
	if !e.pushValue(res) {
		return fidelio.StatusStackOverflow
	}
	return fidelio.StatusSuccess
}

// --- stack ---

func (e *execution) pushValue(value uint256.Int) bool {
	if len(e.stack) >= e.stackLimit {
		return false
	}
	e.stack = append(e.stack, value)
	return true
}

func (e *execution) pushBytes(data []byte) bool {
	var value uint256.Int
	value.SetBytes(data)
	return e.pushValue(value)
}

func (e *execution) pushAddress(addr fidelio.Address) bool {
	var value uint256.Int
	value.SetBytes(addr[:])
	return e.pushValue(value)
}

func (e *execution) pop() (uint256.Int, bool) {
	if len(e.stack) == 0 {
		return uint256.Int{}, false
	}
	value := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return value, true
}

func (e *execution) popAddress() (fidelio.Address, bool) {
	value, ok := e.pop()
	if !ok {
		return fidelio.Address{}, false
	}
	word := value.Bytes32()
	var addr fidelio.Address
	copy(addr[:], word[12:])
	return addr, true
}

// --- memory ---

// ensureMemory grows the linear memory to cover the given range, charging
// for the growth. Offsets beyond the memory bound are reported as an
// out-of-gas condition, matching the prohibitive cost such an expansion
// would carry.
func (e *execution) ensureMemory(offset *uint256.Int, size uint64) (uint64, fidelio.StatusCode) {
	if size == 0 {
		// A zero-size access touches no memory and is free, independent
		// of the offset.
		return 0, fidelio.StatusSuccess
	}
	if !offset.IsUint64() || offset.Uint64()+size > maxMemorySize {
		return 0, fidelio.StatusOutOfGas
	}
	end := offset.Uint64() + size
	if end > uint64(len(e.memory)) {
		newWords := (end + 31) / 32
		oldWords := uint64(len(e.memory)) / 32
		if !e.useGas(fidelio.Gas(gasMemoryWord) * fidelio.Gas(newWords-oldWords)) {
			return 0, fidelio.StatusOutOfGas
		}
		e.memory = append(e.memory, make([]byte, newWords*32-uint64(len(e.memory)))...)
	}
	return offset.Uint64(), fidelio.StatusSuccess
}

func (e *execution) readMemory(offset *uint256.Int, size uint64) ([]byte, fidelio.StatusCode) {
	start, status := e.ensureMemory(offset, size)
	if status != fidelio.StatusSuccess {
		return nil, status
	}
	return e.memory[start : start+size], fidelio.StatusSuccess
}

func (e *execution) writeMemory(offset *uint256.Int, data []byte) fidelio.StatusCode {
	start, status := e.ensureMemory(offset, uint64(len(data)))
	if status != fidelio.StatusSuccess {
		return status
	}
	copy(e.memory[start:], data)
	return fidelio.StatusSuccess
}

// --- gas ---

func (e *execution) useGas(amount fidelio.Gas) bool {
	if e.gas < amount {
		e.gas = 0
		return false
	}
	e.gas -= amount
	return true
}
