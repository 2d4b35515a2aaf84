// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evmc

import (
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/evmc/v11/bindings/go/evmc"
)

// hostContext makes a fidelio.Host accessible to a machine loaded through
// the EVMC library. It implements the host interface of evmc's Go bindings.
//
// Access tracking is not part of the fidelio.Host surface; it is scoped to
// a single execution and maintained locally.
type hostContext struct {
	host     fidelio.Host
	revision fidelio.Revision

	accessedAccounts map[evmc.Address]struct{}
	accessedSlots    map[storageSlot]struct{}
	destructed       map[evmc.Address]struct{}
}

type storageSlot struct {
	addr evmc.Address
	key  evmc.Hash
}

func (ctx *hostContext) AccountExists(addr evmc.Address) bool {
	return ctx.host.AccountExists(fidelio.Address(addr))
}

func (ctx *hostContext) GetStorage(addr evmc.Address, key evmc.Hash) evmc.Hash {
	return evmc.Hash(ctx.host.GetStorage(fidelio.Address(addr), fidelio.Key(key)))
}

func (ctx *hostContext) SetStorage(addr evmc.Address, key evmc.Hash, value evmc.Hash) evmc.StorageStatus {
	status := ctx.host.SetStorage(fidelio.Address(addr), fidelio.Key(key), fidelio.Word(value))
	return toEvmcStorageStatus(status)
}

func (ctx *hostContext) GetBalance(addr evmc.Address) evmc.Hash {
	return evmc.Hash(ctx.host.GetBalance(fidelio.Address(addr)))
}

func (ctx *hostContext) GetCodeSize(addr evmc.Address) int {
	return ctx.host.GetCodeSize(fidelio.Address(addr))
}

func (ctx *hostContext) GetCodeHash(addr evmc.Address) evmc.Hash {
	return evmc.Hash(ctx.host.GetCodeHash(fidelio.Address(addr)))
}

func (ctx *hostContext) GetCode(addr evmc.Address) []byte {
	size := ctx.host.GetCodeSize(fidelio.Address(addr))
	if size == 0 {
		return nil
	}
	code := make([]byte, size)
	n := ctx.host.CopyCode(fidelio.Address(addr), 0, code)
	return code[:n]
}

func (ctx *hostContext) Selfdestruct(addr evmc.Address, beneficiary evmc.Address) bool {
	ctx.host.SelfDestruct(fidelio.Address(addr), fidelio.Address(beneficiary))
	if ctx.destructed == nil {
		ctx.destructed = map[evmc.Address]struct{}{}
	}
	if _, seen := ctx.destructed[addr]; seen {
		return false
	}
	ctx.destructed[addr] = struct{}{}
	return true
}

func (ctx *hostContext) GetTxContext() evmc.TxContext {
	txContext := ctx.host.GetTxContext()
	return evmc.TxContext{
		GasPrice:   evmc.Hash(txContext.GasPrice),
		Origin:     evmc.Address(txContext.Origin),
		Coinbase:   evmc.Address(txContext.Coinbase),
		Number:     txContext.BlockNumber,
		Timestamp:  txContext.Timestamp,
		GasLimit:   int64(txContext.GasLimit),
		PrevRandao: evmc.Hash(txContext.Difficulty),
		ChainID:    evmc.Hash(txContext.ChainID),
	}
}

func (ctx *hostContext) GetBlockHash(number int64) evmc.Hash {
	return evmc.Hash(ctx.host.GetBlockHash(number))
}

func (ctx *hostContext) EmitLog(addr evmc.Address, topicsIn []evmc.Hash, data []byte) {
	topics := make([]fidelio.Hash, len(topicsIn))
	for i := range topics {
		topics[i] = fidelio.Hash(topicsIn[i])
	}
	ctx.host.EmitLog(fidelio.Log{
		Address: fidelio.Address(addr),
		Topics:  topics,
		Data:    data,
	})
}

func (ctx *hostContext) Call(kind evmc.CallKind, recipient evmc.Address, sender evmc.Address, value evmc.Hash, input []byte, gas int64, depth int, static bool, salt evmc.Hash, codeAddress evmc.Address) (output []byte, gasLeft int64, gasRefund int64, createAddr evmc.Address, err error) {
	callKind, err := toFidelioCallKind(kind)
	if err != nil {
		return nil, 0, 0, evmc.Address{}, err
	}

	var flags fidelio.MessageFlags
	if static {
		flags |= fidelio.StaticFlag
	}

	result := ctx.host.Call(fidelio.Message{
		Kind:      callKind,
		Flags:     flags,
		Depth:     depth,
		Gas:       fidelio.Gas(gas),
		Recipient: fidelio.Address(recipient),
		Sender:    fidelio.Address(sender),
		Input:     input,
		Value:     fidelio.Value(value),
		Salt:      fidelio.Hash(salt),
	})
	// The result is released before returning, so its output needs to be
	// copied out of the machine-owned buffer first.
	output = append([]byte(nil), result.Output...)
	gasLeft = int64(result.GasLeft)
	createAddr = evmc.Address(result.CreatedAddress)
	status := result.Status
	result.Release()

	switch {
	case status == fidelio.StatusSuccess:
		err = nil
	case status == fidelio.StatusRevert:
		err = evmc.Revert
	default:
		err = evmc.Error(status)
	}
	return output, gasLeft, 0, createAddr, err
}

func (ctx *hostContext) AccessAccount(addr evmc.Address) evmc.AccessStatus {
	if ctx.accessedAccounts == nil {
		ctx.accessedAccounts = map[evmc.Address]struct{}{}
	}
	if _, warm := ctx.accessedAccounts[addr]; warm {
		return evmc.WarmAccess
	}
	ctx.accessedAccounts[addr] = struct{}{}
	return evmc.ColdAccess
}

func (ctx *hostContext) AccessStorage(addr evmc.Address, key evmc.Hash) evmc.AccessStatus {
	if ctx.accessedSlots == nil {
		ctx.accessedSlots = map[storageSlot]struct{}{}
	}
	slot := storageSlot{addr, key}
	if _, warm := ctx.accessedSlots[slot]; warm {
		return evmc.WarmAccess
	}
	ctx.accessedSlots[slot] = struct{}{}
	return evmc.ColdAccess
}
