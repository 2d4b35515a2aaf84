// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package inmem provides an in-memory reference implementation of the
// fidelio.Host interface. It maintains a transient world state, dispatches
// nested calls through a configured virtual machine, and implements the
// full callback semantics of the connector contract. It is the host used by
// the driver utility and the integration tests of this repository; it is
// not intended as a production state backend.
package inmem

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"

	// geth dependencies
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxCallDepth is the maximum nesting depth of calls dispatched by this
// host. The connector contract only carries the depth counter; capping it
// is a host responsibility.
const MaxCallDepth = 1024

// maxCodeSize is the deployed-code size limit enforced on contract
// creation.
const maxCodeSize = 24576

// createGasCostPerByte is charged for storing each byte of deployed code.
const createGasCostPerByte = 200

var emptyCodeHash = hashCode(nil)

// codeHashCache memoizes code hashes; init code is frequently re-deployed
// with identical bytes during test runs.
var codeHashCache, _ = lru.New[string, fidelio.Hash](4096)

func hashCode(code fidelio.Code) fidelio.Hash {
	key := string(code)
	if len(code) > 0 {
		if hash, found := codeHashCache.Get(key); found {
			return hash
		}
	}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(code)
	var hash fidelio.Hash
	copy(hash[:], hasher.Sum(nil))
	if len(code) > 0 {
		codeHashCache.Add(key, hash)
	}
	return hash
}

// Config summarizes the parameters of a single in-memory host instance.
type Config struct {
	// VirtualMachine receives the nested calls dispatched by this host.
	// Without a machine every nested call fails.
	VirtualMachine fidelio.VirtualMachine

	// Revision selects the execution rules for all calls of the tree.
	Revision fidelio.Revision

	// TxContext is the ambient environment reported to executions.
	TxContext fidelio.TxContext

	// State is the initial world state; nil starts empty.
	State WorldState

	// BlockHashes is the window of retrievable block hashes.
	BlockHashes map[int64]fidelio.Hash
}

// Host is an in-memory implementation of fidelio.Host covering one call
// tree. Instances are not safe for concurrent use; concurrent call trees
// each require their own Host.
type Host struct {
	state       WorldState
	vm          fidelio.VirtualMachine
	revision    fidelio.Revision
	txContext   fidelio.TxContext
	blockHashes map[int64]fidelio.Hash
	logs        []fidelio.Log
	originals   map[slot]fidelio.Word
	destructed  map[fidelio.Address]bool
}

type slot struct {
	addr fidelio.Address
	key  fidelio.Key
}

// snapshot captures the rollback state of one nested call.
type snapshot struct {
	state      WorldState
	originals  map[slot]fidelio.Word
	destructed map[fidelio.Address]bool
	numLogs    int
}

func NewHost(config Config) *Host {
	state := config.State.Clone()
	if state == nil {
		state = WorldState{}
	}
	return &Host{
		state:       state,
		vm:          config.VirtualMachine,
		revision:    config.Revision,
		txContext:   config.TxContext,
		blockHashes: config.BlockHashes,
		originals:   map[slot]fidelio.Word{},
		destructed:  map[fidelio.Address]bool{},
	}
}

// --- fidelio.Host interface ---

func (h *Host) AccountExists(addr fidelio.Address) bool {
	_, exists := h.state[addr]
	return exists
}

func (h *Host) GetStorage(addr fidelio.Address, key fidelio.Key) fidelio.Word {
	return h.state[addr].Storage[key]
}

func (h *Host) SetStorage(addr fidelio.Address, key fidelio.Key, value fidelio.Word) fidelio.StorageStatus {
	account := h.state[addr]
	current := account.Storage[key]

	id := slot{addr, key}
	original, tracked := h.originals[id]
	if !tracked {
		original = current
		h.originals[id] = original
	}

	status := fidelio.DetermineStorageStatus(original, current, value)

	if account.Storage == nil {
		account.Storage = Storage{}
	}
	if value == (fidelio.Word{}) {
		delete(account.Storage, key)
	} else {
		account.Storage[key] = value
	}
	h.state[addr] = account
	return status
}

func (h *Host) GetBalance(addr fidelio.Address) fidelio.Value {
	return h.state[addr].Balance
}

func (h *Host) GetCodeSize(addr fidelio.Address) int {
	return len(h.state[addr].Code)
}

func (h *Host) GetCodeHash(addr fidelio.Address) fidelio.Hash {
	account, exists := h.state[addr]
	if !exists {
		return fidelio.Hash{}
	}
	if len(account.Code) == 0 {
		return emptyCodeHash
	}
	return hashCode(account.Code)
}

func (h *Host) CopyCode(addr fidelio.Address, offset int, buffer []byte) int {
	code := h.state[addr].Code
	if offset < 0 || offset >= len(code) || len(buffer) == 0 {
		return 0
	}
	return copy(buffer, code[offset:])
}

func (h *Host) SelfDestruct(addr fidelio.Address, beneficiary fidelio.Address) {
	balance := h.GetBalance(addr)
	if addr != beneficiary {
		account := h.state[beneficiary]
		account.Balance = fidelio.Add(account.Balance, balance)
		h.state[beneficiary] = account
	}
	account := h.state[addr]
	account.Balance = fidelio.Value{}
	h.state[addr] = account
	h.destructed[addr] = true
}

func (h *Host) EmitLog(log fidelio.Log) {
	if len(log.Topics) > fidelio.MaxLogTopics {
		panic(fmt.Sprintf("log with %d topics exceeds the topic limit", len(log.Topics)))
	}
	h.logs = append(h.logs, log)
}

func (h *Host) Call(msg fidelio.Message) fidelio.Result {
	if msg.Depth > MaxCallDepth {
		return fidelio.ErrorResult(fidelio.StatusCallDepthExceeded)
	}
	if msg.Kind == fidelio.Create || msg.Kind == fidelio.Create2 {
		return h.executeCreate(msg)
	}
	return h.executeCall(msg)
}

func (h *Host) GetTxContext() fidelio.TxContext {
	return h.txContext
}

func (h *Host) GetBlockHash(number int64) fidelio.Hash {
	return h.blockHashes[number]
}

// --- state access beyond the host interface ---

func (h *Host) CreateAccount(addr fidelio.Address) {
	if _, exists := h.state[addr]; !exists {
		h.state[addr] = Account{}
	}
}

func (h *Host) SetBalance(addr fidelio.Address, balance fidelio.Value) {
	account := h.state[addr]
	account.Balance = balance
	h.state[addr] = account
}

func (h *Host) GetNonce(addr fidelio.Address) uint64 {
	return h.state[addr].Nonce
}

func (h *Host) SetNonce(addr fidelio.Address, nonce uint64) {
	account := h.state[addr]
	account.Nonce = nonce
	h.state[addr] = account
}

func (h *Host) GetCode(addr fidelio.Address) fidelio.Code {
	return h.state[addr].Code
}

func (h *Host) SetCode(addr fidelio.Address, code fidelio.Code) {
	account := h.state[addr]
	account.Code = code
	h.state[addr] = account
}

// Logs returns the log entries emitted so far, in emission order.
func (h *Host) Logs() []fidelio.Log {
	return h.logs
}

// SelfDestructed returns true if the given account was marked for
// destruction in the ongoing call tree.
func (h *Host) SelfDestructed(addr fidelio.Address) bool {
	return h.destructed[addr]
}

// State returns a copy of the current world state.
func (h *Host) State() WorldState {
	return h.state.Clone()
}

// --- nested call handling ---

func (h *Host) createSnapshot() snapshot {
	destructed := make(map[fidelio.Address]bool, len(h.destructed))
	for k, v := range h.destructed {
		destructed[k] = v
	}
	originals := make(map[slot]fidelio.Word, len(h.originals))
	for k, v := range h.originals {
		originals[k] = v
	}
	return snapshot{
		state:      h.state.Clone(),
		originals:  originals,
		destructed: destructed,
		numLogs:    len(h.logs),
	}
}

func (h *Host) restoreSnapshot(s snapshot) {
	h.state = s.state
	h.originals = s.originals
	h.destructed = s.destructed
	h.logs = h.logs[:s.numLogs]
}

func (h *Host) executeCall(msg fidelio.Message) fidelio.Result {
	if h.vm == nil {
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}

	transfersValue := msg.Kind == fidelio.Call || msg.Kind == fidelio.CallCode
	if transfersValue && !h.canTransferValue(msg.Value, msg.Sender, msg.Recipient) {
		// The nested call never starts; the gas budget is handed back.
		return fidelio.Result{Status: fidelio.StatusRevert, GasLeft: msg.Gas}
	}

	state := h.createSnapshot()
	if transfersValue {
		h.transferValue(msg.Value, msg.Sender, msg.Recipient)
	}

	code := h.GetCode(msg.Recipient)

	result, err := h.vm.Execute(h, h.revision, msg, code)
	if err != nil {
		// Issues internal to the machine must not surface as execution
		// outcomes; the call is treated as an unrecoverable failure.
		h.restoreSnapshot(state)
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}
	if result.Status != fidelio.StatusSuccess {
		h.restoreSnapshot(state)
		if !result.Status.RetainsGas() {
			result.GasLeft = 0
		}
	}
	result.CreatedAddress = fidelio.Address{}
	return result
}

func (h *Host) executeCreate(msg fidelio.Message) fidelio.Result {
	if h.vm == nil {
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}

	if !h.canTransferValue(msg.Value, msg.Sender, msg.Recipient) {
		return fidelio.Result{Status: fidelio.StatusRevert, GasLeft: msg.Gas}
	}
	if err := h.incrementNonce(msg.Sender); err != nil {
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}

	initCode := fidelio.Code(msg.Input)
	initCodeHash := hashCode(initCode)
	createdAddress := createAddress(msg.Kind, msg.Sender, h.GetNonce(msg.Sender)-1, msg.Salt, initCodeHash)

	if h.GetNonce(createdAddress) != 0 ||
		(h.GetCodeHash(createdAddress) != (fidelio.Hash{}) &&
			h.GetCodeHash(createdAddress) != emptyCodeHash) {
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}

	state := h.createSnapshot()
	h.CreateAccount(createdAddress)
	h.SetNonce(createdAddress, 1)
	h.transferValue(msg.Value, msg.Sender, createdAddress)

	execMsg := msg
	execMsg.Recipient = createdAddress
	execMsg.Input = nil

	result, err := h.vm.Execute(h, h.revision, execMsg, initCode)
	if err != nil {
		h.restoreSnapshot(state)
		return fidelio.ErrorResult(fidelio.StatusFailure)
	}
	if result.Status != fidelio.StatusSuccess {
		h.restoreSnapshot(state)
		if !result.Status.RetainsGas() {
			result.Release()
			return fidelio.ErrorResult(result.Status)
		}
		// A revert of the init code keeps its gas and output but produces
		// no contract; the result and its release obligation pass through
		// to the caller.
		result.CreatedAddress = fidelio.Address{}
		return result
	}

	// The machine's result is not handed through on success, so its output
	// is copied out and the result released here.
	deployedCode := fidelio.Code(append([]byte(nil), result.Output...))
	gasLeft := result.GasLeft
	result.Release()

	status := fidelio.StatusSuccess
	if len(deployedCode) > maxCodeSize {
		status = fidelio.StatusContractValidationFailure
	}
	if h.revision >= fidelio.R10_London && len(deployedCode) > 0 && deployedCode[0] == 0xEF {
		status = fidelio.StatusContractValidationFailure
	}
	deployGas := fidelio.Gas(len(deployedCode) * createGasCostPerByte)
	if status == fidelio.StatusSuccess && gasLeft < deployGas {
		status = fidelio.StatusOutOfGas
	}
	if status != fidelio.StatusSuccess {
		h.restoreSnapshot(state)
		return fidelio.ErrorResult(status)
	}

	h.SetCode(createdAddress, deployedCode)
	return fidelio.Result{
		Status:         fidelio.StatusSuccess,
		GasLeft:        gasLeft - deployGas,
		CreatedAddress: createdAddress,
	}
}

func (h *Host) canTransferValue(value fidelio.Value, sender, recipient fidelio.Address) bool {
	if value.IsZero() {
		return true
	}

	senderBalance := h.GetBalance(sender)
	if senderBalance.Cmp(value) < 0 {
		return false
	}
	if sender == recipient {
		return true
	}

	receiverBalance := h.GetBalance(recipient)
	updatedBalance := fidelio.Add(receiverBalance, value)
	if updatedBalance.Cmp(receiverBalance) < 0 || updatedBalance.Cmp(value) < 0 {
		return false
	}
	return true
}

// Only to be called after canTransferValue.
func (h *Host) transferValue(value fidelio.Value, sender, recipient fidelio.Address) {
	if value.IsZero() || sender == recipient {
		return
	}
	h.SetBalance(sender, fidelio.Sub(h.GetBalance(sender), value))
	h.SetBalance(recipient, fidelio.Add(h.GetBalance(recipient), value))
}

func (h *Host) incrementNonce(addr fidelio.Address) error {
	nonce := h.GetNonce(addr)
	if nonce+1 < nonce {
		return fmt.Errorf("nonce overflow")
	}
	h.SetNonce(addr, nonce+1)
	return nil
}

func createAddress(
	kind fidelio.CallKind,
	sender fidelio.Address,
	nonce uint64,
	salt fidelio.Hash,
	initCodeHash fidelio.Hash,
) fidelio.Address {
	if kind == fidelio.Create {
		return fidelio.Address(crypto.CreateAddress(common.Address(sender), nonce))
	}
	return fidelio.Address(crypto.CreateAddress2(common.Address(sender), common.Hash(salt), initCodeHash[:]))
}
