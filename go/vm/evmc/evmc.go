// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package evmc connects virtual machines implemented against the EVMC ABI
// to the fidelio.VirtualMachine interface. Machines are loaded as shared
// libraries; host callbacks issued by the loaded machine are translated and
// forwarded to the fidelio.Host of the ongoing execution.
package evmc

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/evmc/v11/bindings/go/evmc"
)

// LoadVirtualMachine loads a machine implementation from the given shared
// library. The `library` parameter should name the library file; the lookup
// path is subject to the usual dynamic linker rules.
func LoadVirtualMachine(library string) (*VirtualMachine, error) {
	vm, err := evmc.Load(library)
	if err != nil {
		return nil, err
	}
	return &VirtualMachine{vm: vm}, nil
}

// VirtualMachine is a fidelio.VirtualMachine implementation backed by a
// machine loaded through the EVMC library.
type VirtualMachine struct {
	vm *evmc.VM
}

func (e *VirtualMachine) Name() string {
	return e.vm.Name()
}

func (e *VirtualMachine) Version() string {
	return e.vm.Version()
}

func (e *VirtualMachine) Execute(host fidelio.Host, revision fidelio.Revision, msg fidelio.Message, code fidelio.Code) (fidelio.Result, error) {
	evmcRevision, err := toEvmcRevision(revision)
	if err != nil {
		return fidelio.Result{}, err
	}
	kind, err := toEvmcCallKind(msg.Kind)
	if err != nil {
		return fidelio.Result{}, err
	}
	if host == nil {
		return fidelio.Result{}, fmt.Errorf("missing host")
	}

	hostCtx := hostContext{
		host:     host,
		revision: revision,
	}

	result, err := e.vm.Execute(
		&hostCtx,
		evmcRevision,
		kind,
		msg.IsStatic(),
		msg.Depth,
		int64(msg.Gas),
		evmc.Address(msg.Recipient),
		evmc.Address(msg.Sender),
		msg.Input,
		evmc.Hash(msg.Value),
		code,
	)

	// Without an error the execution stopped regularly and retains its
	// remaining gas.
	if err == nil {
		return fidelio.Result{
			Status:  fidelio.StatusSuccess,
			GasLeft: fidelio.Gas(result.GasLeft),
			Output:  result.Output,
		}, nil
	}

	if err == evmc.Revert {
		return fidelio.Result{
			Status:  fidelio.StatusRevert,
			GasLeft: fidelio.Gas(result.GasLeft),
			Output:  result.Output,
		}, nil
	}

	// Remaining status codes either describe an issue of the executed
	// contract, to be reported through the result, or an issue of the
	// machine itself, to be reported as an error.
	if evmcErr, ok := err.(evmc.Error); ok {
		status := fidelio.StatusCode(evmcErr)
		if status.IsError() && !status.IsInternal() {
			return fidelio.ErrorResult(status), nil
		}
	}
	return fidelio.Result{}, fmt.Errorf("evmc execution error: %w", err)
}

func (e *VirtualMachine) GetCapabilities() fidelio.Capabilities {
	var res fidelio.Capabilities
	if e.vm.HasCapability(evmc.CapabilityEVM1) {
		res |= fidelio.CapabilityEVM1
	}
	if e.vm.HasCapability(evmc.CapabilityEWASM) {
		res |= fidelio.CapabilityEWASM
	}
	return res
}

// SetOption forwards the option to the loaded machine.
func (e *VirtualMachine) SetOption(name string, value string) error {
	return e.vm.SetOption(name, value)
}

// Destroy releases the resources bound by the loaded machine. The instance
// must not be used afterwards.
func (e *VirtualMachine) Destroy() {
	if e.vm != nil {
		e.vm.Destroy()
	}
	e.vm = nil
}

func toEvmcRevision(revision fidelio.Revision) (evmc.Revision, error) {
	switch revision {
	case fidelio.R07_Istanbul:
		return evmc.Istanbul, nil
	case fidelio.R09_Berlin:
		return evmc.Berlin, nil
	case fidelio.R10_London:
		return evmc.London, nil
	case fidelio.R11_Paris:
		return evmc.Paris, nil
	case fidelio.R12_Shanghai:
		return evmc.Shanghai, nil
	case fidelio.R13_Cancun:
		return evmc.Cancun, nil
	default:
		return 0, &fidelio.ErrUnsupportedRevision{Revision: revision}
	}
}

func toEvmcCallKind(kind fidelio.CallKind) (evmc.CallKind, error) {
	switch kind {
	case fidelio.Call:
		return evmc.Call, nil
	case fidelio.DelegateCall:
		return evmc.DelegateCall, nil
	case fidelio.CallCode:
		return evmc.CallCode, nil
	case fidelio.Create:
		return evmc.Create, nil
	case fidelio.Create2:
		return evmc.Create2, nil
	default:
		return 0, fmt.Errorf("unsupported call kind: %v", kind)
	}
}

func toFidelioCallKind(kind evmc.CallKind) (fidelio.CallKind, error) {
	switch kind {
	case evmc.Call:
		return fidelio.Call, nil
	case evmc.DelegateCall:
		return fidelio.DelegateCall, nil
	case evmc.CallCode:
		return fidelio.CallCode, nil
	case evmc.Create:
		return fidelio.Create, nil
	case evmc.Create2:
		return fidelio.Create2, nil
	default:
		return 0, fmt.Errorf("unsupported call kind: %v", kind)
	}
}

func toEvmcStorageStatus(status fidelio.StorageStatus) evmc.StorageStatus {
	switch status {
	case fidelio.StorageAdded:
		return evmc.StorageAdded
	case fidelio.StorageDeleted:
		return evmc.StorageDeleted
	case fidelio.StorageModified:
		return evmc.StorageModified
	case fidelio.StorageUnchanged, fidelio.StorageModifiedAgain:
		// No-refund transitions are all reported as plain assignments.
		return evmc.StorageAssigned
	default:
		panic(fmt.Sprintf("unsupported storage status: %v", status))
	}
}
