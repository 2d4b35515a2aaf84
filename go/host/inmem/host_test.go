// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package inmem

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/mock/gomock"
	"pgregory.net/rand"
)

func addressWithByte(b byte) fidelio.Address {
	var addr fidelio.Address
	addr[19] = b
	return addr
}

func wordWithByte(b byte) fidelio.Word {
	var word fidelio.Word
	word[31] = b
	return word
}

func TestHost_AccountExists(t *testing.T) {
	addr := addressWithByte(0x01)
	host := NewHost(Config{State: WorldState{addr: Account{}}})

	if !host.AccountExists(addr) {
		t.Errorf("existing account not reported")
	}
	if host.AccountExists(addressWithByte(0x02)) {
		t.Errorf("missing account reported as existing")
	}
}

func TestHost_StorageReadsReflectWrites(t *testing.T) {
	addr := addressWithByte(0x01)
	key := fidelio.Key(wordWithByte(1))
	host := NewHost(Config{})

	if want, got := (fidelio.Word{}), host.GetStorage(addr, key); want != got {
		t.Errorf("unexpected initial value, wanted %v, got %v", want, got)
	}
	host.SetStorage(addr, key, wordWithByte(7))
	if want, got := wordWithByte(7), host.GetStorage(addr, key); want != got {
		t.Errorf("unexpected value after write, wanted %v, got %v", want, got)
	}
	host.SetStorage(addr, key, fidelio.Word{})
	if want, got := (fidelio.Word{}), host.GetStorage(addr, key); want != got {
		t.Errorf("unexpected value after deletion, wanted %v, got %v", want, got)
	}
}

func TestHost_StorageStatusSequences(t *testing.T) {
	var (
		zero = fidelio.Word{}
		x    = wordWithByte(1)
		z    = wordWithByte(2)
		w    = wordWithByte(3)
	)

	tests := map[string]struct {
		initial fidelio.Word
		writes  []fidelio.Word
		want    []fidelio.StorageStatus
	}{
		"write the same value": {
			initial: x,
			writes:  []fidelio.Word{x},
			want:    []fidelio.StorageStatus{fidelio.StorageUnchanged},
		},
		"overwrite an existing value": {
			initial: x,
			writes:  []fidelio.Word{z},
			want:    []fidelio.StorageStatus{fidelio.StorageModified},
		},
		"overwrite twice": {
			initial: x,
			writes:  []fidelio.Word{z, w},
			want:    []fidelio.StorageStatus{fidelio.StorageModified, fidelio.StorageModifiedAgain},
		},
		"fill an empty slot": {
			initial: zero,
			writes:  []fidelio.Word{z},
			want:    []fidelio.StorageStatus{fidelio.StorageAdded},
		},
		"clear an existing value": {
			initial: x,
			writes:  []fidelio.Word{zero},
			want:    []fidelio.StorageStatus{fidelio.StorageDeleted},
		},
		"fill and clear an empty slot": {
			initial: zero,
			writes:  []fidelio.Word{z, zero},
			want:    []fidelio.StorageStatus{fidelio.StorageAdded, fidelio.StorageModifiedAgain},
		},
		"restore the original value": {
			initial: x,
			writes:  []fidelio.Word{z, x},
			want:    []fidelio.StorageStatus{fidelio.StorageModified, fidelio.StorageModifiedAgain},
		},
	}

	addr := addressWithByte(0x01)
	key := fidelio.Key(wordWithByte(1))
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			state := WorldState{}
			if test.initial != zero {
				state[addr] = Account{Storage: Storage{key: test.initial}}
			}
			host := NewHost(Config{State: state})
			for i, value := range test.writes {
				if want, got := test.want[i], host.SetStorage(addr, key, value); want != got {
					t.Errorf("unexpected status of write %d, wanted %v, got %v", i, want, got)
				}
			}
		})
	}
}

func TestHost_CodeQueries(t *testing.T) {
	addr := addressWithByte(0x01)
	code := fidelio.Code{1, 2, 3}
	host := NewHost(Config{State: WorldState{addr: Account{Code: code}}})

	if want, got := 3, host.GetCodeSize(addr); want != got {
		t.Errorf("unexpected code size, wanted %d, got %d", want, got)
	}
	if want, got := hashCode(code), host.GetCodeHash(addr); want != got {
		t.Errorf("unexpected code hash, wanted %v, got %v", want, got)
	}
}

func TestHost_CodeHashDistinguishesEmptyAndMissingAccounts(t *testing.T) {
	existing := addressWithByte(0x01)
	missing := addressWithByte(0x02)
	host := NewHost(Config{State: WorldState{existing: Account{}}})

	if want, got := (fidelio.Hash{}), host.GetCodeHash(missing); want != got {
		t.Errorf("missing account must report the zero hash, got %v", got)
	}
	if want, got := emptyCodeHash, host.GetCodeHash(existing); want != got {
		t.Errorf("account without code must report the empty-code hash, got %v", got)
	}
}

func TestHost_CopyCode(t *testing.T) {
	addr := addressWithByte(0x01)
	code := fidelio.Code{1, 2, 3, 4, 5}
	host := NewHost(Config{State: WorldState{addr: Account{Code: code}}})

	tests := map[string]struct {
		offset     int
		bufferSize int
		wantLen    int
		wantData   []byte
	}{
		"full copy":              {0, 5, 5, []byte{1, 2, 3, 4, 5}},
		"prefix":                 {0, 3, 3, []byte{1, 2, 3}},
		"suffix with large want": {3, 5, 2, []byte{4, 5}},
		"offset at code end":     {5, 5, 0, nil},
		"offset beyond code end": {7, 5, 0, nil},
		"negative offset":        {-1, 5, 0, nil},
		"empty buffer":           {0, 0, 0, nil},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			buffer := make([]byte, test.bufferSize)
			n := host.CopyCode(addr, test.offset, buffer)
			if want, got := test.wantLen, n; want != got {
				t.Fatalf("unexpected number of copied bytes, wanted %d, got %d", want, got)
			}
			if !bytes.Equal(test.wantData, buffer[:n]) {
				t.Errorf("unexpected code fragment, wanted %x, got %x", test.wantData, buffer[:n])
			}
		})
	}
}

func TestHost_SelfDestructMovesBalance(t *testing.T) {
	victim := addressWithByte(0x01)
	beneficiary := addressWithByte(0x02)
	host := NewHost(Config{State: WorldState{
		victim:      Account{Balance: fidelio.NewValue(100)},
		beneficiary: Account{Balance: fidelio.NewValue(5)},
	}})

	host.SelfDestruct(victim, beneficiary)

	if want, got := fidelio.NewValue(0), host.GetBalance(victim); want != got {
		t.Errorf("unexpected victim balance, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.NewValue(105), host.GetBalance(beneficiary); want != got {
		t.Errorf("unexpected beneficiary balance, wanted %v, got %v", want, got)
	}
	if !host.SelfDestructed(victim) {
		t.Errorf("victim not marked as destructed")
	}
}

func TestHost_SelfDestructToSelfBurnsBalance(t *testing.T) {
	victim := addressWithByte(0x01)
	host := NewHost(Config{State: WorldState{
		victim: Account{Balance: fidelio.NewValue(100)},
	}})

	host.SelfDestruct(victim, victim)

	if want, got := fidelio.NewValue(0), host.GetBalance(victim); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
}

func TestHost_LogsAreAccumulatedInOrder(t *testing.T) {
	host := NewHost(Config{})
	for i := 0; i < 3; i++ {
		host.EmitLog(fidelio.Log{Data: fidelio.Data{byte(i)}})
	}
	logs := host.Logs()
	if want, got := 3, len(logs); want != got {
		t.Fatalf("unexpected number of logs, wanted %d, got %d", want, got)
	}
	for i, log := range logs {
		if want, got := byte(i), log.Data[0]; want != got {
			t.Errorf("log %d out of order, wanted %d, got %d", i, want, got)
		}
	}
}

func TestHost_EmitLogRejectsExcessiveTopics(t *testing.T) {
	host := NewHost(Config{})
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a log with too many topics")
		}
	}()
	host.EmitLog(fidelio.Log{Topics: make([]fidelio.Hash, fidelio.MaxLogTopics+1)})
}

func TestHost_CallDepthIsLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Depth: MaxCallDepth + 1})
	if want, got := fidelio.StatusCallDepthExceeded, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestHost_CallWithoutMachineFails(t *testing.T) {
	host := NewHost(Config{})
	result := host.Call(fidelio.Message{})
	if want, got := fidelio.StatusFailure, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestHost_CallWithInsufficientBalanceRevertsWithFullGas(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)

	sender := addressWithByte(0x01)
	host := NewHost(Config{
		VirtualMachine: vm,
		State:          WorldState{sender: Account{Balance: fidelio.NewValue(5)}},
	})

	result := host.Call(fidelio.Message{
		Kind:   fidelio.Call,
		Gas:    1000,
		Sender: sender,
		Value:  fidelio.NewValue(10),
	})
	if want, got := fidelio.StatusRevert, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.Gas(1000), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestHost_SuccessfulCallTransfersValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{Status: fidelio.StatusSuccess}, nil)

	sender := addressWithByte(0x01)
	recipient := addressWithByte(0x02)
	host := NewHost(Config{
		VirtualMachine: vm,
		State:          WorldState{sender: Account{Balance: fidelio.NewValue(100)}},
	})

	result := host.Call(fidelio.Message{
		Kind:      fidelio.Call,
		Sender:    sender,
		Recipient: recipient,
		Value:     fidelio.NewValue(30),
	})
	if want, got := fidelio.StatusSuccess, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.NewValue(70), host.GetBalance(sender); want != got {
		t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.NewValue(30), host.GetBalance(recipient); want != got {
		t.Errorf("unexpected recipient balance, wanted %v, got %v", want, got)
	}
}

func TestHost_FailedCallRestoresStateAndConsumesGas(t *testing.T) {
	addr := addressWithByte(0x01)
	key := fidelio.Key(wordWithByte(1))

	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(host fidelio.Host, _ fidelio.Revision, _ fidelio.Message, _ fidelio.Code) (fidelio.Result, error) {
			host.SetStorage(addr, key, wordWithByte(7))
			host.EmitLog(fidelio.Log{})
			return fidelio.ErrorResult(fidelio.StatusFailure), nil
		})

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Call, Recipient: addr, Gas: 1000})

	if want, got := fidelio.StatusFailure, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.Gas(0), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
	if want, got := (fidelio.Word{}), host.GetStorage(addr, key); want != got {
		t.Errorf("storage modification not rolled back, got %v", got)
	}
	if want, got := 0, len(host.Logs()); want != got {
		t.Errorf("logs not rolled back, got %d entries", got)
	}
}

func TestHost_RevertedCallRestoresStateButKeepsGasAndOutput(t *testing.T) {
	addr := addressWithByte(0x01)
	key := fidelio.Key(wordWithByte(1))

	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(host fidelio.Host, _ fidelio.Revision, _ fidelio.Message, _ fidelio.Code) (fidelio.Result, error) {
			host.SetStorage(addr, key, wordWithByte(7))
			return fidelio.Result{
				Status:  fidelio.StatusRevert,
				GasLeft: 500,
				Output:  fidelio.Data{0xAB},
			}, nil
		})

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Call, Recipient: addr, Gas: 1000})

	if want, got := fidelio.StatusRevert, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.Gas(500), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
	if !bytes.Equal(fidelio.Data{0xAB}, result.Output) {
		t.Errorf("revert output not preserved, got %x", result.Output)
	}
	if want, got := (fidelio.Word{}), host.GetStorage(addr, key); want != got {
		t.Errorf("storage modification not rolled back, got %v", got)
	}
}

func TestHost_MachineIssuesAreReportedAsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{}, fmt.Errorf("machine defect"))

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Call, Gas: 1000})
	if want, got := fidelio.StatusFailure, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.Gas(0), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestHost_CreateDeploysCode(t *testing.T) {
	deployedCode := fidelio.Code{byte(0x00)} // STOP

	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ fidelio.Host, _ fidelio.Revision, msg fidelio.Message, code fidelio.Code) (fidelio.Result, error) {
			if len(msg.Input) != 0 {
				return fidelio.Result{}, fmt.Errorf("init code must be passed as code, not input")
			}
			return fidelio.Result{
				Status:  fidelio.StatusSuccess,
				GasLeft: 10000,
				Output:  fidelio.Data(deployedCode),
			}, nil
		})

	sender := addressWithByte(0x01)
	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{
		Kind:   fidelio.Create,
		Sender: sender,
		Gas:    100000,
		Input:  fidelio.Data{0x60, 0x00}, // init code
	})

	if want, got := fidelio.StatusSuccess, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	want := fidelio.Address(crypto.CreateAddress(common.Address(sender), 0))
	if got := result.CreatedAddress; want != got {
		t.Errorf("unexpected created address, wanted %v, got %v", want, got)
	}
	if !bytes.Equal(deployedCode, host.GetCode(result.CreatedAddress)) {
		t.Errorf("deployed code not installed, got %x", host.GetCode(result.CreatedAddress))
	}
	if want, got := uint64(1), host.GetNonce(sender); want != got {
		t.Errorf("sender nonce not incremented, got %d", got)
	}
	if want, got := uint64(1), host.GetNonce(result.CreatedAddress); want != got {
		t.Errorf("unexpected nonce of created account, got %d", got)
	}
	deployGas := fidelio.Gas(len(deployedCode) * createGasCostPerByte)
	if want, got := fidelio.Gas(10000)-deployGas, result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestHost_Create2UsesSaltDerivedAddress(t *testing.T) {
	initCode := fidelio.Data{0x60, 0x00}
	salt := fidelio.Hash{0x05}

	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{Status: fidelio.StatusSuccess, GasLeft: 10000}, nil)

	sender := addressWithByte(0x01)
	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{
		Kind:   fidelio.Create2,
		Sender: sender,
		Gas:    100000,
		Input:  initCode,
		Salt:   salt,
	})

	if want, got := fidelio.StatusSuccess, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	initCodeHash := hashCode(fidelio.Code(initCode))
	want := fidelio.Address(crypto.CreateAddress2(common.Address(sender), common.Hash(salt), initCodeHash[:]))
	if got := result.CreatedAddress; want != got {
		t.Errorf("unexpected created address, wanted %v, got %v", want, got)
	}
}

func TestHost_CreateCollisionFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)

	sender := addressWithByte(0x01)
	occupied := fidelio.Address(crypto.CreateAddress(common.Address(sender), 0))
	host := NewHost(Config{
		VirtualMachine: vm,
		State:          WorldState{occupied: Account{Nonce: 1}},
	})

	result := host.Call(fidelio.Message{Kind: fidelio.Create, Sender: sender, Gas: 100000})
	if want, got := fidelio.StatusFailure, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestHost_CreateRejectsOversizedCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{
			Status:  fidelio.StatusSuccess,
			GasLeft: 100000000,
			Output:  make(fidelio.Data, maxCodeSize+1),
		}, nil)

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000000})
	if want, got := fidelio.StatusContractValidationFailure, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestHost_CreateReleasesTheMachineResult(t *testing.T) {
	tests := map[string]struct {
		machineResult fidelio.Result
		wantStatus    fidelio.StatusCode
	}{
		"successful deployment": {
			fidelio.Result{
				Status:  fidelio.StatusSuccess,
				GasLeft: 10000,
				Output:  fidelio.Data{0x00},
			},
			fidelio.StatusSuccess,
		},
		"oversized code": {
			fidelio.Result{
				Status:  fidelio.StatusSuccess,
				GasLeft: 100000000,
				Output:  make(fidelio.Data, maxCodeSize+1),
			},
			fidelio.StatusContractValidationFailure,
		},
		"failed init code": {
			fidelio.ErrorResult(fidelio.StatusOutOfGas),
			fidelio.StatusOutOfGas,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			released := false
			buffer := append(fidelio.Data(nil), test.machineResult.Output...)
			machineResult := test.machineResult
			machineResult.Output = buffer
			machineResult.SetReleaseHook(func() {
				// Invalidate the buffer like a machine reclaiming its
				// memory would.
				released = true
				for i := range buffer {
					buffer[i] = 0xFF
				}
			})

			ctrl := gomock.NewController(t)
			vm := fidelio.NewMockVirtualMachine(ctrl)
			vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(machineResult, nil)

			host := NewHost(Config{VirtualMachine: vm})
			result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000000})
			if want, got := test.wantStatus, result.Status; want != got {
				t.Fatalf("unexpected status, wanted %v, got %v", want, got)
			}
			if !released {
				t.Errorf("the machine result was not released")
			}
			if result.Status == fidelio.StatusSuccess {
				if !bytes.Equal(test.machineResult.Output, host.GetCode(result.CreatedAddress)) {
					t.Errorf("deployed code not copied before the release, got %x", host.GetCode(result.CreatedAddress))
				}
			}
		})
	}
}

func TestHost_RevertedCreatePassesTheReleaseObligationThrough(t *testing.T) {
	released := false
	machineResult := fidelio.Result{
		Status:  fidelio.StatusRevert,
		GasLeft: 100,
		Output:  fidelio.Data{0xAB},
	}
	machineResult.SetReleaseHook(func() { released = true })

	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(machineResult, nil)

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000})
	if want, got := fidelio.StatusRevert, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	if released {
		t.Fatalf("revert output released before reaching the caller")
	}
	result.Release()
	if !released {
		t.Errorf("release not forwarded to the machine result")
	}
}

func TestHost_CreateCodeStartingWithEFIsRevisionDependent(t *testing.T) {
	tests := map[string]struct {
		revision fidelio.Revision
		want     fidelio.StatusCode
	}{
		"istanbul accepts": {fidelio.R07_Istanbul, fidelio.StatusSuccess},
		"london rejects":   {fidelio.R10_London, fidelio.StatusContractValidationFailure},
		"cancun rejects":   {fidelio.R13_Cancun, fidelio.StatusContractValidationFailure},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vm := fidelio.NewMockVirtualMachine(ctrl)
			vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(fidelio.Result{
					Status:  fidelio.StatusSuccess,
					GasLeft: 100000,
					Output:  fidelio.Data{0xEF, 0x00},
				}, nil)

			host := NewHost(Config{VirtualMachine: vm, Revision: test.revision})
			result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000})
			if want, got := test.want, result.Status; want != got {
				t.Errorf("unexpected status, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestHost_CreateWithoutDeployGasFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{
			Status:  fidelio.StatusSuccess,
			GasLeft: createGasCostPerByte - 1, // not enough for one byte of code
			Output:  fidelio.Data{0x00},
		}, nil)

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000})
	if want, got := fidelio.StatusOutOfGas, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestHost_RevertedCreateReportsNoAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fidelio.Result{
			Status:  fidelio.StatusRevert,
			GasLeft: 500,
			Output:  fidelio.Data{0xAB},
		}, nil)

	host := NewHost(Config{VirtualMachine: vm})
	result := host.Call(fidelio.Message{Kind: fidelio.Create, Gas: 100000})

	if want, got := fidelio.StatusRevert, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := (fidelio.Address{}), result.CreatedAddress; want != got {
		t.Errorf("reverted creation must not report an address, got %v", got)
	}
	if want, got := fidelio.Gas(500), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
	if !bytes.Equal(fidelio.Data{0xAB}, result.Output) {
		t.Errorf("revert output not preserved, got %x", result.Output)
	}
}

func TestHost_TxContextAndBlockHashesAreServed(t *testing.T) {
	txContext := fidelio.TxContext{BlockNumber: 12, Timestamp: 34}
	hashes := map[int64]fidelio.Hash{10: {0xAA}}
	host := NewHost(Config{TxContext: txContext, BlockHashes: hashes})

	if want, got := txContext, host.GetTxContext(); want != got {
		t.Errorf("unexpected transaction context, wanted %v, got %v", want, got)
	}
	if want, got := (fidelio.Hash{0xAA}), host.GetBlockHash(10); want != got {
		t.Errorf("unexpected block hash, wanted %v, got %v", want, got)
	}
	if want, got := (fidelio.Hash{}), host.GetBlockHash(11); want != got {
		t.Errorf("unknown blocks must report the zero hash, got %v", got)
	}
}

func TestHost_IndependentHostsSupportConcurrentCallTrees(t *testing.T) {
	ctrl := gomock.NewController(t)
	vm := fidelio.NewMockVirtualMachine(ctrl)
	vm.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(host fidelio.Host, _ fidelio.Revision, msg fidelio.Message, _ fidelio.Code) (fidelio.Result, error) {
			// Each execution stores its input in slot zero of the recipient.
			var value fidelio.Word
			copy(value[:], msg.Input)
			host.SetStorage(msg.Recipient, fidelio.Key{}, value)
			return fidelio.Result{Status: fidelio.StatusSuccess, GasLeft: msg.Gas}, nil
		}).AnyTimes()

	const numTrees = 10
	var wg sync.WaitGroup
	for i := 0; i < numTrees; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rnd := rand.New(seed)
			host := NewHost(Config{VirtualMachine: vm})

			var value fidelio.Word
			rnd.Read(value[:])
			addr := addressWithByte(byte(seed))
			result := host.Call(fidelio.Message{
				Kind:      fidelio.Call,
				Recipient: addr,
				Gas:       1000,
				Input:     fidelio.Data(value[:]),
			})
			if want, got := fidelio.StatusSuccess, result.Status; want != got {
				t.Errorf("unexpected status, wanted %v, got %v", want, got)
			}
			if want, got := value, host.GetStorage(addr, fidelio.Key{}); want != got {
				t.Errorf("unexpected stored value, wanted %v, got %v", want, got)
			}
		}(uint64(i))
	}
	wg.Wait()
}
