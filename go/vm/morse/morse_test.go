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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"go.uber.org/mock/gomock"
)

func TestVM_IsRegistered(t *testing.T) {
	vm, err := fidelio.NewVirtualMachine("morse")
	if err != nil {
		t.Fatalf("failed to create registered machine: %v", err)
	}
	if want, got := "morse", vm.Name(); want != got {
		t.Errorf("unexpected name, wanted %s, got %s", want, got)
	}
}

func TestVM_ReportsEVM1Capability(t *testing.T) {
	vm := NewVirtualMachine()
	if !vm.GetCapabilities().Has(fidelio.CapabilityEVM1) {
		t.Errorf("machine does not report the EVM1 capability")
	}
}

func TestVM_ExecuteRejectsUnsupportedRevisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := fidelio.NewMockHost(ctrl)

	vm := NewVirtualMachine()
	for _, revision := range []fidelio.Revision{
		fidelio.R07_Istanbul - 1,
		fidelio.MaxRevision + 1,
		fidelio.R99_UnknownNextRevision,
	} {
		_, err := vm.Execute(host, revision, fidelio.Message{}, fidelio.Code{byte(STOP)})
		var unsupported *fidelio.ErrUnsupportedRevision
		if !errors.As(err, &unsupported) {
			t.Errorf("expected an unsupported-revision error for %v, got %v", revision, err)
		}
	}
}

func TestVM_ExecuteRejectsMissingHost(t *testing.T) {
	vm := NewVirtualMachine()
	_, err := vm.Execute(nil, fidelio.R07_Istanbul, fidelio.Message{}, fidelio.Code{byte(STOP)})
	if err == nil {
		t.Errorf("expected an error for a missing host")
	}
}

func TestVM_ExecuteRejectsUnknownMessageFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := fidelio.NewMockHost(ctrl)

	vm := NewVirtualMachine()
	msg := fidelio.Message{Flags: fidelio.MessageFlags(1 << 5)}
	_, err := vm.Execute(host, fidelio.R07_Istanbul, msg, fidelio.Code{byte(STOP)})
	if err == nil {
		t.Errorf("expected an error for unknown message flags")
	}
}

func TestVM_ExecuteEmptyCodeSucceedsWithoutGasUsage(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := fidelio.NewMockHost(ctrl)

	vm := NewVirtualMachine()
	msg := fidelio.Message{Gas: 21000}
	result, err := vm.Execute(host, fidelio.R13_Cancun, msg, nil)
	if err != nil {
		t.Fatalf("execution of empty code failed: %v", err)
	}
	if want, got := fidelio.StatusSuccess, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := fidelio.Gas(21000), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestVM_SetOptionAdjustsStackLimit(t *testing.T) {
	vm := NewVirtualMachine()
	if err := vm.SetOption("stack-limit", "1"); err != nil {
		t.Fatalf("failed to set stack limit: %v", err)
	}

	ctrl := gomock.NewController(t)
	host := fidelio.NewMockHost(ctrl)

	code := fidelio.Code{byte(PUSH1), 0, byte(PUSH1), 0}
	result, err := vm.Execute(host, fidelio.R07_Istanbul, fidelio.Message{Gas: 100}, code)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if want, got := fidelio.StatusStackOverflow, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}

func TestVM_SetOptionRejectsInvalidInput(t *testing.T) {
	tests := map[string]struct {
		name  string
		value string
		want  error
	}{
		"unknown option":   {"colors", "on", fidelio.ErrInvalidOptionName},
		"not a number":     {"stack-limit", "deep", fidelio.ErrInvalidOptionValue},
		"zero limit":       {"stack-limit", "0", fidelio.ErrInvalidOptionValue},
		"negative limit":   {"stack-limit", "-3", fidelio.ErrInvalidOptionValue},
		"fractional limit": {"stack-limit", "2.5", fidelio.ErrInvalidOptionValue},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := NewVirtualMachine()
			err := vm.SetOption(test.name, test.value)
			if !errors.Is(err, test.want) {
				t.Errorf("unexpected error, wanted %v, got %v", test.want, err)
			}
		})
	}
}
