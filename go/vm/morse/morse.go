// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package morse provides a minimal reference virtual machine for the
// connector contract. It interprets a compact subset of EVM instructions,
// enough to exercise every host callback, and is primarily intended for
// testing host implementations and as a template for real machines. It is
// not a production interpreter.
package morse

import (
	"fmt"
	"strconv"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

const vmVersion = "1.0.0"

const defaultStackLimit = 1024

// Registers the reference machine under its default configuration.
func init() {
	fidelio.MustRegisterVirtualMachineFactory("morse", func(any) (fidelio.VirtualMachine, error) {
		return NewVirtualMachine(), nil
	})
}

type vm struct {
	stackLimit int
	destroyed  bool
}

// NewVirtualMachine creates a machine instance with the default
// configuration. Instances are stateless between executions and may run
// concurrent call trees on independent hosts.
func NewVirtualMachine() fidelio.ConfigurableVirtualMachine {
	return &vm{stackLimit: defaultStackLimit}
}

func (m *vm) Name() string {
	return "morse"
}

func (m *vm) Version() string {
	return vmVersion
}

func (m *vm) Execute(host fidelio.Host, revision fidelio.Revision, msg fidelio.Message, code fidelio.Code) (fidelio.Result, error) {
	if revision > fidelio.MaxRevision || revision < fidelio.R07_Istanbul {
		return fidelio.Result{}, &fidelio.ErrUnsupportedRevision{Revision: revision}
	}
	if host == nil {
		return fidelio.Result{}, fmt.Errorf("missing host")
	}
	if !msg.Flags.Valid() {
		return fidelio.Result{}, fmt.Errorf("unsupported message flags: %b", msg.Flags)
	}

	// An execution without code trivially succeeds without consuming gas.
	if len(code) == 0 {
		return fidelio.Result{Status: fidelio.StatusSuccess, GasLeft: msg.Gas}, nil
	}

	ctxt := execution{
		host:       host,
		revision:   revision,
		msg:        msg,
		code:       code,
		gas:        msg.Gas,
		stackLimit: m.stackLimit,
	}
	return ctxt.run(), nil
}

func (m *vm) GetCapabilities() fidelio.Capabilities {
	return fidelio.CapabilityEVM1
}

// SetOption configures the machine. The only supported option is
// "stack-limit", bounding the operand stack of each execution.
func (m *vm) SetOption(name string, value string) error {
	switch name {
	case "stack-limit":
		limit, err := strconv.Atoi(value)
		if err != nil || limit <= 0 {
			return fmt.Errorf("%w: %q", fidelio.ErrInvalidOptionValue, value)
		}
		m.stackLimit = limit
		return nil
	default:
		return fmt.Errorf("%w: %q", fidelio.ErrInvalidOptionName, name)
	}
}

func (m *vm) Destroy() {
	m.destroyed = true
}
