// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/host/inmem"
	evmcvm "github.com/Fantom-foundation/Fidelio/go/vm/evmc"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Execute a code snippet on a virtual machine",
	ArgsUsage: "<code-hex>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "vm",
			Usage: "the registered virtual machine to be used",
			Value: "morse",
		},
		&cli.StringFlag{
			Name:  "evmc-library",
			Usage: "load the virtual machine from the given EVMC library instead of the registry",
		},
		&cli.StringSliceFlag{
			Name:  "option",
			Usage: "a name=value option forwarded to the virtual machine",
		},
		&cli.Int64Flag{
			Name:  "gas",
			Usage: "the gas budget of the execution",
			Value: 1_000_000,
		},
		&cli.StringFlag{
			Name:  "revision",
			Usage: "the execution revision (istanbul ... cancun)",
			Value: "cancun",
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "the input data of the call, in hex",
		},
		&cli.Uint64Flag{
			Name:  "value",
			Usage: "the amount transferred with the call",
		},
		&cli.BoolFlag{
			Name:  "static",
			Usage: "execute in static mode, prohibiting state modifications",
		},
	},
}

var (
	contractAddress = fidelio.Address{19: 0x01}
	senderAddress   = fidelio.Address{19: 0x02}
)

func doRun(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected the code to be executed as an argument")
	}
	code, err := decodeHex(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}
	input, err := decodeHex(context.String("input"))
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	revision, err := parseRevision(context.String("revision"))
	if err != nil {
		return err
	}

	vm, err := getVirtualMachine(context)
	if err != nil {
		return err
	}
	defer vm.Destroy()

	for _, option := range context.StringSlice("option") {
		name, value, found := strings.Cut(option, "=")
		if !found {
			return fmt.Errorf("invalid option %q, expected name=value", option)
		}
		configurable, ok := vm.(fidelio.ConfigurableVirtualMachine)
		if !ok {
			return fmt.Errorf("the selected machine does not support options")
		}
		if err := configurable.SetOption(name, value); err != nil {
			return err
		}
	}

	value := fidelio.NewValue(context.Uint64("value"))
	var flags fidelio.MessageFlags
	if context.Bool("static") {
		flags |= fidelio.StaticFlag
	}

	host := inmem.NewHost(inmem.Config{
		VirtualMachine: vm,
		Revision:       revision,
		State: inmem.WorldState{
			contractAddress: inmem.Account{Code: code},
			senderAddress:   inmem.Account{Balance: value},
		},
	})

	gas := fidelio.Gas(context.Int64("gas"))
	result := host.Call(fidelio.Message{
		Kind:      fidelio.Call,
		Flags:     flags,
		Gas:       gas,
		Recipient: contractAddress,
		Sender:    senderAddress,
		Input:     input,
		Value:     value,
	})
	defer result.Release()

	fmt.Printf("status:   %v\n", result.Status)
	fmt.Printf("gas used: %s of %s\n",
		unitconv.FormatPrefix(float64(gas-result.GasLeft), unitconv.SI, 3),
		unitconv.FormatPrefix(float64(gas), unitconv.SI, 3),
	)
	if len(result.Output) > 0 {
		fmt.Printf("output:   0x%x\n", result.Output)
	}
	for i, log := range host.Logs() {
		fmt.Printf("log %d:    %v topics, data 0x%x\n", i, len(log.Topics), log.Data)
	}
	return nil
}

func getVirtualMachine(context *cli.Context) (fidelio.VirtualMachine, error) {
	if library := context.String("evmc-library"); library != "" {
		return evmcvm.LoadVirtualMachine(library)
	}
	return fidelio.NewVirtualMachine(context.String("vm"))
}

func decodeHex(data string) ([]byte, error) {
	data = strings.TrimPrefix(data, "0x")
	if data == "" {
		return nil, nil
	}
	return hex.DecodeString(data)
}

func parseRevision(name string) (fidelio.Revision, error) {
	switch strings.ToLower(name) {
	case "istanbul":
		return fidelio.R07_Istanbul, nil
	case "berlin":
		return fidelio.R09_Berlin, nil
	case "london":
		return fidelio.R10_London, nil
	case "paris":
		return fidelio.R11_Paris, nil
	case "shanghai":
		return fidelio.R12_Shanghai, nil
	case "cancun":
		return fidelio.R13_Cancun, nil
	default:
		return 0, fmt.Errorf("unknown revision: %s", name)
	}
}
