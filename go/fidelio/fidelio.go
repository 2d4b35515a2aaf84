// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fidelio defines the contract between a bytecode execution engine
// (a VirtualMachine) and the embedding blockchain runtime (a Host): the
// value and record types crossing the boundary, the callback interface a
// running machine uses to query and mutate chain state, the entry points a
// host uses to drive the machine, and the life-cycle rules binding them.
//
// The package deliberately contains no execution logic. Virtual machine
// implementations register themselves in the factory registry of this
// package and are obtained by name via NewVirtualMachine; host
// implementations provide the Host interface. The go/host and go/vm
// subdirectories of this repository contain reference implementations of
// both sides.
package fidelio
