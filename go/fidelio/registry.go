// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for VirtualMachine implementations.
//
// The registry is intended to be used by all client applications that would
// like to run contract code. For an implementation to be available it needs
// to be registered. Typically, this registration is part of the init code
// of the package providing an implementation. Thus, by including the
// implementation package, virtual machines become available in this central
// registry.

// NewVirtualMachine performs a lookup for the given name (case-insensitive)
// in the registry and creates a new VirtualMachine using the given optional
// configuration. If no configuration is provided, the implementation uses
// its default configuration. An error is returned if no factory was
// registered under the given name.
func NewVirtualMachine(name string, config ...any) (VirtualMachine, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetVirtualMachineFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("virtual machine not found: %s", name)
	}
	c := any(nil)
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// GetVirtualMachineFactory performs a lookup for the given name
// (case-insensitive) in the registry. The result is nil if no factory was
// registered under the given name.
func GetVirtualMachineFactory(name string) VirtualMachineFactory {
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	return vmRegistry[strings.ToLower(name)]
}

// GetAllRegisteredVirtualMachines obtains all registered implementations.
func GetAllRegisteredVirtualMachines() map[string]VirtualMachineFactory {
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	return maps.Clone(vmRegistry)
}

// RegisterVirtualMachineFactory registers a new VirtualMachine
// implementation to be exported for general use in the binary. The name is
// not case-sensitive, and an error is returned if a factory was bound to
// the same name before, or the factory is nil. This function is mainly
// intended to be used by package initialization code.
func RegisterVirtualMachineFactory(name string, factory VirtualMachineFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	if _, found := vmRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	vmRegistry[key] = factory
	return nil
}

// MustRegisterVirtualMachineFactory registers a new VirtualMachine
// implementation and panics if the registration fails. It is intended for
// package init functions, where a registration failure is an unrecoverable
// setup defect.
func MustRegisterVirtualMachineFactory(name string, factory VirtualMachineFactory) {
	if err := RegisterVirtualMachineFactory(name, factory); err != nil {
		panic(err)
	}
}

// VirtualMachineFactory is the type of a function that creates a new
// VirtualMachine using an implementation specific configuration.
type VirtualMachineFactory func(config any) (VirtualMachine, error)

// vmRegistry is a global registry for VirtualMachine factories of different
// implementations and configurations.
var vmRegistry = map[string]VirtualMachineFactory{}

// vmRegistryLock to protect access to the registry.
var vmRegistryLock sync.Mutex
