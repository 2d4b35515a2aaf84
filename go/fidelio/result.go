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
	"sync/atomic"
)

// Result summarizes the outcome of executing a single message. A Result with
// an attached release hook owns its output buffer until Release is invoked;
// afterwards the Result is invalid and must not be read or released again.
type Result struct {
	Status         StatusCode
	GasLeft        Gas
	Output         Data
	CreatedAddress Address // only meaningful for successful Create/Create2

	hook *releaseHook
}

// releaseHook tracks the pending release obligation of a Result. It is
// shared by all copies of the Result, so a duplicated release is detected
// independent of which copy it is attempted on.
type releaseHook struct {
	released atomic.Bool
	release  func()
}

// ErrorResult produces the canonical result for a failed execution: the
// given status with the full gas budget consumed. For the Revert status,
// which retains gas and output, results are to be constructed directly.
func ErrorResult(status StatusCode) Result {
	return Result{Status: status}
}

// SetReleaseHook attaches the function to be invoked when the output buffer
// of this result is handed back. A virtual machine attaches a hook whenever
// it allocates resources backing the output; the receiving host must then
// call Release exactly once.
func (r *Result) SetReleaseHook(release func()) {
	r.hook = &releaseHook{release: release}
}

// Release hands the result's resources back to their producer and poisons
// the output. Calling Release twice on a result carrying a release hook is
// a contract violation and triggers a panic, since the duplicated release
// is an implementation bug that cannot be recovered from.
func (r *Result) Release() {
	if r.hook != nil {
		if r.hook.released.Swap(true) {
			panic("result released twice")
		}
		if r.hook.release != nil {
			r.hook.release()
		}
	}
	r.Output = nil
}

// Released returns true if the release obligation of this result has been
// discharged. Results without a release hook carry no obligation.
func (r *Result) Released() bool {
	return r.hook == nil || r.hook.released.Load()
}

// Validate checks the result invariants for an execution of the given call
// kind: only success and revert retain gas, output absence is encoded as an
// empty buffer, and a created address is only reported for a successful
// contract creation.
func (r *Result) Validate(kind CallKind) error {
	if r.Status.IsInternal() {
		return fmt.Errorf("internal status code %v must not cross the host boundary", r.Status)
	}
	if !r.Status.RetainsGas() && r.GasLeft != 0 {
		return fmt.Errorf("status %v must not retain gas, got %d", r.Status, r.GasLeft)
	}
	isCreation := kind == Create || kind == Create2
	if (r.Status != StatusSuccess || !isCreation) && r.CreatedAddress != (Address{}) {
		return fmt.Errorf("unexpected created address %v for %v with status %v", r.CreatedAddress, kind, r.Status)
	}
	return nil
}
