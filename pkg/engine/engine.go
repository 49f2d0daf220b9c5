// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package engine is the contract between procpad and the script engine that
// runs processor scripts, plus a goja-backed implementation.
package engine

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// EntryPoint is the function every processor script must expose.
const EntryPoint = "process"

var (
	// ErrNoEntryPoint is returned when a script exposes no callable process function
	ErrNoEntryPoint = errors.Base("no callable process entry point")
	// ErrNoParameters is returned when the process function takes no parameters
	ErrNoParameters = errors.Base("process entry point takes no parameters")
	// ErrNoResult is returned when process returns undefined or null
	ErrNoResult = errors.Base("process returned no value")
)

// Value is an engine-native value, as produced by EvaluateLiteral. A nil
// Value passed to Call leaves the parameter undefined so its default applies.
type Value any

// 🔧 Engine evaluates script sources
type Engine interface {
	// Evaluate runs source once and returns a handle to its global scope
	Evaluate(ctx context.Context, name, source string) (Handle, error)
}

// 📦 Handle is an evaluated script
type Handle interface {
	// Function looks up a callable global by name
	Function(name string) (Callable, bool)
	// EvaluateLiteral turns a stored literal expression into a value
	EvaluateLiteral(ctx context.Context, literal string) (Value, error)
}

// 🎯 Callable is a function defined by a script
type Callable interface {
	// Source returns the engine's serialization of the function
	Source() string
	// ParamCount returns the declared parameter count
	ParamCount() int
	// Call invokes the function with text followed by option values
	Call(ctx context.Context, text string, args ...Value) (string, error)
}

// ✅ EntryPointOf returns the process function of h, rejecting scripts that do
// not expose one or whose process takes no parameters.
func EntryPointOf(h Handle) (Callable, error) {
	fn, ok := h.Function(EntryPoint)
	if !ok {
		return nil, ErrNoEntryPoint
	}
	if fn.ParamCount() == 0 {
		return nil, ErrNoParameters
	}
	return fn, nil
}
