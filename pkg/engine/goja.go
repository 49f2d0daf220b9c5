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

package engine

import (
	"context"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Goja runs scripts in github.com/dop251/goja, one runtime per handle
type Goja struct{}

var _ Engine = (*Goja)(nil)

// 🏭 NewGoja creates a goja-backed engine
func NewGoja() *Goja {
	return &Goja{}
}

// Evaluate implements Engine.Evaluate
func (g *Goja) Evaluate(ctx context.Context, name, source string) (Handle, error) {
	zerolog.Ctx(ctx).Debug().Str("script", name).Msg("evaluating script")

	h := &gojaHandle{vm: goja.New()}
	if _, err := h.run(ctx, func() (goja.Value, error) {
		return h.vm.RunScript(name, source)
	}); err != nil {
		return nil, errors.Errorf("evaluating %s: %w", name, err)
	}

	return h, nil
}

// gojaHandle serializes access to a runtime, which is not goroutine safe
type gojaHandle struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// run executes fn with the runtime interrupted if ctx is cancelled
func (h *gojaHandle) run(ctx context.Context, fn func() (goja.Value, error)) (goja.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.vm.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() {
		h.vm.Interrupt(ctx.Err())
	})
	defer stop()

	return fn()
}

func (h *gojaHandle) Function(name string) (Callable, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := h.vm.Get(name)
	if v == nil {
		return nil, false
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, false
	}

	length := v.ToObject(h.vm).Get("length")
	return &gojaCallable{
		handle: h,
		fn:     fn,
		source: v.String(),
		params: int(length.ToInteger()),
	}, true
}

func (h *gojaHandle) EvaluateLiteral(ctx context.Context, literal string) (Value, error) {
	v, err := h.run(ctx, func() (goja.Value, error) {
		return h.vm.RunString("(" + literal + "\n)")
	})
	if err != nil {
		return nil, errors.Errorf("evaluating literal %q: %w", literal, err)
	}
	return v, nil
}

type gojaCallable struct {
	handle *gojaHandle
	fn     goja.Callable
	source string
	params int
}

func (c *gojaCallable) Source() string {
	return c.source
}

func (c *gojaCallable) ParamCount() int {
	return c.params
}

func (c *gojaCallable) Call(ctx context.Context, text string, args ...Value) (string, error) {
	vm := c.handle.vm

	res, err := c.handle.run(ctx, func() (goja.Value, error) {
		argv := make([]goja.Value, 0, len(args)+1)
		argv = append(argv, vm.ToValue(text))
		for _, arg := range args {
			switch v := arg.(type) {
			case nil:
				argv = append(argv, goja.Undefined())
			case goja.Value:
				argv = append(argv, v)
			default:
				argv = append(argv, vm.ToValue(v))
			}
		}
		return c.fn(goja.Undefined(), argv...)
	})
	if err != nil {
		return "", errors.Errorf("calling %s: %w", EntryPoint, err)
	}
	if goja.IsUndefined(res) || goja.IsNull(res) {
		return "", errors.WithStack(ErrNoResult)
	}

	return res.String(), nil
}
