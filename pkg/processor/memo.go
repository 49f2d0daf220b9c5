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

package processor

import (
	"sync"
	"sync/atomic"
)

// memo computes a value once and caches it, error included, forever
type memo[T any] struct {
	once  sync.Once
	value T
	err   error
	done  atomic.Bool
}

func (m *memo[T]) get(fn func() (T, error)) (T, error) {
	m.once.Do(func() {
		m.value, m.err = fn()
		m.done.Store(true)
	})
	return m.value, m.err
}

// peek returns the cached value without computing it
func (m *memo[T]) peek() (T, bool) {
	if !m.done.Load() || m.err != nil {
		var zero T
		return zero, false
	}
	return m.value, true
}
