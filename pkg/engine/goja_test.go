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
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const caseScript = `
var process = function(text, mode = "upper" /* case mode */) {
	return mode === "upper" ? text.toUpperCase() : text.toLowerCase();
}
`

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

func TestGojaCall(t *testing.T) {
	ctx := testContext(t)
	h, err := NewGoja().Evaluate(ctx, "case.js", caseScript)
	require.NoError(t, err, "evaluating should succeed")

	fn, err := EntryPointOf(h)
	require.NoError(t, err, "entry point should be found")

	assert.Contains(t, fn.Source(), `mode = "upper" /* case mode */`, "source should keep the signature")
	assert.Equal(t, 1, fn.ParamCount(), "length stops at the first default")

	got, err := fn.Call(ctx, "Hello", nil)
	require.NoError(t, err, "call with default should succeed")
	assert.Equal(t, "HELLO", got, "default option should apply")

	lower, err := h.EvaluateLiteral(ctx, `"lower"`)
	require.NoError(t, err, "literal should evaluate")

	got, err = fn.Call(ctx, "Hello", lower)
	require.NoError(t, err, "call with override should succeed")
	assert.Equal(t, "hello", got, "override should apply")
}

func TestEntryPointOf(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr error
	}{
		{
			name:    "missing_process",
			script:  "var other = function(text) { return text; }",
			wantErr: ErrNoEntryPoint,
		},
		{
			name:    "process_not_a_function",
			script:  "var process = 42;",
			wantErr: ErrNoEntryPoint,
		},
		{
			name:    "process_without_parameters",
			script:  "function process() { return ''; }",
			wantErr: ErrNoParameters,
		},
		{
			name:   "valid_declaration",
			script: "function process(text) { return text; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			h, err := NewGoja().Evaluate(ctx, tt.name+".js", tt.script)
			require.NoError(t, err, "evaluating should succeed")

			_, err = EntryPointOf(h)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "error should be %v, got %v", tt.wantErr, err)
				return
			}
			assert.NoError(t, err, "entry point should be valid")
		})
	}
}

func TestGojaErrors(t *testing.T) {
	ctx := testContext(t)

	_, err := NewGoja().Evaluate(ctx, "broken.js", "var process = function(text {")
	require.Error(t, err, "syntax errors should fail evaluation")
	assert.Contains(t, err.Error(), "broken.js", "error should name the script")

	h, err := NewGoja().Evaluate(ctx, "void.js", "function process(text) {}")
	require.NoError(t, err, "evaluating should succeed")
	fn, err := EntryPointOf(h)
	require.NoError(t, err, "entry point should be found")

	_, err = fn.Call(ctx, "x")
	assert.True(t, errors.Is(err, ErrNoResult), "undefined result should be reported")

	_, err = h.EvaluateLiteral(ctx, "{{")
	assert.Error(t, err, "invalid literal should fail")
}

func TestGojaCancellation(t *testing.T) {
	ctx := testContext(t)
	h, err := NewGoja().Evaluate(ctx, "loop.js", "function process(text) { while (true) {} }")
	require.NoError(t, err, "evaluating should succeed")
	fn, err := EntryPointOf(h)
	require.NoError(t, err, "entry point should be found")

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	_, err = fn.Call(ctx, "x")
	assert.Error(t, err, "cancelled call should fail")
}
