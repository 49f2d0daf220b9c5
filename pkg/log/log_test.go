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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_processor_event",
			op: func(t *testing.T, logger *Logger) {
				logger.LogProcessorEvent(context.Background(), ProcessorEvent{
					Filename:  "change-case.js",
					Name:      "change case",
					Kind:      "user",
					Action:    "imported",
					IsNew:     true,
					IsEnabled: true,
				})
			},
			wantLogs: []string{
				"✓ change case                    user       imported",
			},
		},
		{
			name: "log_local_import",
			op: func(t *testing.T, logger *Logger) {
				logger.StartImport(context.Background(), ImportOperation{
					Source:      "./scripts/upper.js",
					Destination: "/tmp/processors",
				})
			},
			wantLogs: []string{
				"[importing into /tmp/processors]",
				"◆ ./scripts/upper.js",
			},
		},
		{
			name: "log_remote_import",
			op: func(t *testing.T, logger *Logger) {
				logger.StartImport(context.Background(), ImportOperation{
					Source:      "walteh/processors",
					Ref:         "main",
					Destination: "/tmp/processors",
					IsRemote:    true,
				})
				logger.EndImport(context.Background())
				logger.EndImport(context.Background())
			},
			wantLogs: []string{
				"[importing into /tmp/processors]",
				"◆ walteh/processors • main",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("importing processors")
			},
			wantLogs: []string{
				"procpad • importing processors",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestEventFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		ev   ProcessorEvent
		want string
	}{
		{
			name: "imported",
			ev:   ProcessorEvent{Name: "change case", Kind: "user", Action: "imported", IsNew: true},
			want: "    ✓ change case                    user       imported    ",
		},
		{
			name: "removed",
			ev:   ProcessorEvent{Name: "change case", Kind: "user", Action: "removed", IsRemoved: true, IsNew: true},
			want: "    ✗ change case                    user       removed     ",
		},
		{
			name: "favourited",
			ev:   ProcessorEvent{Name: "Reverse", Kind: "built-in", Action: "favourited", IsFavourited: true, IsEnabled: true},
			want: "    ★ Reverse                        built-in   favourited  ",
		},
		{
			name: "disabled",
			ev:   ProcessorEvent{Name: "Reverse", Kind: "built-in", Action: "disabled"},
			want: "    - Reverse                        built-in   disabled    ",
		},
		{
			name: "option_with_detail",
			ev:   ProcessorEvent{Name: "Reverse", Kind: "built-in", Action: "option", Detail: `mode = "lower"`, IsEnabled: true},
			want: `    • Reverse                        built-in   option       mode = "lower"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Disabled)
			assert.Equal(t, tt.want, logger.formatEvent(tt.ev), "formatted event should match")
		})
	}
}
