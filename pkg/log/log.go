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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	eventIndent = 4  // spaces to indent processor entries
	nameWidth   = 30 // Base width for the processor name
	kindWidth   = 10 // Width for the processor kind
	actionWidth = 12 // Width for the action text
)

// 🎯 ProcessorEvent describes a change made to one processor
type ProcessorEvent struct {
	Filename     string // Script filename, the preferences key
	Name         string // Display name
	Kind         string // built-in or user
	Action       string // What happened (imported, removed, enabled, ...)
	Detail       string // Optional extra text, e.g. an option value
	IsNew        bool   // Whether the processor was just imported
	IsRemoved    bool   // Whether the processor was removed
	IsEnabled    bool   // Enabled flag after the change
	IsFavourited bool   // Favourite flag after the change
}

// 📦 ImportOperation describes a batch of scripts imported from one source
type ImportOperation struct {
	Source      string // Local path or owner/repo
	Ref         string // Branch or tag, for remote sources
	Destination string // Writable processor directory
	IsRemote    bool   // Whether scripts come from GitHub
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *ImportOperation
	events    []ProcessorEvent
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEvent formats a processor event for display
func (l *Logger) formatEvent(ev ProcessorEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case ev.IsRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case ev.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case ev.IsFavourited:
		symbol = '★'
		symbolColor = color.FgYellow
	case ev.IsEnabled:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.Faint
	}

	kindColor := color.FgBlue
	if ev.Kind == "built-in" {
		kindColor = color.FgMagenta
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", eventIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, ev.Name),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, ev.Kind)),
		fmt.Sprintf("%-*s", actionWidth, ev.Action))
	if ev.Detail != "" {
		line += " " + color.New(color.Faint).Sprint(ev.Detail)
	}
	return line
}

// 📝 LogProcessorEvent logs a change to a processor
func (l *Logger) LogProcessorEvent(ctx context.Context, ev ProcessorEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)

	fmt.Fprintln(l.console, l.formatEvent(ev))

	l.zlog.Info().
		Str("processor", ev.Filename).
		Str("name", ev.Name).
		Str("kind", ev.Kind).
		Str("action", ev.Action).
		Str("detail", ev.Detail).
		Bool("is_new", ev.IsNew).
		Bool("is_removed", ev.IsRemoved).
		Bool("is_enabled", ev.IsEnabled).
		Bool("is_favourited", ev.IsFavourited).
		Msg("processor event")
}

// 📝 StartImport starts a batch import
func (l *Logger) StartImport(ctx context.Context, op ImportOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.events = nil

	fmt.Fprintf(l.console, "[importing into %s]\n",
		color.New(color.FgCyan).Sprint(op.Destination))

	if op.Ref != "" {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Source),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(op.Ref))
	} else {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Source))
	}

	l.zlog.Info().
		Str("source", op.Source).
		Str("ref", op.Ref).
		Str("destination", op.Destination).
		Bool("is_remote", op.IsRemote).
		Msg("starting import")
}

// 📝 EndImport ends the current import
func (l *Logger) EndImport(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Int("processors", len(l.events)).
		Msg("import complete")

	l.currentOp = nil
	l.events = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("procpad")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
