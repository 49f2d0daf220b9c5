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

package signature

import (
	"strings"
	"unicode"
)

// ReservedName is the mandatory first parameter of every process function.
const ReservedName = "text"

// 📦 Option is a parameter declared after the reserved first parameter
type Option struct {
	Name    string  // Trimmed parameter name
	Default *string // Raw default-value expression, nil when absent
	Comment *string // Comment attached to the parameter, nil when absent
}

// 🔍 scanner holds the lexical state of one Scan call
type scanner struct {
	beforeParams bool

	inString    bool
	stringDelim rune
	isEscaped   bool

	inLineComment  bool
	inBlockComment bool
	maybeComment   bool // previous rune was a '/' not yet classified
	maybeBlockEnd  bool // previous rune inside a block comment was '*'

	// 0 until '=' is seen; 1 is the implicit level of the default expression
	expressionLevel int

	name    strings.Builder
	value   strings.Builder
	comment strings.Builder

	options []Option
	done    bool
}

// 🔍 Scan extracts the options declared by a process function signature.
// Source with no '(' yields no options.
func Scan(source string) []Option {
	s := &scanner{
		beforeParams: true,
		options:      []Option{},
	}

	for _, r := range source {
		s.step(r)
		if s.done {
			break
		}
	}

	return s.options
}

func (s *scanner) step(r rune) {
	switch {
	case s.beforeParams:
		if r == '(' {
			s.beforeParams = false
		}
		return

	case s.inString:
		s.value.WriteRune(r)
		switch {
		case s.isEscaped:
			s.isEscaped = false
		case r == '\\':
			s.isEscaped = true
		case r == s.stringDelim:
			s.inString = false
		}
		return

	case s.inLineComment:
		// line comments are skipped, only block comments describe an option
		if r == '\n' {
			s.inLineComment = false
		}
		return

	case s.inBlockComment:
		s.comment.WriteRune(r)
		if s.maybeBlockEnd && r == '/' {
			s.inBlockComment = false
			s.maybeBlockEnd = false
			s.trimCommentTerminator()
			return
		}
		s.maybeBlockEnd = r == '*'
		return
	}

	if s.maybeComment {
		s.maybeComment = false
		switch r {
		case '/':
			s.inLineComment = true
			return
		case '*':
			s.inBlockComment = true
			return
		}
		// a lone slash is division
		s.literal('/')
	}

	if r == '/' {
		s.maybeComment = true
		return
	}

	if s.expressionLevel > 0 {
		s.expression(r)
		return
	}

	s.parameter(r)
}

// parameter handles a rune at the top level of the parameter list
func (s *scanner) parameter(r rune) {
	switch {
	case r == ')':
		s.flush()
		s.done = true
	case r == '=':
		s.expressionLevel = 1
	case r == ',':
		s.flush()
	case unicode.IsSpace(r):
	default:
		s.name.WriteRune(r)
	}
}

// expression handles a rune inside a default-value expression
func (s *scanner) expression(r rune) {
	switch r {
	case '"', '\'', '`':
		s.inString = true
		s.stringDelim = r
		s.value.WriteRune(r)
	case '(', '[', '{':
		s.expressionLevel++
		s.value.WriteRune(r)
	case ')':
		if s.expressionLevel == 1 {
			s.flush()
			s.done = true
			return
		}
		s.expressionLevel--
		s.value.WriteRune(r)
	case ']', '}':
		if s.expressionLevel > 1 {
			s.expressionLevel--
		}
		s.value.WriteRune(r)
	case ',':
		if s.expressionLevel == 1 {
			s.flush()
			return
		}
		s.value.WriteRune(r)
	default:
		s.value.WriteRune(r)
	}
}

// literal appends r to whichever accumulator is active
func (s *scanner) literal(r rune) {
	if s.expressionLevel > 0 {
		s.value.WriteRune(r)
		return
	}
	s.name.WriteRune(r)
}

// trimCommentTerminator drops the "*/" that closed a block comment
func (s *scanner) trimCommentTerminator() {
	text := s.comment.String()
	s.comment.Reset()
	s.comment.WriteString(strings.TrimSuffix(text, "*/"))
}

// flush emits the accumulated parameter and resets for the next one
func (s *scanner) flush() {
	name := strings.TrimSpace(s.name.String())
	if name != "" && name != ReservedName {
		s.options = append(s.options, Option{
			Name:    name,
			Default: optional(s.value.String()),
			Comment: optional(s.comment.String()),
		})
	}

	s.name.Reset()
	s.value.Reset()
	s.comment.Reset()
	s.expressionLevel = 0
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
