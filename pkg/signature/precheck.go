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
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

const maxLineSize = 1024 * 1024

// declaration matches the line that declares the process entry point and
// captures the rune that follows the reserved first parameter
var declaration = regexp.MustCompile(
	`^(?:function\s+process\s*\(|(?:(?:var|let|const)\s+)?process\s*=\s*(?:function(?:\s+[\pL_$][\pL\pN_$]*)?\s*\(|\())\s*` +
		ReservedName + `\s*(?:/\*.*?\*/\s*)*([,)])`,
)

// 📖 LineReader yields one line of a script at a time
type LineReader interface {
	// NextLine returns the next line, or false at end of input
	NextLine() (string, bool)
}

type bufferedLineReader struct {
	scanner *bufio.Scanner
}

// 🏭 NewLineReader wraps r in a lazily-buffered LineReader
func NewLineReader(r io.Reader) LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &bufferedLineReader{scanner: scanner}
}

func (l *bufferedLineReader) NextLine() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	return l.scanner.Text(), true
}

// 🔍 HasOptions reports whether the process declaration takes parameters
// beyond the reserved one. The first declaration line decides; reaching the
// end of input means no options.
func HasOptions(lines LineReader) bool {
	for {
		line, ok := lines.NextLine()
		if !ok {
			return false
		}

		m := declaration.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		return m[1] == ","
	}
}

// 🔍 HasOptionsFile runs HasOptions over the file at path. A file that cannot
// be opened has no options.
func HasOptionsFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return HasOptions(NewLineReader(f))
}
