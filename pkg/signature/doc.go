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

// Package signature extracts the user-configurable options of a processor from
// the source text of its process function.
//
//	function(text, wrap = 72 /* column */, mode = pick("a", "b"))
//	        |      |    |     |            |      |
//	        |      |    |     +- comment   |      +- default (nested call kept whole)
//	        |      |    +- default         +- name
//	        |      +- name
//	        +- reserved first parameter, never an option
//
// 🎯 Purpose:
// - Scan a function signature into an ordered list of options
// - Answer cheaply whether a script declares options at all
//
// 🔄 Flow:
// 1. HasOptions streams the script line by line until the process declaration
// 2. Only when it reports options does the caller fetch the function source
// 3. Scan walks the signature once, rune by rune, and emits each option
//
// 📝 Design Philosophy:
// The scanner never fails. Its input is the engine's own serialization of a
// function the engine already parsed, so malformed text only yields a shorter
// or blanker result.
//
// ⚠️ Known quirk:
// An option named like the reserved first parameter ("text") is dropped, in any
// position, because that name is how the first parameter is excluded.
package signature
