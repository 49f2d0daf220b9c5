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

/*
Package processor models the user-selectable text processors of procpad.

	            +-------------+
	            |   Catalog   |
	            | (FindAll)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|  Bundled  |           | Imported  |
	|  BuiltIn  |           | UserAdded |
	+-----------+           +-----------+
	                   |
	            +------+------+
	            | Descriptor  |
	            | name, flags |
	            | options     |
	            +-------------+

🎯 Purpose:
- Enumerates processor scripts from the bundled and writable directories
- Resolves display names and option lists lazily
- Imports and removes user scripts
- Runs a processor over text with its configured option values

⚡ Laziness:
Every descriptor memoizes its option presence, its evaluated script and its
option list the first time they are asked for, and never recomputes them in
the same process. HasOptions is a streaming line scan and decides whether the
engine and the signature scanner run at all.

🤝 Identity:
Two descriptors are the same processor only when their script locations are
equal. Importing the same script twice yields two processors.
*/
package processor
