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
Package settings presents the processors and the static settings forest as one
tree addressed by (trail, section, row).

	root
	 ├── [0] Processors        dynamic, the enabled processors
	 ├── [1] General           section
	 │    ├── About            leaf
	 │    └── Manage           leaf
	 └── [2] Advanced          section
	      ├── Scripts          nested section
	      └── Storage          nested section

🎯 Purpose:
- Answers section, row, item and header queries for any trail
- Owns every processor descriptor and the enabled and favourited views
- Keeps the selected processor address valid across mutations
- Produces the preferences snapshot that persists the tree

📐 Addressing:
A trail is a list of steps from the root. Each step indexes the current node
list and continues with that node's children. A list whose first node is a
section is a list of sections: its rows live in each section's children.
Any other list is a single flat section. Only the first node is inspected, so
a leaf followed by sections is treated as a flat list.

Addresses that do not resolve are programming errors and panic.
*/
package settings
