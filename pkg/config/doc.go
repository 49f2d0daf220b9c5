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
Package config loads the procpad application configuration.

	+------------+     +-----------+     +------------+
	| .env file  | --> | env vars  | --> |            |
	+------------+     +-----------+     |  Validate  | --> *Config
	| config     | --> |  Parser   | --> |  defaults  |
	| json/yaml/ |     | by ext    |     |            |
	| hcl/toml   |     +-----------+     +------------+
	+------------+

🎯 Purpose:
- Locates the bundled and writable processor directories
- Locates the preferences file
- Carries the static settings forest shown next to the processors

🔄 Flow:
1. Start from Default, or parse the file chosen by extension
2. Apply PROCPAD_* environment overrides
3. Validate, cleaning paths and checking the settings forest

A .procpad file is tried as YAML, then as HCL. HCL keeps the order of the
settings forest with repeated node blocks:

	settings {
	  node "General" {
	    kind = "section"
	    node "About procpad" { kind = "about" }
	  }
	}
*/
package config
