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

package signature_test

import (
	"fmt"

	"github.com/walteh/procpad/pkg/signature"
)

func ExampleScan() {
	options := signature.Scan(`function(text, wrap_limit = 72 /* column */, mode = pick("a", "b"))`)

	for _, opt := range options {
		fmt.Printf("%s default=%s", opt.Name, *opt.Default)
		if opt.Comment != nil {
			fmt.Printf(" comment=%s", *opt.Comment)
		}
		fmt.Println()
	}

	// Output:
	// wrap_limit default=72 comment=column
	// mode default=pick("a", "b")
}
