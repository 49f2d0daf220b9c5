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

package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Spec
		wantErr     bool
		errContains string
	}{
		{
			name:  "owner_repo",
			input: "walteh/processors",
			want:  Spec{Owner: "walteh", Repo: "processors"},
		},
		{
			name:  "with_path_and_ref",
			input: "walteh/processors/scripts/text@v1.2.0",
			want:  Spec{Owner: "walteh", Repo: "processors", Path: "scripts/text", Ref: "v1.2.0"},
		},
		{
			name:  "with_host",
			input: "https://github.com/walteh/processors.git",
			want:  Spec{Owner: "walteh", Repo: "processors"},
		},
		{
			name:        "missing_repo",
			input:       "walteh",
			wantErr:     true,
			errContains: "want owner/repo",
		},
		{
			name:        "empty_ref",
			input:       "walteh/processors@",
			wantErr:     true,
			errContains: "empty ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpec(tt.input)
			if tt.wantErr {
				require.Error(t, err, "ParseSpec should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "ParseSpec should succeed")
			assert.Equal(t, tt.want, got, "spec should match")
		})
	}
}

func TestSpecString(t *testing.T) {
	spec := Spec{Owner: "walteh", Repo: "processors", Path: "scripts", Ref: "main"}
	assert.Equal(t, "walteh/processors/scripts@main", spec.String(), "string form")

	parsed, err := ParseSpec(spec.String())
	require.NoError(t, err, "string form parses")
	assert.Equal(t, spec, parsed, "string form is stable")
}
