// Copyright (c) 2025, The Opstrace Authors.  All rights reserved.
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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr error
	}{
		{in: "v2.41.0", want: Version{Major: 2, Minor: 41, Patch: 0, Precision: 3}},
		{in: "2.41", want: Version{Major: 2, Minor: 41, Precision: 2}},
		{in: "v3", want: Version{Major: 3, Precision: 1}},
		{in: "v2.45.0-rc.1", want: Version{Major: 2, Minor: 45, Precision: 3, Extras: "-rc.1"}},
		{in: "2.41.0+build.7", want: Version{Major: 2, Minor: 41, Precision: 3, Extras: "+build.7"}},
		{in: "", wantErr: ErrEmptyVersion},
		{in: "1.2.3.4", wantErr: ErrTooManyComponents},
		{in: "latest", wantErr: ErrNonNumeric},
		{in: "v2..1", wantErr: ErrNonNumeric},
		{in: "-1", wantErr: ErrNonNumeric},
		{in: "v", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "v2.41.0", MustParseVersion("2.41.0-rc.0").String())
	assert.Equal(t, "v2.41", MustParseVersion("v2.41").String())
	assert.Equal(t, "v2", MustParseVersion("2").String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"v2.41.0", "v2.41.0", 0},
		{"v2.41.0", "v2.40.9", 1},
		{"v2.9.0", "v2.10.0", -1},
		{"v2", "v2.50.1", 0},
		{"v1.8.2", "v2", -1},
		{"v2.41.0-rc.1", "v2.41.0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)))
		})
	}
}

func TestAtLeast(t *testing.T) {
	floor := MustParseVersion("v2.0.0")
	assert.True(t, MustParseVersion("v2.41.0").AtLeast(floor))
	assert.True(t, MustParseVersion("v2.0.0").AtLeast(floor))
	assert.False(t, MustParseVersion("v1.8.2").AtLeast(floor))
}

func TestMustParseVersionPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("latest") })
}

func FuzzParseVersion(f *testing.F) {
	for _, s := range []string{"v2.41.0", "2", "1.2.3-rc.1", "", ".", "1..2", "v", "-1", "1.2.3.4", "1.+2"} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("ParseVersion(%q) precision = %d", input, v.Precision)
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("ParseVersion(%q) has negative component: %+v", input, v)
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("ParseVersion(%q) round trip failed: %v", v.String(), err)
		}
		if again.Compare(v) != 0 {
			t.Errorf("round trip of %q changed version: %+v vs %+v", input, again, v)
		}
	})
}
