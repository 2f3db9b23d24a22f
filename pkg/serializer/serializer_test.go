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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

type summary struct {
	Tenant   string            `json:"tenant" yaml:"tenant"`
	Shards   int               `json:"shards" yaml:"shards"`
	Labels   map[string]string `json:"labels" yaml:"labels"`
	Files    []string          `json:"files" yaml:"files"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
}

func testSummary() summary {
	return summary{
		Tenant:   "acme",
		Shards:   2,
		Labels:   map[string]string{"tenant": "acme"},
		Files:    []string{"a.yaml", "b.yaml"},
		Duration: 1500 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), testSummary()))

	var got summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testSummary(), got)
}

func TestWriter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), testSummary()))

	out := buf.String()
	assert.Contains(t, out, "tenant: acme")
	assert.Contains(t, out, "- a.yaml")
}

func TestWriter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), testSummary()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "FIELD"))
	assert.Contains(t, out, "Labels.tenant")
	assert.Contains(t, out, "Files.[1]")
	assert.Contains(t, out, "1.5s")
}

func TestWriter_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter("xml", &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w, err := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), testSummary()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tenant": "acme"`)

	stdout, err := NewFileWriterOrStdout(FormatJSON, "-")
	require.NoError(t, err)
	assert.Same(t, os.Stdout, stdout.output)

	_, err = NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"settings.json": FormatJSON,
		"settings.YAML": FormatYAML,
		"settings.yml":  FormatYAML,
		"settings":      FormatYAML,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestReader_YAML(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("tenant: acme\nshards: 3\n"))
	require.NoError(t, err)

	var got summary
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "acme", got.Tenant)
	assert.Equal(t, 3, got.Shards)
}

func TestReader_RejectsUnknownFields(t *testing.T) {
	for _, tt := range []struct {
		format Format
		input  string
	}{
		{FormatYAML, "tenant: acme\nbogus: 1\n"},
		{FormatJSON, `{"tenant":"acme","bogus":1}`},
	} {
		t.Run(string(tt.format), func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			require.NoError(t, err)

			var got summary
			err = r.Deserialize(&got)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
		})
	}
}

func TestNewReader_Table(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tenant: acme\nfiles: [x]\n"), 0o600))

	got, err := FromFile[summary](path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Files)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	got, err = FromFile[summary](empty)
	require.NoError(t, err)
	assert.Equal(t, summary{}, *got)

	_, err = FromFile[summary](filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRespondJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRespondBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondBytes(rec, http.StatusOK, "application/yaml", []byte("kind: List\n"))

	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "11", rec.Header().Get("Content-Length"))
	assert.Equal(t, "kind: List\n", rec.Body.String())
}
