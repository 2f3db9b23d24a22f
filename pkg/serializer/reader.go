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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// FormatFromPath returns the format implied by a file extension:
// .json is JSON, .yaml and .yml are YAML. Anything else is YAML.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	default:
		slog.Debug("unknown file extension, assuming YAML", "path", path)
		return FormatYAML
	}
}

// Reader decodes JSON or YAML. Unknown fields are rejected.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader returns a Reader over input. Table format cannot be read.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("format %q does not support deserialization", format))
	}
	r := &Reader{format: format, input: input}
	if c, ok := input.(io.Closer); ok {
		r.closer = c
	}
	return r, nil
}

// NewFileReader opens path for reading in the given format.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("format %q does not support deserialization", format))
	}
	file, err := os.Open(path)
	if err != nil {
		code := apperrors.ErrCodeInternal
		if errors.Is(err, os.ErrNotExist) {
			code = apperrors.ErrCodeNotFound
		}
		return nil, apperrors.Wrap(code, fmt.Sprintf("failed to open %s", path), err)
	}
	return &Reader{format: format, input: file, closer: file}, nil
}

// Deserialize decodes the input into v.
func (r *Reader) Deserialize(v any) error {
	if r == nil || r.input == nil {
		return apperrors.New(apperrors.ErrCodeInternal, "reader has no input")
	}

	switch r.format {
	case FormatJSON:
		dec := json.NewDecoder(r.input)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode JSON", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r.input)
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode YAML", err)
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported format for deserialization: %s", r.format))
	}
	return nil
}

// Close releases the underlying file, if any. It is safe to call twice.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// FromFile loads path into a new T, with the format taken from the
// extension. An empty file yields the zero T.
func FromFile[T any](path string) (*T, error) {
	r, err := NewFileReader(FormatFromPath(path), path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("failed to close reader", "error", cerr)
		}
	}()

	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.CodeOf(err), "failed to load file", err,
			map[string]any{"path": path})
	}
	return &v, nil
}
