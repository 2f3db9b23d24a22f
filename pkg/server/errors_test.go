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

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

func TestWriteErrorFromErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      apperrors.ErrorCode
		message   string
		retryable bool
	}{
		{
			name:    "invalid request",
			err:     apperrors.New(apperrors.ErrCodeInvalidRequest, "domain is not defined"),
			status:  http.StatusBadRequest,
			code:    apperrors.ErrCodeInvalidRequest,
			message: "domain is not defined",
		},
		{
			name:    "wrapped not found",
			err:     fmt.Errorf("lookup: %w", apperrors.New(apperrors.ErrCodeNotFound, "config map missing")),
			status:  http.StatusNotFound,
			code:    apperrors.ErrCodeNotFound,
			message: "config map missing",
		},
		{
			name:      "timeout",
			err:       apperrors.Wrap(apperrors.ErrCodeTimeout, "cluster state", errors.New("deadline")),
			status:    http.StatusGatewayTimeout,
			code:      apperrors.ErrCodeTimeout,
			message:   "cluster state",
			retryable: true,
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			status:    http.StatusInternalServerError,
			code:      apperrors.ErrCodeInternal,
			message:   "fallback",
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/bundles", nil)

			WriteErrorFromErr(w, r, tt.err, "fallback", map[string]any{"tenant": "prod"})

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.retryable, resp.Retryable)
			assert.Equal(t, "prod", resp.Details["tenant"])
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestWriteErrorFromErrContext(t *testing.T) {
	err := apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown tenant type",
		map[string]any{"type": "bogus"})

	w := httptest.NewRecorder()
	WriteErrorFromErr(w, httptest.NewRequest(http.MethodPost, "/", nil), err, "fallback", nil)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bogus", resp.Details["type"])
}
