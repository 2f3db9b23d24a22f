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
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/serializer"
)

// WriteError writes an ErrorResponse carrying the request ID from the context.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code apperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a status code through its ErrorCode.
// A StructuredError's message and context take precedence over
// fallbackMessage and extraDetails.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, extraDetails map[string]any) {

	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)

	message := fallbackMessage
	details := make(map[string]any, len(extraDetails)+1)
	for k, v := range extraDetails {
		details[k] = v
	}

	var se *apperrors.StructuredError
	if errors.As(err, &se) {
		message = se.Message
		for k, v := range se.Context {
			details[k] = v
		}
		if se.Cause != nil {
			details["error"] = se.Cause.Error()
		}
	} else if err != nil {
		details["error"] = err.Error()
	}
	if len(details) == 0 {
		details = nil
	}

	WriteError(w, r, status, code, message, isRetryable(code), details)
}

func isRetryable(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeRateLimitExceeded,
		apperrors.ErrCodeUnavailable, apperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}
