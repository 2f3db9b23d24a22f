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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNew(t *testing.T) {
	s := New(
		WithName("tenantd"),
		WithVersion("v1.2.3"),
		WithHandler(map[string]http.HandlerFunc{"/test": okHandler}),
	)
	require.NotNil(t, s)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)
	assert.Equal(t, "tenantd", s.config.Name)
	assert.Equal(t, "v1.2.3", s.config.Version)
	assert.Contains(t, s.config.Handlers, "/test")
	assert.False(t, s.isReady())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9191")
	t.Setenv(EnvShutdownTimeout, "5")

	cfg := NewConfig()
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigIgnoresInvalidEnv(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")
	t.Setenv(EnvShutdownTimeout, "-3")

	cfg := NewConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 9999

	s := New(WithConfig(cfg))
	assert.Equal(t, "127.0.0.1:9999", s.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHealthRejectsPost(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		ready  bool
		status int
		want   string
	}{
		{name: "ready", ready: true, status: http.StatusOK, want: "ready"},
		{name: "not ready", ready: false, status: http.StatusServiceUnavailable, want: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetReady(tt.ready)

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestRootRoute(t *testing.T) {
	s := New(
		WithName("tenantd"),
		WithVersion("dev"),
		WithHandler(map[string]http.HandlerFunc{"/v1/bundles": okHandler}),
	)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp RootResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tenantd", resp.Name)
	assert.Equal(t, "dev", resp.Version)
	assert.Equal(t, []string{"/health", "/metrics", "/ready", "/v1/bundles"}, resp.Routes)
}

func TestUnknownRoute(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.ErrCodeNotFound), resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestMetricsRoute(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/test": okHandler}))

	// Drive one request through the chain so the counters have a series.
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "opstrace_http_requests_total")
}
