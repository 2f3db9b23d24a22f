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

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/server"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "tenantd", name)
	assert.Equal(t, "dev", versionDefault)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}

func TestRoutesDefault(t *testing.T) {
	routes, err := Routes("")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.NotNil(t, routes[BundlesPath])
}

func TestRoutesFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shardPolicy: \"2=1,*=4\"\nreplicas: 2\n"), 0o600))

	routes, err := Routes(path)
	require.NoError(t, err)

	s := server.New(server.WithHandler(routes))
	body := `{"tenant": {"name": "prod"}, "cluster": {"nodeCount": 5, "domain": "example.com"}}`
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, BundlesPath, strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "shards: 4")
	assert.Contains(t, w.Body.String(), "replicas: 2")
	assert.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
}

func TestRoutesConfigErrors(t *testing.T) {
	_, err := Routes(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("shardPolicy: \"nonsense\"\n"), 0o600))
	_, err = Routes(bad)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
}
