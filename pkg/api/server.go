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
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/pranay01/opstrace/pkg/bundle"
	"github.com/pranay01/opstrace/pkg/config"
	"github.com/pranay01/opstrace/pkg/logging"
	"github.com/pranay01/opstrace/pkg/server"
	"github.com/pranay01/opstrace/pkg/synth"
)

const (
	name           = "tenantd"
	versionDefault = "dev"

	// EnvConfig points at a settings file (YAML or JSON) for the synthesizer.
	EnvConfig = "OPSTRACE_CONFIG"

	// BundlesPath is the bundle synthesis route.
	BundlesPath = "/v1/bundles"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/pranay01/opstrace/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	routes, err := Routes(os.Getenv(EnvConfig))
	if err != nil {
		slog.Error("failed to configure routes", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// Routes builds the API routes with synthesizer settings loaded from
// configPath. An empty path uses the defaults.
func Routes(configPath string) (map[string]http.HandlerFunc, error) {
	f, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	s, err := synth.New(opts...)
	if err != nil {
		return nil, err
	}

	slog.Debug("synthesizer configured",
		"config", configPath,
		"shardPolicy", s.Settings().ShardPolicy.String(),
	)

	h := bundle.NewHandler(s)
	return map[string]http.HandlerFunc{
		BundlesPath: h.HandleBundles,
	}, nil
}
