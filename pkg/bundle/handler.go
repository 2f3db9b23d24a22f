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

package bundle

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pranay01/opstrace/pkg/cluster"
	"github.com/pranay01/opstrace/pkg/defaults"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/resource"
	"github.com/pranay01/opstrace/pkg/serializer"
	"github.com/pranay01/opstrace/pkg/server"
	"github.com/pranay01/opstrace/pkg/synth"
	"github.com/pranay01/opstrace/pkg/tenant"
)

// Response formats accepted in the format query parameter.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatZip  = "zip"
)

// Request is the body of POST /v1/bundles.
type Request struct {
	Tenant  TenantRequest `json:"tenant"`
	Cluster cluster.State `json:"cluster"`
	// Target is an opaque handle copied onto every resource.
	Target string `json:"target,omitempty"`
}

// TenantRequest names the tenant. Type is case-insensitive and defaults
// to standard.
type TenantRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Tenant converts the request into a tenant.
func (r TenantRequest) Tenant() (tenant.Tenant, error) {
	t := tenant.New(strings.TrimSpace(r.Name))
	if r.Type == "" {
		return t, nil
	}
	typ, err := tenant.ParseType(r.Type)
	if err != nil {
		return tenant.Tenant{}, err
	}
	t.Type = typ
	return t, nil
}

// Handler serves bundle synthesis over HTTP.
type Handler struct {
	synth *synth.Synthesizer
}

// NewHandler returns a Handler backed by s.
func NewHandler(s *synth.Synthesizer) *Handler {
	return &Handler{synth: s}
}

// HandleBundles synthesizes a bundle from a JSON Request.
//
// The format query parameter selects the response:
//   - yaml (default): multi-document manifest, application/yaml
//   - json: v1 List, application/json
//   - zip: the on-disk bundle layout including checksums.txt
//
// Example:
//
//	POST /v1/bundles?format=json
//	Content-Type: application/json
//	Body: {"tenant": {"name": "prod"}, "cluster": {"nodeCount": 8, "domain": "example.com"}}
func (h *Handler) HandleBundles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method": r.Method,
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.BundleHandlerTimeout)
	defer cancel()

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatYAML
	}
	switch format {
	case FormatYAML, FormatJSON, FormatZip:
	default:
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Unsupported format", false, map[string]any{
				"format":    format,
				"supported": []string{FormatYAML, FormatJSON, FormatZip},
			})
		return
	}

	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, defaults.ServerMaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Invalid request body", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	t, err := req.Tenant.Tenant()
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid tenant", nil)
		return
	}

	slog.Debug("bundle request received",
		"requestID", server.RequestID(r.Context()),
		"tenant", t.Name,
		"type", t.Type,
		"nodes", req.Cluster.NodeCount,
		"format", format,
	)

	var target resource.Target
	if req.Target != "" {
		target = req.Target
	}

	c, err := h.synth.Synthesize(target, req.Cluster, t)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to synthesize bundle",
			map[string]any{"tenant": t.Name})
		return
	}

	switch format {
	case FormatJSON:
		body, err := c.ManifestJSON()
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to render bundle", nil)
			return
		}
		serializer.RespondBytes(w, http.StatusOK, "application/json", body)
	case FormatZip:
		h.respondZip(ctx, w, r, t, c)
	default:
		body, err := c.Manifest()
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to render bundle", nil)
			return
		}
		serializer.RespondBytes(w, http.StatusOK, "application/yaml", body)
	}
}

func (h *Handler) respondZip(ctx context.Context, w http.ResponseWriter, r *http.Request,
	t tenant.Tenant, c resource.Collection) {

	tempDir, err := os.MkdirTemp("", "opstrace-bundle-*")
	if err != nil {
		server.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal,
			"Failed to create temporary directory", true, nil)
		return
	}
	defer os.RemoveAll(tempDir)

	res, err := Write(ctx, tempDir, c)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to write bundle", nil)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Name+"-bundle.zip"))
	w.Header().Set("X-Bundle-Files", strconv.Itoa(len(res.Files)))
	w.Header().Set("X-Bundle-Size", strconv.FormatInt(res.Size, 10))
	w.Header().Set("X-Bundle-Duration", res.Duration.String())

	if err := streamZip(w, res); err != nil {
		// Headers are already out.
		slog.Error("failed to stream zip response", "error", err)
	}
}

func streamZip(w io.Writer, res *Result) error {
	zw := zip.NewWriter(w)
	for _, path := range res.Files {
		if err := addZipFile(zw, res.Dir, path); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addZipFile(zw *zip.Writer, dir, path string) error {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return fmt.Errorf("failed to get relative path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	dst, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", rel, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", rel, err)
	}
	return nil
}
