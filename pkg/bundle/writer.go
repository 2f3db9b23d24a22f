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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pranay01/opstrace/pkg/defaults"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/resource"
)

// ManifestFileName holds every resource of the bundle as one YAML stream.
const ManifestFileName = "manifest.yaml"

// Result describes a bundle written to disk.
type Result struct {
	Dir      string        `json:"dir" yaml:"dir"`
	Files    []string      `json:"files" yaml:"files"`
	Size     int64         `json:"size" yaml:"size"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// FileName returns the file a resource at position i is written to,
// e.g. 03-prometheus-prometheus.yaml.
func FileName(i int, r resource.Resource) string {
	return fmt.Sprintf("%02d-%s-%s.yaml",
		i+1,
		strings.ToLower(r.GroupVersionKind().Kind),
		r.Object().GetName())
}

// Write renders c into dir: one file per resource, manifest.yaml with all of
// them in order, and checksums.txt over both.
func Write(ctx context.Context, dir string, c resource.Collection) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, defaults.BundleWriteTimeout)
	defer cancel()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create bundle directory", err)
	}

	items := c.Items()
	files := make([]string, len(items))
	sizes := make([]int64, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := resource.MarshalYAML(r)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, FileName(i, r))
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInternal,
					fmt.Sprintf("failed to write %s", path), err)
			}
			files[i] = path
			sizes[i] = int64(len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifest, err := c.Manifest()
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(manifestPath, manifest, 0o600); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write manifest", err)
	}
	files = append(files, manifestPath)

	if err := GenerateChecksums(ctx, dir, files); err != nil {
		return nil, err
	}
	checksumPath := filepath.Join(dir, ChecksumFileName)
	info, err := os.Stat(checksumPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to stat checksums", err)
	}
	files = append(files, checksumPath)

	res := &Result{
		Dir:      dir,
		Files:    files,
		Size:     int64(len(manifest)) + info.Size(),
		Duration: time.Since(start),
	}
	for _, s := range sizes {
		res.Size += s
	}

	slog.Debug("bundle written",
		"dir", dir,
		"files", len(res.Files),
		"size", res.Size,
		"duration", res.Duration,
	)
	return res, nil
}
