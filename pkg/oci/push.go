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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// ArtifactType is the media type of a pushed tenant bundle.
const ArtifactType = "application/vnd.opstrace.tenant-bundle.v1"

// PushOptions configures a push of a bundle directory.
type PushOptions struct {
	SourceDir string
	Reference *Reference
	// Annotations are added to the manifest. Title is set when absent.
	Annotations map[string]string
	PlainHTTP   bool
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	Digest    string `json:"digest" yaml:"digest"`
	Reference string `json:"reference" yaml:"reference"`
}

// Push packs SourceDir as a single-layer OCI artifact and copies it to the
// registry named by Reference, authenticating with Docker credentials.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || !opts.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required to push")
	}
	if opts.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}

	refString := opts.Reference.ImageReference()
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference %q", refString), err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", opts.Reference.Registry, opts.Reference.Repository))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	digest, err := pushTo(ctx, opts.SourceDir, opts.Reference.Tag, opts.Annotations, repo)
	if err != nil {
		return nil, err
	}

	slog.Info("bundle pushed",
		"reference", refString,
		"digest", digest,
	)
	return &PushResult{Digest: digest, Reference: refString}, nil
}

// PushToLayout writes the artifact into an OCI image layout directory
// instead of a registry.
func PushToLayout(ctx context.Context, sourceDir, layoutDir, tag string, annotations map[string]string) (*PushResult, error) {
	if tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required")
	}
	store, err := ocilayout.New(layoutDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create OCI layout", err)
	}

	digest, err := pushTo(ctx, sourceDir, tag, annotations, store)
	if err != nil {
		return nil, err
	}
	return &PushResult{Digest: digest, Reference: fmt.Sprintf("%s:%s", layoutDir, tag)}, nil
}

func pushTo(ctx context.Context, sourceDir, tag string, annotations map[string]string, dst oras.Target) (string, error) {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add bundle directory to store", err)
	}

	manifestAnnotations := map[string]string{
		ociv1.AnnotationTitle: "tenant-bundle",
	}
	for k, v := range annotations {
		manifestAnnotations[k] = v
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: manifestAnnotations,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifest, tag); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	desc, err := oras.Copy(ctx, fs, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to copy artifact", err)
	}
	return desc.Digest.String(), nil
}

func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in via --insecure-tls
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
