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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pranay01/opstrace/pkg/bundle"
	"github.com/pranay01/opstrace/pkg/cluster"
	"github.com/pranay01/opstrace/pkg/config"
	apperrors "github.com/pranay01/opstrace/pkg/errors"
	"github.com/pranay01/opstrace/pkg/header"
	"github.com/pranay01/opstrace/pkg/k8s/client"
	"github.com/pranay01/opstrace/pkg/oci"
	"github.com/pranay01/opstrace/pkg/resource"
	"github.com/pranay01/opstrace/pkg/serializer"
	"github.com/pranay01/opstrace/pkg/shard"
	"github.com/pranay01/opstrace/pkg/synth"
	"github.com/pranay01/opstrace/pkg/tenant"
)

const (
	stdoutTarget  = "-"
	defaultOCITag = "latest"
)

const (
	flagConfig      = "config"
	flagShardPolicy = "shard-policy"
	flagNodes       = "nodes"
	flagFromCluster = "from-cluster"
	flagKubeconfig  = "kubeconfig"
	flagDomain      = "domain"
	flagDomainFrom  = "domain-from"
	flagOutput      = "output"
	flagFormat      = "format"
	flagTarget      = "target"
	flagPlainHTTP   = "plain-http"
	flagInsecureTLS = "insecure-tls"
)

// Flags are built per command: urfave/cli flags keep parsed state.

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "Settings file (YAML or JSON): diskSize, replicas, storageAPIHost, shardPolicy, prometheusImage",
	}
}

func shardPolicyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagShardPolicy,
		Usage: fmt.Sprintf("Shard thresholds as <maxNodes>=<shards>,..., ending in inf (default %q)", shard.DefaultPolicy()),
	}
}

func nodesFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    flagNodes,
		Aliases: []string{"n"},
		Usage:   "Cluster node count (ignored with --from-cluster)",
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Value:   string(def),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// bundleFlags are shared by every command that renders a bundle.
func bundleFlags() []cli.Flag {
	return []cli.Flag{
		nodesFlag(),
		&cli.BoolFlag{
			Name:  flagFromCluster,
			Usage: "Count nodes in the cluster reachable through --kubeconfig",
		},
		&cli.StringFlag{
			Name:    flagKubeconfig,
			Aliases: []string{"k"},
			Usage:   fmt.Sprintf("Path to kubeconfig (default: $%s, then ~/.kube/config)", client.EnvKubeconfig),
		},
		&cli.StringFlag{
			Name:    flagDomain,
			Aliases: []string{"d"},
			Usage:   "Cluster DNS domain",
		},
		&cli.StringFlag{
			Name: flagDomainFrom,
			Usage: fmt.Sprintf("Read the domain from a ConfigMap, %s<namespace>/<name> key %q",
				cluster.ConfigMapURIScheme, cluster.DomainKey),
		},
		configFlag(),
		shardPolicyFlag(),
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Value:   stdoutTarget,
			Usage:   "Bundle destination: a directory, - for stdout, or oci://registry/repository[:tag]",
		},
		formatFlag(serializer.FormatYAML),
		&cli.StringFlag{
			Name:  flagTarget,
			Usage: "Opaque deployment target handle recorded with the bundle",
		},
		&cli.BoolFlag{
			Name:  flagPlainHTTP,
			Usage: "Use HTTP instead of HTTPS for the OCI registry",
		},
		&cli.BoolFlag{
			Name:  flagInsecureTLS,
			Usage: "Skip TLS certificate verification for the OCI registry",
		},
	}
}

// newSynthesizer loads --config and applies --shard-policy on top.
func newSynthesizer(cmd *cli.Command) (*synth.Synthesizer, error) {
	f, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if p := cmd.String(flagShardPolicy); p != "" {
		f.ShardPolicy = p
	}
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	return synth.New(opts...)
}

// clusterState resolves node count and domain from flags, reading the
// cluster only when --from-cluster or --domain-from asks for it.
func clusterState(ctx context.Context, cmd *cli.Command) (cluster.State, error) {
	fromCluster := cmd.Bool(flagFromCluster)
	domainFrom := cmd.String(flagDomainFrom)
	if domainFrom != "" && cmd.String(flagDomain) != "" {
		return cluster.State{}, apperrors.New(apperrors.ErrCodeInvalidRequest,
			"--domain and --domain-from are mutually exclusive")
	}

	if !fromCluster && domainFrom == "" {
		return cluster.State{
			NodeCount: cmd.Int(flagNodes),
			Domain:    strings.TrimSpace(cmd.String(flagDomain)),
		}, nil
	}

	source := cluster.DomainSource(cmd.String(flagDomain))
	if domainFrom != "" {
		source = cluster.DomainSource(domainFrom)
	}

	cs, err := client.ForKubeconfig(cmd.String(flagKubeconfig))
	if err != nil {
		return cluster.State{}, err
	}

	state, err := (&cluster.Collector{Client: cs}).Collect(ctx, source)
	if err != nil {
		return cluster.State{}, err
	}
	if !fromCluster {
		state.NodeCount = cmd.Int(flagNodes)
	}
	return state, nil
}

func targetHandle(cmd *cli.Command) resource.Target {
	if t := cmd.String(flagTarget); t != "" {
		return t
	}
	return nil
}

// Summary describes a rendered bundle.
type Summary struct {
	header.Header `json:",inline" yaml:",inline"`

	Tenant    string   `json:"tenant" yaml:"tenant"`
	Type      string   `json:"type" yaml:"type"`
	Namespace string   `json:"namespace" yaml:"namespace"`
	Nodes     int      `json:"nodes" yaml:"nodes"`
	Shards    int      `json:"shards" yaml:"shards"`
	Resources []string `json:"resources" yaml:"resources"`
	Output    string   `json:"output" yaml:"output"`
	Files     int      `json:"files,omitempty" yaml:"files,omitempty"`
	Size      int64    `json:"size,omitempty" yaml:"size,omitempty"`
	Digest    string   `json:"digest,omitempty" yaml:"digest,omitempty"`
}

func newSummary(t tenant.Tenant, state cluster.State, shards int, c resource.Collection) *Summary {
	kinds := c.Kinds()
	res := make([]string, len(kinds))
	for i, k := range kinds {
		res[i] = string(k)
	}
	s := &Summary{
		Tenant:    t.Name,
		Type:      cases.Title(language.English).String(t.Type.String()),
		Namespace: tenant.Namespace(t),
		Nodes:     state.NodeCount,
		Shards:    shards,
		Resources: res,
	}
	s.Init(header.KindBundleSummary, header.APIVersion, version)
	return s
}

// render synthesizes the bundle for t and delivers it to --output.
func render(ctx context.Context, cmd *cli.Command, t tenant.Tenant) error {
	format, err := serializer.ParseFormat(cmd.String(flagFormat))
	if err != nil {
		return err
	}

	s, err := newSynthesizer(cmd)
	if err != nil {
		return err
	}

	state, err := clusterState(ctx, cmd)
	if err != nil {
		return err
	}

	c, err := s.Synthesize(targetHandle(cmd), state, t)
	if err != nil {
		return err
	}

	summary := newSummary(t, state, s.Shards(state.NodeCount), c)
	output := cmd.String(flagOutput)

	target, err := oci.ParseOutputTarget(output)
	if err != nil {
		return err
	}

	switch {
	case output == stdoutTarget || output == "":
		return writeManifest(cmd.Root().Writer, format, c)
	case target.IsOCI:
		if err := pushBundle(ctx, cmd, target.WithDefaultTag(defaultOCITag), t, c, summary); err != nil {
			return err
		}
	default:
		res, err := bundle.Write(ctx, target.LocalPath, c)
		if err != nil {
			return err
		}
		summary.Output = res.Dir
		summary.Files = len(res.Files)
		summary.Size = res.Size
	}

	slog.Info("bundle generated",
		"tenant", t.Name,
		"type", t.Type,
		"shards", summary.Shards,
		"output", summary.Output,
	)
	return serializer.NewWriter(format, cmd.Root().Writer).Serialize(ctx, summary)
}

// writeManifest prints the bundle. Table output falls back to YAML since
// manifests have no tabular form.
func writeManifest(w io.Writer, format serializer.Format, c resource.Collection) error {
	var (
		body []byte
		err  error
	)
	if format == serializer.FormatJSON {
		body, err = c.ManifestJSON()
	} else {
		body, err = c.Manifest()
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write manifest", err)
	}
	return nil
}

func pushBundle(ctx context.Context, cmd *cli.Command, ref *oci.Reference, t tenant.Tenant,
	c resource.Collection, summary *Summary) error {

	dir, err := os.MkdirTemp("", "opstrace-bundle-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create temporary directory", err)
	}
	defer os.RemoveAll(dir)

	res, err := bundle.Write(ctx, dir, c)
	if err != nil {
		return err
	}

	pushed, err := oci.Push(ctx, oci.PushOptions{
		SourceDir: dir,
		Reference: ref,
		Annotations: map[string]string{
			"io.opstrace.tenant.name": t.Name,
			"io.opstrace.tenant.type": t.Type.String(),
		},
		PlainHTTP:   cmd.Bool(flagPlainHTTP),
		InsecureTLS: cmd.Bool(flagInsecureTLS),
	})
	if err != nil {
		return err
	}

	summary.Output = oci.URIScheme + pushed.Reference
	summary.Files = len(res.Files)
	summary.Size = res.Size
	summary.Digest = pushed.Digest
	return nil
}
