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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// EnvKubeconfig names the environment variable holding the kubeconfig path.
const EnvKubeconfig = "KUBECONFIG"

var (
	clientOnce   sync.Once
	cachedClient kubernetes.Interface
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns the process-wide client, built on first call from
// the discovered kubeconfig or the in-cluster service account.
func GetKubeClient() (kubernetes.Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	return cachedClient, cachedConfig, clientErr
}

// ForKubeconfig returns the shared client when kubeconfig is empty and a new
// client for that file otherwise.
func ForKubeconfig(kubeconfig string) (kubernetes.Interface, error) {
	if kubeconfig == "" {
		cs, _, err := GetKubeClient()
		return cs, err
	}
	cs, _, err := BuildKubeClient(kubeconfig)
	return cs, err
}

// BuildKubeClient creates a client, bypassing the shared cache.
// An empty kubeconfig is resolved by resolveKubeconfig.
func BuildKubeClient(kubeconfig string) (kubernetes.Interface, *rest.Config, error) {
	kubeconfig = resolveKubeconfig(kubeconfig)

	var (
		config *rest.Config
		err    error
	)
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to get in-cluster config", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("failed to build kube config from %s", kubeconfig), err)
		}
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create kubernetes client", err)
	}
	return cs, config, nil
}

// resolveKubeconfig picks the explicit path, then $KUBECONFIG, then
// ~/.kube/config if it exists. Empty means in-cluster.
func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv(EnvKubeconfig); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}
