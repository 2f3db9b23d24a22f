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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/pranay01/opstrace/pkg/errors"
)

// ChecksumFileName is the name of the checksum file in a bundle directory.
const ChecksumFileName = "checksums.txt"

// GenerateChecksums writes checksums.txt in dir with the SHA256 of each file,
// in the order given, relative to dir.
func GenerateChecksums(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal,
				fmt.Sprintf("failed to read %s for checksum", file), err)
		}

		sum := sha256.Sum256(data)
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", hex.EncodeToString(sum[:]), rel))
	}

	path := filepath.Join(dir, ChecksumFileName)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write checksums", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)
	return nil
}

// VerifyChecksums recomputes every entry of dir's checksums.txt and returns
// the relative paths whose content no longer matches.
func VerifyChecksums(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ChecksumFileName))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, "failed to read checksums", err)
	}

	var mismatched []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		want, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("malformed checksum line %q", line))
		}
		content, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			mismatched = append(mismatched, rel)
			continue
		}
		sum := sha256.Sum256(content)
		if hex.EncodeToString(sum[:]) != want {
			mismatched = append(mismatched, rel)
		}
	}
	return mismatched, nil
}
