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

// Package serializer reads and writes structured values as JSON, YAML or a
// flattened table, and writes JSON HTTP responses.
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "-")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	err = w.Serialize(ctx, summary)
//
// Settings files are loaded with [FromFile], which rejects unknown keys.
package serializer
