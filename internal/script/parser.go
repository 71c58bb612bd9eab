/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"gocanvaseditor/internal/tools"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Schema returns the JSON Schema edit scripts are validated against.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// Parse decodes a YAML or JSON edit script and validates it. Schema
// violations come back as *ValidationError. Unset tool settings keep their
// defaults.
func Parse(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("parse edit script: %w", err)
	}
	if err := validate(raw); err != nil {
		return Document{}, err
	}
	doc := Document{Version: CurrentVersion, Settings: tools.DefaultSettings()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode edit script: %w", err)
	}
	return doc, nil
}

// ParseFile reads and parses path; relative paths inside resolve against its directory.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.BaseDir = filepath.Dir(path)
	return doc, nil
}

func validate(raw any) error {
	if raw == nil {
		return &ValidationError{Problems: []Problem{{Message: "document is empty"}}}
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validate edit script: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var probs []Problem
	for _, e := range result.Errors() {
		// if/then failures repeat the underlying "required" errors
		if e.Type() == "condition_then" || e.Type() == "number_all_of" {
			continue
		}
		probs = append(probs, Problem{Field: e.Field(), Message: e.Description()})
	}
	sort.SliceStable(probs, func(i, j int) bool { return probs[i].Field < probs[j].Field })
	if len(probs) == 0 {
		probs = append(probs, Problem{Message: "document does not match schema"})
	}
	return &ValidationError{Problems: probs}
}

func (d Document) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) || d.BaseDir == "" {
		return p
	}
	return filepath.Join(d.BaseDir, p)
}
