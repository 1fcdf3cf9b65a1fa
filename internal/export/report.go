/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"flowdraft/internal/flow"
)

//go:embed report.schema.json
var reportSchema []byte

// ErrInvalidReport is returned when a report does not match the schema.
var ErrInvalidReport = errors.New("invalid route report")

// WriteReport writes r as indented JSON.
func WriteReport(w io.Writer, r flow.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReportSchema returns the JSON schema reports are validated against.
func ReportSchema() []byte {
	return append([]byte(nil), reportSchema...)
}

// ValidateReport checks data against the embedded report schema. Schema
// violations are joined into one error wrapping ErrInvalidReport.
func ValidateReport(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(reportSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(msgs, "; "))
}
