// Copyright 2025 The pgasync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import (
	"log/slog"

	"github.com/pgasync/pgasync/go/pgerrors"
)

// warnInvalidDiagnostic logs a lenient-validation warning for a diagnostic
// with missing required fields.
func warnInvalidDiagnostic(msgType byte, diag *pgerrors.PgDiagnostic, err error) {
	slog.Warn("parsed PostgreSQL diagnostic with missing required fields",
		"error", err,
		// Convert single byte to string directly (msgType is 'E' or 'N')
		"message_type", string([]byte{msgType}),
		"severity", diag.Severity,
		"code", diag.Code,
	)
}
