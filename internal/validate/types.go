// SPDX-License-Identifier: MIT

package validate

// LogLevels lists the accepted log level names, most verbose first.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}
