// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the operation, resource and remediation hints for a
// failure; the issue catalog holds longer Markdown guidance per failure kind,
// rendered with glamour by the CLI.
package issue
