// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the test on error instead of
// returning it.
//
// Environment and directory guards (MustSetenv, MustUnsetenv, MustChdir,
// SetHomeDir, SetConfigHome) return a restore function. Project builders
// (WriteFiles, NewProject) lay out temporary jsbundle projects.
package testutil
