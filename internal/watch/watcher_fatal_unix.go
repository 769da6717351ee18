// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos are inotify resource exhaustion errors, after which no further
// document or source changes would be seen:
//   - ENOSPC: fs.inotify.max_user_watches reached
//   - EMFILE: per-process descriptor limit reached
//   - ENFILE: system-wide descriptor limit reached
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}

// benignErrno is returned when a single directory cannot be watched.
const benignErrno = syscall.EACCES
