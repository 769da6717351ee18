// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos leave ReadDirectoryChangesW unusable.
var fatalErrnos = []syscall.Errno{
	syscall.Errno(4), // ERROR_TOO_MANY_OPEN_FILES
	syscall.Errno(6), // ERROR_INVALID_HANDLE, e.g. project root removed
	syscall.Errno(8), // ERROR_NOT_ENOUGH_MEMORY
}

// benignErrno is ERROR_ACCESS_DENIED.
const benignErrno = syscall.Errno(5)
