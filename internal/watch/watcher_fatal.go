// SPDX-License-Identifier: MPL-2.0

package watch

import "errors"

// isFatalFsnotifyError reports errors after which the watcher cannot recover.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
