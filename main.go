// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jsbundle/jsbundle/cmd/jsbundle"

func main() {
	cmd.Execute()
}
