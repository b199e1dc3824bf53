// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/tutorun/tutorun/cmd/tutorun"

func main() {
	cmd.Execute()
}
