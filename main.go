// SPDX-License-Identifier: MPL-2.0

// dpzip zips Minecraft datapacks and their companion resource packs.
package main

import "github.com/dpzip/dpzip/cmd/dpzip"

func main() {
	cmd.Execute()
}
