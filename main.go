// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/crosslinktech/crosslink-relay/cli"
)

func main() {
	cli.Execute()
}
