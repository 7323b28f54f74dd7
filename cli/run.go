// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package cli

import (
	"github.com/spf13/cobra"

	"github.com/crosslinktech/crosslink-relay/app"
)

var runCMD = &cobra.Command{
	Use:   "run",
	Short: "Run the relay daemon",
	Long:  "Loads configuration, wires bridge adapters, controllers and wrappers, and serves the transfer API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run()
	},
}
