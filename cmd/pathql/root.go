// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the pathql CLI. The root
// command itself runs a query (spec §6: "a command taking [file] <path>"),
// with serve and version as subcommands.
func NewRootCmd() *cobra.Command {
	qcfg := &queryConfig{}

	cmd := &cobra.Command{
		Use:   "pathql [file] <path>",
		Short: "Query JSON-like values with the pathql path language",
		Long: `pathql evaluates a GJSON-style path expression against a JSON document,
reading the document from a file argument, or from stdin when the file
argument is "-" or omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, qcfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().BoolVarP(&qcfg.lines, "lines", "l", false, "treat input as JSON-Lines, evaluating the path against each line")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
