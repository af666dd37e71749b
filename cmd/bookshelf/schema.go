package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/graph"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema definition",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), graph.SDL())
		},
	}
}
