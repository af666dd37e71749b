package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Bookshelf serves a GraphQL API over authors and books",
		Long:          `Bookshelf keeps a catalogue of authors and books in memory and exposes it through a single GraphQL endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newVersionCmd())

	return root
}
