package main

import (
	"github.com/spf13/cobra"

	"github.com/zaikahq/zaika/internal/server"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run()
		},
	})
}
