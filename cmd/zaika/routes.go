package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaikahq/zaika/app/routes"
	"github.com/zaikahq/zaika/internal/server"
	"github.com/zaikahq/zaika/pkg/database"
	"github.com/zaikahq/zaika/pkg/router"
	"github.com/zaikahq/zaika/pkg/ws"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "route:list",
		Short: "List every registered HTTP route",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.Boot(); err != nil {
				return err
			}

			r := router.New()
			if err := routes.RegisterAPI(r, database.DB, ws.NewHub()); err != nil {
				return err
			}

			fmt.Printf("%-7s  %-45s  %s\n", "Method", "Path", "Name")
			for _, info := range r.Routes() {
				fmt.Printf("%-7s  %-45s  %s\n", info.Method, info.Path, info.Name)
			}
			return nil
		},
	})
}
