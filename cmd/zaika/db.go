package main

import (
	"github.com/spf13/cobra"

	"github.com/zaikahq/zaika/database/seeders"
	"github.com/zaikahq/zaika/internal/server"
	"github.com/zaikahq/zaika/pkg/database"
	"github.com/zaikahq/zaika/pkg/migration"

	_ "github.com/zaikahq/zaika/database/migrations"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Run all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}
				return migration.New(database.DB).Run()
			},
		},
		&cobra.Command{
			Use:   "migrate:rollback",
			Short: "Roll back the last migration batch",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}
				return migration.New(database.DB).Rollback()
			},
		},
		&cobra.Command{
			Use:   "migrate:status",
			Short: "Show the status of every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}
				return migration.New(database.DB).Status()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Seed demo users, restaurants, categories and products",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}
				if err := migration.New(database.DB).Run(); err != nil {
					return err
				}
				return seeders.Run(database.DB)
			},
		},
	)
}
