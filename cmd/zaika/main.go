// Command zaika is the application entrypoint: HTTP/gRPC server, database
// migrations, seeders, queue workers and the scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zaika",
	Short: "Zaika food ordering backend",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
