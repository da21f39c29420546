package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// rootCmd runs the admin UI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "shop-admin",
	Short: "Storefront administration screens",
	Long: `shop-admin serves the login and catalog administration screens of the
storefront, backed by the remote catalog API configured in API_BASE_URL.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, productsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
