package cli

import (
	"github.com/spf13/cobra"

	"jrmart/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "jrmart",
	Short: "JR Mart storefront and catalog service",
	Long: "JR Mart serves the storefront pages (home, product form, product list) and, for development,\n" +
		"the REST catalog the storefront persists products in.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file (defaults to $CONFIG_FILE)")
	rootCmd.AddCommand(storefrontCmd, catalogCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
