package commands

// Root command for the chart CLI
// Running the binary with no arguments renders and shows the holders chart
// Every config key is also accepted as an optional --section.key flag

import (
	"iacs-holders/internal/infra/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iacs-holders",
	Short: "Render the $IACS unique holders chart",
	Long: `iacs-holders reads the cleaned $IACS metrics CSV and draws cumulative unique
holders against date as a single line chart, then shows it on screen.`,
	Version:       "1.0.0",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChart,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}
