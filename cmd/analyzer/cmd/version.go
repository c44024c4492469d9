package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the analyzer CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "analyzer version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling SMA, EMA, volatility and VWAP for trade streams")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
