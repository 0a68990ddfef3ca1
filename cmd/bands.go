package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maelgrv/spotflex/config"
)

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print the configured price band table",
	RunE:  runBands,
}

func init() {
	rootCmd.AddCommand(bandsCmd)
}

func runBands(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	table, err := cfg.Bands.Table()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, b := range table.Bands() {
		if b.Unbounded() {
			fmt.Fprintf(out, "%-12s unbounded\n", b.Label)
			continue
		}
		fmt.Fprintf(out, "%-12s < %g EUR/MWh\n", b.Label, b.Ceiling)
	}
	return nil
}
