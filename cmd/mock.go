package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maelgrv/spotflex/rte"
	"github.com/maelgrv/spotflex/rte/generator"
)

var (
	mockAddr string
	mockSeed int64
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local stand-in for the RTE wholesale market API",
	RunE:  runMock,
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8085", "listen address")
	mockCmd.Flags().Int64Var(&mockSeed, "seed", 0, "generator seed")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := rte.NewServerMock(rte.MockConfig{
		Address:   mockAddr,
		Generator: generator.Config{Seed: mockSeed},
	})
	return srv.Start(ctx)
}
