package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/tag-atlas/pkg/terminal/commands"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "tag-atlas",
		Short: "Audit AWS resources for missing required tags",
	}
	rootCmd.AddCommand(commands.NewScanCmd(os.Stdout))
	rootCmd.AddCommand(commands.NewAnalyzeCmd(os.Stdout))

	ctx := logger.WithContext(context.Background())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
