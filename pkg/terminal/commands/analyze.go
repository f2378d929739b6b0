package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/config"
	"github.com/de-tools/tag-atlas/pkg/services/report"
	"github.com/de-tools/tag-atlas/pkg/store/csvstore"
	"github.com/de-tools/tag-atlas/pkg/terminal/export"

	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	settingsPath string
	out          io.Writer
}

func NewAnalyzeCmd(out io.Writer) *cobra.Command {
	ac := &AnalyzeCmd{out: out}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the newest findings dataset",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.settingsPath, "settings", "", "Path to the optional settings file")

	return cmd
}

func (ac *AnalyzeCmd) run(_ *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(ac.settingsPath)
	if err != nil {
		return err
	}

	store := csvstore.NewStore(settings.OutputDir)
	path, err := store.Latest()
	if errors.Is(err, csvstore.ErrNoDataset) {
		// A missing dataset is a user message, not a failure.
		fmt.Fprintf(ac.out, "No CSV files found in %s/ directory\n", settings.OutputDir)
		fmt.Fprintln(ac.out, "Run `scan` first to produce a findings dataset")
		return nil
	}
	if err != nil {
		return err
	}

	findings, err := store.Read(path)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Fprintln(ac.out, "No data found in CSV")
		return nil
	}

	return export.NewReporter(ac.out).Handle(export.Analysis{
		Path:       path,
		Summary:    report.Summarize(findings),
		SampleKind: domain.KindEC2Instance,
		Sample:     report.SampleByKind(findings, domain.KindEC2Instance, settings.SampleSize),
	})
}
