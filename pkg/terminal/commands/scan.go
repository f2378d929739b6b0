package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/aws"
	"github.com/de-tools/tag-atlas/pkg/services/config"
	"github.com/de-tools/tag-atlas/pkg/store/csvstore"

	"github.com/spf13/cobra"
)

type ScanCmd struct {
	profile      string
	settingsPath string
	tagsFile     string
	out          io.Writer
}

func NewScanCmd(out io.Writer) *cobra.Command {
	sc := &ScanCmd{out: out}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan every region for resources missing required tags",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profile, "profile", "", "AWS shared config profile to use")
	cmd.Flags().StringVar(&sc.settingsPath, "settings", "", "Path to the optional settings file")
	cmd.Flags().StringVar(&sc.tagsFile, "tags-file", "", "Path to the required tags list, one tag per line")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := config.LoadSettings(sc.settingsPath)
	if err != nil {
		return err
	}
	required := config.LoadRequiredTags(settings, sc.tagsFile)
	fmt.Fprintf(sc.out, "Checking for resources missing required tags: %s\n", strings.Join(required, ", "))

	cfg, err := aws.LoadConfig(ctx, sc.profile)
	if err != nil {
		return err
	}

	account, err := aws.AccountID(ctx, *cfg)
	if err != nil {
		return err
	}

	fleet := audit.NewFleet(audit.FleetConfig{
		Regions: aws.NewRegionExplorer(*cfg),
		NewRegion: func(region string) audit.RegionScanner {
			return aws.NewRegionController(*cfg, region)
		},
		GlobalScanners: aws.NewGlobalScanners(*cfg),
		MaxWorkers:     settings.MaxWorkers,
	})

	findings, err := fleet.Scan(ctx, account, required)
	if err != nil {
		return err
	}

	if len(findings) == 0 {
		fmt.Fprintln(sc.out, "No resources with missing required tags found")
		return nil
	}

	path, err := csvstore.NewStore(settings.OutputDir).Write(findings, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(sc.out, "Exported %d resources with missing tags to %s\n", len(findings), path)
	return nil
}
