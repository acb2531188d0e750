package commands

import (
	"context"
	"fmt"
	"mountscraper/internal/components/telemetry"
	libtelemetry "mountscraper/lib/telemetry"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var (
	outputFlag           string
	downloadIconsFlag    bool
	skipIconsFlag        bool
	skipDescriptionsFlag bool
	verboseFlag          bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "The config file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print debug logs.")

	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "The file to write the mount document to.")
	rootCmd.Flags().BoolVar(&downloadIconsFlag, "download-icons", false, "Download the icon of every mount type.")
	rootCmd.Flags().BoolVar(&skipIconsFlag, "skip-icons", false, "Do not collect type icons.")
	rootCmd.Flags().BoolVar(&skipDescriptionsFlag, "skip-descriptions", false, "Do not fetch the detail page of every mount.")
}

// readConfig loads the config and applies the flags given on the command line.
func readConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = outputFlag
	}
	if flags.Changed("download-icons") {
		cfg.DownloadIcons = downloadIconsFlag
	}
	if flags.Changed("skip-icons") {
		cfg.SkipIcons = skipIconsFlag
	}
	if flags.Changed("skip-descriptions") {
		cfg.SkipDescriptions = skipDescriptionsFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}

	libtelemetry.InitSlog(cfg.Verbose)
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "mountscraper [--config <path>] [-o <output.json>]",
	Short: "mountscraper builds a json database of FFXIV mounts from the consolegameswiki mount table.",
	Args:  cobra.NoArgs,
	// errors are printed once by ExecuteContext
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}

		summary, err := Scrape(cmd.Context(), cfg, telemetry.SlogAPI{}, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}
		PrintSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

// ExecuteContext runs the command line, the returned error has already been
// printed to stderr.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
