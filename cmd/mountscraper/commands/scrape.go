package commands

import (
	"context"
	"fmt"
	"io"
	"mountscraper/internal/components/chrono"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/mounts"
	"mountscraper/internal/scrapers/wiki"
	"mountscraper/lib/restyutil"
)

const report_scrape_download_icons = "scrape.download-icons"

// Summary is what a run of Scrape produced.
type Summary struct {
	Output string
	Result mounts.Result
	Stats  mounts.Stats
	// Downloads is nil if icons were not downloaded.
	Downloads *mounts.DownloadResult
	IconDir   string
}

// Scrape fetches the mount table, optionally downloads the type icons and
// writes the mount document to cfg.Output, progress may be nil. Nothing is written if the mount
// table could not be fetched or located.
func Scrape(ctx context.Context, cfg Config, tel telemetry.API, progress io.Writer) (Summary, error) {
	if progress == nil {
		progress = io.Discard
	}
	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return Summary{}, fmt.Errorf("load timezone: %w", err)
	}
	clientOpts := cfg.ClientOptions()
	if cfg.DumpDir != "" {
		dump, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return Summary{}, fmt.Errorf("create dump dir: %w", err)
		}
		clientOpts.Dump = dump
	}
	client, err := wiki.NewClient(clientOpts, tel)
	if err != nil {
		return Summary{}, fmt.Errorf("create wiki client: %w", err)
	}

	caps := cfg.Capabilities()
	extractor := mounts.NewExtractor(mounts.ExtractorOptions{
		BaseUrl:      client.BaseUrl(),
		Capabilities: caps,
		Descriptions: client,
	}, tel)
	scraper := mounts.NewScraper(client, extractor, clock, tel, mounts.ScraperOptions{
		SourceUrl: cfg.SourceUrl,
		Version:   cfg.Version,
		Note:      cfg.Note,
		Progress:  progress,
	})

	fmt.Fprintf(progress, "Fetching mount data from %s...\n", cfg.SourceUrl)
	result, err := scraper.Run(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Output:  cfg.Output,
		Result:  result,
		Stats:   mounts.Summarize(result.Document.Mounts, result.Icons),
		IconDir: cfg.IconDir,
	}

	if cfg.DownloadIcons && caps.FetchIcons {
		fmt.Fprintf(progress, "Downloading %d type icons to %s...\n", result.Icons.Len(), cfg.IconDir)
		downloader := mounts.NewDownloader(client, cfg.IconDir, progress, tel)
		downloads, err := downloader.Download(ctx, result.Icons)
		if err != nil {
			tel.ReportWarning(report_scrape_download_icons, err, cfg.IconDir)
		}
		summary.Downloads = &downloads
	}

	err = mounts.WriteDocument(cfg.Output, result.Document)
	if err != nil {
		return Summary{}, fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	fmt.Fprintf(progress, "Saved %d mounts to %s\n", result.Document.TotalMounts, cfg.Output)

	return summary, nil
}
