package mounts

import (
	"context"
	"fmt"
	"io"
	"mountscraper/internal/components/assert"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/scrapers/wiki"
	"os"
	"path/filepath"
)

const (
	report_downloader_download = "downloader.download"
)

// IconSource fetches the raw bytes of an image.
type IconSource interface {
	Icon(ctx context.Context, link string) ([]byte, error)
}

// Downloader saves the icons of an IconRegistry into a flat directory.
type Downloader struct {
	source   IconSource
	dir      string
	progress io.Writer
	tel      telemetry.API
}

// NewDownloader creates a Downloader writing into dir, progress may be nil.
func NewDownloader(source IconSource, dir string, progress io.Writer, tel telemetry.API) Downloader {
	assert.NotNil(source)
	assert.NotNil(tel)
	assert.NotEmptyStr(dir)

	if progress == nil {
		progress = io.Discard
	}
	return Downloader{
		source:   source,
		dir:      dir,
		progress: progress,
		tel:      telemetry.NewScopedAPI("icon_downloader", tel),
	}
}

type DownloadResult struct {
	Downloaded int
	Failed     int
}

// Download fetches every icon in the registry, an icon that fails is reported
// and skipped. the error is only set if the target directory cannot be created.
func (d Downloader) Download(ctx context.Context, icons *IconRegistry) (DownloadResult, error) {
	var result DownloadResult
	if icons == nil || icons.Len() == 0 {
		return result, nil
	}

	err := os.MkdirAll(d.dir, 0755)
	if err != nil {
		d.tel.ReportBroken(report_downloader_download, fmt.Errorf("create icon dir: %w", err), d.dir)
		return result, err
	}

	for _, entry := range icons.Entries() {
		fmt.Fprintf(d.progress, "  %s: %s\n", entry.Type, entry.Filename)

		err := d.downloadOne(ctx, entry)
		if err != nil {
			fmt.Fprintf(d.progress, "  failed to download %s: %s\n", entry.Filename, err)
			d.tel.ReportWarning(
				report_downloader_download,
				err,
				entry.Type,
				entry.Url,
			)
			result.Failed++
			continue
		}
		result.Downloaded++
	}

	return result, nil
}

func (d Downloader) downloadOne(ctx context.Context, entry IconEntry) error {
	filename := filepath.Base(entry.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		return fmt.Errorf("invalid icon filename '%s'", entry.Filename)
	}

	contents, err := d.source.Icon(ctx, wiki.FullSizeImageUrl(entry.Url))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	err = os.WriteFile(filepath.Join(d.dir, filename), contents, 0644)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
