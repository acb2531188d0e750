package mounts

import (
	"context"
	"fmt"
	"io"
	"mountscraper/internal/components/assert"
	"mountscraper/internal/components/chrono"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/scrapers/wiki"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_scraper_run     = "scraper.run"
	report_scraper_mounts  = "scraper.mounts"
	report_scraper_skipped = "scraper.skipped"
)

var tracer = otel.Tracer("mountscraper.internal.mounts")

// PageSource fetches and parses an html page.
type PageSource interface {
	Page(ctx context.Context, link string) (*goquery.Document, error)
}

type ScraperOptions struct {
	// SourceUrl is the page holding the mount table.
	SourceUrl string
	Version   string
	Note      string
	// Progress receives a line per processed mount, it may be nil.
	Progress io.Writer
}

// Scraper runs a full pass over the mount table.
type Scraper struct {
	pages     PageSource
	extractor Extractor
	clock     chrono.API
	opts      ScraperOptions
	tel       telemetry.API
}

func NewScraper(
	pages PageSource,
	extractor Extractor,
	clock chrono.API,
	tel telemetry.API,
	opts ScraperOptions,
) Scraper {
	assert.NotNil(pages)
	assert.NotNil(clock)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.SourceUrl)

	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	return Scraper{
		pages:     pages,
		extractor: extractor,
		clock:     clock,
		opts:      opts,
		tel:       telemetry.NewScopedAPI("mount_scraper", tel),
	}
}

// Result is the outcome of a successful run.
type Result struct {
	Document Document
	Icons    *IconRegistry
	// Rows is the amount of data rows in the table, Skipped is how many of them
	// did not produce a mount.
	Rows    int
	Skipped int
}

// Run fetches the source page and extracts every row of the mount table. an
// error means the page could not be fetched or the table could not be found,
// problems with single rows only ever show up in Result.Skipped.
func (s Scraper) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "run")
	defer span.End()
	span.SetAttributes(attribute.String("source", s.opts.SourceUrl))

	doc, err := s.pages.Page(ctx, s.opts.SourceUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch source page")
		return Result{}, fmt.Errorf("fetch %s: %w", s.opts.SourceUrl, err)
	}

	table, err := wiki.FindTable(doc.Selection, RequiredColumns)
	if err != nil {
		s.tel.ReportBroken(report_scraper_run, err, s.opts.SourceUrl)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to locate mount table")
		return Result{}, fmt.Errorf("locate mount table: %w", err)
	}

	rows := wiki.DataRows(table)
	fmt.Fprintf(s.opts.Progress, "Processing %d rows...\n", len(rows))

	icons := NewIconRegistry()
	cache := DescriptionCache{}
	var mounts []Mount
	for _, row := range rows {
		mount, ok := s.extractor.Extract(ctx, wiki.Cells(row), icons, cache)
		if !ok {
			continue
		}
		fmt.Fprintf(s.opts.Progress, "Processing: %s\n", mount.Name)
		mounts = append(mounts, mount)
	}

	skipped := len(rows) - len(mounts)
	s.tel.ReportCount(report_scraper_mounts, int64(len(mounts)))
	s.tel.ReportCount(report_scraper_skipped, int64(skipped))
	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Int("mounts", len(mounts)),
		attribute.Int("icons", icons.Len()),
	)

	document := NewDocument(Metadata{
		Version:     s.opts.Version,
		LastUpdated: chrono.Today(s.clock),
		Source:      s.opts.SourceUrl,
		Note:        s.opts.Note,
	}, mounts)

	return Result{
		Document: document,
		Icons:    icons,
		Rows:     len(rows),
		Skipped:  skipped,
	}, nil
}
