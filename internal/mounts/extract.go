package mounts

import (
	"context"
	"fmt"
	"mountscraper/internal/components/assert"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/scrapers/wiki"
	"mountscraper/lib/textutil"
	"mountscraper/pkg/htmlutil"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_extract      = "extractor.extract"
	report_extractor_capture_icon = "extractor.capture-icon"
	report_extractor_describe     = "extractor.describe"
)

type ExtractorOptions struct {
	// BaseUrl is what relative links and image sources are resolved against.
	BaseUrl      *url.URL
	Capabilities Capabilities
	// Layout defaults to DefaultLayout if left as the zero value.
	Layout Layout
	// Descriptions is required if Capabilities.FetchDescriptions is set.
	Descriptions DescriptionSource
}

// Extractor turns rows of the mount table into Mounts.
type Extractor struct {
	baseUrl      *url.URL
	caps         Capabilities
	layout       Layout
	descriptions DescriptionSource
	tel          telemetry.API
}

func NewExtractor(opts ExtractorOptions, tel telemetry.API) Extractor {
	assert.NotNil(tel)
	assert.AbsoluteUrl(opts.BaseUrl)
	if opts.Capabilities.FetchDescriptions {
		assert.NotNil(opts.Descriptions)
	}

	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout
	}

	return Extractor{
		baseUrl:      opts.BaseUrl,
		caps:         opts.Capabilities,
		layout:       layout,
		descriptions: opts.Descriptions,
		tel:          telemetry.NewScopedAPI("mount_extractor", tel),
	}
}

// Extract reads one row given its cells. ok is false if the row should be
// skipped, a row that panics midway is skipped as well.
//
// icons receives the type icon of the row when icons are fetched, cache is
// consulted and filled when descriptions are fetched.
func (e Extractor) Extract(
	ctx context.Context,
	cells *goquery.Selection,
	icons *IconRegistry,
	cache DescriptionCache,
) (mount Mount, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.tel.ReportBroken(
				report_extractor_extract,
				fmt.Errorf("recovered: %v", r),
			)
			mount = Mount{}
			ok = false
		}
	}()

	if cells.Length() < e.layout.MinCells {
		e.tel.ReportDebug("skipped short row", cells.Length())
		return Mount{}, false
	}

	name, detailUrl := e.readName(cells.Eq(e.layout.Name))
	if name == "" {
		e.tel.ReportWarning(
			report_extractor_extract,
			fmt.Errorf("row has no name"),
		)
		return Mount{}, false
	}

	mount = Mount{
		Name:        name,
		Type:        textutil.Clean(cells.Eq(e.layout.Type).Text()),
		AcquiredBy:  textutil.Clean(cells.Eq(e.layout.AcquiredBy).Text()),
		Patch:       textutil.Clean(cells.Eq(e.layout.Patch).Text()),
		Seats:       ParseSeats(cells.Eq(e.layout.Seats).Text()),
		Obtainable:  DeriveFlag(ReadFlagSignals(cells.Eq(e.layout.Obtainable)), markerObtainable),
		CashShop:    DeriveFlag(ReadFlagSignals(cells.Eq(e.layout.CashShop)), markerCashShop),
		MarketBoard: DeriveFlag(ReadFlagSignals(cells.Eq(e.layout.MarketBoard)), markerMarketBoard),
	}

	if e.caps.FetchIcons && icons != nil {
		e.captureIcon(cells.Eq(e.layout.TypeIcon), mount.Type, icons)
	}

	if e.caps.FetchDescriptions {
		description, err := cache.Lookup(ctx, e.descriptions, detailUrl)
		if err != nil {
			e.tel.ReportWarning(
				report_extractor_describe,
				fmt.Errorf("fetch description: %w", err),
				name,
				detailUrl,
			)
		}
		mount.Description = &description
		mount.WikiUrl = &detailUrl
	}

	return mount, true
}

// readName returns the name of a mount and the absolute url of its detail
// page, the url is empty if the name cell has no link.
func (e Extractor) readName(cell *goquery.Selection) (string, string) {
	link := cell.Find("a").First()
	if link.Length() == 0 {
		return textutil.Clean(cell.Text()), ""
	}
	if href, exists := link.Attr("href"); !exists || href == "" {
		return textutil.Clean(link.Text()), ""
	}

	anchors := htmlutil.GetAnchors(e.baseUrl, link)
	if len(anchors) == 0 {
		e.tel.ReportWarning(
			report_extractor_extract,
			fmt.Errorf("unparsable detail page link"),
			link.AttrOr("href", ""),
		)
		return textutil.Clean(link.Text()), ""
	}
	return textutil.Clean(anchors[0].Name), anchors[0].Url.String()
}

func (e Extractor) captureIcon(cell *goquery.Selection, mountType string, icons *IconRegistry) {
	if mountType == "" || icons.Has(mountType) {
		return
	}
	src, exists := cell.Find("img").First().Attr("src")
	if !exists || src == "" {
		return
	}

	fullSrc := wiki.FullSizeImageUrl(src)
	resolved, err := e.baseUrl.Parse(fullSrc)
	if err != nil {
		e.tel.ReportWarning(
			report_extractor_capture_icon,
			fmt.Errorf("resolve icon url: %w", err),
			src,
		)
		return
	}
	filename := wiki.ImageFilename(resolved.String())
	if filename == "" || filename == "/" || filename == "." {
		e.tel.ReportWarning(
			report_extractor_capture_icon,
			fmt.Errorf("icon url has no filename"),
			src,
		)
		return
	}

	if icons.Register(mountType, resolved.String(), filename) {
		e.tel.ReportDebug("registered type icon", mountType, filename)
	}
}
