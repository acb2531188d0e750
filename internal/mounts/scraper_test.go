package mounts

import (
	"bytes"
	"context"
	"errors"
	"mountscraper/internal/components/chrono"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/scrapers/wiki"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages map[string]string
}

func (f fakePages) Page(_ context.Context, link string) (*goquery.Document, error) {
	page, ok := f.pages[link]
	if !ok {
		return nil, errors.New("503 Service Unavailable")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

const mountsHeader = `<tr>
	<th></th><th>Name</th><th colspan="2">Type</th><th>Acquired By</th>
	<th>Obtainable</th><th>Cash Shop</th><th>Market Board</th><th>Seats</th><th>Patch</th>
</tr>`

func mountsPage(rows ...string) string {
	return `<html><body>
		<table class="infobox"><tr><th>Navigation</th></tr></table>
		<table class="wikitable">` + mountsHeader + strings.Join(rows, "\n") + `</table>
	</body></html>`
}

var testClock = chrono.Fixed{Time: time.Date(2024, 7, 1, 13, 0, 0, 0, time.UTC)}

func newTestScraper(t testing.TB, page string, caps Capabilities) (Scraper, *telemetry.Recorder, *bytes.Buffer) {
	sourceUrl := baseUrl + "/wiki/Mounts"
	rec := &telemetry.Recorder{}
	pages := fakePages{pages: map[string]string{}}
	if page != "" {
		pages.pages[sourceUrl] = page
	}

	extractor := NewExtractor(ExtractorOptions{
		BaseUrl:      mustParseUrl(t, baseUrl),
		Capabilities: caps,
		Descriptions: &fakeDescriptions{},
	}, rec)

	progress := bytes.NewBuffer(nil)
	scraper := NewScraper(pages, extractor, testClock, rec, ScraperOptions{
		SourceUrl: sourceUrl,
		Version:   "1.1.1",
		Note:      DefaultNote,
		Progress:  progress,
	})
	return scraper, rec, progress
}

func TestScraperRun(t *testing.T) {
	page := mountsPage(
		magitekRow,
		row("", `<a href="/wiki/Company_Chocobo">Company Chocobo</a>`, `<img src="/images/thumb/c/c4/Chocobo_icon.png/40px-Chocobo_icon.png">`, "Chocobo", "Grand Company", "1", "0", "0", "1", "2.0"),
		row("too", "short"),
		row("", "", "", "", "", "", "", "", "", ""),
		row("", `<a href="/wiki/Fat_Chocobo">Fat Chocobo</a>`, `<img src="/images/thumb/c/c9/Other.png/40px-Other.png">`, "Chocobo", "Collector's Edition", "0", "1", "0", "2", "2.0"),
	)
	scraper, rec, progress := newTestScraper(t, page, Capabilities{FetchIcons: true})

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)

	doc := result.Document
	require.NoError(t, doc.Validate())
	require.Equal(t, "1.1.1", doc.Version)
	require.Equal(t, "2024-07-01", doc.LastUpdated)
	require.Equal(t, baseUrl+"/wiki/Mounts", doc.Source)
	require.Equal(t, DefaultNote, doc.Note)
	require.Equal(t, 3, doc.TotalMounts)
	require.Equal(t, "Magitek Armor", doc.Mounts[0].Name)
	require.Equal(t, "Company Chocobo", doc.Mounts[1].Name)
	require.Equal(t, "Fat Chocobo", doc.Mounts[2].Name)
	require.True(t, doc.Mounts[2].CashShop)
	require.Nil(t, doc.Mounts[0].Description)

	require.Equal(t, 5, result.Rows)
	require.Equal(t, 2, result.Skipped)
	require.Equal(t, int64(3), rec.Counts["mount_scraper: "+report_scraper_mounts])
	require.Equal(t, int64(2), rec.Counts["mount_scraper: "+report_scraper_skipped])

	require.Equal(t, 2, result.Icons.Len())
	chocobo, ok := result.Icons.Lookup("Chocobo")
	require.True(t, ok)
	require.Equal(t, "Chocobo_icon.png", chocobo.Filename)

	require.Equal(t, []string{
		"Processing 5 rows...",
		"Processing: Magitek Armor",
		"Processing: Company Chocobo",
		"Processing: Fat Chocobo",
	}, strings.Split(strings.TrimSpace(progress.String()), "\n"))
}

func TestScraperRunEmptyTable(t *testing.T) {
	scraper, _, _ := newTestScraper(t, mountsPage(), Capabilities{FetchIcons: true})

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, result.Document.TotalMounts)
	require.Empty(t, result.Document.Mounts)
	require.Equal(t, 0, result.Icons.Len())

	encoded, err := result.Document.Encode()
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"mounts": {}`)
}

func TestScraperRunWithDescriptions(t *testing.T) {
	scraper, _, _ := newTestScraper(t, mountsPage(magitekRow), Capabilities{FetchDescriptions: true})

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Document.TotalMounts)

	mount := result.Document.Mounts[0]
	require.NotNil(t, mount.Description)
	require.Equal(t, "", *mount.Description)
	require.Equal(t, baseUrl+"/wiki/Magitek_Armor", *mount.WikiUrl)
}

func TestScraperRunFatalErrors(t *testing.T) {
	scraper, _, _ := newTestScraper(t, "", Capabilities{})
	_, err := scraper.Run(context.Background())
	require.Error(t, err)

	noTable := `<html><body><table><tr><th>Name</th><th>Patch</th></tr></table></body></html>`
	scraper, rec, progress := newTestScraper(t, noTable, Capabilities{})
	_, err = scraper.Run(context.Background())
	require.ErrorIs(t, err, wiki.ErrTableNotFound)
	require.Len(t, rec.BrokenWithSuffix(report_scraper_run), 1)
	require.Empty(t, progress.String())

	twoTables := mountsPage(magitekRow) + mountsPage(magitekRow)
	scraper, _, _ = newTestScraper(t, twoTables, Capabilities{})
	_, err = scraper.Run(context.Background())
	require.ErrorIs(t, err, wiki.ErrAmbiguousTable)
}
