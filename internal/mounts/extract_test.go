package mounts

import (
	"context"
	"errors"
	"fmt"
	"mountscraper/internal/components/telemetry"
	"mountscraper/internal/scrapers/wiki"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const baseUrl = "https://ffxiv.consolegameswiki.com"

func mustParseUrl(t testing.TB, link string) *url.URL {
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

// rowCells parses a single <tr> and returns its cells.
func rowCells(t testing.TB, row string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + row + "</table>"))
	if err != nil {
		t.Fatal(err)
	}
	tr := doc.Find("tr").First()
	if tr.Length() == 0 {
		t.Fatal("no row in", row)
	}
	return wiki.Cells(tr)
}

func row(cells ...string) string {
	var out strings.Builder
	out.WriteString("<tr>")
	for _, c := range cells {
		out.WriteString("<td>")
		out.WriteString(c)
		out.WriteString("</td>")
	}
	out.WriteString("</tr>")
	return out.String()
}

type fakeDescriptions struct {
	pages map[string]string
	calls map[string]int
	panic bool
}

func (f *fakeDescriptions) Description(_ context.Context, link string) (string, error) {
	if f.panic {
		panic("unexpected markup")
	}
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[link]++
	description, ok := f.pages[link]
	if !ok {
		return "", errors.New("404 Not Found")
	}
	return description, nil
}

func newExtractor(t testing.TB, caps Capabilities, descriptions DescriptionSource) (Extractor, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	return NewExtractor(ExtractorOptions{
		BaseUrl:      mustParseUrl(t, baseUrl),
		Capabilities: caps,
		Descriptions: descriptions,
	}, rec), rec
}

var magitekRow = row(
	"",
	`<a href="/wiki/Magitek_Armor">Magitek Armor</a>`,
	`<img src="/images/thumb/a/a1/Mech_icon.png/40px-Mech_icon.png">`,
	"Mechanical",
	"Main Scenario Quest",
	"1", "0", "0", "4", "5.0",
)

func TestExtractExampleRow(t *testing.T) {
	extractor, rec := newExtractor(t, Capabilities{FetchIcons: true}, nil)
	icons := NewIconRegistry()

	mount, ok := extractor.Extract(context.Background(), rowCells(t, magitekRow), icons, DescriptionCache{})
	require.True(t, ok)

	expected := Mount{
		Name:        "Magitek Armor",
		Type:        "Mechanical",
		AcquiredBy:  "Main Scenario Quest",
		Patch:       "5.0",
		Seats:       4,
		Obtainable:  true,
		CashShop:    false,
		MarketBoard: false,
	}
	if diff := cmp.Diff(expected, mount); diff != "" {
		t.Fatalf("mount mismatch (-want +got):\n%s", diff)
	}

	entry, ok := icons.Lookup("Mechanical")
	require.True(t, ok)
	require.Equal(t, "Mech_icon.png", entry.Filename)
	require.Equal(t, baseUrl+"/images/a/a1/Mech_icon.png", entry.Url)
	require.Empty(t, rec.Broken)
}

func TestExtractSkipsShortRows(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{FetchIcons: true}, nil)

	for n := 0; n < DefaultLayout.MinCells; n++ {
		cells := make([]string, n)
		for i := range cells {
			cells[i] = fmt.Sprintf("cell %d", i)
		}

		var mount Mount
		var ok bool
		require.NotPanics(t, func() {
			mount, ok = extractor.Extract(context.Background(), rowCells(t, row(cells...)), NewIconRegistry(), DescriptionCache{})
		})
		require.False(t, ok, "row with %d cells", n)
		require.Equal(t, Mount{}, mount)
	}
}

func TestExtractHeaderRowIsSkipped(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{}, nil)
	header := rowCells(t, `<tr><th>Name</th><th>Acquired By</th><th>Seats</th></tr>`)

	_, ok := extractor.Extract(context.Background(), header, nil, nil)
	require.False(t, ok)
}

func TestExtractSeats(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{}, nil)

	cases := []struct {
		seats    string
		expected int
	}{
		{seats: "2", expected: 2},
		{seats: " 8 ", expected: 8},
		{seats: "???", expected: 1},
		{seats: "", expected: 1},
		{seats: "-3", expected: 1},
		{seats: "0", expected: 0},
		{seats: "2[1]", expected: 2},
	}

	for _, test := range cases {
		mount, ok := extractor.Extract(
			context.Background(),
			rowCells(t, row("", "Chocobo", "", "Chocobo", "Quest", "", "", "", test.seats, "2.0")),
			nil, nil,
		)
		require.True(t, ok)
		require.Equal(t, test.expected, mount.Seats, "seats: %q", test.seats)
	}
}

func TestExtractName(t *testing.T) {
	extractor, rec := newExtractor(t, Capabilities{}, nil)
	ctx := context.Background()

	mount, ok := extractor.Extract(ctx, rowCells(t, row("", " Company\n Chocobo[1] ", "", "", "", "", "", "", "1", "")), nil, nil)
	require.True(t, ok)
	require.Equal(t, "Company Chocobo", mount.Name)

	mount, ok = extractor.Extract(ctx, rowCells(t, row("", `<a href="/wiki/X">Linked</a> trailing`, "", "", "", "", "", "", "1", "")), nil, nil)
	require.True(t, ok)
	require.Equal(t, "Linked", mount.Name)

	for _, linked := range []string{
		"<a href=\"/wiki/Magitek_Armor\">Magitek\nArmor</a>",
		"<a href=\"/wiki/Magitek_Armor\">Magitek&nbsp;Armor</a>",
		"<a href=\"/wiki/Magitek_Armor\">Magitek\tArmor</a>",
	} {
		mount, ok = extractor.Extract(ctx, rowCells(t, row("", linked, "", "", "", "", "", "", "1", "")), nil, nil)
		require.True(t, ok)
		require.Equal(t, "Magitek Armor", mount.Name, linked)
	}

	_, ok = extractor.Extract(ctx, rowCells(t, row("", "  [1] ", "", "", "", "", "", "", "1", "")), nil, nil)
	require.False(t, ok)

	_, ok = extractor.Extract(ctx, rowCells(t, row("", `<a href="/wiki/X"></a>`, "", "", "", "", "", "", "1", "")), nil, nil)
	require.False(t, ok)

	require.Len(t, rec.Warnings, 2)
}

func TestExtractFlags(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{}, nil)

	cells := rowCells(t, `<tr>
		<td></td><td>Sea Dragon</td><td></td><td>Aquatic</td><td>Event</td>
		<td title="This mount is Currently Obtainable"></td>
		<td><img src="/images/yes.png" alt="Yes"></td>
		<td title="May be purchased on the Market Board">0</td>
		<td>1</td><td>6.0</td>
	</tr>`)

	mount, ok := extractor.Extract(context.Background(), cells, nil, nil)
	require.True(t, ok)
	require.True(t, mount.Obtainable)
	require.True(t, mount.CashShop)
	require.True(t, mount.MarketBoard)

	cells = rowCells(t, `<tr>
		<td></td><td>Sea Dragon</td><td></td><td>Aquatic</td><td>Event</td>
		<td title="no longer available">0</td>
		<td><img src="/images/no.png" alt="No"></td>
		<td title="online store">0</td>
		<td>1</td><td>6.0</td>
	</tr>`)

	mount, ok = extractor.Extract(context.Background(), cells, nil, nil)
	require.True(t, ok)
	require.False(t, mount.Obtainable)
	require.False(t, mount.CashShop)
	// markers are column specific
	require.False(t, mount.MarketBoard)
}

func TestDeriveFlagMonotonic(t *testing.T) {
	const marker = "market board"

	for mask := 0; mask < 8; mask++ {
		textSignal := mask&1 != 0
		titleSignal := mask&2 != 0
		altSignal := mask&4 != 0

		signals := FlagSignals{Text: "0", Title: "sold by vendors", ImageAlts: []string{"No"}}
		if textSignal {
			signals.Text = "1"
		}
		if titleSignal {
			signals.Title = "May be purchased on the MARKET BOARD"
		}
		if altSignal {
			signals.ImageAlts = append(signals.ImageAlts, "Checkmark")
		}

		expected := textSignal || titleSignal || altSignal
		require.Equal(t, expected, DeriveFlag(signals, marker), "mask %03b", mask)
	}
}

func TestDeriveFlagEmptyMarker(t *testing.T) {
	require.False(t, DeriveFlag(FlagSignals{Title: "anything"}, ""))
	require.True(t, DeriveFlag(FlagSignals{ImageAlts: []string{"TRUE"}}, ""))
}

func TestExtractIconFirstSeenWins(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{FetchIcons: true}, nil)
	icons := NewIconRegistry()
	ctx := context.Background()

	first := row("", "A", `<img src="/images/thumb/1/1a/First.png/20px-First.png">`, "Flying", "", "", "", "", "1", "")
	second := row("", "B", `<img src="/images/thumb/2/2b/Second.png/20px-Second.png">`, "Flying", "", "", "", "", "1", "")
	noType := row("", "C", `<img src="/images/Other.png">`, "", "", "", "", "", "1", "")
	noImage := row("", "D", ``, "Ground", "", "", "", "", "1", "")

	for _, r := range []string{first, second, noType, noImage} {
		_, ok := extractor.Extract(ctx, rowCells(t, r), icons, DescriptionCache{})
		require.True(t, ok)
	}

	require.Equal(t, 1, icons.Len())
	entry, ok := icons.Lookup("Flying")
	require.True(t, ok)
	require.Equal(t, baseUrl+"/images/1/1a/First.png", entry.Url)
	require.Equal(t, "First.png", entry.Filename)
}

func TestExtractIconsDisabled(t *testing.T) {
	extractor, _ := newExtractor(t, Capabilities{}, nil)
	icons := NewIconRegistry()

	_, ok := extractor.Extract(context.Background(), rowCells(t, magitekRow), icons, nil)
	require.True(t, ok)
	require.Equal(t, 0, icons.Len())
}

func TestExtractDescriptions(t *testing.T) {
	descriptions := &fakeDescriptions{pages: map[string]string{
		baseUrl + "/wiki/Magitek_Armor": "Mechanized armor.",
	}}
	extractor, rec := newExtractor(t, Capabilities{FetchDescriptions: true}, descriptions)
	cache := DescriptionCache{}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		mount, ok := extractor.Extract(ctx, rowCells(t, magitekRow), nil, cache)
		require.True(t, ok)
		require.NotNil(t, mount.Description)
		require.Equal(t, "Mechanized armor.", *mount.Description)
		require.Equal(t, baseUrl+"/wiki/Magitek_Armor", *mount.WikiUrl)
	}
	require.Equal(t, 1, descriptions.calls[baseUrl+"/wiki/Magitek_Armor"])

	missing := row("", `<a href="/wiki/Gone">Gone</a>`, "", "", "", "", "", "", "1", "")
	for i := 0; i < 2; i++ {
		mount, ok := extractor.Extract(ctx, rowCells(t, missing), nil, cache)
		require.True(t, ok)
		require.Equal(t, "", *mount.Description)
	}
	require.Equal(t, 1, descriptions.calls[baseUrl+"/wiki/Gone"])
	require.Len(t, rec.Warnings, 1)

	unlinked := row("", "Unlinked", "", "", "", "", "", "", "1", "")
	mount, ok := extractor.Extract(ctx, rowCells(t, unlinked), nil, cache)
	require.True(t, ok)
	require.Equal(t, "", *mount.Description)
	require.Equal(t, "", *mount.WikiUrl)
}

func TestExtractDescriptionsWithoutCache(t *testing.T) {
	link := baseUrl + "/wiki/Magitek_Armor"
	descriptions := &fakeDescriptions{pages: map[string]string{link: "Mechanized armor."}}
	extractor, rec := newExtractor(t, Capabilities{FetchDescriptions: true}, descriptions)

	for i := 0; i < 2; i++ {
		mount, ok := extractor.Extract(context.Background(), rowCells(t, magitekRow), nil, nil)
		require.True(t, ok)
		require.Equal(t, "Mechanized armor.", *mount.Description)
	}
	require.Equal(t, 2, descriptions.calls[link])
	require.Empty(t, rec.Broken)
}

func TestExtractRecoversFromPanics(t *testing.T) {
	extractor, rec := newExtractor(t, Capabilities{FetchDescriptions: true}, &fakeDescriptions{panic: true})

	var ok bool
	require.NotPanics(t, func() {
		_, ok = extractor.Extract(context.Background(), rowCells(t, magitekRow), nil, DescriptionCache{})
	})
	require.False(t, ok)
	require.Len(t, rec.BrokenWithSuffix(report_extractor_extract), 1)
}

func TestNewExtractorAssertions(t *testing.T) {
	require.Panics(t, func() {
		NewExtractor(ExtractorOptions{BaseUrl: mustParseUrl(t, "/relative")}, &telemetry.Recorder{})
	})
	require.Panics(t, func() {
		NewExtractor(ExtractorOptions{
			BaseUrl:      mustParseUrl(t, baseUrl),
			Capabilities: Capabilities{FetchDescriptions: true},
		}, &telemetry.Recorder{})
	})
}
