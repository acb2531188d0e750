package wiki

import (
	"errors"
	"mountscraper/lib/textutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrAmbiguousTable = errors.New("more than one table matches")
)

// ownedBy keeps the elements of sel whose closest enclosing table is table,
// this stops the header cells and rows of nested tables from leaking into
// their parent.
func ownedBy(table *goquery.Selection, sel *goquery.Selection) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest("table").IsSelection(table)
	})
}

// HeaderText returns the text of every header cell of a table joined by spaces.
func HeaderText(table *goquery.Selection) string {
	var parts []string
	ownedBy(table, table.Find("th")).Each(func(_ int, th *goquery.Selection) {
		parts = append(parts, th.Text())
	})
	return strings.Join(parts, " ")
}

// FindTable returns the one table in doc whose header text contains every
// required column name.
func FindTable(doc *goquery.Selection, requiredColumns []string) (*goquery.Selection, error) {
	var matches []*goquery.Selection
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if textutil.ContainsAll(HeaderText(table), requiredColumns) {
			matches = append(matches, table)
		}
	})

	switch len(matches) {
	case 0:
		return nil, ErrTableNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrAmbiguousTable
	}
}

// DataRows returns the rows of a table in document order, without the leading
// header row.
func DataRows(table *goquery.Selection) []*goquery.Selection {
	rows := ownedBy(table, table.Find("tr"))
	if rows.Length() <= 1 {
		return nil
	}

	out := make([]*goquery.Selection, 0, rows.Length()-1)
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		out = append(out, row)
	})
	return out
}

// Cells returns the data cells of a row.
func Cells(row *goquery.Selection) *goquery.Selection {
	return row.ChildrenFiltered("td")
}
