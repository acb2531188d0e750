package mounts

import (
	"mountscraper/lib/textutil"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var affirmativeAltRegex = regexp.MustCompile(`(?i)yes|check|true`)

// FlagSignals are the three independent hints a yes/no cell can carry, the
// wiki is not consistent about which one it uses.
type FlagSignals struct {
	// Text is the cleaned text of the cell.
	Text string
	// Title is the raw title (tooltip) attribute of the cell.
	Title string
	// ImageAlts are the alt texts of the images inside the cell.
	ImageAlts []string
}

// ReadFlagSignals collects the FlagSignals of a table cell.
func ReadFlagSignals(cell *goquery.Selection) FlagSignals {
	signals := FlagSignals{
		Text:  textutil.Clean(cell.Text()),
		Title: cell.AttrOr("title", ""),
	}
	cell.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt, ok := img.Attr("alt")
		if ok {
			signals.ImageAlts = append(signals.ImageAlts, alt)
		}
	})
	return signals
}

// DeriveFlag is true if any signal says yes: the text is "1", the lowercased
// title contains marker, or an image alt mentions yes/check/true.
func DeriveFlag(signals FlagSignals, marker string) bool {
	if signals.Text == "1" {
		return true
	}
	if marker != "" && strings.Contains(strings.ToLower(signals.Title), strings.ToLower(marker)) {
		return true
	}
	for _, alt := range signals.ImageAlts {
		if affirmativeAltRegex.MatchString(alt) {
			return true
		}
	}
	return false
}

// ParseSeats parses a seat count, anything that is not a non-negative integer
// becomes DefaultSeats.
func ParseSeats(text string) int {
	seats, err := strconv.Atoi(textutil.Clean(text))
	if err != nil || seats < 0 {
		return DefaultSeats
	}
	return seats
}
