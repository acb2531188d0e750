package mounts

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/purell"
)

// DescriptionSource fetches the in-game description from a mount's detail page.
type DescriptionSource interface {
	Description(ctx context.Context, link string) (string, error)
}

// DescriptionCache holds the description of every detail page fetched during a
// run, keyed by normalized url. Failed fetches are cached as "" so that a
// broken page is only requested once.
type DescriptionCache map[string]string

func (c DescriptionCache) key(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	return purell.NormalizeURL(
		parsed,
		purell.FlagsSafe|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
}

// Lookup returns the description of link, fetching it from source on a cache
// miss. The returned error is the fetch error, the description is "" then.
// A nil cache fetches every time.
func (c DescriptionCache) Lookup(ctx context.Context, source DescriptionSource, link string) (string, error) {
	if link == "" {
		return "", nil
	}
	key := c.key(link)
	if description, cached := c[key]; cached {
		return description, nil
	}

	description, err := source.Description(ctx, link)
	if err != nil {
		description = ""
	}
	if c != nil {
		c[key] = description
	}
	return description, err
}
