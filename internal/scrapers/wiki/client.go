// client.go contains the HTTP side of scraping the wiki, everything that parses
// page contents lives in the other files of this package.

package wiki

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mountscraper/internal/components/assert"
	"mountscraper/internal/components/telemetry"
	"mountscraper/lib/restyutil"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_page        = "client.page"
	report_client_description = "client.description"
	report_client_icon        = "client.icon"
)

var tracer = otel.Tracer("mountscraper.internal.scrapers.wiki")

// ErrUnexpectedStatus is returned when the wiki responds with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	// BaseUrl is the origin every relative link is resolved against.
	BaseUrl   string
	UserAgent string
	// RequestDelay is the minimum time between two requests, 0 disables pacing.
	RequestDelay  time.Duration
	PageTimeout   time.Duration
	DetailTimeout time.Duration
	IconTimeout   time.Duration
	// BypassCloudflare wraps the transport so requests look like they come
	// from a regular browser.
	BypassCloudflare bool
	// Dump receives a plain text copy of every response when set.
	Dump restyutil.Output
}

type Client struct {
	http    *resty.Client
	baseUrl *url.URL
	opts    ClientOptions
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)

	tel = telemetry.NewScopedAPI("wiki_client", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Client{}, err
	}
	if !baseUrl.IsAbs() {
		return Client{}, fmt.Errorf("base url must be absolute: '%s'", opts.BaseUrl)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	httpClient := resty.New()
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRetryCount(0)
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	// max burst of 1 means every request after the first waits out the full delay
	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}
	rateLimiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.DumpResponses(httpClient, opts.Dump)

	return Client{
		http:    httpClient,
		baseUrl: baseUrl,
		opts:    opts,
		tel:     tel,
	}, nil
}

// BaseUrl returns a copy of the url relative links are resolved against.
func (c Client) BaseUrl() *url.URL {
	copied := *c.baseUrl
	return &copied
}

func (c Client) get(ctx context.Context, link string, timeout time.Duration) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "get")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	if !res.IsSuccess() {
		err = fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	span.SetAttributes(attribute.Int("content_length", len(res.Body())))
	return res.Body(), nil
}

// Page fetches and parses an html page.
func (c Client) Page(ctx context.Context, link string) (*goquery.Document, error) {
	c.tel.ReportDebug("fetch page", link)

	body, err := c.get(ctx, link, c.opts.PageTimeout)
	if err != nil {
		c.tel.ReportBroken(
			report_client_page,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		c.tel.ReportBroken(
			report_client_page,
			fmt.Errorf("parse: %w", err),
			link,
		)
		return nil, err
	}
	return doc, nil
}

// Description fetches the detail page of an item and returns its in-game
// description, an empty string means the page has none.
func (c Client) Description(ctx context.Context, link string) (string, error) {
	body, err := c.get(ctx, link, c.opts.DetailTimeout)
	if err != nil {
		c.tel.ReportWarning(
			report_client_description,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		c.tel.ReportWarning(
			report_client_description,
			fmt.Errorf("parse: %w", err),
			link,
		)
		return "", err
	}
	return ParseDescription(doc.Selection), nil
}

// Icon downloads the raw bytes of an image.
func (c Client) Icon(ctx context.Context, link string) ([]byte, error) {
	body, err := c.get(ctx, link, c.opts.IconTimeout)
	if err != nil {
		c.tel.ReportWarning(
			report_client_icon,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return nil, err
	}
	return body, nil
}
