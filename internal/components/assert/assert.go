package assert

import "net/url"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// AbsoluteUrl panics if link is nil or does not carry a scheme and host.
func AbsoluteUrl(link *url.URL) {
	if link == nil || !link.IsAbs() || link.Host == "" {
		panic("expected an absolute url")
	}
}
