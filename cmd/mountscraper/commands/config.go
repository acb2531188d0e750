package commands

import (
	"mountscraper/internal/mounts"
	"mountscraper/internal/scrapers/wiki"
	"mountscraper/lib/configutil"
	"time"
)

const defaultConfigPath = "mountscraper.json5"

type Config struct {
	SourceUrl string `json:"source_url"`
	BaseUrl   string `json:"base_url"`
	Output    string `json:"output"`
	IconDir   string `json:"icon_dir"`
	UserAgent string `json:"user_agent"`
	Version   string `json:"version"`
	Note      string `json:"note"`
	// Timezone decides the date written to last_updated, "Local" is the
	// system timezone.
	Timezone string `json:"timezone"`
	// DumpDir receives a copy of every response from the wiki when set.
	DumpDir string `json:"dump_dir"`

	DownloadIcons        bool `json:"download_icons"`
	SkipIcons            bool `json:"skip_icons"`
	SkipDescriptions     bool `json:"skip_descriptions"`
	SkipCloudflareBypass bool `json:"skip_cloudflare_bypass"`
	Verbose              bool `json:"verbose"`

	// RequestDelayMs is the pause between two requests, a negative value
	// disables it.
	RequestDelayMs       int `json:"request_delay_ms"`
	PageTimeoutSeconds   int `json:"page_timeout_seconds"`
	DetailTimeoutSeconds int `json:"detail_timeout_seconds"`
	IconTimeoutSeconds   int `json:"icon_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		SourceUrl:            "https://ffxiv.consolegameswiki.com/wiki/Mounts",
		BaseUrl:              "https://ffxiv.consolegameswiki.com",
		Output:               "mount_sources_complete.json",
		IconDir:              "type_icons",
		UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		Version:              "1.1.1",
		Note:                 mounts.DefaultNote,
		Timezone:             "Local",
		RequestDelayMs:       200,
		PageTimeoutSeconds:   30,
		DetailTimeoutSeconds: 15,
		IconTimeoutSeconds:   10,
	}
}

// LoadConfig reads the config at path, a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return configutil.ReadConfigWithDefaults(path, DefaultConfig())
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c Config) ClientOptions() wiki.ClientOptions {
	delay := time.Duration(c.RequestDelayMs) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	return wiki.ClientOptions{
		BaseUrl:          c.BaseUrl,
		UserAgent:        c.UserAgent,
		RequestDelay:     delay,
		PageTimeout:      seconds(c.PageTimeoutSeconds),
		DetailTimeout:    seconds(c.DetailTimeoutSeconds),
		IconTimeout:      seconds(c.IconTimeoutSeconds),
		BypassCloudflare: !c.SkipCloudflareBypass,
	}
}

func (c Config) Capabilities() mounts.Capabilities {
	return mounts.Capabilities{
		FetchIcons:        !c.SkipIcons,
		FetchDescriptions: !c.SkipDescriptions,
	}
}
