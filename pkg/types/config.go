// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Permalink is the researchmap identity the site is built from. It is fixed
// at compile time; configuration files cannot override it.
const Permalink = "kenjikun"

// DefaultBaseURL is the researchmap API root.
const DefaultBaseURL = "https://api.researchmap.jp"

// Variant selects one of the two fetch-and-render pipelines.
type Variant string

const (
	// VariantAuthenticated fetches with a bearer token and writes the
	// hand-curated content set.
	VariantAuthenticated Variant = "authenticated"
	// VariantPublic fetches anonymously and writes the auto-generated
	// content set.
	VariantPublic Variant = "public"
)

// Language is the preferred language when resolving bilingual fields.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
)

// EmptyPolicy controls what happens to a page whose section has no records.
type EmptyPolicy string

const (
	// EmptyPlaceholder writes the page with a "no data" sentence.
	EmptyPlaceholder EmptyPolicy = "placeholder"
	// EmptyDelete writes nothing and removes a stale page from a previous run.
	EmptyDelete EmptyPolicy = "delete"
)

// TimestampFormat selects how last_updated is stamped.
type TimestampFormat string

const (
	// TimestampLocal is "YYYY-MM-DD HH:MM:SS" in local time.
	TimestampLocal TimestampFormat = "local"
	// TimestampUTC is "YYYY-MM-DD HH:MM (UTC)".
	TimestampUTC TimestampFormat = "utc"
)

// HTTPConfig holds shared HTTP settings for researchmap API calls.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// APIConfig holds settings for the researchmap API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root (token endpoint and researcher documents).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a single
	// attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig describes one output target (content directory plus the
// rendering policy applied to it).
type OutputConfig struct {
	// ContentDir receives the generated Markdown pages and metadata.yml.
	ContentDir string `json:"content_dir" yaml:"content_dir" mapstructure:"content_dir"`

	// Language is tried first when resolving bilingual fields.
	Language Language `json:"language" yaml:"language" mapstructure:"language"`

	// EmptySection decides between a placeholder page and deleting the page.
	EmptySection EmptyPolicy `json:"empty_section" yaml:"empty_section" mapstructure:"empty_section"`

	// AutoContent adds auto_content: true to every page's front matter.
	AutoContent bool `json:"auto_content" yaml:"auto_content" mapstructure:"auto_content"`

	// Timestamp selects the last_updated format.
	Timestamp TimestampFormat `json:"timestamp" yaml:"timestamp" mapstructure:"timestamp"`

	// MetadataSourceKey names the metadata.yml key that records the
	// identity ("permalink" or "source").
	MetadataSourceKey string `json:"metadata_source_key" yaml:"metadata_source_key" mapstructure:"metadata_source_key"`
}

// SocialLink is one icon link in the profile page.
type SocialLink struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	URL   string `json:"url" yaml:"url" mapstructure:"url"`
	Icon  string `json:"icon" yaml:"icon" mapstructure:"icon"`
}

// AuthorConfig is static author metadata that the API does not provide.
type AuthorConfig struct {
	Email string       `json:"email" yaml:"email" mapstructure:"email"`
	Links []SocialLink `json:"links" yaml:"links" mapstructure:"links"`
}

// TranslationConfig maps Japanese values to fixed English renderings for
// English-first targets.
type TranslationConfig struct {
	Degrees      map[string]string `json:"degrees" yaml:"degrees" mapstructure:"degrees"`
	Affiliations map[string]string `json:"affiliations" yaml:"affiliations" mapstructure:"affiliations"`
}

// PreviewConfig holds settings for the local preview server.
type PreviewConfig struct {
	// Root is the directory served over HTTP.
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// Port is the TCP port on localhost.
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Watch lists glob patterns, relative to Root, that trigger a reload.
	Watch []string `json:"watch" yaml:"watch" mapstructure:"watch"`

	// OpenBrowser opens a browser tab once the server is listening.
	OpenBrowser bool `json:"open_browser" yaml:"open_browser" mapstructure:"open_browser"`
}

// SnapshotConfig holds settings for the run ledger.
type SnapshotConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	File  string `json:"file" yaml:"file" mapstructure:"file"`
}

// SiteConfig groups every setting. It is built once at process start and
// passed down explicitly.
type SiteConfig struct {
	// Permalink is always the compile-time Permalink.
	Permalink string `json:"permalink" yaml:"permalink" mapstructure:"-"`

	// DataDir receives research_data.json.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	API           APIConfig         `json:"api" yaml:"api" mapstructure:"api"`
	Authenticated OutputConfig      `json:"authenticated" yaml:"authenticated" mapstructure:"authenticated"`
	Public        OutputConfig      `json:"public" yaml:"public" mapstructure:"public"`
	Author        AuthorConfig      `json:"author" yaml:"author" mapstructure:"author"`
	Translations  TranslationConfig `json:"translations" yaml:"translations" mapstructure:"translations"`
	Preview       PreviewConfig     `json:"preview" yaml:"preview" mapstructure:"preview"`
	Snapshot      SnapshotConfig    `json:"snapshot" yaml:"snapshot" mapstructure:"snapshot"`
	Log           LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}

// Output returns the output target for v.
func (c SiteConfig) Output(v Variant) OutputConfig {
	if v == VariantAuthenticated {
		return c.Authenticated
	}
	return c.Public
}

// DefaultSiteConfig returns the configuration the site was built with.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Permalink: Permalink,
		DataDir:   "_data",
		API: APIConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "researchmap-site/0.1",
			},
			BaseURL: DefaultBaseURL,
		},
		Authenticated: OutputConfig{
			ContentDir:        "_contents",
			Language:          LanguageJapanese,
			EmptySection:      EmptyPlaceholder,
			Timestamp:         TimestampLocal,
			MetadataSourceKey: "source",
		},
		Public: OutputConfig{
			ContentDir:        "_auto_contents",
			Language:          LanguageEnglish,
			EmptySection:      EmptyDelete,
			AutoContent:       true,
			Timestamp:         TimestampUTC,
			MetadataSourceKey: "permalink",
		},
		Author: AuthorConfig{
			Email: "kenji.kubo [at] weblab.t.u-tokyo.ac.jp",
			Links: []SocialLink{
				{Title: "Twitter/X", URL: "https://x.com/richwomanbtc", Icon: "fab fa-twitter"},
				{Title: "YouTube", URL: "https://www.youtube.com/@richwomanbtc4675", Icon: "fab fa-youtube"},
				{Title: "GitHub", URL: "https://github.com/richwomanbtc", Icon: "fab fa-github"},
			},
		},
		Translations: TranslationConfig{
			Degrees: map[string]string{
				"博士(理学)":  "Ph.D. in Science",
				"博士（理学）": "Ph.D. in Science",
				"博士(工学)":  "Ph.D. in Engineering",
				"博士（工学）": "Ph.D. in Engineering",
				"修士(理学)":  "Master of Science",
				"修士（理学）": "Master of Science",
				"修士(工学)":  "Master of Engineering",
				"修士（工学）": "Master of Engineering",
				"学士(理学)":  "Bachelor of Science",
				"学士（理学）": "Bachelor of Science",
			},
			Affiliations: map[string]string{
				"株式会社松尾研究所": "Matsuo Institute Inc.",
				"株式会社メルカリ":  "Mercari Inc.",
				"大和証券株式会社":  "Daiwa Securities Co., Ltd.",
			},
		},
		Preview: PreviewConfig{
			Root: ".",
			Port: 8000,
			Watch: []string{
				"index.html",
				"assets/css/*.css",
				"assets/js/*.js",
				"_auto_contents/*.md",
				"_contents/*.md",
			},
			OpenBrowser: true,
		},
		Snapshot: SnapshotConfig{
			Path: "_data/snapshots.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
