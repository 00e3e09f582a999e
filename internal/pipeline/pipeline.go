// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the fetch, persist, and render steps for one output
// target. A run either completes or stops at the first failing step; every
// step before persistence is side-effect free, so a failed fetch leaves the
// data and content directories untouched.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/pdiddy/researchmap-site/internal/auth"
	"github.com/pdiddy/researchmap-site/internal/document"
	"github.com/pdiddy/researchmap-site/internal/logging"
	"github.com/pdiddy/researchmap-site/internal/render"
	"github.com/pdiddy/researchmap-site/internal/snapshot"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

// Source is the remote side of a run. *researchmap.Client implements it.
type Source interface {
	ExchangeToken(ctx context.Context, assertion string) (*oauth2.Token, error)
	FetchResearcher(ctx context.Context, permalink string, tok *oauth2.Token) ([]byte, error)
}

// Options configures Run and Render.
type Options struct {
	Config  types.SiteConfig
	Variant types.Variant

	// Source is required by Run.
	Source Source
	// Credentials locates the API key and secret for authenticated runs.
	Credentials auth.Sources

	// Now defaults to time.Now.
	Now func() time.Time
	// Out receives per-file progress lines. Nil discards them.
	Out    io.Writer
	Logger *zap.Logger
}

func (o *Options) defaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	o.Logger = logging.OrNop(o.Logger)
	if o.Config.Permalink == "" {
		o.Config.Permalink = types.Permalink
	}
}

// Result summarizes a finished run.
type Result struct {
	Variant     types.Variant
	DataPath    string
	ContentDir  string
	LastUpdated string
	Shape       document.Shape
	Counts      map[string]int
	Pages       WriteResult
	// RunID is set when the snapshot ledger recorded the run.
	RunID string
}

// DataPath is where research_data.json lives for cfg.
func DataPath(cfg types.SiteConfig) string {
	return filepath.Join(cfg.DataDir, document.DataFile)
}

// Run fetches the researcher document for opts.Variant, persists it with a
// last_updated stamp, writes metadata.yml, and renders the content pages.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	if opts.Source == nil {
		return nil, fmt.Errorf("pipeline: no source configured")
	}
	log := opts.Logger.With(zap.String("variant", string(opts.Variant)))

	raw, err := fetch(ctx, opts, log)
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing researcher document: %w", err)
	}

	out := opts.Config.Output(opts.Variant)
	stamp := document.Stamp(opts.Now(), out.Timestamp)
	dataPath := DataPath(opts.Config)
	if err := document.Save(dataPath, raw, stamp); err != nil {
		return nil, fmt.Errorf("saving researcher document: %w", err)
	}
	fmt.Fprintf(opts.Out, "saved: %s\n", dataPath)
	log.Info("persisted researcher document", zap.String("path", dataPath), zap.String("last_updated", stamp))

	meta := metadataFor(out, opts.Config.Permalink, stamp)
	metaPath := filepath.Join(out.ContentDir, document.MetadataFile)
	if err := document.WriteMetadata(metaPath, meta); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	res, err := renderAndWrite(opts, doc, log)
	if err != nil {
		return nil, err
	}
	res.DataPath = dataPath
	res.LastUpdated = stamp

	if opts.Config.Snapshot.Enabled {
		id, err := recordSnapshot(ctx, opts, res)
		if err != nil {
			return nil, err
		}
		res.RunID = id
		log.Info("recorded snapshot", zap.String("run_id", id))
	}
	return res, nil
}

// Render re-renders the content pages for opts.Variant from the persisted
// research_data.json. No network access is needed.
func Render(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger.With(zap.String("variant", string(opts.Variant)))

	dataPath := DataPath(opts.Config)
	raw, err := document.Load(dataPath)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", dataPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := renderAndWrite(opts, doc, log)
	if err != nil {
		return nil, err
	}
	res.DataPath = dataPath
	return res, nil
}

func fetch(ctx context.Context, opts Options, log *zap.Logger) ([]byte, error) {
	var tok *oauth2.Token
	if opts.Variant == types.VariantAuthenticated {
		creds, err := auth.LoadCredentials(opts.Credentials, log)
		if err != nil {
			return nil, err
		}
		assertion, err := auth.BuildAssertion(creds, opts.Now())
		if err != nil {
			return nil, err
		}
		log.Debug("exchanging assertion for token")
		tok, err = opts.Source.ExchangeToken(ctx, assertion)
		if err != nil {
			return nil, fmt.Errorf("obtaining access token: %w", err)
		}
	}

	raw, err := opts.Source.FetchResearcher(ctx, opts.Config.Permalink, tok)
	if err != nil {
		return nil, fmt.Errorf("fetching researcher %s: %w", opts.Config.Permalink, err)
	}
	return raw, nil
}

func renderAndWrite(opts Options, doc *document.Document, log *zap.Logger) (*Result, error) {
	out := opts.Config.Output(opts.Variant)
	pages, err := render.New(opts.Config, opts.Variant).All(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering pages: %w", err)
	}

	written, err := WritePages(out.ContentDir, pages, opts.Out)
	if err != nil {
		return nil, err
	}
	log.Info("rendered content",
		zap.String("dir", out.ContentDir),
		zap.Stringer("shape", doc.Shape),
		zap.Int("wrote", len(written.Wrote)),
		zap.Int("unchanged", len(written.Unchanged)),
		zap.Int("removed", len(written.Removed)))

	return &Result{
		Variant:    opts.Variant,
		ContentDir: out.ContentDir,
		Shape:      doc.Shape,
		Counts:     doc.Counts(),
		Pages:      written,
	}, nil
}

// metadataFor builds the metadata.yml sidecar. The "source" key holds the
// profile host and slug; any other key holds the bare slug.
func metadataFor(out types.OutputConfig, permalink, stamp string) document.Metadata {
	m := document.Metadata{LastUpdated: stamp, SourceKey: out.MetadataSourceKey, Source: permalink}
	if out.MetadataSourceKey == "source" {
		m.Source = "researchmap.jp/" + permalink
	}
	return m
}

func recordSnapshot(ctx context.Context, opts Options, res *Result) (string, error) {
	stamped, err := document.Load(res.DataPath)
	if err != nil {
		return "", err
	}
	store, err := snapshot.Open(opts.Config.Snapshot.Path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.Record(ctx, snapshot.Run{
		Variant:     opts.Variant,
		Permalink:   opts.Config.Permalink,
		RecordedAt:  opts.Now(),
		LastUpdated: res.LastUpdated,
		Counts:      res.Counts,
	}, stamped)
}
