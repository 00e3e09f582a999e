// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/researchmap-site/internal/document"
	"github.com/pdiddy/researchmap-site/internal/extract"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

// Output filenames inside a content directory.
const (
	FileProfile       = "profile.md"
	FileKeywords      = "research_keywords.md"
	FilePapers        = "papers.md"
	FileBooks         = "books.md"
	FilePresentations = "presentations.md"
	FileProjects      = "projects.md"
	FileAwards        = "awards.md"
)

const (
	fieldIndent     = "  "
	presenterIndent = " "
	doctoralThesis  = "doctoral_thesis"
	doiURL          = "https://doi.org/"
)

// Output is one rendered page. An empty Body means the page must not exist.
type Output struct {
	File string
	Body string
}

// Renderer renders every page of one output target.
type Renderer struct {
	style        Style
	ext          extract.Extractor
	author       types.AuthorConfig
	translations types.TranslationConfig
}

// New builds the renderer for variant v.
func New(cfg types.SiteConfig, v types.Variant) *Renderer {
	style := StyleFor(cfg.Output(v))
	return &Renderer{
		style:        style,
		ext:          extract.New(style.Language),
		author:       cfg.Author,
		translations: cfg.Translations,
	}
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style { return r.style }

type sectionPage struct {
	file    string
	section document.SectionType
	title   func(Labels) string
	empty   func(Labels) string
	build   func(r *Renderer, p *Page, records []document.Record)
}

var sectionPages = []sectionPage{
	{
		file: FileKeywords, section: document.SectionResearchAreas,
		title: func(l Labels) string { return l.Keywords },
		empty: func(l Labels) string { return l.NoKeywords },
		build: (*Renderer).keywords,
	},
	{
		file: FilePapers, section: document.SectionPublishedPapers,
		title: func(l Labels) string { return l.Papers },
		empty: func(l Labels) string { return l.NoPapers },
		build: (*Renderer).papers,
	},
	{
		file: FileBooks, section: document.SectionBooks,
		title: func(l Labels) string { return l.Books },
		empty: func(l Labels) string { return l.NoBooks },
		build: (*Renderer).books,
	},
	{
		file: FilePresentations, section: document.SectionPresentations,
		title: func(l Labels) string { return l.Presentations },
		empty: func(l Labels) string { return l.NoPresentations },
		build: (*Renderer).presentations,
	},
	{
		file: FileProjects, section: document.SectionCompetitiveFundings,
		title: func(l Labels) string { return l.Projects },
		empty: func(l Labels) string { return l.NoProjects },
		build: (*Renderer).projects,
	},
	{
		file: FileAwards, section: document.SectionAwards,
		title: func(l Labels) string { return l.Awards },
		empty: func(l Labels) string { return l.NoAwards },
		build: (*Renderer).awards,
	},
}

// All renders the profile page followed by one page per section type.
func (r *Renderer) All(doc *document.Document) ([]Output, error) {
	outputs := make([]Output, 0, len(sectionPages)+1)

	body, err := Markdown(r.profile(doc))
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, Output{File: FileProfile, Body: body})

	for _, sp := range sectionPages {
		page := r.section(sp, doc.Section(sp.section))
		if page == nil {
			outputs = append(outputs, Output{File: sp.file})
			continue
		}
		body, err := Markdown(page)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{File: sp.file, Body: body})
	}
	return outputs, nil
}

// section renders one section page. It returns nil when the section is
// empty and the target deletes empty pages.
func (r *Renderer) section(sp sectionPage, records []document.Record) *Page {
	p := r.newPage(sp.file, sp.title(r.style.Labels))
	if len(records) == 0 {
		if r.style.Empty == types.EmptyDelete {
			return nil
		}
		p.Line(sp.empty(r.style.Labels))
		return p
	}
	sp.build(r, p, extract.SortByFromDate(records))
	return p
}

func (r *Renderer) newPage(file, title string) *Page {
	p := &Page{File: file, Title: title, AutoContent: r.style.AutoContent}
	p.Heading(1, title)
	return p
}

func (r *Renderer) keywords(p *Page, records []document.Record) {
	for _, rec := range records {
		discipline := r.ext.Text(rec, "discipline", "research_interest")
		field := r.ext.Text(rec, "research_field")
		switch {
		case discipline != "" && field != "":
			p.Item(discipline, ": "+field)
		case discipline != "":
			p.PlainItem(discipline)
		case field != "":
			p.PlainItem(field)
		}
	}
	p.Break()
}

func (r *Renderer) papers(p *Page, records []document.Record) {
	l := r.style.Labels
	for _, rec := range records {
		var badges []Badge
		if r.ext.Bool(rec, "referee") {
			badges = append(badges, BadgePeerReviewed)
		}
		if r.ext.Text(rec, "published_paper_type") == doctoralThesis {
			badges = append(badges, BadgeThesis)
		}
		p.Item(orDefault(r.ext.Text(rec, "paper_title", "title"), l.UnknownPaper), "", badges...)
		p.Field(fieldIndent, "", strings.Join(r.ext.Names(rec, "authors"), ", "))
		p.Field(fieldIndent, l.Journal, r.ext.Text(rec, "publication_name", "publication", "journal_name"))
		p.Field(fieldIndent, l.Year, r.ext.YearOf(rec, "publication_date"))
		if doi := r.ext.Identifier(rec, "doi", "doi"); doi != "" {
			p.Field(fieldIndent, l.DOI, fmt.Sprintf("[%s](%s%s)", doi, doiURL, doi))
		}
		p.Break()
	}
}

func (r *Renderer) books(p *Page, records []document.Record) {
	l := r.style.Labels
	for _, rec := range records {
		p.Item(orDefault(r.ext.Text(rec, "book_title", "title"), l.UnknownBook), "")
		p.Field(fieldIndent, l.Authors, strings.Join(r.ext.Names(rec, "authors"), ", "))
		p.Field(fieldIndent, l.Publisher, r.ext.Text(rec, "publisher"))
		p.Field(fieldIndent, l.Year, r.ext.YearOf(rec, "publication_date"))
		p.Field(fieldIndent, l.ISBN, r.ext.Identifier(rec, "isbn", "isbn"))
		p.Break()
	}
}

func (r *Renderer) presentations(p *Page, records []document.Record) {
	l := r.style.Labels
	for _, rec := range records {
		var badges []Badge
		if r.ext.Bool(rec, "referee") {
			badges = append(badges, BadgePeerReviewed)
		}
		p.Item(orDefault(r.ext.Text(rec, "presentation_title", "title"), l.UnknownPresentation), "", badges...)
		p.Field(presenterIndent, "", strings.Join(r.ext.Names(rec, "presenters", "authors"), ", "))
		p.Field(fieldIndent, l.Conference, r.ext.Text(rec, "conference_name", "conference"))
		p.Field(fieldIndent, l.Meeting, r.ext.Text(rec, "meeting"))
		p.Field(fieldIndent, l.Event, r.ext.Text(rec, "event", "event_name"))
		year := r.ext.YearOf(rec, "presentation_date", "event_date")
		if year == "" {
			year = r.ext.Text(rec, "year")
		}
		p.Field(fieldIndent, l.Year, year)
		p.Break()
	}
}

func (r *Renderer) projects(p *Page, records []document.Record) {
	l := r.style.Labels
	for _, rec := range records {
		p.Item(orDefault(r.ext.Text(rec, "research_project_title", "title"), l.UnknownProject), "")
		p.Field(fieldIndent, l.FundingSystem, r.ext.Text(rec, "funding_system"))
		p.Field(fieldIndent, l.Period, r.ext.Range(rec))
		p.Field(fieldIndent, l.Role, r.ext.Text(rec, "role"))
		p.Field(fieldIndent, l.Description, r.ext.Text(rec, "description"))
		p.Break()
	}
}

func (r *Renderer) awards(p *Page, records []document.Record) {
	l := r.style.Labels
	for _, rec := range records {
		p.Item(orDefault(r.ext.Text(rec, "award_name", "name"), l.UnknownAward), "")
		p.Field(fieldIndent, l.Organization, r.ext.Text(rec, "award_organization", "organization"))
		p.Field(fieldIndent, l.Year, r.ext.YearOf(rec, "award_date", "date"))
		p.Field(fieldIndent, l.Summary, r.ext.Text(rec, "summary"))
		p.Break()
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
