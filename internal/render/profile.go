// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/researchmap-site/internal/document"
	"github.com/pdiddy/researchmap-site/internal/extract"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

// profile renders the profile page. It is always written: the author's
// contact block does not depend on the API.
func (r *Renderer) profile(doc *document.Document) *Page {
	l := r.style.Labels
	p := r.newPage(FileProfile, l.Profile)

	facts := r.basicFacts(doc)
	career := r.career(doc.Section(document.SectionResearchExperience))
	education := r.education(doc.Section(document.SectionEducation))

	if len(facts) == 0 && len(career) == 0 && len(education) == 0 && r.style.Empty == types.EmptyPlaceholder {
		p.Line(l.NoProfile)
		p.Break()
	}
	for _, f := range facts {
		p.Raw(fmt.Sprintf("**%s**: %s\n\n", f[0], f[1]))
	}

	email := r.author.Email
	if email == "" {
		email = r.ext.Text(doc.Basic, "email")
	}
	if email != "" {
		p.Raw(fmt.Sprintf("**%s**: %s\n\n", l.Email, email))
	}
	if links := r.socialLinks(); links != "" {
		p.Raw(links)
	}

	r.timeline(p, l.Career, career)
	r.timeline(p, l.Education, education)
	return p
}

// basicFacts lists label/value pairs for the degree and the basic profile
// fields, skipping empty values.
func (r *Renderer) basicFacts(doc *document.Document) [][2]string {
	l := r.style.Labels
	var facts [][2]string
	add := func(label, value string) {
		if value != "" {
			facts = append(facts, [2]string{label, value})
		}
	}

	add(l.Degree, r.degree(doc))
	add(l.Affiliation, r.ext.Localized(doc.Basic, r.translations.Affiliations, "affiliation_name", "affiliation"))
	add(l.Position, r.ext.Text(doc.Basic, "position"))
	if url := r.ext.Text(doc.Basic, "url"); url != "" {
		add(l.Website, fmt.Sprintf("[%s](%s)", url, url))
	}
	return facts
}

// degree prefers the basic profile's degree and falls back to the first
// record of the degrees section.
func (r *Renderer) degree(doc *document.Document) string {
	dict := r.translations.Degrees
	if d := r.ext.Localized(doc.Basic, dict, "degree"); d != "" {
		return d
	}
	if degrees := doc.Section(document.SectionDegrees); len(degrees) > 0 {
		return r.ext.Localized(degrees[0], dict, "degree")
	}
	return ""
}

func (r *Renderer) socialLinks() string {
	if len(r.author.Links) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<div class=\"social-links\">\n")
	for _, link := range r.author.Links {
		fmt.Fprintf(&b, "  <a href=\"%s\" target=\"_blank\" title=\"%s\"><i class=\"%s\"></i></a>\n", link.URL, link.Title, link.Icon)
	}
	b.WriteString("</div>\n\n")
	return b.String()
}

// entry is one rendered career or education line.
type entry struct {
	name   string
	suffix string
}

// career renders research_experience records as
// "affiliation section, job (period)".
func (r *Renderer) career(records []document.Record) []entry {
	var entries []entry
	for _, rec := range extract.SortByFromDate(records) {
		name := r.ext.Localized(rec, r.translations.Affiliations, "affiliation")
		if name == "" {
			continue
		}
		var suffix string
		if section := r.ext.Text(rec, "section"); section != "" {
			suffix += " " + section
		}
		if job := r.ext.Text(rec, "job"); job != "" {
			suffix += ", " + job
		}
		if period := r.ext.Range(rec); period != "" {
			suffix += " (" + period + ")"
		}
		entries = append(entries, entry{name: name, suffix: suffix})
	}
	return entries
}

// education renders education records as "school, department (period)".
func (r *Renderer) education(records []document.Record) []entry {
	var entries []entry
	for _, rec := range extract.SortByFromDate(records) {
		name := r.ext.Localized(rec, r.translations.Affiliations, "affiliation", "school")
		if name == "" {
			continue
		}
		var suffix string
		if dept := r.ext.Text(rec, "department"); dept != "" {
			suffix += ", " + dept
		}
		if period := r.ext.Range(rec); period != "" {
			suffix += " (" + period + ")"
		}
		entries = append(entries, entry{name: name, suffix: suffix})
	}
	return entries
}

func (r *Renderer) timeline(p *Page, heading string, entries []entry) {
	if len(entries) == 0 {
		return
	}
	p.Heading(2, heading)
	for _, e := range entries {
		p.Item(e.name, e.suffix)
	}
	p.Break()
}
