// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns normalized researcher documents into the Markdown
// pages consumed by the static site. Pages are assembled as ordered blocks
// and formatted in a single pass, so each block kind can be tested alone.
package render

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

const pageLayout = "page"

// BlockKind identifies how a Block is formatted.
type BlockKind int

const (
	// KindHeading is "#"-style heading followed by a blank line.
	KindHeading BlockKind = iota
	// KindItem is a list bullet, optionally bold, with suffix and badges.
	KindItem
	// KindField is an indented "Label: value" continuation line.
	KindField
	// KindLine is a single line of text.
	KindLine
	// KindRaw is emitted verbatim.
	KindRaw
	// KindBreak is an empty line.
	KindBreak
)

// Badge is an inline image shown after an item's title.
type Badge struct {
	Alt string
	URL string
}

var (
	BadgePeerReviewed = Badge{Alt: "Peer Reviewed", URL: "https://img.shields.io/badge/Peer-Reviewed-blue"}
	BadgeThesis       = Badge{Alt: "Thesis", URL: "https://img.shields.io/badge/Doctoral-Thesis-purple"}
)

// Block is one unit of page content.
type Block struct {
	Kind   BlockKind
	Level  int
	Text   string
	Bold   bool
	Suffix string
	Badges []Badge
	Indent string
	Label  string
}

// Markdown formats the block.
func (b Block) Markdown() string {
	switch b.Kind {
	case KindHeading:
		return strings.Repeat("#", max(b.Level, 1)) + " " + b.Text + "\n\n"
	case KindItem:
		var sb strings.Builder
		sb.WriteString("- ")
		if b.Bold {
			sb.WriteString("**" + b.Text + "**")
		} else {
			sb.WriteString(b.Text)
		}
		sb.WriteString(b.Suffix)
		for _, badge := range b.Badges {
			fmt.Fprintf(&sb, " ![%s](%s)", badge.Alt, badge.URL)
		}
		sb.WriteString("\n")
		return sb.String()
	case KindField:
		if b.Label == "" {
			return b.Indent + b.Text + "\n"
		}
		return b.Indent + b.Label + ": " + b.Text + "\n"
	case KindLine:
		return b.Text + "\n"
	case KindRaw:
		return b.Text
	case KindBreak:
		return "\n"
	}
	return ""
}

// Page is a Markdown document under construction.
type Page struct {
	// File is the output filename inside the content directory.
	File        string
	Title       string
	AutoContent bool
	Blocks      []Block
}

// Heading appends a heading of the given level.
func (p *Page) Heading(level int, text string) {
	p.Blocks = append(p.Blocks, Block{Kind: KindHeading, Level: level, Text: text})
}

// Item appends a bold bullet.
func (p *Page) Item(text, suffix string, badges ...Badge) {
	p.Blocks = append(p.Blocks, Block{Kind: KindItem, Text: text, Bold: true, Suffix: suffix, Badges: badges})
}

// PlainItem appends a bullet without emphasis.
func (p *Page) PlainItem(text string) {
	p.Blocks = append(p.Blocks, Block{Kind: KindItem, Text: text})
}

// Field appends an indented field line. Empty values are dropped.
func (p *Page) Field(indent, label, value string) {
	if value == "" {
		return
	}
	p.Blocks = append(p.Blocks, Block{Kind: KindField, Indent: indent, Label: label, Text: value})
}

// Line appends a line of text.
func (p *Page) Line(text string) {
	p.Blocks = append(p.Blocks, Block{Kind: KindLine, Text: text})
}

// Raw appends pre-formatted text.
func (p *Page) Raw(text string) {
	p.Blocks = append(p.Blocks, Block{Kind: KindRaw, Text: text})
}

// Break appends an empty line.
func (p *Page) Break() {
	p.Blocks = append(p.Blocks, Block{Kind: KindBreak})
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Layout      string `yaml:"layout"`
	AutoContent bool   `yaml:"auto_content,omitempty"`
}

// Markdown formats the page: YAML front matter, a blank line, then every
// block in order.
func Markdown(p *Page) (string, error) {
	fm, err := yaml.Marshal(frontMatter{Title: p.Title, Layout: pageLayout, AutoContent: p.AutoContent})
	if err != nil {
		return "", fmt.Errorf("marshaling front matter for %s: %w", p.File, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	for _, block := range p.Blocks {
		b.WriteString(block.Markdown())
	}
	return b.String(), nil
}
