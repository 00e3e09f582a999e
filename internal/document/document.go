// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document normalizes researchmap researcher documents and persists
// them. Two shapes arrive from the API: a flat object keyed by section name
// and a graph object whose @graph array holds typed sections. Parse folds
// both into one Document of ordered Records.
package document

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// SectionType names a section of the researcher document.
type SectionType string

const (
	SectionResearchExperience  SectionType = "research_experience"
	SectionEducation           SectionType = "education"
	SectionResearchAreas       SectionType = "research_areas"
	SectionPublishedPapers     SectionType = "published_papers"
	SectionBooks               SectionType = "books"
	SectionPresentations       SectionType = "presentations"
	SectionCompetitiveFundings SectionType = "competitive_fundings"
	SectionAwards              SectionType = "awards"
	SectionDegrees             SectionType = "degrees"
)

// legacySections maps flat-shape keys to their graph-shape section names.
var legacySections = map[string]SectionType{
	"research_interests": SectionResearchAreas,
	"books_etc":          SectionBooks,
	"research_projects":  SectionCompetitiveFundings,
}

const (
	graphKey = "@graph"
	typeKey  = "@type"
	itemsKey = "items"
	basicKey = "basic"
)

// Shape identifies which of the two API layouts a document arrived in.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeGraph
)

func (s Shape) String() string {
	if s == ShapeGraph {
		return "graph"
	}
	return "flat"
}

// Record is one entry of a section. Values are kept as raw JSON results so
// callers can tell bilingual objects, scalars, and lists apart.
type Record struct {
	keys   []string
	values map[string]gjson.Result
}

// NewRecord builds a Record from a JSON object. Anything else yields an
// empty Record.
func NewRecord(v gjson.Result) Record {
	r := Record{values: make(map[string]gjson.Result)}
	if !v.IsObject() {
		return r
	}
	v.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, dup := r.values[k]; !dup {
			r.keys = append(r.keys, k)
		}
		r.values[k] = value
		return true
	})
	return r
}

// ParseRecord builds a Record from a JSON object literal. It is mostly
// useful in tests.
func ParseRecord(js string) Record {
	return NewRecord(gjson.Parse(js))
}

// Get returns the value stored under key.
func (r Record) Get(key string) (gjson.Result, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns field names in document order.
func (r Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Document is a researcher document normalized into sections.
type Document struct {
	Shape Shape

	// Basic holds the flat-shape "basic" profile object, if any.
	Basic Record

	sections map[SectionType][]Record
	order    []SectionType
}

// Section returns the records of t in source order. A missing section
// returns nil.
func (d *Document) Section(t SectionType) []Record {
	return d.sections[t]
}

// SectionTypes returns the section types present, in source order.
func (d *Document) SectionTypes() []SectionType {
	return d.order
}

// Counts returns the number of records per section.
func (d *Document) Counts() map[string]int {
	counts := make(map[string]int, len(d.order))
	for _, t := range d.order {
		counts[string(t)] = len(d.sections[t])
	}
	return counts
}

func (d *Document) add(t SectionType, records []Record) {
	if _, ok := d.sections[t]; ok {
		return
	}
	d.sections[t] = records
	d.order = append(d.order, t)
}

// Parse validates raw JSON and normalizes it. Only a JSON object is
// accepted at the root; anything else is an error.
func Parse(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("researcher document is not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("researcher document root is %s, want object", root.Type)
	}

	d := &Document{
		Basic:    NewRecord(lookup(root, basicKey)),
		sections: make(map[SectionType][]Record),
	}

	if graph := lookup(root, graphKey); graph.IsArray() {
		d.Shape = ShapeGraph
		parseGraph(d, graph)
		return d, nil
	}

	d.Shape = ShapeFlat
	parseFlat(d, root)
	return d, nil
}

func parseGraph(d *Document, graph gjson.Result) {
	graph.ForEach(func(_, section gjson.Result) bool {
		if !section.IsObject() {
			return true
		}
		t := lookup(section, typeKey).String()
		items := lookup(section, itemsKey)
		if t == "" || !items.IsArray() {
			return true
		}
		d.add(SectionType(t), records(items))
		return true
	})
}

func parseFlat(d *Document, root gjson.Result) {
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		t := SectionType(key.String())
		if canonical, ok := legacySections[key.String()]; ok {
			t = canonical
		}
		d.add(t, records(value))
		return true
	})
}

func records(items gjson.Result) []Record {
	var out []Record
	items.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			out = append(out, NewRecord(item))
		}
		return true
	})
	return out
}

// lookup finds a direct child by exact key. It avoids gjson path syntax,
// where keys such as "@graph" would be read as modifiers.
func lookup(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			return false
		}
		return true
	})
	return found
}
