// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls display values out of researcher document records.
// Every lookup follows the same rule: try each alias in priority order,
// resolve bilingual objects by the active language, and skip values that
// come out empty. A field with no usable alias is omitted, never rendered
// blank.
package extract

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/researchmap-site/internal/document"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

const (
	// OngoingDate is the API's to_date for "no end date".
	OngoingDate = "9999"
	// Present replaces OngoingDate in rendered ranges.
	Present = "Present"

	identifiersKey = "identifiers"
	nameKey        = "name"
)

// Date aliases, current key first. Flat documents from the authenticated
// API still use start_date and end_date.
var (
	fromDateAliases = []string{"from_date", "start_date"}
	toDateAliases   = []string{"to_date", "end_date"}
)

// Extractor resolves record fields for one language preference.
type Extractor struct {
	Lang types.Language
}

// New returns an Extractor preferring lang. Anything other than Japanese
// is treated as English-first.
func New(lang types.Language) Extractor {
	if lang != types.LanguageJapanese {
		lang = types.LanguageEnglish
	}
	return Extractor{Lang: lang}
}

// Text returns the first non-empty value among aliases.
func (e Extractor) Text(rec document.Record, aliases ...string) string {
	for _, alias := range aliases {
		v, ok := rec.Get(alias)
		if !ok {
			continue
		}
		if s := e.Resolve(v); s != "" {
			return s
		}
	}
	return ""
}

// Localized is Text with a translation table applied first: on an
// English-first extractor, a Japanese value found in dict wins over the
// record's own English value.
func (e Extractor) Localized(rec document.Record, dict map[string]string, aliases ...string) string {
	if e.Lang == types.LanguageEnglish && len(dict) > 0 {
		for _, alias := range aliases {
			v, ok := rec.Get(alias)
			if !ok {
				continue
			}
			ja := scalar(v)
			if v.IsObject() {
				ja = scalar(v.Get(string(types.LanguageJapanese)))
			}
			if translated := e.Translate(ja, dict); ja != "" && translated != ja {
				return translated
			}
		}
	}
	return e.Text(rec, aliases...)
}

// Translate returns dict[value] on an English-first extractor, else value.
func (e Extractor) Translate(value string, dict map[string]string) string {
	if e.Lang != types.LanguageEnglish {
		return value
	}
	if translated, ok := dict[value]; ok {
		return translated
	}
	return value
}

// Bool reports whether key holds a truthy value.
func (e Extractor) Bool(rec document.Record, key string) bool {
	v, ok := rec.Get(key)
	return ok && v.Bool()
}

// Names returns display names from the first alias that yields any. The
// value may be a language-keyed object of {name} lists, a flat list of
// {name} objects and plain strings, or a single string. A language-keyed
// object yields only the preferred language's list, falling back to the
// other, so bilingual author lists are not printed twice.
func (e Extractor) Names(rec document.Record, aliases ...string) []string {
	for _, alias := range aliases {
		v, ok := rec.Get(alias)
		if !ok {
			continue
		}
		if names := e.names(v); len(names) > 0 {
			return names
		}
	}
	return nil
}

func (e Extractor) names(v gjson.Result) []string {
	switch {
	case v.IsArray():
		return e.list(v)
	case v.IsObject():
		for _, lang := range e.keyOrder(v) {
			if l := v.Get(lang); l.IsArray() {
				if names := e.list(l); len(names) > 0 {
					return names
				}
			}
		}
		if s := e.Resolve(v); s != "" {
			return []string{s}
		}
		return nil
	default:
		if s := scalar(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func (e Extractor) list(l gjson.Result) []string {
	var names []string
	for _, entry := range l.Array() {
		var name string
		if entry.IsObject() {
			name = e.Resolve(entry.Get(nameKey))
		} else {
			name = scalar(entry)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Range renders from_date and to_date (or the legacy start_date and
// end_date) as "from - to". An ongoing end becomes Present; a missing one
// leaves the range open with no dash.
func (e Extractor) Range(rec document.Record) string {
	period := e.Text(rec, fromDateAliases...)
	switch to := e.Text(rec, toDateAliases...); {
	case to == "":
	case to == OngoingDate:
		period += " - " + Present
	default:
		period += " - " + to
	}
	return period
}

// YearOf returns the year of the first date found among aliases.
func (e Extractor) YearOf(rec document.Record, aliases ...string) string {
	return Year(e.Text(rec, aliases...))
}

// Identifier returns identifiers.<kind>[0], falling back to the legacy
// top-level key.
func (e Extractor) Identifier(rec document.Record, kind, legacy string) string {
	if ids, ok := rec.Get(identifiersKey); ok && ids.IsObject() {
		list := ids.Get(kind)
		if arr := list.Array(); list.IsArray() && len(arr) > 0 {
			if s := scalar(arr[0]); s != "" {
				return s
			}
		} else if s := scalar(list); s != "" {
			return s
		}
	}
	return e.Text(rec, legacy)
}

// Year returns the part of an ISO-like date before the first dash.
func Year(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}

// SortByFromDate returns records ordered by from_date (or start_date),
// newest first. The
// comparison is on the raw strings, so "2019-04" lands ahead of "2019".
// Records without from_date keep their relative order at the end.
func SortByFromDate(records []document.Record) []document.Record {
	sorted := make([]document.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return fromDate(sorted[i]) > fromDate(sorted[j])
	})
	return sorted
}

func fromDate(rec document.Record) string {
	for _, alias := range fromDateAliases {
		v, _ := rec.Get(alias)
		if s := scalar(v); s != "" {
			return s
		}
	}
	return ""
}
