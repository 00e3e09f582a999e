// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/researchmap-site/internal/document"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

var (
	english  = New(types.LanguageEnglish)
	japanese = New(types.LanguageJapanese)
)

func TestNewDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, types.LanguageEnglish, New("").Lang)
	assert.Equal(t, types.LanguageEnglish, New("fr").Lang)
	assert.Equal(t, types.LanguageJapanese, New(types.LanguageJapanese).Lang)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantEN string
		wantJA string
	}{
		{"both languages", `{"ja": "日本語", "en": "English"}`, "English", "日本語"},
		{"english only", `{"en": "English"}`, "English", "English"},
		{"japanese only", `{"ja": "日本語"}`, "日本語", "日本語"},
		{"empty english falls back", `{"ja": "日本語", "en": ""}`, "日本語", "日本語"},
		{"both empty", `{"ja": "", "en": ""}`, "", ""},
		{"scalar string", `"plain"`, "plain", "plain"},
		{"number", `2020`, "2020", "2020"},
		{"boolean", `true`, "true", "true"},
		{"list", `["a"]`, "", ""},
		{"null", `null`, "", ""},
		{"nested object value", `{"en": {"x": 1}, "ja": "日本語"}`, "日本語", "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := gjson.Parse(tt.value)
			assert.Equal(t, tt.wantEN, english.Resolve(v))
			assert.Equal(t, tt.wantJA, japanese.Resolve(v))
		})
	}
}

func TestResolveMissing(t *testing.T) {
	assert.Equal(t, "", english.Resolve(gjson.Result{}))
}

func TestText(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		aliases []string
		want    string
	}{
		{"first alias wins", `{"paper_title": {"en": "New"}, "title": "Old"}`, []string{"paper_title", "title"}, "New"},
		{"falls back to legacy alias", `{"title": "Old"}`, []string{"paper_title", "title"}, "Old"},
		{"empty alias is skipped", `{"paper_title": {"en": "", "ja": ""}, "title": "Old"}`, []string{"paper_title", "title"}, "Old"},
		{"empty scalar is skipped", `{"paper_title": "", "title": {"ja": "旧"}}`, []string{"paper_title", "title"}, "旧"},
		{"nothing usable", `{"other": "x"}`, []string{"paper_title", "title"}, ""},
		{"no aliases", `{"title": "x"}`, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, english.Text(document.ParseRecord(tt.record), tt.aliases...))
		})
	}
}

func TestLocalized(t *testing.T) {
	dict := map[string]string{"株式会社メルカリ": "Mercari Inc."}

	rec := document.ParseRecord(`{"affiliation": {"ja": "株式会社メルカリ", "en": "Mercari, Inc."}}`)
	assert.Equal(t, "Mercari Inc.", english.Localized(rec, dict, "affiliation"), "dictionary beats the record's English")
	assert.Equal(t, "株式会社メルカリ", japanese.Localized(rec, dict, "affiliation"), "Japanese-first ignores the dictionary")

	other := document.ParseRecord(`{"affiliation": {"ja": "東京大学", "en": "The University of Tokyo"}}`)
	assert.Equal(t, "The University of Tokyo", english.Localized(other, dict, "affiliation"))
	assert.Equal(t, "The University of Tokyo", english.Localized(other, nil, "affiliation"))

	plain := document.ParseRecord(`{"degree": "博士（理学）"}`)
	assert.Equal(t, "Ph.D. in Science", english.Localized(plain, map[string]string{"博士（理学）": "Ph.D. in Science"}, "degree"))
}

func TestTranslate(t *testing.T) {
	dict := map[string]string{"博士(工学)": "Ph.D. in Engineering"}
	assert.Equal(t, "Ph.D. in Engineering", english.Translate("博士(工学)", dict))
	assert.Equal(t, "博士(工学)", japanese.Translate("博士(工学)", dict))
	assert.Equal(t, "Other", english.Translate("Other", dict))
	assert.Equal(t, "", english.Translate("", nil))
}

func TestBool(t *testing.T) {
	rec := document.ParseRecord(`{"referee": true, "invited": false, "flag": "true"}`)
	assert.True(t, english.Bool(rec, "referee"))
	assert.False(t, english.Bool(rec, "invited"))
	assert.True(t, english.Bool(rec, "flag"))
	assert.False(t, english.Bool(rec, "missing"))
}

func TestNames(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		aliases []string
		wantEN  []string
		wantJA  []string
	}{
		{
			name:    "language keyed lists",
			record:  `{"authors": {"ja": [{"name": "久保"}, {"name": "松尾"}], "en": [{"name": "Kubo"}, {"name": "Matsuo"}]}}`,
			aliases: []string{"authors"},
			wantEN:  []string{"Kubo", "Matsuo"},
			wantJA:  []string{"久保", "松尾"},
		},
		{
			name:    "language keyed with one language",
			record:  `{"authors": {"ja": [{"name": "久保"}]}}`,
			aliases: []string{"authors"},
			wantEN:  []string{"久保"},
			wantJA:  []string{"久保"},
		},
		{
			name:    "flat mixed list keeps order",
			record:  `{"authors": [{"name": {"en": "Kubo", "ja": "久保"}}, "Plain Name", {"name": "Matsuo"}, {"affiliation": "x"}, ""]}`,
			aliases: []string{"authors"},
			wantEN:  []string{"Kubo", "Plain Name", "Matsuo"},
			wantJA:  []string{"久保", "Plain Name", "Matsuo"},
		},
		{
			name:    "legacy alias after empty list",
			record:  `{"presenters": [], "authors": [{"name": "Kubo"}]}`,
			aliases: []string{"presenters", "authors"},
			wantEN:  []string{"Kubo"},
			wantJA:  []string{"Kubo"},
		},
		{
			name:    "plain string",
			record:  `{"authors": "Kubo, Matsuo"}`,
			aliases: []string{"authors"},
			wantEN:  []string{"Kubo, Matsuo"},
			wantJA:  []string{"Kubo, Matsuo"},
		},
		{
			name:    "absent",
			record:  `{}`,
			aliases: []string{"authors"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := document.ParseRecord(tt.record)
			assert.Equal(t, tt.wantEN, english.Names(rec, tt.aliases...))
			assert.Equal(t, tt.wantJA, japanese.Names(rec, tt.aliases...))
		})
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{"ongoing", `{"from_date": "2015", "to_date": "9999"}`, "2015 - Present"},
		{"closed", `{"from_date": "2015-04", "to_date": "2019-03"}`, "2015-04 - 2019-03"},
		{"open ended", `{"from_date": "2015"}`, "2015"},
		{"empty to_date", `{"from_date": "2015", "to_date": ""}`, "2015"},
		{"no from_date", `{"to_date": "2020"}`, " - 2020"},
		{"nothing", `{}`, ""},
		{"legacy start and end", `{"start_date": "2020-04", "end_date": "2023-03"}`, "2020-04 - 2023-03"},
		{"legacy ongoing", `{"start_date": "2020-04", "end_date": "9999"}`, "2020-04 - Present"},
		{"current keys win", `{"from_date": "2021", "start_date": "2000", "to_date": "2022", "end_date": "2001"}`, "2021 - 2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, english.Range(document.ParseRecord(tt.record)))
		})
	}
}

func TestYear(t *testing.T) {
	assert.Equal(t, "2020", Year("2020-05-01"))
	assert.Equal(t, "2020", Year("2020"))
	assert.Equal(t, "", Year(""))
	assert.Equal(t, "", Year("-05"))

	rec := document.ParseRecord(`{"date": "2018-11"}`)
	assert.Equal(t, "2018", english.YearOf(rec, "award_date", "date"))
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{"identifiers list", `{"identifiers": {"doi": ["10.1/a", "10.1/b"]}, "doi": "10.1/legacy"}`, "10.1/a"},
		{"identifiers scalar", `{"identifiers": {"doi": "10.1/s"}}`, "10.1/s"},
		{"empty list falls back", `{"identifiers": {"doi": []}, "doi": "10.1/legacy"}`, "10.1/legacy"},
		{"legacy only", `{"doi": "10.1/legacy"}`, "10.1/legacy"},
		{"none", `{"identifiers": {"isbn": ["123"]}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, english.Identifier(document.ParseRecord(tt.record), "doi", "doi"))
		})
	}
}

func TestSortByFromDate(t *testing.T) {
	records := []document.Record{
		document.ParseRecord(`{"id": "a", "from_date": "2010"}`),
		document.ParseRecord(`{"id": "b"}`),
		document.ParseRecord(`{"id": "c", "from_date": "2019"}`),
		document.ParseRecord(`{"id": "d", "from_date": "2019-04"}`),
		document.ParseRecord(`{"id": "e"}`),
		document.ParseRecord(`{"id": "f", "from_date": "2015-10"}`),
	}

	sorted := SortByFromDate(records)

	var ids []string
	for _, r := range sorted {
		v, _ := r.Get("id")
		ids = append(ids, v.String())
	}
	assert.Equal(t, []string{"d", "c", "f", "a", "b", "e"}, ids)

	first, _ := records[0].Get("id")
	assert.Equal(t, "a", first.String(), "input slice is not reordered")
}

func TestSortByFromDateLegacyStartDate(t *testing.T) {
	records := []document.Record{
		document.ParseRecord(`{"id": "old", "start_date": "2012-04"}`),
		document.ParseRecord(`{"id": "undated"}`),
		document.ParseRecord(`{"id": "new", "start_date": "2020-04"}`),
		document.ParseRecord(`{"id": "mid", "from_date": "2016"}`),
	}

	var ids []string
	for _, r := range SortByFromDate(records) {
		v, _ := r.Get("id")
		ids = append(ids, v.String())
	}
	assert.Equal(t, []string{"new", "mid", "old", "undated"}, ids)
}
