// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/tidwall/gjson"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

// Resolve turns a field value into display text. A bilingual object yields
// the preferred language if non-empty, else the other one. Scalars are used
// verbatim. Lists, nulls, and missing values yield "".
func (e Extractor) Resolve(v gjson.Result) string {
	if !v.IsObject() {
		return scalar(v)
	}
	first, second := e.languages()
	if s := scalar(v.Get(string(first))); s != "" {
		return s
	}
	return scalar(v.Get(string(second)))
}

func (e Extractor) languages() (types.Language, types.Language) {
	if e.Lang == types.LanguageJapanese {
		return types.LanguageJapanese, types.LanguageEnglish
	}
	return types.LanguageEnglish, types.LanguageJapanese
}

// keyOrder lists obj's keys with the preferred language first, the other
// language second, and the rest in document order.
func (e Extractor) keyOrder(obj gjson.Result) []string {
	first, second := e.languages()
	keys := []string{string(first), string(second)}
	obj.ForEach(func(k, _ gjson.Result) bool {
		if key := k.String(); key != string(first) && key != string(second) {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	}
	return ""
}
