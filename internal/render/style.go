// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "github.com/pdiddy/researchmap-site/pkg/types"

// Labels holds every piece of fixed text a page can contain.
type Labels struct {
	Profile       string
	Keywords      string
	Papers        string
	Books         string
	Presentations string
	Projects      string
	Awards        string

	Career      string
	Education   string
	Degree      string
	Affiliation string
	Position    string
	Website     string
	Email       string

	Authors       string
	Journal       string
	Year          string
	DOI           string
	Publisher     string
	ISBN          string
	Conference    string
	Meeting       string
	Event         string
	FundingSystem string
	Period        string
	Role          string
	Description   string
	Organization  string
	Summary       string

	UnknownPaper        string
	UnknownBook         string
	UnknownPresentation string
	UnknownProject      string
	UnknownAward        string

	NoProfile       string
	NoKeywords      string
	NoPapers        string
	NoBooks         string
	NoPresentations string
	NoProjects      string
	NoAwards        string
}

// EnglishLabels are used by English-first targets.
var EnglishLabels = Labels{
	Profile:       "Profile",
	Keywords:      "Research Keywords",
	Papers:        "Publications",
	Books:         "Books",
	Presentations: "Presentations",
	Projects:      "Research Projects",
	Awards:        "Awards",

	Career:      "Career",
	Education:   "Education",
	Degree:      "Degree",
	Affiliation: "Affiliation",
	Position:    "Position",
	Website:     "Website",
	Email:       "Email",

	Authors:       "Authors",
	Journal:       "Journal",
	Year:          "Year",
	DOI:           "DOI",
	Publisher:     "Publisher",
	ISBN:          "ISBN",
	Conference:    "Conference",
	Meeting:       "Meeting",
	Event:         "Event",
	FundingSystem: "Funding System",
	Period:        "Period",
	Role:          "Role",
	Description:   "Description",
	Organization:  "Organization",
	Summary:       "Summary",

	UnknownPaper:        "Unknown Title",
	UnknownBook:         "Unknown Book Title",
	UnknownPresentation: "Unknown Presentation Title",
	UnknownProject:      "Unknown Project Title",
	UnknownAward:        "Unknown Award",

	NoProfile:       "No profile information available.",
	NoKeywords:      "No research keywords available.",
	NoPapers:        "No publications available.",
	NoBooks:         "No books available.",
	NoPresentations: "No presentations available.",
	NoProjects:      "No research projects available.",
	NoAwards:        "No awards available.",
}

// JapaneseLabels are used by Japanese-first targets.
var JapaneseLabels = Labels{
	Profile:       "プロフィール",
	Keywords:      "研究キーワード",
	Papers:        "論文",
	Books:         "書籍",
	Presentations: "講演・発表",
	Projects:      "研究プロジェクト",
	Awards:        "受賞",

	Career:      "経歴",
	Education:   "学歴",
	Degree:      "学位",
	Affiliation: "所属",
	Position:    "役職",
	Website:     "ウェブサイト",
	Email:       "メール",

	Authors:       "著者",
	Journal:       "掲載誌",
	Year:          "年",
	DOI:           "DOI",
	Publisher:     "出版社",
	ISBN:          "ISBN",
	Conference:    "学会",
	Meeting:       "会議",
	Event:         "イベント",
	FundingSystem: "資金制度",
	Period:        "期間",
	Role:          "役割",
	Description:   "説明",
	Organization:  "授与組織",
	Summary:       "概要",

	UnknownPaper:        "タイトル不明",
	UnknownBook:         "書名不明",
	UnknownPresentation: "発表タイトル不明",
	UnknownProject:      "課題名不明",
	UnknownAward:        "賞名不明",

	NoProfile:       "プロフィール情報はありません。",
	NoKeywords:      "研究キーワード情報はありません。",
	NoPapers:        "論文情報はありません。",
	NoBooks:         "書籍情報はありません。",
	NoPresentations: "発表情報はありません。",
	NoProjects:      "研究プロジェクト情報はありません。",
	NoAwards:        "受賞情報はありません。",
}

// Style is the rendering policy of one output target.
type Style struct {
	Labels      Labels
	Language    types.Language
	Empty       types.EmptyPolicy
	AutoContent bool
}

// StyleFor derives the style of an output target. Labels follow the
// target's language.
func StyleFor(out types.OutputConfig) Style {
	s := Style{
		Labels:      EnglishLabels,
		Language:    types.LanguageEnglish,
		Empty:       out.EmptySection,
		AutoContent: out.AutoContent,
	}
	if out.Language == types.LanguageJapanese {
		s.Labels = JapaneseLabels
		s.Language = types.LanguageJapanese
	}
	if s.Empty != types.EmptyDelete {
		s.Empty = types.EmptyPlaceholder
	}
	return s
}
