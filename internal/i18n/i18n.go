// Package i18n holds the user-facing messages in every supported locale.
package i18n

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale is a supported UI language code.
type Locale string

// Supported locales.
const (
	Japanese Locale = "ja"
	English  Locale = "en"
	French   Locale = "fr"
)

// Default is used when nothing better matches.
const Default = English

// CookieName is the HTTP cookie carrying the locale choice.
const CookieName = "locale"

// Locales lists the supported locales, default first.
var Locales = []Locale{English, Japanese, French}

var tags = map[Locale]language.Tag{
	Japanese: language.Japanese,
	English:  language.English,
	French:   language.French,
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese, language.French})

// Tag returns the language tag of l, or the default's tag for unknown locales.
func (l Locale) Tag() language.Tag {
	if t, ok := tags[l]; ok {
		return t
	}
	return tags[Default]
}

// Parse returns the locale for an exact code such as "ja".
func Parse(code string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(code)))
	_, ok := tags[l]
	return l, ok
}

// Match picks the best supported locale for a list of preferences such as an
// Accept-Language header or a bare code. It falls back to Default.
func Match(prefs ...string) Locale {
	for _, p := range prefs {
		if l, ok := Parse(p); ok {
			return l
		}
	}
	var wanted []language.Tag
	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, parsed...)
	}
	if len(wanted) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(wanted...)
	if conf == language.No {
		return Default
	}
	return Locales[idx]
}

// Printer returns a message printer for l.
func Printer(l Locale) *message.Printer {
	return message.NewPrinter(l.Tag(), message.Catalog(messages))
}

// T returns the message for key in locale l, formatted with args.
func T(l Locale, key string, args ...any) string {
	return Printer(l).Sprintf(key, args...)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Message keys.
const (
	EmptyNoMemosTitle           = "empty.no_memos.title"
	EmptyNoMemosHint            = "empty.no_memos.hint"
	EmptyNoSearchResultsTitle   = "empty.no_search_results.title"
	EmptyNoSearchResultsHint    = "empty.no_search_results.hint"
	EmptyNoCategoryMatchesTitle = "empty.no_category_matches.title"
	EmptyNoCategoryMatchesHint  = "empty.no_category_matches.hint"
	PreviewEmpty                = "preview.empty"
	PickerSelected              = "picker.selected"
	PickerLimitReached          = "picker.limit_reached"
	CategoryLimitReached        = "category.limit_reached"
	CategoryRemaining           = "category.remaining"
	SignInRequired              = "session.sign_in_required"
	TitleRequired               = "memo.title_required"
	TitleTooLong                = "memo.title_too_long"
	MemoIDRequired              = "memo.id_required"
	Uncategorized               = "listing.uncategorized"
	RelativeNow                 = "relative.now"
	RelativeMinutesAgo          = "relative.minutes_ago"
	RelativeHoursAgo            = "relative.hours_ago"
	RelativeDaysAgo             = "relative.days_ago"
	RelativeMonthsAgo           = "relative.months_ago"
	RelativeYearsAgo            = "relative.years_ago"
)

type entry struct {
	key string
	msg catalog.Message
}

func str(key, s string) entry { return entry{key: key, msg: catalog.String(s)} }

// countf builds a plural-aware message for a single %d argument.
func countf(key, one, other string) entry {
	return entry{key: key, msg: plural.Selectf(1, "%d", "one", one, "other", other)}
}

var dictionaries = map[language.Tag][]entry{
	language.Japanese: {
		str(EmptyNoMemosTitle, "まだメモがありません"),
		str(EmptyNoMemosHint, "最初のメモを作成してみましょう。"),
		str(EmptyNoSearchResultsTitle, "検索条件に一致するメモがありません"),
		str(EmptyNoSearchResultsHint, "キーワードを変えて再検索してください。"),
		str(EmptyNoCategoryMatchesTitle, "このカテゴリのメモはまだありません"),
		str(EmptyNoCategoryMatchesHint, "別のカテゴリを選ぶか、フィルタを解除してください。"),
		str(PreviewEmpty, "本文はまだ追加されていません。"),
		str(PickerSelected, "%d / %d 件選択中"),
		str(PickerLimitReached, "1つのメモに設定できるカテゴリは最大%d件です。"),
		str(CategoryLimitReached, "カテゴリは最大%d件までです。"),
		str(CategoryRemaining, "あと%d件追加できます"),
		str(SignInRequired, "この操作を続けるにはサインインが必要です。"),
		str(TitleRequired, "タイトルは必須です"),
		str(TitleTooLong, "タイトルは%d文字以内で入力してください"),
		str(MemoIDRequired, "メモIDが指定されていません"),
		str(Uncategorized, "未分類"),
		str(RelativeNow, "たった今"),
		str(RelativeMinutesAgo, "%d分前"),
		str(RelativeHoursAgo, "%d時間前"),
		str(RelativeDaysAgo, "%d日前"),
		str(RelativeMonthsAgo, "%dか月前"),
		str(RelativeYearsAgo, "%d年前"),
	},
	language.English: {
		str(EmptyNoMemosTitle, "No memos yet"),
		str(EmptyNoMemosHint, "Create your first memo to get started."),
		str(EmptyNoSearchResultsTitle, "No memos match your search"),
		str(EmptyNoSearchResultsHint, "Try different keywords."),
		str(EmptyNoCategoryMatchesTitle, "No memos in this category yet"),
		str(EmptyNoCategoryMatchesHint, "Pick another category or clear the filter."),
		str(PreviewEmpty, "No content yet."),
		str(PickerSelected, "%d of %d selected"),
		str(PickerLimitReached, "A memo can have at most %d categories."),
		str(CategoryLimitReached, "You can create at most %d categories."),
		countf(CategoryRemaining, "%d more can be added", "%d more can be added"),
		str(SignInRequired, "Sign in to continue."),
		str(TitleRequired, "Title is required"),
		str(TitleTooLong, "Title must be at most %d characters"),
		str(MemoIDRequired, "Memo ID is missing"),
		str(Uncategorized, "Uncategorized"),
		str(RelativeNow, "just now"),
		countf(RelativeMinutesAgo, "%d minute ago", "%d minutes ago"),
		countf(RelativeHoursAgo, "%d hour ago", "%d hours ago"),
		countf(RelativeDaysAgo, "%d day ago", "%d days ago"),
		countf(RelativeMonthsAgo, "%d month ago", "%d months ago"),
		countf(RelativeYearsAgo, "%d year ago", "%d years ago"),
	},
	language.French: {
		str(EmptyNoMemosTitle, "Aucun mémo pour l'instant"),
		str(EmptyNoMemosHint, "Créez votre premier mémo pour commencer."),
		str(EmptyNoSearchResultsTitle, "Aucun mémo ne correspond à votre recherche"),
		str(EmptyNoSearchResultsHint, "Essayez d'autres mots-clés."),
		str(EmptyNoCategoryMatchesTitle, "Aucun mémo dans cette catégorie"),
		str(EmptyNoCategoryMatchesHint, "Choisissez une autre catégorie ou retirez le filtre."),
		str(PreviewEmpty, "Pas encore de contenu."),
		str(PickerSelected, "%d sur %d sélectionnées"),
		str(PickerLimitReached, "Un mémo peut avoir au maximum %d catégories."),
		str(CategoryLimitReached, "Vous pouvez créer au maximum %d catégories."),
		countf(CategoryRemaining, "encore %d possible", "encore %d possibles"),
		str(SignInRequired, "Connectez-vous pour continuer."),
		str(TitleRequired, "Le titre est obligatoire"),
		str(TitleTooLong, "Le titre doit contenir au maximum %d caractères"),
		str(MemoIDRequired, "Identifiant de mémo manquant"),
		str(Uncategorized, "Sans catégorie"),
		str(RelativeNow, "à l'instant"),
		countf(RelativeMinutesAgo, "il y a %d minute", "il y a %d minutes"),
		countf(RelativeHoursAgo, "il y a %d heure", "il y a %d heures"),
		countf(RelativeDaysAgo, "il y a %d jour", "il y a %d jours"),
		countf(RelativeMonthsAgo, "il y a %d mois", "il y a %d mois"),
		countf(RelativeYearsAgo, "il y a %d an", "il y a %d ans"),
	},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range dictionaries {
		for _, e := range entries {
			if err := b.Set(tag, e.key, e.msg); err != nil {
				panic("i18n: " + e.key + ": " + err.Error())
			}
		}
	}
	return b
}

// EmptyState returns the title and hint shown for an empty memo list.
// state is one of "no-memos", "no-search-results" or "no-category-matches";
// any other value yields empty strings.
func EmptyState(l Locale, state string) (title, hint string) {
	p := Printer(l)
	switch state {
	case "no-memos":
		return p.Sprintf(EmptyNoMemosTitle), p.Sprintf(EmptyNoMemosHint)
	case "no-search-results":
		return p.Sprintf(EmptyNoSearchResultsTitle), p.Sprintf(EmptyNoSearchResultsHint)
	case "no-category-matches":
		return p.Sprintf(EmptyNoCategoryMatchesTitle), p.Sprintf(EmptyNoCategoryMatchesHint)
	}
	return "", ""
}
