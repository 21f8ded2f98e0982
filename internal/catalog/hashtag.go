// Package catalog prepares tourism places for the store: it derives hashtags
// from a place's content type and overview and imports place batches.
package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dukerupert/tourmate/internal/model"
)

// typeTags are the fixed tags for each tourism content type code.
var typeTags = map[string][]string{
	"12": {"여행", "가족"},
	"14": {"문화", "체험"},
	"15": {"축제", "공연"},
	"25": {"코스", "트래킹"},
	"28": {"레포츠", "액티비티"},
	"32": {"숙박", "호텔"},
	"38": {"쇼핑", "기념품"},
	"39": {"맛집", "음식"},
}

// themeTags fire when a word of the overview starts with key, unless it
// starts with except.
var themeTags = []struct {
	key    string
	except string
	tag    string
}{
	{key: "봄", tag: "봄여행"},
	{key: "여름", tag: "여름여행"},
	{key: "가을", tag: "가을여행"},
	{key: "겨울", tag: "겨울여행"},
	{key: "바다", tag: "바다"},
	{key: "산책로", tag: "산책로"},
	{key: "호수", tag: "호수"},
	{key: "산", except: "산책", tag: "산"},
}

var stopwords = map[string]bool{
	"관광지": true, "장소": true, "소개": true, "대한": true,
	"여행": true, "지역": true, "한번": true, "정도": true,
	"있는": true, "있다": true, "있으며": true, "the": true, "and": true,
}

// particles are trailing postpositions stripped from Korean words, longest
// first.
var particles = []string{
	"에서는", "으로는", "에서", "으로", "에는", "까지", "부터", "보다",
	"은", "는", "이", "가", "을", "를", "의", "에", "와", "과", "도", "만",
}

// DefaultKeywordCount is how many overview keywords GenerateTags keeps.
const DefaultKeywordCount = 5

// ExtractKeywords returns up to n of the most frequent content words in
// text. Ties keep the order of first appearance.
func ExtractKeywords(text string, n int) []string {
	return topWords(words(text), n, nil)
}

// GenerateTags derives a place's hashtags: type tags, then overview
// keywords that are not part of the address, then theme tags.
func GenerateTags(p model.Place) []string {
	var tags []string
	tags = append(tags, typeTags[p.TypeCode]...)

	exclude := make(map[string]bool)
	for _, w := range words(p.Address) {
		exclude[w] = true
	}
	tags = append(tags, topWords(words(p.Overview), DefaultKeywordCount, exclude)...)

	fields := strings.FieldsFunc(p.Overview, notWordRune)
	for _, t := range themeTags {
		if mentions(fields, t.key, t.except) {
			tags = append(tags, t.tag)
		}
	}
	return dedupe(tags)
}

func mentions(fields []string, key, except string) bool {
	for _, f := range fields {
		if strings.HasPrefix(f, key) && (except == "" || !strings.HasPrefix(f, except)) {
			return true
		}
	}
	return false
}

// MergeTags appends generated to given, dropping blanks and repeats.
func MergeTags(given, generated []string) []string {
	all := make([]string, 0, len(given)+len(generated))
	all = append(all, given...)
	all = append(all, generated...)
	return dedupe(all)
}

func words(text string) []string {
	fields := strings.FieldsFunc(text, notWordRune)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.ToLower(trimParticle(f))
		if utf8.RuneCountInString(w) < 2 || stopwords[w] || isNumeric(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func trimParticle(w string) string {
	for _, p := range particles {
		rest, ok := strings.CutSuffix(w, p)
		if ok && utf8.RuneCountInString(rest) >= 2 {
			return rest
		}
	}
	return w
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func topWords(ws []string, n int, exclude map[string]bool) []string {
	if n <= 0 {
		return nil
	}
	count := make(map[string]int)
	var order []string
	for _, w := range ws {
		if exclude[w] {
			continue
		}
		if count[w] == 0 {
			order = append(order, w)
		}
		count[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return count[order[i]] > count[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
