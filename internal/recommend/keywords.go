package recommend

import (
	"strings"

	"github.com/dukerupert/tourmate/internal/model"
)

// Keywords is a place's derived keyword profile.
type Keywords struct {
	Tags     []string `json:"tags"`
	Area     []string `json:"area"`
	Activity []string `json:"activity"`
	Vibe     []string `json:"vibe"`
}

// canonical folds Korean and English synonyms onto one keyword so user
// preferences and place profiles compare equal.
var canonical = map[string]string{
	// area
	"바다":        "sea",
	"beach":     "sea",
	"해변":        "sea",
	"산":         "mountain",
	"mountains": "mountain",
	"도시":        "urban",
	"city":      "urban",
	"자연":        "nature",

	// activity
	"맛집":         "food",
	"음식":         "food",
	"restaurant": "food",
	"문화체험":       "culture",
	"문화":         "culture",
	"휴식":         "rest",
	"관광명소":       "sightseeing",
	"관광":         "sightseeing",
	"축제":         "festival",
	"레포츠":        "leisure",
	"쇼핑":         "shopping",

	// companion
	"혼자": "solo",
	"친구": "friend",
	"가족": "family",
	"커플": "couple",
}

// Normalize lowercases a keyword, strips a leading '#', and maps synonyms
// to their canonical form.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "#")
	if c, ok := canonical[s]; ok {
		return c
	}
	return s
}

// areaTerms map address substrings to area keywords. Checked in order;
// every matching area is collected.
var areaTerms = []struct {
	keyword string
	area    string
}{
	{"해수욕장", "sea"},
	{"해변", "sea"},
	{"해안", "sea"},
	{"항구", "sea"},
	{"포구", "sea"},
	{"해운대", "sea"},
	{"beach", "sea"},
	{"coast", "sea"},
	{"harbor", "sea"},
	{"island", "sea"},
	{"계곡", "mountain"},
	{"산림", "mountain"},
	{"산길", "mountain"},
	{"봉우리", "mountain"},
	{"설악", "mountain"},
	{"지리산", "mountain"},
	{"한라산", "mountain"},
	{"mountain", "mountain"},
	{"valley", "mountain"},
	{"광역시", "urban"},
	{"특별시", "urban"},
	{"시청", "urban"},
	{"downtown", "urban"},
	{"city", "urban"},
	{"수목원", "nature"},
	{"호수", "nature"},
	{"숲", "nature"},
	{"forest", "nature"},
	{"lake", "nature"},
}

// typeActivity maps a place type code to its activity keyword. Both the
// TourAPI content type ids and plain names are accepted.
var typeActivity = map[string]string{
	"12":            "sightseeing",
	"14":            "culture",
	"15":            "festival",
	"28":            "leisure",
	"32":            "rest",
	"38":            "shopping",
	"39":            "food",
	"attraction":    "sightseeing",
	"culture":       "culture",
	"festival":      "festival",
	"leports":       "leisure",
	"lodging":       "rest",
	"accommodation": "rest",
	"shopping":      "shopping",
	"restaurant":    "food",
}

var activityKeywords = map[string]bool{
	"food":        true,
	"culture":     true,
	"rest":        true,
	"sightseeing": true,
	"festival":    true,
	"leisure":     true,
	"shopping":    true,
}

// AreaOf returns the area keywords found in an address.
func AreaOf(address string) []string {
	addr := strings.ToLower(address)
	var out []string
	for _, t := range areaTerms {
		if strings.Contains(addr, t.keyword) {
			out = appendUnique(out, t.area)
		}
	}
	return out
}

// ProfileOf derives the keyword profile of a place.
func ProfileOf(p model.Place) Keywords {
	kw := Keywords{Area: AreaOf(p.Address)}
	if a, ok := typeActivity[strings.ToLower(strings.TrimSpace(p.TypeCode))]; ok {
		kw.Activity = append(kw.Activity, a)
	}
	for _, tag := range p.Tags {
		n := Normalize(tag)
		if n == "" {
			continue
		}
		kw.Tags = appendUnique(kw.Tags, n)
		if activityKeywords[n] {
			kw.Activity = appendUnique(kw.Activity, n)
		}
	}
	return kw
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
