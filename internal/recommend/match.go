package recommend

// Match levels.
const (
	Mismatch = 0.0
	Neutral  = 0.5
	Positive = 1.0
)

var neutralValues = map[string]bool{
	"":         true,
	"unknown":  true,
	"moderate": true,
	"알 수 없음":   true,
	"보통":       true,
}

var opposites = map[string]string{
	"mountain": "sea",
	"sea":      "mountain",
	"urban":    "nature",
	"nature":   "urban",
}

// ThreeLevelMatch scores one preference value against a place's keywords.
// userValue may be a string, a list (best element wins), a bool, or nil.
// Missing signal on either side is neutral; an explicit opposite is a
// mismatch.
func ThreeLevelMatch(userValue any, placeValues []string) float64 {
	switch v := userValue.(type) {
	case []string:
		return bestOf(len(v), func(i int) any { return v[i] }, placeValues)
	case []any:
		return bestOf(len(v), func(i int) any { return v[i] }, placeValues)
	case string:
		return matchString(v, placeValues)
	default:
		// nil, bool, numbers: no comparable preference
		return Neutral
	}
}

func bestOf(n int, at func(int) any, placeValues []string) float64 {
	if n == 0 {
		return Neutral
	}
	best := Mismatch
	for i := 0; i < n; i++ {
		if s := ThreeLevelMatch(at(i), placeValues); s > best {
			best = s
		}
	}
	return best
}

func matchString(value string, placeValues []string) float64 {
	if neutralValues[value] {
		return Neutral
	}
	v := Normalize(value)
	if neutralValues[v] || len(placeValues) == 0 {
		return Neutral
	}
	if contains(placeValues, v) {
		return Positive
	}
	if opp, ok := opposites[v]; ok && contains(placeValues, opp) {
		return Mismatch
	}
	return Neutral
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
