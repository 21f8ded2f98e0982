package recommend

// Score weights.
const (
	WeightBase     = 0.2
	WeightTopic    = 0.5
	WeightDistance = 0.3
)

// Preference attribute names. Each has a fallback key used by older
// profiles.
const (
	attrCompanion    = "companion"
	attrAreaTheme    = "area_theme"
	attrActivityType = "activity_type"
	attrSituation    = "situation"
)

var attrFallback = map[string]string{
	attrCompanion: "travel_with",
	attrSituation: "vibe",
}

// Preferences is a decoded preference attribute bag.
type Preferences map[string]any

func (p Preferences) value(attr string) any {
	if v, ok := p[attr]; ok && v != nil {
		return v
	}
	if alt, ok := attrFallback[attr]; ok {
		return p[alt]
	}
	return nil
}

// Score is the breakdown of one place's fit for one user.
type Score struct {
	Base     float64 `json:"base"`
	Topic    float64 `json:"topic"`
	Distance float64 `json:"distance"`
	Total    float64 `json:"total"`
	Area     float64 `json:"area"`
	Activity float64 `json:"activity"`
}

// ScorePlace computes the weighted fit of a keyword profile against prefs.
// "distance" is the situational match against the place's vibe keywords.
func ScorePlace(kw Keywords, prefs Preferences) Score {
	s := Score{
		Base:     ThreeLevelMatch(prefs.value(attrCompanion), kw.Tags),
		Area:     ThreeLevelMatch(prefs.value(attrAreaTheme), kw.Area),
		Activity: ThreeLevelMatch(prefs.value(attrActivityType), kw.Activity),
		Distance: ThreeLevelMatch(prefs.value(attrSituation), kw.Vibe),
	}
	s.Topic = (s.Area + s.Activity) / 2
	s.Total = WeightBase*s.Base + WeightTopic*s.Topic + WeightDistance*s.Distance
	return s
}
