package recommend

import (
	"math"
	"testing"

	"github.com/dukerupert/tourmate/internal/model"
)

func TestThreeLevelMatch(t *testing.T) {
	tests := []struct {
		name  string
		user  any
		place []string
		want  float64
	}{
		{"positive", "sea", []string{"sea"}, Positive},
		{"opposite mountain/sea", "mountain", []string{"sea"}, Mismatch},
		{"opposite urban/nature", "nature", []string{"urban"}, Mismatch},
		{"unrelated", "sea", []string{"urban"}, Neutral},
		{"empty place", "sea", nil, Neutral},
		{"empty user", "", []string{"sea"}, Neutral},
		{"nil user", nil, []string{"sea"}, Neutral},
		{"unknown sentinel", "unknown", []string{"sea"}, Neutral},
		{"moderate sentinel", "moderate", []string{"sea"}, Neutral},
		{"korean unknown", "알 수 없음", []string{"sea"}, Neutral},
		{"korean moderate", "보통", []string{"sea"}, Neutral},
		{"bool is neutral", true, []string{"sea"}, Neutral},
		{"korean synonym", "바다", []string{"sea"}, Positive},
		{"korean opposite", "산", []string{"sea"}, Mismatch},
		{"list best wins", []any{"mountain", "sea"}, []string{"sea"}, Positive},
		{"list all opposite", []any{"mountain"}, []string{"sea"}, Mismatch},
		{"list mixed neutral", []string{"mountain", "food"}, []string{"sea"}, Neutral},
		{"empty list", []any{}, []string{"sea"}, Neutral},
		{"case insensitive", "SEA", []string{"sea"}, Positive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThreeLevelMatch(tt.user, tt.place); got != tt.want {
				t.Errorf("ThreeLevelMatch(%v, %v) = %v, want %v", tt.user, tt.place, got, tt.want)
			}
		})
	}
}

func TestThreeLevelMatchNeutralOnEmptyPlace(t *testing.T) {
	for _, v := range []any{"sea", "mountain", "food", "family", []any{"sea", "urban"}} {
		if got := ThreeLevelMatch(v, []string{}); got != Neutral {
			t.Errorf("ThreeLevelMatch(%v, []) = %v, want 0.5", v, got)
		}
	}
}

func TestProfileOf(t *testing.T) {
	p := model.Place{
		ContentID: 1,
		Title:     "Haeundae Beach",
		Address:   "부산광역시 해운대구 해운대해변로 264",
		TypeCode:  "12",
		Tags:      []string{"#가족", "맛집", "night view"},
	}
	kw := ProfileOf(p)

	if !contains(kw.Area, "sea") || !contains(kw.Area, "urban") {
		t.Errorf("area = %v, want sea and urban", kw.Area)
	}
	if contains(kw.Area, "mountain") {
		t.Errorf("area = %v, 부산 must not read as mountain", kw.Area)
	}
	if !contains(kw.Activity, "sightseeing") || !contains(kw.Activity, "food") {
		t.Errorf("activity = %v, want sightseeing and food", kw.Activity)
	}
	if !contains(kw.Tags, "family") {
		t.Errorf("tags = %v, want family", kw.Tags)
	}
	if len(kw.Vibe) != 0 {
		t.Errorf("vibe = %v, want empty", kw.Vibe)
	}
}

func TestProfileTypeNames(t *testing.T) {
	kw := ProfileOf(model.Place{TypeCode: "restaurant"})
	if len(kw.Activity) != 1 || kw.Activity[0] != "food" {
		t.Errorf("activity = %v, want [food]", kw.Activity)
	}
	if kw := ProfileOf(model.Place{TypeCode: "999"}); len(kw.Activity) != 0 {
		t.Errorf("unknown type activity = %v", kw.Activity)
	}
}

func TestScorePlaceScenario(t *testing.T) {
	prefs := Preferences{
		"area_theme":    []any{"mountain"},
		"activity_type": []any{"food"},
	}
	kw := Keywords{Area: []string{"sea"}, Activity: []string{"food"}}

	s := ScorePlace(kw, prefs)
	if s.Area != 0 {
		t.Errorf("area = %v, want 0", s.Area)
	}
	if s.Activity != 1 {
		t.Errorf("activity = %v, want 1", s.Activity)
	}
	if s.Topic != 0.5 {
		t.Errorf("topic = %v, want 0.5", s.Topic)
	}
	if s.Base != 0.5 || s.Distance != 0.5 {
		t.Errorf("base/distance = %v/%v, want neutral", s.Base, s.Distance)
	}
	if math.Abs(s.Total-0.5) > 1e-9 {
		t.Errorf("total = %v, want 0.5", s.Total)
	}
}

func TestScorePlaceFallbackKeys(t *testing.T) {
	prefs := Preferences{"travel_with": []any{"가족"}}
	s := ScorePlace(Keywords{Tags: []string{"family"}}, prefs)
	if s.Base != Positive {
		t.Errorf("base = %v, want travel_with to count as companion", s.Base)
	}
}

func TestScoreBounds(t *testing.T) {
	values := []any{nil, "", "sea", "mountain", "urban", "nature", "food", "family", true, []any{"sea", "mountain"}}
	profiles := []Keywords{
		{},
		{Tags: []string{"family"}, Area: []string{"sea"}, Activity: []string{"food"}},
		{Area: []string{"mountain", "urban"}, Activity: []string{"rest"}, Vibe: []string{"quiet"}},
	}
	for _, kw := range profiles {
		for _, a := range values {
			for _, b := range values {
				prefs := Preferences{"companion": a, "area_theme": b, "activity_type": a, "situation": b}
				s := ScorePlace(kw, prefs)
				if s.Total < 0 || s.Total > 1 {
					t.Fatalf("total %v out of range for %v / %+v", s.Total, prefs, kw)
				}
			}
		}
	}

	best := ScorePlace(
		Keywords{Tags: []string{"family"}, Area: []string{"sea"}, Activity: []string{"food"}, Vibe: []string{"quiet"}},
		Preferences{"companion": "family", "area_theme": "sea", "activity_type": "food", "situation": "quiet"},
	)
	if math.Abs(best.Total-1) > 1e-9 {
		t.Errorf("all-positive total = %v, want 1", best.Total)
	}
}

func TestScorePlaceTotalIsWeightedSum(t *testing.T) {
	kw := Keywords{Tags: []string{"family"}, Area: []string{"sea"}, Activity: []string{"rest"}, Vibe: []string{"quiet"}}
	prefs := Preferences{"companion": "family", "area_theme": "mountain", "activity_type": "food", "situation": "quiet"}
	s := ScorePlace(kw, prefs)
	want := WeightBase*s.Base + WeightTopic*s.Topic + WeightDistance*s.Distance
	if s.Total != want {
		t.Errorf("total = %v, want unrounded %v", s.Total, want)
	}
}
