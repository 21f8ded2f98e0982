// Package recommend ranks places by how well they fit a user's declared
// travel preferences and explains the fit of previously recommended places.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/metrics"
	"github.com/dukerupert/tourmate/internal/model"
)

// DefaultTopN is how many leading places of a ranking are remembered for
// explanation.
const DefaultTopN = 12

// PreferenceSource loads a user's saved preferences; nil means none saved.
type PreferenceSource interface {
	Get(ctx context.Context, userID int64) (*model.UserPreference, error)
}

// PlaceSource loads a single place; nil means it does not exist.
type PlaceSource interface {
	Get(ctx context.Context, contentID int64) (*model.Place, error)
}

type Engine struct {
	prefs  PreferenceSource
	places PlaceSource
	cache  TopNCache
	topN   int
	logger *slog.Logger
}

func NewEngine(prefs PreferenceSource, places PlaceSource, cache TopNCache, topN int, logger *slog.Logger) *Engine {
	if topN < 1 {
		topN = DefaultTopN
	}
	return &Engine{prefs: prefs, places: places, cache: cache, topN: topN, logger: logger}
}

// RankedPlace is a place with its score. Score is nil when the list was not
// ranked.
type RankedPlace struct {
	model.Place
	Score *Score `json:"score,omitempty"`
}

// Summary describes the preferences a ranking used.
type Summary struct {
	Companion    []string `json:"companion"`
	AreaTheme    []string `json:"area_theme"`
	ActivityType []string `json:"activity_type"`
	Situation    []string `json:"situation"`
	TopN         int      `json:"top_n"`
}

// Explanation answers whether a place was recommended to a user and, if so,
// why.
type Explanation struct {
	Recommended bool      `json:"recommended"`
	Score       *Score    `json:"score,omitempty"`
	Keywords    *Keywords `json:"keywords,omitempty"`
}

func (e *Engine) loadPreferences(ctx context.Context, userID int64) (Preferences, error) {
	up, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if up == nil {
		return nil, nil
	}
	var p Preferences
	if err := json.Unmarshal(up.Preferences, &p); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if p == nil {
		p = Preferences{}
	}
	return p, nil
}

// Rank orders places by descending total score; equal scores keep their
// input order. A user without saved preferences gets the input order back
// with no scores and a nil summary. The leading ids of a ranking replace the
// user's cached top-N set.
func (e *Engine) Rank(ctx context.Context, userID int64, places []model.Place) ([]RankedPlace, *Summary, error) {
	prefs, err := e.loadPreferences(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	out := make([]RankedPlace, len(places))
	if prefs == nil {
		for i, p := range places {
			out[i] = RankedPlace{Place: p}
		}
		return out, nil, nil
	}

	for i, p := range places {
		s := ScorePlace(ProfileOf(p), prefs)
		out[i] = RankedPlace{Place: p, Score: &s}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Total > out[j].Score.Total
	})

	n := min(e.topN, len(out))
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = out[i].ContentID
	}
	if err := e.cache.Put(ctx, userID, ids); err != nil {
		e.logger.Error("store top-n", "error", err, "user_id", userID)
	}
	metrics.RecordRanking()

	return out, summarize(prefs, e.topN), nil
}

// Explain returns the score breakdown of placeID for userID, but only when
// the place is in the user's last cached top-N set.
func (e *Engine) Explain(ctx context.Context, userID, placeID int64) (*Explanation, error) {
	ids, ok, err := e.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok || !containsID(ids, placeID) {
		metrics.RecordExplain(false)
		return &Explanation{Recommended: false}, nil
	}

	place, err := e.places.Get(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, apperr.ErrPlaceNotFound
	}
	prefs, err := e.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		metrics.RecordExplain(false)
		return &Explanation{Recommended: false}, nil
	}

	kw := ProfileOf(*place)
	s := ScorePlace(kw, prefs)
	metrics.RecordExplain(true)
	return &Explanation{Recommended: true, Score: &s, Keywords: &kw}, nil
}

func summarize(p Preferences, topN int) *Summary {
	return &Summary{
		Companion:    declared(p.value(attrCompanion)),
		AreaTheme:    declared(p.value(attrAreaTheme)),
		ActivityType: declared(p.value(attrActivityType)),
		Situation:    declared(p.value(attrSituation)),
		TopN:         topN,
	}
}

// declared flattens a preference value to its non-neutral string entries.
func declared(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		if !neutralValues[t] {
			out = append(out, t)
		}
	case []any:
		for _, e := range t {
			out = append(out, declared(e)...)
		}
	case []string:
		for _, e := range t {
			out = append(out, declared(e)...)
		}
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
