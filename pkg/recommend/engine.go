// Package recommend turns a user's questionnaire answers into a ranked
// club list by scoring every club's feature vector against the answer
// weights and renormalizing the score spread to a 0-100 scale.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Answer is one (question, choice) pair from the questionnaire, in the
// order the user answered.
type Answer struct {
	QuestionID int64 `json:"question_id"`
	ChoiceID   int64 `json:"choice_id"`
}

// FeatureWeight links one answer choice to one feature's influence on the
// final score. Weights are curated constants, signed, and opaque to the
// engine.
type FeatureWeight struct {
	QuestionID int64   `db:"question_id"`
	ChoiceID   int64   `db:"choice_id"`
	Feature    string  `db:"feature_name"`
	Weight     float64 `db:"weight"`
}

// Club is the read-only feature snapshot the engine scores against.
// Features maps feature name to a value, normalized to [0,1] by the offline
// pipeline; a name missing from the map scores as zero.
type Club struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	ShortName   string             `json:"short_name"`
	Division    int                `json:"division"`
	Location    string             `json:"location"`
	EmblemURL   string             `json:"emblem_url"`
	TeamColor   string             `json:"team_color"`
	WebsiteURL  string             `json:"website_url"`
	Description string             `json:"description"`
	Features    map[string]float64 `json:"features"`
}

// FeatureValue returns the named feature or 0 when the club does not carry
// it. Unknown features are never an error.
func (c Club) FeatureValue(name string) float64 {
	return c.Features[name]
}

// Result is one ranked club with its final 0-100 score.
type Result struct {
	Club  Club    `json:"club"`
	Score float64 `json:"score"`
}

// Store is the read side of persistence the engine needs. Each request
// works on its own snapshot, so concurrent requests need no coordination.
type Store interface {
	ListWeights(ctx context.Context, questionID, choiceID int64) ([]FeatureWeight, error)
	ListClubs(ctx context.Context) ([]Club, error)
}

// Engine computes recommendations. It never mutates club data.
type Engine struct {
	store Store
	topN  int
}

// NewEngine creates an engine returning the top n clubs per request.
func NewEngine(store Store, topN int) *Engine {
	if topN <= 0 {
		topN = 3
	}
	return &Engine{store: store, topN: topN}
}

// Recommend scores every club against the given answers and returns the
// top clubs by final score. Sparse data degrades the ranking, it never
// fails it: zero answers or weights that match no club still produce a
// deterministic result ordered by the store's club ordering.
func (e *Engine) Recommend(ctx context.Context, answers []Answer) ([]Result, error) {
	weights, err := e.collectWeights(ctx, answers)
	if err != nil {
		return nil, err
	}

	clubs, err := e.store.ListClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	results := Rank(clubs, weights, e.topN)
	return results, nil
}

func (e *Engine) collectWeights(ctx context.Context, answers []Answer) (map[string]float64, error) {
	acc := make(map[string]float64)
	for _, a := range answers {
		rows, err := e.store.ListWeights(ctx, a.QuestionID, a.ChoiceID)
		if err != nil {
			return nil, fmt.Errorf("weights for q%d/c%d: %w", a.QuestionID, a.ChoiceID, err)
		}
		for _, w := range rows {
			acc[w.Feature] += w.Weight
		}
	}
	return acc, nil
}

// AggregateWeights accumulates per-feature weights over all answers. A
// feature can be reinforced or counteracted by several answers.
func AggregateWeights(answers []Answer, weights []FeatureWeight) map[string]float64 {
	type pair struct{ q, c int64 }
	byAnswer := make(map[pair][]FeatureWeight)
	for _, w := range weights {
		k := pair{w.QuestionID, w.ChoiceID}
		byAnswer[k] = append(byAnswer[k], w)
	}

	acc := make(map[string]float64)
	for _, a := range answers {
		for _, w := range byAnswer[pair{a.QuestionID, a.ChoiceID}] {
			acc[w.Feature] += w.Weight
		}
	}
	return acc
}

// Rank scores all clubs with the accumulated feature weights, rescales
// the score distribution to 0-100 across the whole candidate set, and
// returns the top n, ties kept in input order.
func Rank(clubs []Club, featureWeights map[string]float64, n int) []Result {
	names := make([]string, 0, len(featureWeights))
	for f := range featureWeights {
		names = append(names, f)
	}
	sort.Strings(names)

	results := make([]Result, len(clubs))
	for i, c := range clubs {
		raw := 0.0
		for _, f := range names {
			raw += featureWeights[f] * c.FeatureValue(f)
		}
		results[i] = Result{Club: c, Score: raw}
	}

	rescale(results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if n > 0 && len(results) > n {
		results = results[:n]
	}
	return results
}

// rescale shifts and scales raw scores in place so the floor is 0 and the
// best club lands at exactly 100. The spread is computed once over the full
// candidate set: a raw score only means something relative to the others.
// When every club ties at zero there is nothing to scale and all scores
// stay 0.
func rescale(results []Result) {
	if len(results) == 0 {
		return
	}

	min, max := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < min {
			min = r.Score
		}
		if r.Score > max {
			max = r.Score
		}
	}

	if min < 0 {
		for i := range results {
			results[i].Score -= min
		}
		max -= min
	}

	if max > 0 {
		for i := range results {
			results[i].Score = round1(results[i].Score * 100 / max)
		}
		return
	}
	for i := range results {
		results[i].Score = 0
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
