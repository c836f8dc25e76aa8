// Package match associates tracked media entries with local folder and file
// names using fuzzy title similarity.
package match

import (
	"context"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mondohq/mondo/internal/logging"
)

// Match is the result of comparing a query against a candidate list.
type Match struct {
	Target      string
	TargetIndex int
	Rating      float64
}

// Media is one tracked watch-list entry as seen by the match engine.
type Media struct {
	ID                int
	TitlesAndSynonyms []string
}

// WatchListSource supplies the media the user is currently watching.
// Implementations must return fresh data; matching should never run against
// a stale list.
type WatchListSource interface {
	Watching(ctx context.Context) ([]Media, error)
}

// DefaultThreshold is the minimum rating a candidate must exceed to be
// accepted. Ratings at exactly the threshold are rejected.
const DefaultThreshold = 0.5

// diceMetric is the bigram Sørensen–Dice coefficient, the same similarity
// measure the matcher has always used for release names.
var diceMetric = &metrics.SorensenDice{CaseSensitive: true, NgramSize: 2}

// upper folds titles for comparison; release names mix casing freely.
var upper = cases.Upper(language.Und)

// BestMatch returns the highest-rated candidate for query. Ties are broken
// by encounter order: the first candidate reaching the best rating wins.
// An empty candidate list yields TargetIndex -1 and rating 0.
func BestMatch(query string, candidates []string) Match {
	return bestMatch(query, candidates, nil)
}

func bestMatch(query string, candidates []string, skip map[int]bool) Match {
	best := Match{TargetIndex: -1}
	for i, candidate := range candidates {
		if skip[i] {
			continue
		}
		rating := strutil.Similarity(query, candidate, diceMetric)
		if best.TargetIndex == -1 || rating > best.Rating {
			best = Match{Target: candidate, TargetIndex: i, Rating: rating}
		}
	}
	return best
}

// Engine matches scanned folders and files against the watch-list.
type Engine struct {
	source    WatchListSource
	threshold float64
	logger    *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a match engine reading from source.
func NewEngine(source WatchListSource, opts ...Option) *Engine {
	e := &Engine{
		source:    source,
		threshold: DefaultThreshold,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MatchFolders associates subfolder names with watching media. The result
// maps media id to the index of the winning name in folderNames.
//
// Media entries are processed in ascending id order and an index claimed by
// one media is never reassigned to a later one, so the outcome is
// deterministic regardless of the order the watch-list arrives in.
func (e *Engine) MatchFolders(ctx context.Context, folderNames []string) (map[int]int, error) {
	watching, err := e.source.Watching(ctx)
	if err != nil {
		return nil, err
	}

	folded := foldAll(folderNames)
	claimed := make(map[int]bool)
	matched := make(map[int]int)

	for _, media := range sortByID(watching) {
		best := Match{TargetIndex: -1}
		for _, title := range dedup(media.TitlesAndSynonyms) {
			m := bestMatch(upper.String(title), folded, claimed)
			if m.TargetIndex == -1 {
				continue
			}
			if best.TargetIndex == -1 || m.Rating > best.Rating {
				best = m
			}
		}

		if best.TargetIndex == -1 || best.Rating <= e.threshold {
			continue
		}

		matched[media.ID] = best.TargetIndex
		claimed[best.TargetIndex] = true
		e.logger.Debug("match", "folder matched",
			logging.F("media_id", media.ID),
			logging.F("folder", folderNames[best.TargetIndex]),
			logging.F("rating", best.Rating))
	}

	return matched, nil
}

// MatchRootFiles associates parsed file titles with watching media and
// returns the sorted set of media ids that found a file. A root folder with
// flat files normally holds episodes of exactly one media, but related
// specials can push the set past one element.
func (e *Engine) MatchRootFiles(ctx context.Context, fileTitles []string) ([]int, error) {
	watching, err := e.source.Watching(ctx)
	if err != nil {
		return nil, err
	}

	folded := foldAll(fileTitles)
	var ids []int

	for _, media := range sortByID(watching) {
		best := Match{TargetIndex: -1}
		for _, title := range dedup(media.TitlesAndSynonyms) {
			m := bestMatch(upper.String(title), folded, nil)
			if m.TargetIndex == -1 {
				continue
			}
			if best.TargetIndex == -1 || m.Rating > best.Rating {
				best = m
			}
		}

		if best.TargetIndex != -1 && best.Rating > e.threshold {
			ids = append(ids, media.ID)
		}
	}

	sort.Ints(ids)
	return ids, nil
}

// RankByTitles re-ranks candidate titles against a media's known titles and
// returns the index of the best overall candidate, used to pick between
// duplicate episode releases.
func RankByTitles(candidates []string, titles []string) int {
	bestIdx := -1
	bestRating := -1.0
	folded := foldAll(candidates)

	for _, title := range dedup(titles) {
		m := bestMatch(upper.String(title), folded, nil)
		if m.TargetIndex != -1 && m.Rating > bestRating {
			bestRating = m.Rating
			bestIdx = m.TargetIndex
		}
	}

	return bestIdx
}

func foldAll(names []string) []string {
	folded := make([]string, len(names))
	for i, name := range names {
		folded[i] = upper.String(name)
	}
	return folded
}

func sortByID(media []Media) []Media {
	sorted := make([]Media, len(media))
	copy(sorted, media)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func dedup(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	var out []string
	for _, t := range titles {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
