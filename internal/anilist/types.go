package anilist

// Media list statuses as AniList names them.
const (
	StatusCurrent   = "CURRENT"
	StatusPlanning  = "PLANNING"
	StatusCompleted = "COMPLETED"
	StatusDropped   = "DROPPED"
	StatusPaused    = "PAUSED"
	StatusRepeating = "REPEATING"
)

// Title carries the three title variants AniList tracks per media.
type Title struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
	Native  string `json:"native"`
}

// MediaData describes one anime.
type MediaData struct {
	ID       int      `json:"id"`
	Title    Title    `json:"title"`
	Synonyms []string `json:"synonyms"`
	Episodes int      `json:"episodes"`
}

// ListEntry is one entry on the user's anime list.
type ListEntry struct {
	Status    string    `json:"status"`
	Score     float64   `json:"score"`
	Progress  int       `json:"progress"`
	UpdatedAt int64     `json:"updatedAt"`
	Media     MediaData `json:"media"`
}

// TitlesAndSynonyms flattens every non-empty title variant and synonym into
// one deduplicated list, the shape the fuzzy matcher consumes.
func (m MediaData) TitlesAndSynonyms() []string {
	raw := append([]string{m.Title.English, m.Title.Romaji, m.Title.Native}, m.Synonyms...)

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, t := range raw {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
