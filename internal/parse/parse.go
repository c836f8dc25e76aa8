// Package parse extracts a best-guess media title and episode number from
// loose release-style filenames, e.g.
//
//	"[SubGroup] Cool Show - 05 [1080p][A1B2C3D4].mkv" -> {"Cool Show", 5}
//	"Cool.Show.S01E05.WEB-DL.x264.mkv"               -> {"Cool Show", 5}
//	"Cool Show Movie (2019).mkv"                     -> {"Cool Show Movie (2019)", nil}
//
// Files without a recognizable episode marker keep a nil episode; they may be
// movies or single-episode specials and are disambiguated by title later.
package parse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Parsed holds the structured metadata extracted from one filename.
type Parsed struct {
	Title   string
	Episode *int
}

var (
	bracketRegex        = regexp.MustCompile(`\[[^\]]*\]`)
	collapseSpacesRegex = regexp.MustCompile(`\s+`)

	// Episode markers, tried in order of reliability.
	episodeSERegex      = regexp.MustCompile(`(?i)\bS(\d{1,2})[\s.]?E(\d{1,4})\b`)
	episodeXRegex       = regexp.MustCompile(`\b(\d{1,2})x(\d{1,4})\b`)
	episodeWordRegex    = regexp.MustCompile(`(?i)\b(?:ep|episode)[\s.]*(\d{1,4})\b`)
	episodeDashRegex    = regexp.MustCompile(`\s-\s*(\d{1,4})(?:\s*(?:v\d+|END))?\s*$`)
	episodeTrailerRegex = regexp.MustCompile(`\s(\d{1,4})\s*$`)

	releasePatterns []*regexp.Regexp
)

func init() {
	patterns := []string{
		`\b\d{3,4}[pi]\b`,
		`\b(4K|UHD)\b`,
		`\b(HDR10\+?|HDR|DoVi|DV|HLG)\b`,
		`\b(BluRay|Blu-ray|BDRip|BD|REMUX|WEB-DL|WEBDL|WEBRip|WEB|HDTV|DVDRip|DVD)\b`,
		`\b(x264|x265|HEVC|AVC|AV1|H\.?264|H\.?265)\b`,
		`\b(FLAC|AAC|AC3|EAC3|DDP?|Opus|DTS)\b`,
		`\b\d+bit\b`,
		`\b(DUAL|MULTI|DUB|DUBBED|SUB|SUBS|SUBBED)\b`,
		`\b(PROPER|REPACK|UNCENSORED|LIMITED|EXTENDED)\b`,
		`\bv\d+\b`,
	}

	releasePatterns = make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		releasePatterns = append(releasePatterns, regexp.MustCompile(`(?i)`+pattern))
	}
}

// videoExts is the extension allow-list shared with the folder scanner.
var videoExts = map[string]bool{
	".mkv": true,
	".mp4": true,
	".avi": true,
}

// IsVideoFile reports whether name carries a recognized video extension.
func IsVideoFile(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}

// Parse extracts title and episode number from a file or folder name.
func Parse(name string) Parsed {
	base := name
	if IsVideoFile(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	// Bracketed runs hold group names, resolutions and checksums, never the
	// title or the episode marker.
	base = bracketRegex.ReplaceAllString(base, " ")

	// Dot- and underscore-separated names carry no real spaces.
	if !strings.Contains(strings.TrimSpace(base), " ") {
		base = strings.ReplaceAll(base, ".", " ")
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = collapseSpaces(base)

	episode, title := extractEpisode(base)

	title = stripReleaseMarkers(title)
	title = strings.Trim(title, " -")
	title = collapseSpaces(title)

	return Parsed{Title: title, Episode: episode}
}

// extractEpisode finds the episode marker and returns the episode number and
// the part of the name that precedes it.
func extractEpisode(name string) (*int, string) {
	if m := episodeSERegex.FindStringSubmatchIndex(name); m != nil {
		if ep, err := strconv.Atoi(name[m[4]:m[5]]); err == nil {
			return &ep, name[:m[0]]
		}
	}

	if m := episodeWordRegex.FindStringSubmatchIndex(name); m != nil {
		if ep, err := strconv.Atoi(name[m[2]:m[3]]); err == nil {
			return &ep, name[:m[0]]
		}
	}

	if m := episodeXRegex.FindStringSubmatchIndex(name); m != nil {
		if ep, err := strconv.Atoi(name[m[4]:m[5]]); err == nil {
			return &ep, name[:m[0]]
		}
	}

	if m := episodeDashRegex.FindStringSubmatchIndex(name); m != nil {
		if ep, err := strconv.Atoi(name[m[2]:m[3]]); err == nil {
			return &ep, name[:m[0]]
		}
	}

	// A trailing bare number only counts when something precedes it,
	// otherwise "86" (the title) would lose its name to its episode.
	if m := episodeTrailerRegex.FindStringSubmatchIndex(name); m != nil {
		prefix := strings.TrimSpace(name[:m[0]])
		if prefix != "" && !looksLikeYear(name[m[2]:m[3]]) {
			if ep, err := strconv.Atoi(name[m[2]:m[3]]); err == nil {
				return &ep, name[:m[0]]
			}
		}
	}

	return nil, name
}

func looksLikeYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	return s >= "1900" && s <= "2099"
}

func stripReleaseMarkers(name string) string {
	for _, re := range releasePatterns {
		name = re.ReplaceAllString(name, " ")
	}
	return name
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(collapseSpacesRegex.ReplaceAllString(s, " "))
}
