package titles

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	seasonEpisodeMarker = regexp.MustCompile(`[Ss]\d+[Ee]\d+`)
	crossMarker         = regexp.MustCompile(`\d+[xX]\d+`)
	bracketedTag        = regexp.MustCompile(`[\[\(].*?[\]\)]`)
	whitespace          = regexp.MustCompile(`\s+`)
)

// EpisodeTitle guesses an episode title from a file name.
// "Show.S01E02.The.Pilot.[1080p].mkv" becomes "Show The Pilot".
// The result may be empty.
func EpisodeTitle(filename string) string {
	name := stem(filename)
	name = strings.NewReplacer(".", " ", "_", " ").Replace(name)
	name = seasonEpisodeMarker.ReplaceAllString(name, "")
	name = crossMarker.ReplaceAllString(name, "")
	name = bracketedTag.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	return strings.Trim(name, " -")
}

// FromFilename derives a default movie title from its file name by turning
// dots, underscores and hyphens into spaces.
func FromFilename(filename string) string {
	name := strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(stem(filename))
	return strings.Join(strings.Fields(name), " ")
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
