// Package catalog stores movies, shows, seasons, episodes and playback state.
package catalog

import "time"

// SortKey selects the ordering of movie and show listings.
type SortKey string

const (
	SortDateAdded SortKey = "date"
	SortTitle     SortKey = "title"
)

// ParseSortKey maps user input to a SortKey. Unknown values sort by date added.
func ParseSortKey(s string) SortKey {
	switch s {
	case "title", "name":
		return SortTitle
	default:
		return SortDateAdded
	}
}

// Movie is a single film in the library.
// MediaPath and ThumbPath are relative to the library root with forward slashes.
type Movie struct {
	ID        int64
	Title     string
	MediaPath string
	ThumbPath string
	AddedAt   time.Time
	Position  float64 // seconds
	Duration  float64 // seconds, 0 = not yet observed
	PlayedAt  *time.Time
	Subtitles []Subtitle
}

// Subtitle is an external subtitle file or an embedded track of a movie.
type Subtitle struct {
	ID         int64
	MovieID    int64
	Path       string // empty when embedded
	Label      string
	Embedded   bool
	TrackIndex int // stream index, meaningful only when Embedded
}

// Show is a TV show. Seasons are only populated by GetShow and DeleteShow.
type Show struct {
	ID        int64
	Title     string
	Dir       string // folder under the library root, may be empty for old rows
	ThumbPath string
	AddedAt   time.Time
	Seasons   []*Season

	// Populated by ListShows.
	SeasonCount  int
	EpisodeCount int
}

// Season belongs to a show. Number is at least 1 and unique within the show.
type Season struct {
	ID       int64
	ShowID   int64
	Number   int
	AddedAt  time.Time
	Episodes []*Episode
}

// Episode belongs to a season. Number is at least 1 and unique within the season.
type Episode struct {
	ID        int64
	SeasonID  int64
	Number    int
	Title     string
	MediaPath string
	Position  float64
	Duration  float64
	PlayedAt  *time.Time
}

// ShowTitle is the (id, title) pair used by selection lists.
type ShowTitle struct {
	ID    int64
	Title string
}

// MovieQuery controls ListMovies.
type MovieQuery struct {
	Sort      SortKey
	Ascending bool
	Search    string // case-insensitive substring of the title
}

// ShowQuery controls ListShows.
type ShowQuery struct {
	Sort      SortKey
	Ascending bool
	Search    string
}
