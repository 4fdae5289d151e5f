package events

import (
	"fmt"
	"strings"
)

// Import event types.
const (
	EventImportStarted       = "import.started"
	EventImportProgressed    = "import.progressed"
	EventImportItemCommitted = "import.item_committed"
	EventImportItemSkipped   = "import.item_skipped"
	EventImportCompleted     = "import.completed"
	EventImportFailed        = "import.failed"
	EventImportCancelled     = "import.cancelled"
)

// Import kinds.
const (
	KindMovie  = "movie"
	KindSeason = "season"
)

// Operation identifies the import run an event belongs to.
type Operation struct {
	OperationID string `json:"operation_id"`
	Kind        string `json:"kind"` // KindMovie or KindSeason
}

// Summarizer is implemented by events that can describe themselves in one line.
type Summarizer interface {
	Summary() string
}

// ImportStarted is emitted before any file is written.
type ImportStarted struct {
	BaseEvent
	Operation
	Title      string `json:"title"`
	Season     int    `json:"season,omitempty"`
	TotalItems int    `json:"total_items"`
	Preset     string `json:"preset"`
}

func (e *ImportStarted) Summary() string {
	if e.Kind == KindSeason {
		return fmt.Sprintf("importing %s season %d (%d files, preset %s)", e.Title, e.Season, e.TotalItems, e.Preset)
	}
	return fmt.Sprintf("importing %s (preset %s)", e.Title, e.Preset)
}

// ImportProgressed reports overall progress. It is not persisted.
type ImportProgressed struct {
	BaseEvent
	Operation
	ItemIndex  int     `json:"item_index"` // 0-based
	TotalItems int     `json:"total_items"`
	Stage      string  `json:"stage"`
	Percent    float64 `json:"percent"` // overall; < 0 when indeterminate
}

func (e *ImportProgressed) Ephemeral() bool { return true }

func (e *ImportProgressed) Summary() string {
	if e.Percent < 0 {
		return fmt.Sprintf("item %d/%d %s", e.ItemIndex+1, e.TotalItems, e.Stage)
	}
	return fmt.Sprintf("item %d/%d %s %.1f%%", e.ItemIndex+1, e.TotalItems, e.Stage, e.Percent)
}

// ImportItemCommitted is emitted after a movie or episode row is written.
// EntityID is the movie or show ID.
type ImportItemCommitted struct {
	BaseEvent
	Operation
	ItemIndex int    `json:"item_index"`
	Source    string `json:"source"`
	MediaPath string `json:"media_path"`
	EpisodeID int64  `json:"episode_id,omitempty"`
	Episode   int    `json:"episode,omitempty"`
}

func (e *ImportItemCommitted) Summary() string {
	if e.Kind == KindSeason {
		return fmt.Sprintf("episode %d committed as %s", e.Episode, e.MediaPath)
	}
	return "movie committed as " + e.MediaPath
}

// ImportItemSkipped is emitted when one episode of a batch fails.
type ImportItemSkipped struct {
	BaseEvent
	Operation
	ItemIndex int    `json:"item_index"`
	Source    string `json:"source"`
	Episode   int    `json:"episode"`
	Reason    string `json:"reason"`
}

func (e *ImportItemSkipped) Summary() string {
	return fmt.Sprintf("episode %d skipped (%s): %s", e.Episode, e.Source, e.Reason)
}

// ImportCompleted is emitted when an import ends without a fatal error,
// including batches where every item was skipped.
type ImportCompleted struct {
	BaseEvent
	Operation
	Committed []ItemOutcome `json:"committed,omitempty"`
	Skipped   []ItemOutcome `json:"skipped,omitempty"`
}

// ItemOutcome is the per-file result recorded on ImportCompleted.
type ItemOutcome struct {
	Source    string `json:"source"`
	Episode   int    `json:"episode,omitempty"`
	MediaPath string `json:"media_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AllSucceeded reports whether no item was skipped.
func (e *ImportCompleted) AllSucceeded() bool { return len(e.Skipped) == 0 }

func (e *ImportCompleted) Summary() string {
	if e.Kind == KindMovie {
		return "movie import complete"
	}
	s := fmt.Sprintf("season import complete: %d committed, %d skipped", len(e.Committed), len(e.Skipped))
	if len(e.Skipped) > 0 {
		eps := make([]string, len(e.Skipped))
		for i, o := range e.Skipped {
			eps[i] = fmt.Sprint(o.Episode)
		}
		s += " (episodes " + strings.Join(eps, ", ") + ")"
	}
	return s
}

// ImportFailed is emitted when an import aborts. Committed items of a
// season batch stay in the catalog.
type ImportFailed struct {
	BaseEvent
	Operation
	Reason    string `json:"reason"`
	Committed int    `json:"committed"`
}

func (e *ImportFailed) Summary() string { return "import failed: " + e.Reason }

// ImportCancelled is emitted when the user stops an import.
type ImportCancelled struct {
	BaseEvent
	Operation
	Committed int `json:"committed"`
}

func (e *ImportCancelled) Summary() string {
	return fmt.Sprintf("import cancelled after %d committed item(s)", e.Committed)
}
