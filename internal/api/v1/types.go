// internal/api/v1/types.go
package v1

import (
	"encoding/json"
	"time"

	"github.com/vmunix/flixcase/internal/catalog"
)

// movieResponse is the API representation of a movie.
type movieResponse struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	MediaPath string             `json:"media_path"`
	ThumbPath string             `json:"thumbnail_path,omitempty"`
	AddedAt   time.Time          `json:"added_at"`
	Position  float64            `json:"position"`
	Duration  float64            `json:"duration"`
	PlayedAt  *time.Time         `json:"played_at,omitempty"`
	Subtitles []subtitleResponse `json:"subtitles"`
}

type subtitleResponse struct {
	Path       string `json:"path,omitempty"`
	Label      string `json:"label"`
	Embedded   bool   `json:"embedded"`
	TrackIndex *int   `json:"track_index,omitempty"`
}

type showResponse struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	ThumbPath    string           `json:"thumbnail_path,omitempty"`
	AddedAt      time.Time        `json:"added_at"`
	SeasonCount  int              `json:"season_count"`
	EpisodeCount int              `json:"episode_count"`
	Seasons      []seasonResponse `json:"seasons,omitempty"`
}

type seasonResponse struct {
	ID       int64             `json:"id"`
	Number   int               `json:"number"`
	AddedAt  time.Time         `json:"added_at"`
	Episodes []episodeResponse `json:"episodes"`
}

type episodeResponse struct {
	ID        int64      `json:"id"`
	SeasonID  int64      `json:"season_id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	MediaPath string     `json:"media_path"`
	Position  float64    `json:"position"`
	Duration  float64    `json:"duration"`
	PlayedAt  *time.Time `json:"played_at,omitempty"`
}

type showTitleResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// resumeItemResponse is one continue-watching entry. Item holds a
// movieResponse or an episodeResponse according to Type.
type resumeItemResponse struct {
	Type                string `json:"type"`
	Title               string `json:"title"`
	Item                any    `json:"item"`
	ParentShowID        int64  `json:"parent_show_id,omitempty"`
	ParentShowTitle     string `json:"parent_show_title,omitempty"`
	ParentShowThumbnail string `json:"parent_show_thumbnail,omitempty"`
	SeasonNumber        int    `json:"season_number,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// playbackRequest is the body of PUT .../playback. Finished resets the
// position to zero, as the player does on reaching the end.
type playbackRequest struct {
	Position *float64 `json:"position"`
	Duration *float64 `json:"duration,omitempty"`
	Finished bool     `json:"finished,omitempty"`
}

type settingRequest struct {
	Value *string `json:"value"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type presetResponse struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	VideoCodec   string `json:"video_codec"`
	Quality      *int   `json:"quality,omitempty"`
	AudioCodec   string `json:"audio_codec"`
	AudioBitrate string `json:"audio_bitrate,omitempty"`
}

type statusResponse struct {
	Status      string  `json:"status"`
	Movies      int     `json:"movies"`
	Shows       int     `json:"shows"`
	LibraryRoot string  `json:"library_root,omitempty"`
	FreeBytes   *uint64 `json:"free_bytes,omitempty"`
	TotalBytes  *uint64 `json:"total_bytes,omitempty"`
}

// eventResponse is the API representation of a persisted import event.
type eventResponse struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Summary    string          `json:"summary"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func movieToResponse(m *catalog.Movie) movieResponse {
	resp := movieResponse{
		ID:        m.ID,
		Title:     m.Title,
		MediaPath: m.MediaPath,
		ThumbPath: m.ThumbPath,
		AddedAt:   m.AddedAt,
		Position:  m.Position,
		Duration:  m.Duration,
		PlayedAt:  m.PlayedAt,
		Subtitles: make([]subtitleResponse, len(m.Subtitles)),
	}
	for i, sub := range m.Subtitles {
		sr := subtitleResponse{Path: sub.Path, Label: sub.Label, Embedded: sub.Embedded}
		if sub.Embedded {
			idx := sub.TrackIndex
			sr.TrackIndex = &idx
		}
		resp.Subtitles[i] = sr
	}
	return resp
}

func showToResponse(sh *catalog.Show) showResponse {
	resp := showResponse{
		ID:           sh.ID,
		Title:        sh.Title,
		ThumbPath:    sh.ThumbPath,
		AddedAt:      sh.AddedAt,
		SeasonCount:  sh.SeasonCount,
		EpisodeCount: sh.EpisodeCount,
	}
	if len(sh.Seasons) == 0 {
		return resp
	}
	resp.SeasonCount, resp.EpisodeCount = len(sh.Seasons), 0
	for _, se := range sh.Seasons {
		sr := seasonResponse{
			ID:       se.ID,
			Number:   se.Number,
			AddedAt:  se.AddedAt,
			Episodes: make([]episodeResponse, len(se.Episodes)),
		}
		for i, ep := range se.Episodes {
			sr.Episodes[i] = episodeToResponse(ep)
		}
		resp.EpisodeCount += len(se.Episodes)
		resp.Seasons = append(resp.Seasons, sr)
	}
	return resp
}

func episodeToResponse(ep *catalog.Episode) episodeResponse {
	return episodeResponse{
		ID:        ep.ID,
		SeasonID:  ep.SeasonID,
		Number:    ep.Number,
		Title:     ep.Title,
		MediaPath: ep.MediaPath,
		Position:  ep.Position,
		Duration:  ep.Duration,
		PlayedAt:  ep.PlayedAt,
	}
}

func resumeToResponse(item catalog.ResumeItem) resumeItemResponse {
	resp := resumeItemResponse{Type: string(item.Kind), Title: item.Title()}
	if item.Kind == catalog.KindMovie {
		resp.Item = movieToResponse(item.Movie)
		return resp
	}
	resp.Item = episodeToResponse(item.Episode)
	resp.ParentShowID = item.ShowID
	resp.ParentShowTitle = item.ShowTitle
	resp.ParentShowThumbnail = item.ShowThumbnail
	resp.SeasonNumber = item.SeasonNumber
	return resp
}
