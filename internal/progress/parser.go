package progress

import (
	"strconv"
	"strings"
)

// Classifier maps a raw output line to an Event
type Classifier interface {
	Classify(line string) Event
}

// Substrings matched against spotdl output
const (
	FoundMarker    = "Found"
	SongsMarker    = "songs"
	DownloadedWord = "Downloaded"
	SkippingWord   = "Skipping"
)

// SpotDLClassifier recognises the phrasing of spotdl's console log:
//
//	Found 42 songs in My Playlist (Playlist)
//	Downloaded "Artist - Title": https://music.youtube.com/watch?v=...
//	Skipping Artist - Title (file already exists) (duplicate)
type SpotDLClassifier struct{}

// NewSpotDLClassifier creates a new classifier for spotdl output
func NewSpotDLClassifier() Classifier {
	return SpotDLClassifier{}
}

// Classify implements Classifier
func (SpotDLClassifier) Classify(line string) Event {
	if strings.Contains(line, FoundMarker) && strings.Contains(line, SongsMarker) {
		if n, ok := parseFoundCount(line); ok {
			return Event{Kind: KindTotalFound, Line: line, Total: n}
		}
		return Event{Kind: KindGeneric, Line: line}
	}

	if strings.Contains(line, DownloadedWord) || strings.Contains(line, SkippingWord) {
		return Event{Kind: KindItemDone, Line: line}
	}

	return Event{Kind: KindGeneric, Line: line}
}

// parseFoundCount reads N from the second whitespace-delimited token
func parseFoundCount(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
