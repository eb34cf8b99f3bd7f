package models

import "time"

// SnapshotInfo describes where the resolver's current channel list came from.
type SnapshotInfo struct {
	Source   string    `json:"source"` // SourceRemote or SourceFallback
	URL      string    `json:"url,omitempty"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loaded_at"`
	Reason   string    `json:"reason,omitempty"` // why the fallback list was used
}
