package models

// View modes for the channel list.
const (
	ViewModeList = "list"
	ViewModeGrid = "grid"
)

// Settings keys as persisted in the key-value store.
const (
	SettingViewMode = "view_mode"
	SettingAutoPlay = "auto_play"
)

// Snapshot sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)
