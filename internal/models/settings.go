package models

// Settings holds user preferences.
type Settings struct {
	ViewMode string `json:"view_mode"`
	AutoPlay bool   `json:"auto_play"`
}

// DefaultSettings returns the settings used when nothing has been stored.
func DefaultSettings() Settings {
	return Settings{ViewMode: ViewModeList, AutoPlay: true}
}

// ValidViewMode reports whether mode is a known view mode.
func ValidViewMode(mode string) bool {
	return mode == ViewModeList || mode == ViewModeGrid
}
