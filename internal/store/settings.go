package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/voyagen/tvstreams/internal/models"
)

// LoadSettings reads all settings from s, applying defaults for unset keys.
func LoadSettings(ctx context.Context, s Store) (models.Settings, error) {
	out := models.DefaultSettings()

	mode, found, err := s.GetSetting(ctx, models.SettingViewMode)
	if err != nil {
		return out, fmt.Errorf("get %s: %w", models.SettingViewMode, err)
	}
	if found && models.ValidViewMode(mode) {
		out.ViewMode = mode
	}

	v, found, err := s.GetSetting(ctx, models.SettingAutoPlay)
	if err != nil {
		return out, fmt.Errorf("get %s: %w", models.SettingAutoPlay, err)
	}
	if found {
		if b, err := strconv.ParseBool(v); err == nil {
			out.AutoPlay = b
		}
	}
	return out, nil
}

// SaveViewMode stores the view mode; mode must be "list" or "grid".
func SaveViewMode(ctx context.Context, s Store, mode string) error {
	if !models.ValidViewMode(mode) {
		return fmt.Errorf("invalid view mode %q (use %s or %s)", mode, models.ViewModeList, models.ViewModeGrid)
	}
	return s.SetSetting(ctx, models.SettingViewMode, mode)
}

// SaveAutoPlay stores the auto-play flag.
func SaveAutoPlay(ctx context.Context, s Store, enabled bool) error {
	return s.SetSetting(ctx, models.SettingAutoPlay, strconv.FormatBool(enabled))
}
