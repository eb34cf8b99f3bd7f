package playlist

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/models"
)

// Export atomically replaces the file at path with the M3U rendering of channels.
func Export(path string, channels []models.Channel) error {
	logger := tvlog.WithComponent("playlist")
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending playlist: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending playlist")
		}
	}()

	if err := WriteM3U(pending, channels); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace playlist: %w", err)
	}
	return nil
}

// ExportHook returns a resolver load hook that writes every new snapshot to path.
// Failures are logged; they never affect the load.
func ExportHook(path string) func(context.Context, []models.Channel, models.SnapshotInfo) {
	logger := tvlog.WithComponent("playlist")
	return func(_ context.Context, channels []models.Channel, info models.SnapshotInfo) {
		if err := Export(path, channels); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("export playlist")
			return
		}
		logger.Info().Str("path", path).Int("count", len(channels)).Str("source", info.Source).Msg("playlist exported")
	}
}
