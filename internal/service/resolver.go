package service

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/voyagen/tvstreams/internal/fetcher"
	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/metrics"
	"github.com/voyagen/tvstreams/internal/models"
)

// Fetcher retrieves the raw text body of a URL. Transport failures are
// reported as errors; the resolver treats all of them alike.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// State is the resolver's load state.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateSucceeded
	StateFellBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateSucceeded:
		return "succeeded"
	case StateFellBack:
		return "fell_back"
	default:
		return "unknown"
	}
}

// LoadHook is called after every load with the new snapshot.
type LoadHook func(ctx context.Context, channels []models.Channel, info models.SnapshotInfo)

// snapshot is immutable once published.
type snapshot struct {
	channels []models.Channel
	byID     map[string]models.Channel
	info     models.SnapshotInfo
}

// Resolver loads the channel directory and owns the current snapshot.
// LoadChannels never fails: network and parse failures, and directories
// without valid entries, all resolve to the built-in list.
type Resolver struct {
	fetcher      Fetcher
	directoryURL string
	now          func() time.Time
	hooks        []LoadHook

	current atomic.Pointer[snapshot]
	state   atomic.Int32
	group   singleflight.Group
	log     zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source used for cache busting and load times.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithLoadHook registers h to run after each load.
func WithLoadHook(h LoadHook) Option {
	return func(r *Resolver) { r.hooks = append(r.hooks, h) }
}

// NewResolver returns a Resolver that fetches directoryURL through f.
func NewResolver(f Fetcher, directoryURL string, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:      f,
		directoryURL: directoryURL,
		now:          time.Now,
		log:          tvlog.WithComponent("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadChannels fetches and parses the remote directory, replaces the
// snapshot and returns it. Concurrent calls share one in-flight load.
// The returned list is never empty.
func (r *Resolver) LoadChannels(ctx context.Context) []models.Channel {
	channels, _ := r.Load(ctx)
	return channels
}

// Load is LoadChannels that also returns the metadata of the snapshot the
// list belongs to.
func (r *Resolver) Load(ctx context.Context) ([]models.Channel, models.SnapshotInfo) {
	// The shared load must not be cut short by whichever caller started it.
	v, _, _ := r.group.Do("load", func() (any, error) {
		return r.load(context.WithoutCancel(ctx)), nil
	})
	snap := v.(*snapshot)
	return slices.Clone(snap.channels), snap.info
}

// GetByID looks id up in the current snapshot. It never triggers a load.
func (r *Resolver) GetByID(id string) (models.Channel, bool) {
	snap := r.current.Load()
	if snap == nil {
		return models.Channel{}, false
	}
	ch, ok := snap.byID[id]
	return ch, ok
}

// Snapshot returns the current channel list and its metadata.
// ok is false until the first load completes.
func (r *Resolver) Snapshot() (channels []models.Channel, info models.SnapshotInfo, ok bool) {
	snap := r.current.Load()
	if snap == nil {
		return nil, models.SnapshotInfo{}, false
	}
	return slices.Clone(snap.channels), snap.info, true
}

// State returns the resolver's current load state.
func (r *Resolver) State() State {
	return State(r.state.Load())
}

func (r *Resolver) load(ctx context.Context) *snapshot {
	r.state.Store(int32(StateFetching))
	start := r.now()

	text, err := r.fetcher.FetchText(ctx, fetcher.CacheBust(r.directoryURL, start))
	metrics.ObserveFetch(r.now().Sub(start).Seconds())
	if err != nil {
		return r.fallBack(ctx, "network", err)
	}

	channels, err := fetcher.ParseDirectory(text)
	if err != nil {
		return r.fallBack(ctx, "parse", err)
	}
	if len(channels) == 0 {
		return r.fallBack(ctx, "empty", fetcher.ErrEmptyDirectory)
	}

	r.log.Info().Int("count", len(channels)).Str("url", r.directoryURL).Msg("loaded remote channels")
	return r.publish(ctx, channels, models.SnapshotInfo{
		Source:   models.SourceRemote,
		URL:      r.directoryURL,
		Count:    len(channels),
		LoadedAt: r.now(),
	}, StateSucceeded)
}

func (r *Resolver) fallBack(ctx context.Context, reason string, err error) *snapshot {
	var ne *fetcher.NetworkError
	ev := r.log.Warn().Err(err).Str("reason", reason)
	if errors.As(err, &ne) && ne.StatusCode != 0 {
		ev = ev.Int("status", ne.StatusCode)
	}
	ev.Msg("falling back to built-in channels")
	metrics.RecordFallback(reason)

	channels := DefaultChannels()
	return r.publish(ctx, channels, models.SnapshotInfo{
		Source:   models.SourceFallback,
		Count:    len(channels),
		LoadedAt: r.now(),
		Reason:   err.Error(),
	}, StateFellBack)
}

func (r *Resolver) publish(ctx context.Context, channels []models.Channel, info models.SnapshotInfo, state State) *snapshot {
	byID := make(map[string]models.Channel, len(channels))
	for _, ch := range channels {
		byID[ch.ID] = ch // duplicate ids: last one wins
	}
	snap := &snapshot{channels: channels, byID: byID, info: info}
	r.current.Store(snap)
	r.state.Store(int32(state))
	metrics.RecordLoad(info.Source, len(channels))

	for _, h := range r.hooks {
		h(ctx, slices.Clone(channels), info)
	}
	return snap
}
