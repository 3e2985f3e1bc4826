package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// SnapshotWatcher pushes full-collection snapshots of active listings into
// the feed store. It prefers MongoDB change streams (each change triggers a
// full reload, mirroring a push-based snapshot listener) and falls back to
// interval polling when change streams are unavailable, e.g. on a
// standalone server without an oplog.
//
// Delivery errors are logged and leave the previous snapshot in place;
// the store never sees a partial update.
type SnapshotWatcher struct {
	repo         *ListingRepository
	store        *feed.Store
	logger       *logger.Logger
	pollInterval time.Duration
}

func NewSnapshotWatcher(repo *ListingRepository, store *feed.Store, pollInterval time.Duration, log *logger.Logger) *SnapshotWatcher {
	return &SnapshotWatcher{
		repo:         repo,
		store:        store,
		logger:       log,
		pollInterval: pollInterval,
	}
}

// Run blocks until ctx is cancelled.
func (w *SnapshotWatcher) Run(ctx context.Context) {
	w.reload(ctx)

	stream, err := w.repo.Collection().Watch(ctx, mongo.Pipeline{})
	if err != nil {
		w.logger.Warn("change streams unavailable, falling back to polling",
			zap.Duration("interval", w.pollInterval), zap.Error(err))
		w.poll(ctx)
		return
	}
	defer stream.Close(ctx)

	w.logger.Info("listing snapshot watcher started on change stream")
	for stream.Next(ctx) {
		w.reload(ctx)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		w.logger.Warn("change stream closed, falling back to polling", zap.Error(err))
		w.poll(ctx)
	}
}

func (w *SnapshotWatcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reload(ctx)
		}
	}
}

func (w *SnapshotWatcher) reload(ctx context.Context) {
	listings, err := w.repo.FindActive(ctx)
	if err != nil {
		// Stale-but-available: keep serving the previous snapshot.
		w.logger.Warn("failed to load listing snapshot", zap.Error(err))
		return
	}
	w.store.Replace(listings)
	w.logger.Debug("listing snapshot replaced", zap.Int("count", len(listings)))
}
