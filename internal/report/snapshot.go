package report

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotPDFKey = "report:stock:snapshot:pdf"
	snapshotAtKey  = "report:stock:snapshot:at"

	// Snapshots are rebuilt nightly; two days of slack covers a missed run.
	snapshotTTL = 48 * time.Hour
)

// ErrNoSnapshot is returned when no report snapshot has been stored yet.
var ErrNoSnapshot = errors.New("report: no snapshot available")

// SnapshotStore keeps the most recent pre-built stock report in Redis so
// the download page can serve it without a backend round trip.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore constructs a SnapshotStore.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// Save replaces the stored snapshot.
func (s *SnapshotStore) Save(ctx context.Context, pdf []byte, at time.Time) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotPDFKey, pdf, snapshotTTL)
	pipe.Set(ctx, snapshotAtKey, at.UTC().Format(time.RFC3339), snapshotTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Latest returns the stored snapshot and its build time.
func (s *SnapshotStore) Latest(ctx context.Context) ([]byte, time.Time, error) {
	pdf, err := s.client.Get(ctx, snapshotPDFKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, ErrNoSnapshot
		}
		return nil, time.Time{}, err
	}
	raw, err := s.client.Get(ctx, snapshotAtKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, time.Time{}, err
	}
	at, _ := time.Parse(time.RFC3339, raw)
	return pdf, at, nil
}
