// Package output persists end-of-episode results. The default sink
// prints through the structured logger; a MongoDB sink is selected when
// the configuration carries a connection URI.
package output

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

var log = logrus.WithField("module", "output")

// TripTime is one completed bus trip: when the bus left the terminal
// and how long the full run took.
type TripTime struct {
	DispatchTime int `bson:"dispatch_time"`
	Duration     int `bson:"duration"`
}

// EpisodeRecord is everything persisted for one finished episode.
type EpisodeRecord struct {
	Episode        int                   `bson:"episode"`
	Metrics        map[string]float64    `bson:"metrics"`
	RouteTripTimes map[string][]TripTime `bson:"route_trip_times"`
}

type Sink interface {
	WriteEpisode(ctx context.Context, rec EpisodeRecord) error
	Close(ctx context.Context) error
}

// New selects the sink for the given configuration.
func New(ctx context.Context, cfg config.OutputConfig) (Sink, error) {
	if cfg.MongoURI == "" {
		return &LogSink{}, nil
	}
	return NewMongoSink(ctx, cfg)
}

// LogSink prints the episode metrics through the logger.
type LogSink struct{}

func (s *LogSink) WriteEpisode(ctx context.Context, rec EpisodeRecord) error {
	names := make([]string, 0, len(rec.Metrics))
	for name := range rec.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Infof("episode %d: %s = %.2f", rec.Episode, name, rec.Metrics[name])
	}
	return nil
}

func (s *LogSink) Close(ctx context.Context) error { return nil }
