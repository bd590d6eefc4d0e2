package output

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

// MongoSink appends one document per episode to the configured
// collection.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoSink(ctx context.Context, cfg config.OutputConfig) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.MongoURI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.MongoURI, err)
	}
	log.Infof("episode records go to %s.%s", cfg.DB, cfg.Col)
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.DB).Collection(cfg.Col),
	}, nil
}

func (s *MongoSink) WriteEpisode(ctx context.Context, rec EpisodeRecord) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert episode %d: %w", rec.Episode, err)
	}
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
