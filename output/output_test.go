package output_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/output"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

func TestNewDefaultsToLogSink(t *testing.T) {
	sink, err := output.New(context.Background(), config.OutputConfig{})
	assert.Nil(t, err)
	assert.IsType(t, &output.LogSink{}, sink)
}

func TestLogSinkWriteEpisode(t *testing.T) {
	sink := &output.LogSink{}
	rec := output.EpisodeRecord{
		Episode: 1,
		Metrics: map[string]float64{"route-R1's arrival_headway_std": 12.5},
		RouteTripTimes: map[string][]output.TripTime{
			"R1": {{DispatchTime: 300, Duration: 242}},
		},
	}
	assert.Nil(t, sink.WriteEpisode(context.Background(), rec))
	assert.Nil(t, sink.Close(context.Background()))
}
