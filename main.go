package main

import (
	"context"
	"encoding/base64"
	"flag"
	"sort"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/agent"
	"github.com/transit-control-lab/buscorridor-sim/clock"
	"github.com/transit-control-lab/buscorridor-sim/output"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

var (
	configPath = flag.String("config", "", "config file path")
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (one of: trace debug info warn error critical off)")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else if *configData != "" {
		var data []byte
		data, err = base64.StdEncoding.DecodeString(*configData)
		if err == nil {
			cfg, err = config.Parse(data)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err != nil {
		log.Panicf("config load err: %v", err)
	}

	blueprint := setup.NewHomogeneousBlueprint(cfg.Scenario)
	holdAgent, err := agent.New(cfg.Agent, blueprint)
	if err != nil {
		log.Panicf("agent init err: %v", err)
	}

	ctx := context.Background()
	sink, err := output.New(ctx, cfg.Output)
	if err != nil {
		log.Panicf("output init err: %v", err)
	}
	defer sink.Close(ctx)

	log.Infof("running %d episode(s) of %ds with agent %s",
		cfg.Control.Episodes, cfg.Control.EpisodeDuration, holdAgent.Name())

	episodeMetrics := make(map[string][]float64)
	for episode := 0; episode < cfg.Control.Episodes; episode++ {
		holdAgent.Reset(episode)
		metrics := runEpisode(ctx, episode, blueprint, holdAgent, &cfg, sink)
		for name, value := range metrics {
			episodeMetrics[name] = append(episodeMetrics[name], value)
		}
	}

	names := make([]string, 0, len(episodeMetrics))
	for name := range episodeMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m, err := stats.Mean(episodeMetrics[name])
		if err != nil {
			log.Panicf("averaging %s across episodes: %v", name, err)
		}
		log.Infof("across %d episode(s): %s = %.2f", cfg.Control.Episodes, name, m)
	}
}

// runEpisode drives one full episode: every tick the simulator applies
// the previous decision, advances the system, and the agent decides the
// holds for the buses that became ready this tick.
func runEpisode(ctx context.Context, episode int, blueprint *setup.Blueprint,
	holdAgent agent.Agent, cfg *config.Config, sink output.Sink) map[string]float64 {
	engine := randengine.New(cfg.Control.Seed + uint64(episode))
	sim := simulator.New(blueprint, cfg, nil, engine)
	clk := clock.New(cfg.Control.EpisodeDuration)

	holdAction := make(map[snapshot.HoldKey]float64)
	for !clk.Done() {
		snap := sim.Step(clk.T, holdAction)
		holdAction = holdAgent.CalculateHoldTime(snap)
		snap.RecordHoldingTime(holdAction)

		if clk.T > 0 && clk.T%3600 == 0 {
			log.Debugf("episode %d: simulated %s", episode, clk)
		}
		clk.Tick()
	}

	metrics, routeTripTimes := sim.Metrics()
	rec := output.EpisodeRecord{
		Episode:        episode,
		Metrics:        metrics,
		RouteTripTimes: make(map[string][]output.TripTime),
	}
	for routeID, tripTimes := range routeTripTimes {
		dispatchTimes := make([]int, 0, len(tripTimes))
		for dispatchTime := range tripTimes {
			dispatchTimes = append(dispatchTimes, dispatchTime)
		}
		sort.Ints(dispatchTimes)
		for _, dispatchTime := range dispatchTimes {
			rec.RouteTripTimes[routeID] = append(rec.RouteTripTimes[routeID], output.TripTime{
				DispatchTime: dispatchTime,
				Duration:     tripTimes[dispatchTime],
			})
		}
	}
	if err := sink.WriteEpisode(ctx, rec); err != nil {
		log.Errorf("episode %d: writing record: %v", episode, err)
	}
	return metrics
}
