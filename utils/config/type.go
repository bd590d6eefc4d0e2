package config

// ControlConfig drives the episode loop: how many episodes to run, how
// long each one lasts, and the window in which holding control is
// active. Buses dispatched outside (HoldStart, HoldEnd) never enter the
// holder and are excluded from episode metrics.
type ControlConfig struct {
	Episodes        int      `yaml:"episodes" validate:"gt=0"`
	EpisodeDuration int      `yaml:"episode_duration" validate:"gt=0"` // seconds per episode
	HoldStart       int      `yaml:"hold_start" validate:"gte=0"`
	HoldEnd         int      `yaml:"hold_end" validate:"gtefield=HoldStart"`
	HasSchedule     bool     `yaml:"has_schedule"`
	Seed            uint64   `yaml:"seed"`
	Metrics         []string `yaml:"metrics" validate:"dive,oneof=headway_std schedule_deviation pax_in_vehicle_wait_time pax_out_vehicle_wait_time hold_time queueing_delay"`
}

// PaxConfig describes passenger arrival and service-time processes.
// Board/alight rates are 1/(sampled service time); "normal" samples are
// clamped into [0.1s, 10s].
type PaxConfig struct {
	ArrivalType    string  `yaml:"arrival_type" validate:"oneof=deterministic poisson"`
	BoardTimeMean  float64 `yaml:"board_time_mean" validate:"gt=0"`
	BoardTimeStd   float64 `yaml:"board_time_std" validate:"gte=0"`
	BoardTimeType  string  `yaml:"board_time_type" validate:"oneof=deterministic normal"`
	AlightTimeMean float64 `yaml:"alight_time_mean,omitempty" validate:"gte=0"`
	AlightTimeStd  float64 `yaml:"alight_time_std,omitempty" validate:"gte=0"`
	AlightTimeType string  `yaml:"alight_time_type,omitempty" validate:"omitempty,oneof=deterministic normal"`
}

// ScenarioConfig parameterizes the built-in homogeneous single-route
// corridor: a starting terminal, StopNum identical stops joined by
// identical links, and an ending terminal.
type ScenarioConfig struct {
	Name string `yaml:"name" validate:"oneof=homogeneous"`

	RouteID    string  `yaml:"route_id"`
	StopNum    int     `yaml:"stop_num" validate:"gt=0"`
	BerthNum   int     `yaml:"berth_num" validate:"gt=0"`
	LinkLength float64 `yaml:"link_length" validate:"gt=0"`
	TTMean     float64 `yaml:"tt_mean" validate:"gt=0"` // mean link travel time, seconds
	TTCV       float64 `yaml:"tt_cv" validate:"gte=0"`  // coefficient of variation

	Headway    float64 `yaml:"headway" validate:"gt=0"` // schedule headway, seconds
	HeadwayStd float64 `yaml:"headway_std" validate:"gte=0"`

	// per-second demand rate from every stop to every downstream stop
	ODRate float64 `yaml:"od_rate" validate:"gte=0"`

	QueueRule       string `yaml:"queue_rule" validate:"oneof=FO FIFO"`
	BoardTruncation string `yaml:"board_truncation" validate:"oneof=arrival rtd"`
	IsAlight        bool   `yaml:"is_alight"`

	// stops where buses are held; empty means every stop
	HoldStops []string `yaml:"hold_stops,omitempty"`

	// fixed slack per stop used to build the virtual-bus schedule
	Slack float64 `yaml:"slack" validate:"gte=0"`

	Pax PaxConfig `yaml:"pax"`
}

// AgentConfig selects the external hold-time decision-maker.
type AgentConfig struct {
	Name     string  `yaml:"name" validate:"oneof=do_nothing fixed_hold forward_headway"`
	HoldTime float64 `yaml:"hold_time,omitempty" validate:"gte=0"` // for fixed_hold

	// forward_headway: hold = max(0, alpha*(H-h)) + slack, where h is the
	// elapsed time since the previous bus was ready to depart
	Alpha float64 `yaml:"alpha,omitempty" validate:"gte=0,lte=1"`
	Slack float64 `yaml:"slack,omitempty" validate:"gte=0"`
}

// OutputConfig selects the episode metrics sink. With an empty URI the
// metrics go to the log only.
type OutputConfig struct {
	MongoURI string `yaml:"mongo_uri,omitempty"`
	DB       string `yaml:"db,omitempty"`
	Col      string `yaml:"col,omitempty"`
}

// Config is the root of the YAML configuration file.
type Config struct {
	Control  ControlConfig  `yaml:"control"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Agent    AgentConfig    `yaml:"agent"`
	Output   OutputConfig   `yaml:"output,omitempty"`
}
