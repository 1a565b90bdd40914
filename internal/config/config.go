package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the complete configuration for the planner binaries. It is
// loaded from a JSON file and then overridden from the environment.
type Config struct {
	Planner   PlannerConfig   `json:"planner"`
	Sandbox   SandboxConfig   `json:"sandbox"`
	Log       LogConfig       `json:"log"`
	WebSocket WebSocketConfig `json:"websocket"`
	Kafka     KafkaConfig     `json:"kafka"`
	Replay    ReplayConfig    `json:"replay"`
}

type PlannerConfig struct {
	// Holding sends aircraft that are waiting for the landing clearance
	// around a circle over the runway instead of along the approach curve.
	Holding bool `json:"holding"`

	// SessionCacheSize bounds how many concurrent games a bridge keeps
	// sessions for.
	SessionCacheSize int `json:"session_cache_size"`

	// SessionTTLSeconds drops a game's session after this long without a tick.
	SessionTTLSeconds int `json:"session_ttl_seconds"`
}

func (p PlannerConfig) SessionTTL() time.Duration {
	return time.Duration(p.SessionTTLSeconds) * time.Second
}

type ObstacleConfig struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type SandboxConfig struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	RunwayX float64 `json:"runway_x"`
	RunwayY float64 `json:"runway_y"`

	// TickRate is simulation ticks per second of wall time.
	TickRate float64 `json:"tick_rate"`

	SpawnIntervalTicks int     `json:"spawn_interval_ticks"`
	MaxAircraft        int     `json:"max_aircraft"`
	Seed               int64   `json:"seed"`
	AircraftSpeed      float64 `json:"aircraft_speed"`
	TurnSpeed          float64 `json:"turn_speed"`
	CollisionRadius    float64 `json:"collision_radius"`

	Obstacles []ObstacleConfig `json:"obstacles"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error, off.
	Level string `json:"level"`

	// File is the rotating log file; empty logs to stdout only.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

type WebSocketConfig struct {
	// URL of the game server to connect to, e.g. ws://localhost:3000/ws
	URL string `json:"url"`

	// ReconnectSeconds is the delay between connection attempts.
	ReconnectSeconds int `json:"reconnect_seconds"`
}

type KafkaConfig struct {
	Brokers        []string `json:"brokers"`
	TickTopic      string   `json:"tick_topic"`
	DecisionTopic  string   `json:"decision_topic"`
	GroupID        string   `json:"group_id"`
	ContentType    string   `json:"content_type"`
	CreateTopics   bool     `json:"create_topics"`
	NumPartitions  int      `json:"num_partitions"`
	ReplicationFac int      `json:"replication_factor"`
}

type ReplayConfig struct {
	// File is where the sandbox records ticks and where replay mode reads
	// them from. Empty disables recording.
	File string `json:"file"`
}

// Load reads configuration from a JSON file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			Holding:           false,
			SessionCacheSize:  64,
			SessionTTLSeconds: 600,
		},
		Sandbox: SandboxConfig{
			Width:              1024,
			Height:             768,
			RunwayX:            512,
			RunwayY:            300,
			TickRate:           10,
			SpawnIntervalTicks: 150,
			MaxAircraft:        5,
			Seed:               1,
			AircraftSpeed:      4,
			TurnSpeed:          3,
			CollisionRadius:    8,
			Obstacles: []ObstacleConfig{
				{MinX: 150, MinY: 450, MaxX: 230, MaxY: 520},
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  32,
			MaxBackups: 1,
			MaxAgeDays: 14,
		},
		WebSocket: WebSocketConfig{
			URL:              "ws://localhost:3000/",
			ReconnectSeconds: 2,
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			TickTopic:      "atc_ticks",
			DecisionTopic:  "atc_waypoints",
			GroupID:        "atc-planner",
			ContentType:    "application/json",
			NumPartitions:  1,
			ReplicationFac: 1,
		},
	}
}

// Validate rejects settings the binaries can't run with.
func (c *Config) Validate() error {
	if c.Sandbox.TickRate <= 0 {
		return fmt.Errorf("sandbox.tick_rate must be positive, got %g", c.Sandbox.TickRate)
	}
	if c.Sandbox.CollisionRadius <= 0 {
		return fmt.Errorf("sandbox.collision_radius must be positive, got %g", c.Sandbox.CollisionRadius)
	}
	if c.Sandbox.RunwayY < 0 || c.Sandbox.RunwayY > c.Sandbox.Height || c.Sandbox.RunwayX < 0 || c.Sandbox.RunwayX > c.Sandbox.Width {
		return fmt.Errorf("sandbox runway (%g, %g) is outside the %gx%g area",
			c.Sandbox.RunwayX, c.Sandbox.RunwayY, c.Sandbox.Width, c.Sandbox.Height)
	}
	if c.Planner.SessionCacheSize <= 0 {
		return fmt.Errorf("planner.session_cache_size must be positive, got %d", c.Planner.SessionCacheSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error, off", c.Log.Level)
	}
	return nil
}

// applyEnvironmentOverrides lets deployments point the bridges elsewhere
// without editing the config file.
func (c *Config) applyEnvironmentOverrides() error {
	if lvl := os.Getenv("ATC_PLANNER_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
	if f := os.Getenv("ATC_PLANNER_LOG_FILE"); f != "" {
		c.Log.File = f
	}
	if u := os.Getenv("ATC_PLANNER_WS_URL"); u != "" {
		c.WebSocket.URL = u
	}
	if b := os.Getenv("ATC_PLANNER_KAFKA_BROKER"); b != "" {
		c.Kafka.Brokers = []string{b}
	}
	if h := os.Getenv("ATC_PLANNER_HOLDING"); h != "" {
		v, err := strconv.ParseBool(h)
		if err != nil {
			return fmt.Errorf("ATC_PLANNER_HOLDING: %w", err)
		}
		c.Planner.Holding = v
	}
	return nil
}
