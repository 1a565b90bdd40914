package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atc-planner/internal/config"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/game/simulation"
	"atc-planner/internal/logging"
	"atc-planner/internal/replay"
	"atc-planner/internal/transport/kafkabridge"
	"atc-planner/internal/transport/wsbridge"
	"atc-planner/internal/wire"

	"github.com/labstack/gommon/log"
)

func main() {
	configPath := flag.String("config", "atc-planner.json", "path to the JSON config file")
	mode := flag.String("mode", "ws", "one of ws, kafka, sandbox, replay")
	ticks := flag.Int("ticks", 0, "sandbox: stop after this many ticks (0 runs until interrupted)")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	out := logging.NewOutput(cfg.Log)
	defer out.Close()
	logger := out.Logger("atc-planner")
	p := planner.New(planner.Options{Holding: cfg.Planner.Holding}, out.Logger("planner"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "ws":
		err = runWebSocket(ctx, cfg, p, out, logger)
	case "kafka":
		err = runKafka(ctx, cfg, p, out, logger)
	case "sandbox":
		err = runSandbox(ctx, cfg, p, out, logger, *ticks)
	case "replay":
		err = runReplay(cfg, p, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("%s: %v", *mode, err)
		cancel()
		out.Close()
		os.Exit(1)
	}
	logger.Info("Shutting down")
}

func runWebSocket(ctx context.Context, cfg *config.Config, p *planner.Planner, out *logging.Output, logger *log.Logger) error {
	b := wsbridge.New(cfg.WebSocket.URL, time.Duration(cfg.WebSocket.ReconnectSeconds)*time.Second, p, out.Logger("wsbridge"))
	logger.Infof("Planning for game server at %s", cfg.WebSocket.URL)
	return b.Run(ctx)
}

func runKafka(ctx context.Context, cfg *config.Config, p *planner.Planner, out *logging.Output, logger *log.Logger) error {
	if cfg.Kafka.CreateTopics {
		if err := kafkabridge.CreateTopics(cfg.Kafka); err != nil {
			return fmt.Errorf("create topics: %w", err)
		}
	}
	codec, err := wire.Lookup(cfg.Kafka.ContentType)
	if err != nil {
		return err
	}

	b := kafkabridge.New(kafkabridge.NewReader(cfg.Kafka), kafkabridge.NewWriter(cfg.Kafka), codec, p, cfg.Planner, out.Logger("kafkabridge"))
	defer b.Close()
	logger.Infof("Consuming ticks from %s on %v, publishing to %s", cfg.Kafka.TickTopic, cfg.Kafka.Brokers, cfg.Kafka.DecisionTopic)
	return b.Run(ctx)
}

func runSandbox(ctx context.Context, cfg *config.Config, p *planner.Planner, out *logging.Output, logger *log.Logger, ticks int) error {
	sim := simulation.NewSimulation(cfg.Sandbox, p, out.Logger("simulation"))
	if cfg.Replay.File != "" {
		w, err := replay.Create(cfg.Replay.File)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Errorf("closing recording: %v", err)
			}
		}()
		sim.Record(w)
		logger.Infof("Recording ticks to %s", cfg.Replay.File)
	}

	sim.SpawnRandomAircraft()
	err := sim.Run(ctx, ticks)

	v, verr := sim.View()
	if verr == nil {
		logger.Infof("Sandbox stopped after %d ticks: %d landed, %d left the airspace, %d conflicts",
			v.Ticks, v.Landings, v.Departures, v.Conflicts)
	}
	return err
}

func runReplay(cfg *config.Config, p *planner.Planner, logger *log.Logger) error {
	if cfg.Replay.File == "" {
		return errors.New("replay.file is not set")
	}
	r, err := replay.Open(cfg.Replay.File)
	if err != nil {
		return err
	}
	defer r.Close()

	n, mismatches, err := replay.Verify(r, p)
	if err != nil {
		return err
	}
	for _, m := range mismatches {
		logger.Warn(m.String())
	}
	logger.Infof("Replayed %d ticks from %s, %d mismatched decisions", n, cfg.Replay.File, len(mismatches))
	if len(mismatches) > 0 {
		return fmt.Errorf("%d decisions differ from the recording", len(mismatches))
	}
	return nil
}
