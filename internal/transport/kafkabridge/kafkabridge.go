// Package kafkabridge plans ticks consumed from a Kafka topic and publishes
// the decisions to another. Messages are keyed by game id; each key gets
// its own planner session, kept in an LRU that forgets idle games.
package kafkabridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atc-planner/internal/config"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/logging"
	"atc-planner/internal/wire"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
)

const ContentTypeHeader = "content-type"

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Bridge struct {
	reader   MessageReader
	writer   MessageWriter
	codec    wire.Codec
	planner  *planner.Planner
	sessions *expirable.LRU[string, *planner.Session]
	logger   *log.Logger

	// OnTick, if set, sees every tick result along with its game id.
	OnTick func(game string, res *planner.TickResult)
}

// New builds a bridge. codec is used for messages without a content-type
// header and for every reply that answers one.
func New(r MessageReader, w MessageWriter, codec wire.Codec, p *planner.Planner, cfg config.PlannerConfig, logger *log.Logger) *Bridge {
	b := &Bridge{
		reader:  r,
		writer:  w,
		codec:   codec,
		planner: p,
		logger:  logging.OrDiscard(logger, "kafkabridge"),
	}
	b.sessions = expirable.NewLRU[string, *planner.Session](cfg.SessionCacheSize, func(game string, sess *planner.Session) {
		b.logger.Infof("game %s: session dropped after %d ticks, %d landed", game, sess.Ticks, sess.LandedCount)
	}, cfg.SessionTTL())
	return b
}

func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.Brokers,
		Topic:           cfg.TickTopic,
		GroupID:         cfg.GroupID,
		MinBytes:        1,
		MaxBytes:        10e6,
		MaxWait:         100 * time.Millisecond,
		ReadLagInterval: -1,
		StartOffset:     kafka.LastOffset,
	})
}

func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.DecisionTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Session returns the session for game, creating it on first use.
func (b *Bridge) Session(game string) *planner.Session {
	if sess, ok := b.sessions.Get(game); ok {
		return sess
	}
	sess := planner.NewSession()
	b.sessions.Add(game, sess)
	return sess
}

func (b *Bridge) Games() int {
	return b.sessions.Len()
}

func (b *Bridge) codecFor(msg kafka.Message) (wire.Codec, error) {
	for _, h := range msg.Headers {
		if h.Key == ContentTypeHeader {
			return wire.Lookup(string(h.Value))
		}
	}
	return b.codec, nil
}

// Handle plans one tick message and returns the reply to publish.
func (b *Bridge) Handle(msg kafka.Message) (kafka.Message, error) {
	c, err := b.codecFor(msg)
	if err != nil {
		return kafka.Message{}, err
	}
	frame, err := wire.DecodeTick(c, msg.Value)
	if err != nil {
		return kafka.Message{}, err
	}

	game := string(msg.Key)
	res, err := b.planner.Tick(b.Session(game), frame.State)
	if err != nil {
		return kafka.Message{}, err
	}
	if b.OnTick != nil {
		b.OnTick(game, res)
	}

	value, err := wire.EncodeDecisions(c, frame, res.Decisions)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode decisions: %w", err)
	}
	return kafka.Message{
		Key:     msg.Key,
		Value:   value,
		Headers: []kafka.Header{{Key: ContentTypeHeader, Value: []byte(c.ContentType())}},
	}, nil
}

// Run consumes ticks until ctx is done. A message is committed once its
// reply has been written, or right away if it could not be planned.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		msg, err := b.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch tick: %w", err)
		}

		reply, err := b.Handle(msg)
		switch {
		case err == nil:
			if err := b.writer.WriteMessages(ctx, reply); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("publish decisions for game %s: %w", msg.Key, err)
			}
		case errors.Is(err, planner.ErrMalformedInput), errors.Is(err, wire.ErrUnsupportedContentType):
			b.logger.Warnf("game %s offset %d skipped: %v", msg.Key, msg.Offset, err)
		default:
			return err
		}

		if err := b.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (b *Bridge) Close() error {
	return errors.Join(b.reader.Close(), b.writer.Close())
}
