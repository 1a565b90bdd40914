// Package wsbridge connects the planner to a game server over a websocket.
// The server pushes one snapshot per tick and gets back a list of
// waypoints. Text frames carry JSON and binary frames carry msgpack; the
// reply uses the same framing as the tick it answers.
package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atc-planner/internal/game/planner"
	"atc-planner/internal/logging"
	"atc-planner/internal/wire"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"
)

type Bridge struct {
	URL       string
	Reconnect time.Duration

	// OnTick, if set, sees every tick result before the reply is sent.
	OnTick func(*planner.TickResult)

	planner *planner.Planner
	dialer  *websocket.Dialer
	logger  *log.Logger
}

func New(url string, reconnect time.Duration, p *planner.Planner, logger *log.Logger) *Bridge {
	return &Bridge{
		URL:       url,
		Reconnect: reconnect,
		planner:   p,
		dialer:    websocket.DefaultDialer,
		logger:    logging.OrDiscard(logger, "wsbridge"),
	}
}

// Run keeps a connection to the game server open until ctx is done,
// redialing after Reconnect whenever the connection drops.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		conn, _, err := b.dialer.DialContext(ctx, b.URL, nil)
		if err != nil {
			b.logger.Warnf("dial %s: %v", b.URL, err)
		} else {
			b.logger.Infof("connected to %s", b.URL)
			err = b.Serve(ctx, conn)
			b.logger.Infof("disconnected from %s: %v", b.URL, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Reconnect):
		}
	}
}

func codecFor(messageType int) wire.Codec {
	if messageType == websocket.BinaryMessage {
		return wire.Msgpack
	}
	return wire.JSON
}

// Serve plans ticks arriving on conn until it closes or ctx is done. Each
// connection is a separate game and gets its own session. Malformed
// snapshots are logged and left unanswered.
func (b *Bridge) Serve(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	sess := planner.NewSession()
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		reply, err := b.handle(sess, codecFor(mt), data)
		if err != nil {
			if errors.Is(err, planner.ErrMalformedInput) {
				b.logger.Warnf("tick %d skipped: %v", sess.Ticks, err)
				continue
			}
			return err
		}
		if err := conn.WriteMessage(mt, reply); err != nil {
			return fmt.Errorf("write decisions: %w", err)
		}
	}
}

func (b *Bridge) handle(sess *planner.Session, c wire.Codec, data []byte) ([]byte, error) {
	frame, err := wire.DecodeTick(c, data)
	if err != nil {
		return nil, err
	}
	res, err := b.planner.Tick(sess, frame.State)
	if err != nil {
		return nil, err
	}
	if b.OnTick != nil {
		b.OnTick(res)
	}
	return wire.EncodeDecisions(c, frame, res.Decisions)
}
