package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/bnema/tabbridge/internal/logging"
)

// eventStream serves one bus subscription per WebSocket connection.
// Frames are the JSON form of entity.Event.
type eventStream struct {
	ctx    context.Context
	source EventSource
}

func newEventStream(ctx context.Context, source EventSource) *eventStream {
	return &eventStream{ctx: ctx, source: source}
}

func (s *eventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	extensionID := r.Header.Get(HeaderExtensionID)
	if extensionID == "" {
		extensionID = r.URL.Query().Get("extension_id")
	}

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		log.Debug().Err(err).Msg("event stream upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	sub, cancel := s.source.Subscribe(extensionID)
	defer cancel()

	log.Info().Uint64("sub", sub.ID).Str("extension_id", extensionID).Msg("event stream opened")

	closed := make(chan struct{})
	go drainClient(conn, closed)

	for {
		select {
		case <-s.ctx.Done():
			writeClose(conn, ws.StatusGoingAway)
			return
		case <-closed:
			log.Info().Uint64("sub", sub.ID).Msg("event stream closed by client")
			return
		case ev, ok := <-sub.C:
			if !ok {
				writeClose(conn, ws.StatusNormalClosure)
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("event", string(ev.Name)).Msg("failed to encode event")
				continue
			}
			if err := wsutil.WriteServerText(conn, data); err != nil {
				log.Debug().Err(err).Uint64("sub", sub.ID).Msg("event stream write failed")
				return
			}
		}
	}
}

// drainClient discards client frames until the client closes or the
// connection fails. It never writes, so the serving loop owns the writer.
func drainClient(conn net.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		hdr, err := ws.ReadHeader(conn)
		if err != nil {
			return
		}
		if _, err := io.CopyN(io.Discard, conn, hdr.Length); err != nil {
			return
		}
		if hdr.OpCode == ws.OpClose {
			return
		}
	}
}

func writeClose(conn net.Conn, code ws.StatusCode) {
	_ = ws.WriteFrame(conn, ws.NewCloseFrame(ws.NewCloseFrameBody(code, "")))
}
