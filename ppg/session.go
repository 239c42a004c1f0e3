package ppg

import (
	"context"
	"sync"

	"github.com/coder/websocket"

	"github.com/ppg-dev/ppg-sdk-go/ppg/internal"
)

// session owns one connection attempt's socket and its background loops.
// At most one session is live at a time; the client identifies results
// from a session by its epoch rather than by pointer identity.
type session struct {
	epoch   uint64
	conn    *internal.Conn
	ctx     context.Context
	cancel  context.CancelFunc
	writeCh chan []byte

	teardownOnce sync.Once
}

func newSession(epoch uint64, conn *internal.Conn) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		epoch:   epoch,
		conn:    conn,
		ctx:     ctx,
		cancel:  cancel,
		writeCh: make(chan []byte, 16),
	}
}

// start launches the receive and write loops. onMessage and onLoss are
// called with the session's epoch so the client can discard results from
// a superseded session.
func (s *session) start(onMessage func(epoch uint64, raw []byte), onLoss func(epoch uint64, cause error)) {
	go s.readLoop(onMessage, onLoss)
	go s.writeLoop(onLoss)
}

func (s *session) readLoop(onMessage func(uint64, []byte), onLoss func(uint64, error)) {
	for {
		raw, err := s.conn.Read(s.ctx)
		if err != nil {
			if s.ctx.Err() == nil {
				onLoss(s.epoch, err)
			}
			return
		}
		onMessage(s.epoch, raw)
	}
}

func (s *session) writeLoop(onLoss func(uint64, error)) {
	for {
		select {
		case data := <-s.writeCh:
			if err := s.conn.Write(s.ctx, data); err != nil {
				if s.ctx.Err() == nil {
					onLoss(s.epoch, err)
				}
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// queueWrite enqueues one outgoing message. It never blocks; when the
// write buffer is full the message is dropped and false is returned.
func (s *session) queueWrite(data []byte) bool {
	select {
	case s.writeCh <- data:
		return true
	default:
		return false
	}
}

// ping probes the peer, bounded by the conn's write timeout.
func (s *session) ping() error {
	return s.conn.Ping(s.ctx)
}

// teardown cancels both loops and closes the socket. Safe to call more
// than once and safe to call on a session that never finished opening.
func (s *session) teardown() {
	s.teardownOnce.Do(func() {
		s.cancel()
		_ = s.conn.Close(websocket.StatusNormalClosure, "session teardown")
	})
}
