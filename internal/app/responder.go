package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"oneshot/internal/shared"
	"oneshot/internal/shared/errors"
	"oneshot/internal/shared/logger"
	"oneshot/internal/shared/types"
	"oneshot/internal/sys/sockets"
)

const (
	// BufferSize is the capacity of the receive buffer.
	BufferSize = 256
	// ReadSize is the most one read may return; one byte of the buffer stays a terminator.
	ReadSize = BufferSize - 1
	// Acknowledgment is written back verbatim, whatever the peer sent.
	Acknowledgment = "From server: I got your message!"
	// MessagePrefix precedes the received bytes on the output stream.
	MessagePrefix = "Here is the message: "
)

// Stats summarizes one run.
type Stats struct {
	RunID    string
	Peer     string
	Received uint64
	Sent     uint64
	State    State
}

// Responder accepts exactly one connection, reads one message, replies with
// Acknowledgment and tears everything down. It never returns to accept.
type Responder struct {
	host string
	port int
	out  io.Writer

	runID string
	log   zerolog.Logger

	mu       sync.Mutex
	state    State
	aborted  bool
	listener *sockets.Listener
	conn     *shared.CountedConn
	peer     string

	received atomic.Uint64
	sent     atomic.Uint64
}

// New creates a responder for port. The received message is printed to out.
func New(cfg *types.Config, port int, out io.Writer) *Responder {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	runID := uuid.NewString()
	return &Responder{
		host:  cfg.ListenerConf.Host,
		port:  port,
		out:   out,
		runID: runID,
		log:   logger.WithComponent("responder").With().Str("run", runID).Logger(),
		state: StateInit,
	}
}

// Run drives the whole lifecycle. Cancelling ctx closes the open handles so
// that a blocked accept or read returns; the run then ends in StateError.
func (r *Responder) Run(ctx context.Context) error {
	defer r.release()

	if r.State() == StateInit {
		if err := r.Initialize(); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, r.abort)
	defer stop()

	if err := r.AcceptConnection(); err != nil {
		return withCause(ctx, err)
	}

	msg, err := r.ReceiveMessage()
	if err != nil {
		return withCause(ctx, err)
	}
	r.printMessage(msg)

	if _, err := r.SendAcknowledgment(); err != nil {
		return withCause(ctx, err)
	}

	return r.Close()
}

// Initialize creates the listening endpoint: INIT -> BOUND -> LISTENING.
func (r *Responder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.expect("initialize", StateInit); err != nil {
		return err
	}

	ln, err := sockets.Listen(r.host, r.port)
	if err != nil {
		return r.fail(err)
	}
	r.listener = ln
	r.transition(StateBound)
	r.transition(StateListening)

	r.log.Info().
		Str("addr", ln.Addr().String()).
		Int("backlog", ln.Backlog).
		Bool("reuse_addr", ln.ReuseAddr).
		Msg("listening")
	return nil
}

// AcceptConnection blocks until one peer connects: LISTENING -> ACCEPTED.
func (r *Responder) AcceptConnection() error {
	r.mu.Lock()
	if err := r.expect("accept", StateListening); err != nil {
		r.mu.Unlock()
		return err
	}
	ln := r.listener
	r.mu.Unlock()

	conn, err := ln.Accept()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		return r.fail(errors.NewError(errors.KindAccept, "ERROR on accept").Base(err))
	}
	if r.aborted {
		conn.Close()
		return r.fail(errors.NewError(errors.KindAccept, "ERROR on accept").Base(net.ErrClosed))
	}

	r.conn = shared.NewCountedConn(conn, &r.received, &r.sent)
	r.peer = conn.RemoteAddr().String()
	r.transition(StateAccepted)
	r.log.Info().Str("peer", r.peer).Msg("accepted connection")
	return nil
}

// ReceiveMessage issues exactly one read of at most ReadSize bytes:
// ACCEPTED -> RECEIVED. A peer that closes without sending yields an empty
// message. Bytes that arrive after this read are never seen.
func (r *Responder) ReceiveMessage() ([]byte, error) {
	r.mu.Lock()
	if err := r.expect("receive", StateAccepted); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	conn := r.conn
	r.mu.Unlock()

	var buf [BufferSize]byte
	clear(buf[:])
	n, err := conn.Read(buf[:ReadSize])

	r.mu.Lock()
	defer r.mu.Unlock()
	eof := stderrors.Is(err, io.EOF)
	if err != nil && n == 0 && !eof {
		return nil, r.fail(errors.NewError(errors.KindRead, "ERROR reading from socket").Base(err))
	}

	r.transition(StateReceived)
	r.log.Info().Int("bytes", n).Bool("eof", eof).Msg("received message")
	return buf[:n], nil
}

// SendAcknowledgment writes Acknowledgment once: RECEIVED -> SENT.
// A short write is reported but not retried.
func (r *Responder) SendAcknowledgment() (int, error) {
	r.mu.Lock()
	if err := r.expect("send", StateReceived); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	conn := r.conn
	r.mu.Unlock()

	n, err := conn.Write([]byte(Acknowledgment))

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		return n, r.fail(errors.NewError(errors.KindWrite, "ERROR writing to socket").Base(err))
	}
	if n < len(Acknowledgment) {
		r.log.Warn().Int("written", n).Int("want", len(Acknowledgment)).Msg("short write")
	}

	r.transition(StateSent)
	r.log.Info().Int("bytes", n).Msg("sent acknowledgment")
	return n, nil
}

// Close closes the listening endpoint and the connection: SENT -> CLOSED.
func (r *Responder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.expect("close", StateSent); err != nil {
		return err
	}

	r.closeHandles()
	r.transition(StateClosed)

	r.log.Info().
		Str("peer", r.peer).
		Uint64("received", r.received.Load()).
		Uint64("sent", r.sent.Load()).
		Msg("connection closed")
	return nil
}

// Stats returns a snapshot of the run.
func (r *Responder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		RunID:    r.runID,
		Peer:     r.peer,
		Received: r.received.Load(),
		Sent:     r.sent.Load(),
		State:    r.state,
	}
}

// Addr returns the bound address, or nil before Initialize.
func (r *Responder) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

func (r *Responder) printMessage(msg []byte) {
	if r.out == nil {
		return
	}
	if _, err := fmt.Fprintf(r.out, "%s%s", MessagePrefix, msg); err != nil {
		r.log.Warn().Err(err).Msg("failed to print message")
	}
}

// fail moves to StateError. Caller holds r.mu.
func (r *Responder) fail(err error) error {
	r.transition(StateError)
	r.log.Error().Err(err).Str("kind", errors.KindOf(err).String()).Msg("lifecycle failed")
	return err
}

// closeHandles closes the endpoint before the connection. Caller holds r.mu.
func (r *Responder) closeHandles() {
	if r.listener != nil {
		if err := r.listener.Close(); err != nil && !stderrors.Is(err, net.ErrClosed) {
			r.log.Warn().Err(err).Msg("failed to close listener")
		}
		r.listener = nil
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil && !stderrors.Is(err, net.ErrClosed) {
			r.log.Warn().Err(err).Msg("failed to close connection")
		}
		r.conn = nil
	}
}

// release closes whatever is still open after a failed run.
func (r *Responder) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeHandles()
}

func (r *Responder) abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return
	}
	r.aborted = true
	r.log.Debug().Str("state", r.state.String()).Msg("run cancelled")
	if r.listener != nil {
		r.listener.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

func withCause(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		return fmt.Errorf("%w (%w)", err, cause)
	}
	return err
}
