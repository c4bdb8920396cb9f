package gimbal

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/airgava/gimbalctl/internal/logging"
	"github.com/airgava/gimbalctl/internal/protocol"
)

const (
	// DefaultHost is the factory IP of the gimbal control server.
	DefaultHost = "192.168.144.200"

	// DefaultPort is the factory TCP control port.
	DefaultPort = 2000

	// DefaultConnectTimeout bounds the dial phase. Steady-state reads
	// have no deadline; only polling sets one.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultPollTimeout is the per-attempt read deadline used by
	// PollTelemetry.
	DefaultPollTimeout = 200 * time.Millisecond

	// DefaultPollAttempts is the attempt limit used when PollTelemetry
	// is called with a non-positive maximum.
	DefaultPollAttempts = 10

	// recvBufSize fits the largest known inbound frame (32-byte
	// telemetry) with headroom for firmware that pads.
	recvBufSize = 64
)

// Conn is the transport the session drives: a duplex byte stream with a
// settable read deadline. *net.TCPConn satisfies it; tests substitute
// scripted fakes.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// Dialer opens the transport. Replace it to intercept the connection in
// tests or to tunnel the control stream.
type Dialer func(addr string, timeout time.Duration) (Conn, error)

func tcpDialer(addr string, timeout time.Duration) (Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return conn.(*net.TCPConn), nil
}

// Session is a control connection to one gimbal unit. The zero value is
// not usable; create sessions with New. Exported fields may be adjusted
// before Connect and must not be changed afterwards.
type Session struct {
	// Addr is the host:port of the gimbal control server.
	Addr string

	// ConnectTimeout bounds Connect. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// PollTimeout is the per-attempt receive deadline for PollTelemetry.
	// Zero means DefaultPollTimeout.
	PollTimeout time.Duration

	// Decoder holds the firmware-variant switches (checksum
	// verification, position encoding) applied to every inbound frame.
	Decoder protocol.Decoder

	// Dial opens the transport; defaults to plain TCP.
	Dial Dialer

	mu        sync.Mutex
	conn      Conn
	connected bool
}

// New returns a session for the gimbal at host:port with default
// timeouts. The session starts Disconnected.
func New(host string, port int) *Session {
	return &Session{
		Addr:           net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		ConnectTimeout: DefaultConnectTimeout,
		PollTimeout:    DefaultPollTimeout,
		Dial:           tcpDialer,
	}
}

// Connect opens the transport. The dial phase is bounded by
// ConnectTimeout; once up, the read deadline is cleared so command reads
// block until the unit answers. A transport failure is returned as a
// *SessionError and leaves the session Disconnected.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	dial := s.Dial
	if dial == nil {
		dial = tcpDialer
	}

	conn, err := dial(s.Addr, timeout)
	if err != nil {
		return errTransport("connect failed", err)
	}
	// Connection-phase timeout done; block indefinitely from here on.
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return errTransport("failed to clear read deadline", err)
	}

	s.conn = conn
	s.connected = true
	logging.Info("gimbal connected", zap.String("addr", s.Addr))
	return nil
}

// Close tears down the transport and transitions to Disconnected.
// Closing a disconnected session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.connected = false
	logging.Info("gimbal disconnected", zap.String("addr", s.Addr))
	return err
}

// Connected reports whether the session currently holds a live transport.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// drop tears the connection down after an I/O failure. Callers hold mu.
func (s *Session) drop() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connected = false
}

// SendCommand writes a pre-encoded frame and reads one response. It is
// the half-duplex primitive every command method wraps: one write, one
// read, one decode. Transport failures disconnect the session.
func (s *Session) SendCommand(frame []byte) (protocol.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(frame)
}

// exchange is SendCommand without the locking. Callers hold mu.
func (s *Session) exchange(frame []byte) (protocol.Response, error) {
	if !s.connected {
		return nil, errNotConnected()
	}

	logging.LogFrame("send", frame)
	if _, err := s.conn.Write(frame); err != nil {
		s.drop()
		return nil, errTransport("write failed", err)
	}

	buf := make([]byte, recvBufSize)
	n, err := s.conn.Read(buf)
	if err != nil {
		s.drop()
		return nil, errTransport("read failed", err)
	}
	logging.LogFrame("recv", buf[:n])

	return s.Decoder.Decode(buf[:n])
}

// sendChecked wraps SendCommand for reject-policy builders: a builder
// error means nothing was encoded and nothing is sent.
func (s *Session) sendChecked(frame []byte, err error) (protocol.Response, error) {
	if err != nil {
		return nil, err
	}
	return s.SendCommand(frame)
}

// PollTelemetry drains unsolicited telemetry broadcasts. Each attempt
// reads with a short deadline (PollTimeout); a deadline expiry counts the
// attempt and continues, a telemetry frame is handed to onTelemetry (if
// non-nil) and remembered, and any other frame is silently discarded.
// A non-timeout transport error ends the loop and disconnects the
// session. On exit the read deadline is restored to blocking and the last
// telemetry seen is returned, or a no-data error if none arrived within
// maxAttempts (non-positive means DefaultPollAttempts).
func (s *Session) PollTelemetry(onTelemetry func(*protocol.Telemetry), maxAttempts int) (*protocol.Telemetry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, errNotConnected()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollAttempts
	}
	pollTimeout := s.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	var last *protocol.Telemetry
	buf := make([]byte, recvBufSize)

	for attempts := 0; attempts < maxAttempts; {
		if err := s.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
			s.drop()
			return nil, errTransport("failed to set poll deadline", err)
		}

		n, err := s.conn.Read(buf)
		if err != nil {
			if isTimeout(err) {
				attempts++
				continue
			}
			s.drop()
			return nil, errTransport("poll read failed", err)
		}

		resp, err := s.Decoder.Decode(buf[:n])
		if err != nil {
			// Garbage between broadcasts; polling only cares about
			// telemetry.
			logging.Debug("discarding undecodable frame during poll", zap.Error(err))
			continue
		}
		tel, ok := resp.(*protocol.Telemetry)
		if !ok {
			logging.Debug("discarding non-telemetry frame during poll",
				zap.String("response", resp.String()))
			continue
		}

		last = tel
		if onTelemetry != nil {
			onTelemetry(tel)
		}
	}

	// Back to steady state: no read deadline.
	if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
		s.drop()
		return nil, errTransport("failed to restore read deadline", err)
	}

	if last == nil {
		return nil, errNoData(maxAttempts)
	}
	return last, nil
}
