package gimbal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/airgava/gimbalctl/internal/protocol"
)

// timeoutError mimics a read deadline expiry from net.Conn.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// readResult is one scripted answer from the fake transport.
type readResult struct {
	data []byte
	err  error
}

// fakeConn is a scripted transport: reads pop from a queue, writes and
// deadline changes are recorded.
type fakeConn struct {
	reads     []readResult
	writes    [][]byte
	deadlines []time.Time
	writeErr  error
	closed    bool
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if len(c.reads) == 0 {
		return 0, errors.New("fakeConn: read past script")
	}
	r := c.reads[0]
	c.reads = c.reads[1:]
	if r.err != nil {
		return 0, r.err
	}
	return copy(p, r.data), nil
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	c.writes = append(c.writes, cp)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.deadlines = append(c.deadlines, t)
	return nil
}

// connectedSession returns a session wired to the fake and already
// Connected.
func connectedSession(t *testing.T, conn *fakeConn) *Session {
	t.Helper()
	s := New(DefaultHost, DefaultPort)
	s.Dial = func(addr string, timeout time.Duration) (Conn, error) {
		return conn, nil
	}
	if err := s.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return s
}

func ackFrame(unit, opcode byte) []byte {
	return []byte{0x4B, 0x4B, 0x01, unit, opcode, 0, 0, 0, 0, 0, 0, 0, 0}
}

func telemetryFrame(yawRaw int16) []byte {
	buf := make([]byte, 32)
	buf[0], buf[1], buf[2] = 0x4B, 0x4B, 0x02
	binary.LittleEndian.PutUint16(buf[9:11], uint16(yawRaw))
	return buf
}

func TestSendCommandNotConnected(t *testing.T) {
	s := New(DefaultHost, DefaultPort)
	_, err := s.Center()
	if !IsNotConnected(err) {
		t.Errorf("Center() on fresh session error = %v, want not connected", err)
	}
}

func TestConnectFailure(t *testing.T) {
	s := New(DefaultHost, DefaultPort)
	s.Dial = func(addr string, timeout time.Duration) (Conn, error) {
		return nil, errors.New("connection refused")
	}
	err := s.Connect()
	if !IsTransport(err) {
		t.Fatalf("Connect() error = %v, want transport error", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after failed connect")
	}
}

func TestConnectClearsDeadline(t *testing.T) {
	conn := &fakeConn{}
	connectedSession(t, conn)
	if len(conn.deadlines) != 1 || !conn.deadlines[0].IsZero() {
		t.Errorf("deadlines after connect = %v, want single zero deadline", conn.deadlines)
	}
}

func TestSendCommandRoundTrip(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{{data: ackFrame(0x01, protocol.CmdEOCenter)}},
	}
	s := connectedSession(t, conn)

	resp, err := s.Center()
	if err != nil {
		t.Fatalf("Center() error = %v", err)
	}
	ack, ok := resp.(*protocol.Ack)
	if !ok {
		t.Fatalf("Center() = %T, want *protocol.Ack", resp)
	}
	if ack.Opcode != protocol.CmdEOCenter {
		t.Errorf("ack opcode = 0x%02x, want 0x%02x", ack.Opcode, protocol.CmdEOCenter)
	}

	if len(conn.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(conn.writes))
	}
	if want := protocol.BuildCenterCmd(); !bytes.Equal(conn.writes[0], want) {
		t.Errorf("wrote %x, want %x", conn.writes[0], want)
	}
}

func TestSendCommandWriteFailureDisconnects(t *testing.T) {
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	s := connectedSession(t, conn)

	_, err := s.Center()
	if !IsTransport(err) {
		t.Fatalf("Center() error = %v, want transport error", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after write failure")
	}
	if !conn.closed {
		t.Error("transport not closed after write failure")
	}
}

func TestSendCommandReadFailureDisconnects(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{{err: errors.New("connection reset")}},
	}
	s := connectedSession(t, conn)

	_, err := s.Center()
	if !IsTransport(err) {
		t.Fatalf("Center() error = %v, want transport error", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after read failure")
	}
}

func TestSendCommandMalformedResponse(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{{data: []byte{0x58, 0x58, 0x01}}},
	}
	s := connectedSession(t, conn)

	_, err := s.Center()
	if !protocol.IsMalformedFrame(err) {
		t.Fatalf("Center() error = %v, want malformed frame", err)
	}
	// Decode failures are not transport failures.
	if !s.Connected() {
		t.Error("Connected() = false after decode failure")
	}
}

func TestRejectedCommandSendsNothing(t *testing.T) {
	conn := &fakeConn{}
	s := connectedSession(t, conn)

	_, err := s.TakePhoto(protocol.PhotoMode(9), 0)
	if !protocol.IsInvalidParameter(err) {
		t.Fatalf("TakePhoto(9) error = %v, want invalid parameter", err)
	}
	if len(conn.writes) != 0 {
		t.Errorf("rejected command wrote %d frames, want 0", len(conn.writes))
	}
}

func TestQueryVersion(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{{data: []byte{0x4B, 0x4B, 0xFF, 2, 1, 0, 24, 10, 14}}},
	}
	s := connectedSession(t, conn)

	v, err := s.QueryVersion()
	if err != nil {
		t.Fatalf("QueryVersion() error = %v", err)
	}
	if v.Major != 2 || v.Minor != 1 || v.Patch != 0 {
		t.Errorf("version = %d.%d.%d, want 2.1.0", v.Major, v.Minor, v.Patch)
	}
}

func TestQueryVersionUnexpectedResponse(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{{data: ackFrame(0x01, protocol.CmdEOQueryVersion)}},
	}
	s := connectedSession(t, conn)

	_, err := s.QueryVersion()
	var se *SessionError
	if !errors.As(err, &se) || se.Type != ErrTypeUnexpectedResponse {
		t.Errorf("QueryVersion() error = %v, want unexpected response", err)
	}
}

func TestPollTelemetryAllTimeouts(t *testing.T) {
	conn := &fakeConn{}
	for i := 0; i < 5; i++ {
		conn.reads = append(conn.reads, readResult{err: timeoutError{}})
	}
	s := connectedSession(t, conn)

	_, err := s.PollTelemetry(nil, 5)
	if !IsNoData(err) {
		t.Fatalf("PollTelemetry() error = %v, want no data", err)
	}
	if len(conn.reads) != 0 {
		t.Errorf("%d scripted reads left, want exactly 5 attempts consumed", len(conn.reads))
	}
	// Deadline restored to blocking after the loop: one zero deadline
	// from Connect, five poll deadlines, one zero restore.
	last := conn.deadlines[len(conn.deadlines)-1]
	if !last.IsZero() {
		t.Errorf("final deadline = %v, want zero (restored)", last)
	}
	// Exhausted attempts are not a transport failure.
	if !s.Connected() {
		t.Error("Connected() = false after poll exhausted attempts")
	}
}

func TestPollTelemetryReceives(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{
			{data: telemetryFrame(900)},
			{data: ackFrame(0x01, 0x03)}, // discarded
			{data: []byte{0xDE, 0xAD}},   // garbage, discarded
			{data: telemetryFrame(-1800)},
			{err: timeoutError{}},
			{err: timeoutError{}},
		},
	}
	s := connectedSession(t, conn)
	s.PollTimeout = 10 * time.Millisecond

	var seen []float64
	last, err := s.PollTelemetry(func(tel *protocol.Telemetry) {
		seen = append(seen, tel.Yaw)
	}, 2)
	if err != nil {
		t.Fatalf("PollTelemetry() error = %v", err)
	}
	if len(seen) != 2 || seen[0] != 9.00 || seen[1] != -18.00 {
		t.Errorf("observer saw %v, want [9 -18]", seen)
	}
	if last.Yaw != -18.00 {
		t.Errorf("last yaw = %v, want -18.00", last.Yaw)
	}
}

func TestPollTelemetryTransportError(t *testing.T) {
	conn := &fakeConn{
		reads: []readResult{
			{err: timeoutError{}},
			{err: errors.New("connection reset")},
		},
	}
	s := connectedSession(t, conn)

	_, err := s.PollTelemetry(nil, 10)
	if !IsTransport(err) {
		t.Fatalf("PollTelemetry() error = %v, want transport error", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after poll transport error")
	}
}

func TestPollTelemetryNotConnected(t *testing.T) {
	s := New(DefaultHost, DefaultPort)
	_, err := s.PollTelemetry(nil, 3)
	if !IsNotConnected(err) {
		t.Errorf("PollTelemetry() error = %v, want not connected", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	conn := &fakeConn{}
	s := connectedSession(t, conn)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after Close")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
