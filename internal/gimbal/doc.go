// Package gimbal owns the TCP control session with a KTG gimbal unit.
//
// A Session tracks connected/disconnected state, performs the synchronous
// request/response exchange for commands, and drains the unsolicited
// telemetry broadcasts the unit emits on the same connection. The byte
// layout lives in internal/protocol; this package only moves frames.
//
// # Connection model
//
// The protocol has no handshake: a session is Connected the moment the
// TCP connection is up and Disconnected on Close or any I/O failure.
// Connect applies a bounded dial timeout and then clears the read
// deadline, so steady-state command reads block until the unit answers.
// Callers that need bounded command latency should wrap calls with their
// own timer and Close the session to abort.
//
// # Request discipline
//
// The wire protocol is half duplex with no request IDs, so responses are
// only attributable by ordering. A Session serialises SendCommand and
// PollTelemetry behind one mutex; it is safe for concurrent callers but
// never pipelines.
//
// # Usage example
//
//	sess := gimbal.New("192.168.144.200", 2000)
//	if err := sess.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	if _, err := sess.Center(); err != nil {
//	    log.Fatal(err)
//	}
//
//	last, err := sess.PollTelemetry(func(t *protocol.Telemetry) {
//	    fmt.Printf("yaw %.2f pitch %.2f\n", t.Yaw, t.Pitch)
//	}, 10)
//
// # Error handling
//
// Every operation returns a typed *SessionError (not connected, transport
// failure, no data) or passes through the codec's malformed-frame and
// invalid-parameter errors. Nothing panics; transport causes are wrapped
// and reachable through errors.Unwrap.
package gimbal
