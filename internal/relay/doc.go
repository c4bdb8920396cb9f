// Package relay publishes gimbal telemetry over WebSocket.
//
// The relay bridges the half-duplex TCP control link to any number of
// local subscribers: ground-station dashboards, mapping overlays, or
// logging sinks. Each telemetry frame polled from the gimbal is fanned
// out as one JSON message per subscriber.
//
// # Endpoint
//
// Subscribers connect to ws://<host>:<port>/telemetry and receive
// StatusMessage payloads:
//
//	{"timestamp":"2026-08-26T10:30:45Z","yaw":12.34,"pitch":-5.6,...}
//
// # Usage Example
//
//	srv := relay.NewServer(":8765")
//	go srv.Start()
//	defer srv.Shutdown(context.Background())
//
//	sess.PollTelemetry(func(t *protocol.Telemetry) {
//	    srv.Broadcast(t)
//	}, 0)
//
// # Thread Safety
//
// Broadcast and the connection handlers may run concurrently; the
// subscriber set is guarded by a mutex.
package relay
