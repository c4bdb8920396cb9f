// Package protocol implements the KTG gimbal binary control protocol.
//
// This package handles construction, validation, and parsing of the fixed
// layout frames used by KTG pan-tilt camera units over their TCP control
// interface. It is pure: no I/O, no session state. The gimbal package owns
// the connection and uses this package as its codec.
//
// # Command frame
//
// Every standard command is a 24-byte frame:
//
//	[0-1]   0x4B 0x4B      Header ("KK")
//	[2-11]  0x00 x 10      Reserved
//	[12-13] 0x40 0x88      TCP control marker
//	[14]    control unit   0x01 EO, 0x02 IR, 0x21 network config
//	[15]    opcode         Meaning depends on the control unit
//	[16-22] parameters     7 bytes, zero padded
//	[23]    checksum       Sum of the preceding 23 bytes mod 256
//
// The network reconfiguration command (control unit 0x21) is the one
// exception: the control unit byte is followed directly by 4 IP octets and
// 4 gateway octets with no opcode, then the checksum.
//
// # Response frames
//
// Responses start with the same "KK" header followed by a type byte:
//
//	0x01  command acknowledgement (13 bytes minimum)
//	0xFF  version report (9 bytes minimum)
//	0x02  telemetry broadcast (32 bytes, sent unsolicited)
//
// Decode returns these as a tagged union via the Response interface
// (*Ack, *Version, *Telemetry). Anything else is a *MalformedFrameError
// carrying the raw bytes for diagnostics.
//
// # Usage example
//
//	frame, err := protocol.BuildTakePhotoCmd(protocol.PhotoSingle, 0)
//	if err != nil {
//	    log.Fatal(err) // rejected parameter, nothing was encoded
//	}
//	// write frame to the connection, read the reply into buf[:n]
//	resp, err := protocol.Decode(buf[:n])
//	switch r := resp.(type) {
//	case *protocol.Ack:
//	    fmt.Printf("ack for opcode 0x%02x\n", r.Opcode)
//	case *protocol.Telemetry:
//	    fmt.Printf("yaw %.2f pitch %.2f\n", r.Yaw, r.Pitch)
//	}
//
// # Clamp versus reject
//
// Command builders follow the device manual's two failure policies.
// Numeric magnitudes out of range are clamped (saturated to the nearest
// bound) and the command is still encoded; builders with clamp-only
// parameters therefore return no error. Invalid mode or enum values are
// rejected: the builder returns an InvalidParameterError and no bytes.
// The signatures encode the distinction.
//
// # Firmware variants
//
// Two details vary across firmware revisions and are selectable on the
// Decoder rather than hardcoded: whether the trailing checksum byte of
// received frames is verified (older units send frames whose checksum does
// not cover the full payload, so verification defaults to off), and whether
// telemetry target coordinates are fixed-point int32 (degrees x 1e-7, the
// documented format) or IEEE 754 float32 (observed on TX-series units).
//
// # Thread safety
//
// All functions are stateless and safe for concurrent use. A Decoder value
// is immutable after creation and may be shared.
package protocol
