package protocol

// Frame layout constants.
const (
	// HeaderByte is both bytes of the frame header ("KK").
	HeaderByte = 0x4B

	// MarkerHigh and MarkerLow form the fixed TCP control marker that
	// follows the reserved block in every outbound frame.
	MarkerHigh = 0x40
	MarkerLow  = 0x88

	// ReservedLen is the number of zero bytes between header and marker.
	ReservedLen = 10

	// ParamLen is the fixed parameter field width of a standard command.
	ParamLen = 7

	// FrameSize is the total size of a standard command frame including
	// the trailing checksum byte: header + reserved + marker + control
	// unit + opcode + 7 parameters + checksum.
	FrameSize = 24

	// NetworkFrameSize is the total size of the IP/gateway
	// reconfiguration frame including the checksum byte. The opcode byte
	// is replaced by the 4+4 address octets, which happens to make both
	// frame shapes the same length.
	NetworkFrameSize = 24
)

// Response type discriminators (byte at offset 2 of an inbound frame).
const (
	RespTypeAck       = 0x01
	RespTypeTelemetry = 0x02
	RespTypeVersion   = 0xFF
)

// Minimum inbound frame lengths per response type.
const (
	MinAckSize       = 13
	MinVersionSize   = 9
	MinTelemetrySize = 32
)

// BuildFrame constructs a standard 24-byte command frame for the given
// control unit and opcode. Params may be nil or up to 7 bytes; shorter
// parameter lists are zero padded on the right and anything past the
// seventh byte is dropped, matching the device manual. The checksum byte
// is appended last.
func BuildFrame(unit ControlUnit, opcode byte, params []byte) []byte {
	frame := make([]byte, 0, FrameSize)
	frame = append(frame, HeaderByte, HeaderByte)
	frame = append(frame, make([]byte, ReservedLen)...)
	frame = append(frame, MarkerHigh, MarkerLow)
	frame = append(frame, byte(unit), opcode)

	padded := make([]byte, ParamLen)
	copy(padded, params)
	frame = append(frame, padded...)

	return append(frame, Checksum(frame))
}

// buildNetworkFrame constructs the IP/gateway reconfiguration frame. It
// shares the header, reserved block and marker with standard frames but
// carries no opcode: the control unit byte is followed directly by the
// 4 IP octets and 4 gateway octets. Callers validate octet counts; see
// BuildModifyIPGatewayCmd.
func buildNetworkFrame(ip, gateway [4]byte) []byte {
	frame := make([]byte, 0, NetworkFrameSize)
	frame = append(frame, HeaderByte, HeaderByte)
	frame = append(frame, make([]byte, ReservedLen)...)
	frame = append(frame, MarkerHigh, MarkerLow)
	frame = append(frame, byte(ControlUnitTCP))
	frame = append(frame, ip[:]...)
	frame = append(frame, gateway[:]...)

	return append(frame, Checksum(frame))
}

// Response is the tagged union of everything the gimbal sends back.
// Concrete types are *Ack, *Version and *Telemetry.
type Response interface {
	// RespType returns the wire discriminator (RespTypeAck,
	// RespTypeVersion or RespTypeTelemetry).
	RespType() byte
	String() string
}
