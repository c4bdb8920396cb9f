package protocol

import "fmt"

// PositionEncoding selects how telemetry target coordinates are decoded.
// Firmware revisions disagree: the documented format is fixed-point int32
// in degrees x 1e-7, but TX-series units emit IEEE 754 float32 degrees at
// the same offsets.
type PositionEncoding int

const (
	// PositionFixedPoint decodes longitude/latitude as little-endian
	// int32 scaled by 1e-7 degrees. This is the documented default.
	PositionFixedPoint PositionEncoding = iota

	// PositionFloat32 decodes longitude/latitude as little-endian
	// IEEE 754 float32 degrees (TX-series firmware).
	PositionFloat32
)

// Decoder parses inbound frames. The zero value decodes with the
// documented defaults: checksum verification off, fixed-point coordinates.
type Decoder struct {
	// VerifyChecksum enables validation of the trailing checksum byte on
	// received frames. Off by default: deployed firmware is known to send
	// frames whose trailing byte does not checksum the full payload.
	VerifyChecksum bool

	// Position selects the telemetry coordinate encoding.
	Position PositionEncoding
}

// Decode parses an inbound buffer with default Decoder settings.
func Decode(buf []byte) (Response, error) {
	return Decoder{}.Decode(buf)
}

// Decode parses an inbound buffer into a typed response. It fails with a
// *MalformedFrameError when the buffer is shorter than the header, the
// header is not "KK", the type byte is unknown, or the frame is shorter
// than its type's minimum length. Extra trailing bytes are ignored.
func (d Decoder) Decode(buf []byte) (Response, error) {
	if len(buf) < 3 {
		return nil, newMalformed("frame too short", buf)
	}
	if buf[0] != HeaderByte || buf[1] != HeaderByte {
		return nil, newMalformed("bad header", buf)
	}
	if d.VerifyChecksum && !ValidChecksum(buf) {
		return nil, newMalformed("checksum mismatch", buf)
	}

	switch buf[2] {
	case RespTypeAck:
		return decodeAck(buf)
	case RespTypeVersion:
		return decodeVersion(buf)
	case RespTypeTelemetry:
		return d.decodeTelemetry(buf)
	default:
		return nil, newMalformed(fmt.Sprintf("unknown response type 0x%02x", buf[2]), buf)
	}
}

// Ack is the acknowledgement the gimbal returns for a command. Data holds
// the 7 payload bytes following the echoed control unit and opcode.
type Ack struct {
	Unit   ControlUnit
	Opcode byte
	Data   []byte
}

// RespType implements Response.
func (a *Ack) RespType() byte { return RespTypeAck }

func (a *Ack) String() string {
	return fmt.Sprintf("ack unit=0x%02x opcode=0x%02x data=%x", byte(a.Unit), a.Opcode, a.Data)
}

func decodeAck(buf []byte) (*Ack, error) {
	if len(buf) < MinAckSize {
		return nil, newMalformed("ack frame too short", buf)
	}
	data := make([]byte, ParamLen)
	copy(data, buf[5:12])
	return &Ack{
		Unit:   ControlUnit(buf[3]),
		Opcode: buf[4],
		Data:   data,
	}, nil
}

// Version is the firmware version report (response to the query version
// command). The build date is encoded as two-digit year, month and day.
type Version struct {
	Major, Minor, Patch byte
	Year, Month, Day    byte
}

// RespType implements Response.
func (v *Version) RespType() byte { return RespTypeVersion }

func (v *Version) String() string {
	return fmt.Sprintf("V%d.%d.%d (%s)", v.Major, v.Minor, v.Patch, v.BuildDate())
}

// BuildDate returns the firmware build date as "20YY-MM-DD".
func (v *Version) BuildDate() string {
	return fmt.Sprintf("20%02d-%02d-%02d", v.Year, v.Month, v.Day)
}

func decodeVersion(buf []byte) (*Version, error) {
	if len(buf) < MinVersionSize {
		return nil, newMalformed("version frame too short", buf)
	}
	return &Version{
		Major: buf[3],
		Minor: buf[4],
		Patch: buf[5],
		Year:  buf[6],
		Month: buf[7],
		Day:   buf[8],
	}, nil
}
