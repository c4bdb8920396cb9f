package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Telemetry is the decoded 32-byte gimbal status broadcast. The gimbal
// emits these spontaneously; they are not replies to a specific request.
// Angles are degrees, distance and height are metres (the manual leaves
// the height unit ambiguous between metres and decimetres; the x0.1 scale
// is applied per the gimbal-info section and the result treated as
// metres), zoom values are magnification factors.
type Telemetry struct {
	ZAxisAngle float64
	Pitch      float64
	Roll       float64
	Yaw        float64

	// RangingEnabled reports the laser range-finding flag. The documented
	// convention is exactly 0x01 for enabled; some firmware emits other
	// nonzero values which are also treated as enabled here.
	RangingEnabled bool
	Distance       float64
	Height         float64

	Longitude float64
	Latitude  float64

	// SelfTestPassed is true when the self-test byte is 0x00.
	SelfTestPassed bool

	EOZoom float64
	IRZoom float64
}

// RespType implements Response.
func (t *Telemetry) RespType() byte { return RespTypeTelemetry }

func (t *Telemetry) String() string {
	return fmt.Sprintf("telemetry yaw=%.2f pitch=%.2f roll=%.2f z=%.2f dist=%.1f eo=%.1fx ir=%.1fx",
		t.Yaw, t.Pitch, t.Roll, t.ZAxisAngle, t.Distance, t.EOZoom, t.IRZoom)
}

// decodeTelemetry expands a telemetry broadcast per the fixed field table.
// Length is the only validation performed: raw bit patterns are trusted
// and never range-checked. A short frame is a distinct error, never a
// defaulted record.
func (d Decoder) decodeTelemetry(buf []byte) (*Telemetry, error) {
	if len(buf) < MinTelemetrySize {
		return nil, newMalformed("telemetry frame too short", buf)
	}

	t := &Telemetry{
		ZAxisAngle:     float64(int16(binary.LittleEndian.Uint16(buf[3:5]))) * 0.01,
		Pitch:          float64(int16(binary.LittleEndian.Uint16(buf[5:7]))) * 0.01,
		Roll:           float64(int16(binary.LittleEndian.Uint16(buf[7:9]))) * 0.01,
		Yaw:            float64(int16(binary.LittleEndian.Uint16(buf[9:11]))) * 0.01,
		RangingEnabled: buf[11] != 0,
		Distance:       float64(binary.LittleEndian.Uint16(buf[12:14])) * 0.1,
		Height:         float64(binary.LittleEndian.Uint16(buf[14:16])) * 0.1,
		SelfTestPassed: buf[24] == 0x00,
		EOZoom:         float64(binary.LittleEndian.Uint16(buf[25:27])) * 0.1,
		IRZoom:         float64(binary.LittleEndian.Uint16(buf[27:29])) * 0.1,
	}

	switch d.Position {
	case PositionFloat32:
		t.Longitude = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
		t.Latitude = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])))
	default:
		t.Longitude = float64(int32(binary.LittleEndian.Uint32(buf[16:20]))) * 1e-7
		t.Latitude = float64(int32(binary.LittleEndian.Uint32(buf[20:24]))) * 1e-7
	}

	return t, nil
}
