package protocol

import (
	"encoding/binary"
	"math"
	"testing"
)

// telemetryFrame builds a 32-byte telemetry broadcast and lets the test
// mutate individual fields before decoding.
func telemetryFrame(mutate func(buf []byte)) []byte {
	buf := make([]byte, 32)
	buf[0], buf[1], buf[2] = 0x4B, 0x4B, 0x02
	if mutate != nil {
		mutate(buf)
	}
	return buf
}

func decodeTelemetry(t *testing.T, d Decoder, buf []byte) *Telemetry {
	t.Helper()
	resp, err := d.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tel, ok := resp.(*Telemetry)
	if !ok {
		t.Fatalf("Decode() = %T, want *Telemetry", resp)
	}
	return tel
}

func TestDecodeTelemetryAngles(t *testing.T) {
	pitch, yaw := int16(-2500), int16(-18000)
	buf := telemetryFrame(func(b []byte) {
		binary.LittleEndian.PutUint16(b[3:5], 1000) // z axis 10.00
		binary.LittleEndian.PutUint16(b[5:7], uint16(pitch))
		binary.LittleEndian.PutUint16(b[7:9], 150) // roll 1.50
		binary.LittleEndian.PutUint16(b[9:11], uint16(yaw))
	})

	tel := decodeTelemetry(t, Decoder{}, buf)

	if tel.ZAxisAngle != 10.00 {
		t.Errorf("ZAxisAngle = %v, want 10.00", tel.ZAxisAngle)
	}
	if tel.Pitch != -25.00 {
		t.Errorf("Pitch = %v, want -25.00", tel.Pitch)
	}
	if tel.Roll != 1.50 {
		t.Errorf("Roll = %v, want 1.50", tel.Roll)
	}
	if tel.Yaw != -180.00 {
		t.Errorf("Yaw = %v, want -180.00", tel.Yaw)
	}
}

func TestDecodeTelemetryRangeAndZoom(t *testing.T) {
	buf := telemetryFrame(func(b []byte) {
		b[11] = 0x01                                   // ranging on
		binary.LittleEndian.PutUint16(b[12:14], 1234)  // 123.4 m
		binary.LittleEndian.PutUint16(b[14:16], 567)   // 56.7
		binary.LittleEndian.PutUint16(b[25:27], 105)   // EO 10.5x
		binary.LittleEndian.PutUint16(b[27:29], 40)    // IR 4.0x
	})

	tel := decodeTelemetry(t, Decoder{}, buf)

	if !tel.RangingEnabled {
		t.Error("RangingEnabled = false, want true")
	}
	if math.Abs(tel.Distance-123.4) > 1e-9 {
		t.Errorf("Distance = %v, want 123.4", tel.Distance)
	}
	if math.Abs(tel.Height-56.7) > 1e-9 {
		t.Errorf("Height = %v, want 56.7", tel.Height)
	}
	if math.Abs(tel.EOZoom-10.5) > 1e-9 {
		t.Errorf("EOZoom = %v, want 10.5", tel.EOZoom)
	}
	if math.Abs(tel.IRZoom-4.0) > 1e-9 {
		t.Errorf("IRZoom = %v, want 4.0", tel.IRZoom)
	}
}

func TestDecodeTelemetrySelfTest(t *testing.T) {
	passed := decodeTelemetry(t, Decoder{}, telemetryFrame(nil))
	if !passed.SelfTestPassed {
		t.Error("SelfTestPassed = false for 0x00, want true")
	}

	failed := decodeTelemetry(t, Decoder{}, telemetryFrame(func(b []byte) {
		b[24] = 0x01
	}))
	if failed.SelfTestPassed {
		t.Error("SelfTestPassed = true for 0x01, want false")
	}
}

func TestDecodeTelemetryRangingNonzero(t *testing.T) {
	// Alternate firmware reports values other than 0x01; any nonzero
	// byte counts as enabled.
	tel := decodeTelemetry(t, Decoder{}, telemetryFrame(func(b []byte) {
		b[11] = 0x02
	}))
	if !tel.RangingEnabled {
		t.Error("RangingEnabled = false for 0x02, want true")
	}
}

func TestDecodeTelemetryPosition(t *testing.T) {
	const lon, lat = 121.5654321, 25.0337890

	fixed := telemetryFrame(func(b []byte) {
		binary.LittleEndian.PutUint32(b[16:20], uint32(int32(lon*1e7)))
		binary.LittleEndian.PutUint32(b[20:24], uint32(int32(lat*1e7)))
	})
	tel := decodeTelemetry(t, Decoder{Position: PositionFixedPoint}, fixed)
	if math.Abs(tel.Longitude-lon) > 1e-6 {
		t.Errorf("fixed-point Longitude = %v, want %v", tel.Longitude, lon)
	}
	if math.Abs(tel.Latitude-lat) > 1e-6 {
		t.Errorf("fixed-point Latitude = %v, want %v", tel.Latitude, lat)
	}

	float := telemetryFrame(func(b []byte) {
		binary.LittleEndian.PutUint32(b[16:20], math.Float32bits(float32(lon)))
		binary.LittleEndian.PutUint32(b[20:24], math.Float32bits(float32(lat)))
	})
	tel = decodeTelemetry(t, Decoder{Position: PositionFloat32}, float)
	if math.Abs(tel.Longitude-lon) > 1e-4 {
		t.Errorf("float32 Longitude = %v, want %v", tel.Longitude, lon)
	}
	if math.Abs(tel.Latitude-lat) > 1e-4 {
		t.Errorf("float32 Latitude = %v, want %v", tel.Latitude, lat)
	}
}

func TestDecodeTelemetryShortFrame(t *testing.T) {
	buf := telemetryFrame(nil)[:31]
	_, err := Decode(buf)
	if !IsMalformedFrame(err) {
		t.Errorf("Decode() of 31-byte telemetry = %v, want malformed frame error", err)
	}
}

func TestDecodeTelemetryNegativePosition(t *testing.T) {
	lon := int32(-734567890) // -73.456789
	tel := decodeTelemetry(t, Decoder{}, telemetryFrame(func(b []byte) {
		binary.LittleEndian.PutUint32(b[16:20], uint32(lon))
	}))
	if math.Abs(tel.Longitude - -73.456789) > 1e-6 {
		t.Errorf("Longitude = %v, want -73.456789", tel.Longitude)
	}
}
