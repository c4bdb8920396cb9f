package protocol

import (
	"bytes"
	"testing"
)

func TestBuildFrameLayout(t *testing.T) {
	frame := BuildFrame(ControlUnitEO, CmdEOCenter, nil)

	if len(frame) != 24 {
		t.Fatalf("frame length = %d, want 24", len(frame))
	}
	if frame[0] != 0x4B || frame[1] != 0x4B {
		t.Errorf("header = %02x %02x, want 4B 4B", frame[0], frame[1])
	}
	for i := 2; i < 12; i++ {
		if frame[i] != 0 {
			t.Errorf("reserved byte %d = 0x%02x, want 0x00", i, frame[i])
		}
	}
	if frame[12] != 0x40 || frame[13] != 0x88 {
		t.Errorf("marker = %02x %02x, want 40 88", frame[12], frame[13])
	}
	if frame[14] != byte(ControlUnitEO) {
		t.Errorf("control unit = 0x%02x, want 0x01", frame[14])
	}
	if frame[15] != CmdEOCenter {
		t.Errorf("opcode = 0x%02x, want 0x%02x", frame[15], CmdEOCenter)
	}

	// Checksum byte is the sum of all preceding bytes mod 256.
	var sum byte
	for _, b := range frame[:FrameSize-1] {
		sum += b
	}
	if frame[FrameSize-1] != sum {
		t.Errorf("checksum = 0x%02x, want 0x%02x", frame[FrameSize-1], sum)
	}
}

func TestBuildFrameParams(t *testing.T) {
	tests := []struct {
		name   string
		params []byte
		want   []byte // expected 7 parameter bytes
	}{
		{
			name:   "nil params zero filled",
			params: nil,
			want:   []byte{0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:   "short params padded right",
			params: []byte{0xAA, 0xBB},
			want:   []byte{0xAA, 0xBB, 0, 0, 0, 0, 0},
		},
		{
			name:   "exact length kept",
			params: []byte{1, 2, 3, 4, 5, 6, 7},
			want:   []byte{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "over-length truncated to first seven",
			params: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9},
			want:   []byte{1, 2, 3, 4, 5, 6, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := BuildFrame(ControlUnitEO, CmdEOPointZoom, tt.params)
			if got := frame[16:23]; !bytes.Equal(got, tt.want) {
				t.Errorf("params = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestBuildFrameIdempotent(t *testing.T) {
	a := BuildGimbalSpeedCmd(12.5, -3.25)
	b := BuildGimbalSpeedCmd(12.5, -3.25)
	if !bytes.Equal(a, b) {
		t.Errorf("same inputs produced different frames:\n%x\n%x", a, b)
	}
}

func TestDecodeAck(t *testing.T) {
	buf := []byte{0x4B, 0x4B, 0x01, 0x02, 0x03, 0, 0, 0, 0, 0, 0, 0, 0}

	resp, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	ack, ok := resp.(*Ack)
	if !ok {
		t.Fatalf("Decode() = %T, want *Ack", resp)
	}
	if ack.Unit != ControlUnit(2) {
		t.Errorf("unit = %d, want 2", ack.Unit)
	}
	if ack.Opcode != 3 {
		t.Errorf("opcode = %d, want 3", ack.Opcode)
	}
	if !bytes.Equal(ack.Data, []byte{0, 0, 0, 0, 0, 0, 0}) {
		t.Errorf("data = %v, want seven zero bytes", ack.Data)
	}
}

func TestDecodeVersion(t *testing.T) {
	buf := []byte{0x4B, 0x4B, 0xFF, 1, 4, 2, 24, 10, 14}

	resp, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	v, ok := resp.(*Version)
	if !ok {
		t.Fatalf("Decode() = %T, want *Version", resp)
	}
	if v.Major != 1 || v.Minor != 4 || v.Patch != 2 {
		t.Errorf("version = %d.%d.%d, want 1.4.2", v.Major, v.Minor, v.Patch)
	}
	if got, want := v.BuildDate(), "2024-10-14"; got != want {
		t.Errorf("BuildDate() = %q, want %q", got, want)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "empty", buf: nil},
		{name: "single byte", buf: []byte{0x4B}},
		{name: "header only", buf: []byte{0x4B, 0x4B}},
		{name: "wrong magic", buf: []byte{0x58, 0x58, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{name: "unknown type", buf: []byte{0x4B, 0x4B, 0x7E, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{name: "ack too short", buf: []byte{0x4B, 0x4B, 0x01, 0x02, 0x03, 0, 0, 0, 0, 0, 0, 0}},
		{name: "version too short", buf: []byte{0x4B, 0x4B, 0xFF, 1, 4}},
		{name: "telemetry too short", buf: append([]byte{0x4B, 0x4B, 0x02}, make([]byte, 20)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Decode(tt.buf)
			if err == nil {
				t.Fatalf("Decode() = %v, want malformed frame error", resp)
			}
			if !IsMalformedFrame(err) {
				t.Errorf("IsMalformedFrame(%v) = false, want true", err)
			}
		})
	}
}

func TestDecodeMalformedKeepsRaw(t *testing.T) {
	buf := []byte{0x58, 0x58, 0x01, 0xAB}
	_, err := Decode(buf)
	mfe, ok := err.(*MalformedFrameError)
	if !ok {
		t.Fatalf("Decode() error = %T, want *MalformedFrameError", err)
	}
	if !bytes.Equal(mfe.Raw, buf) {
		t.Errorf("Raw = %x, want %x", mfe.Raw, buf)
	}
}

func TestDecodeVerifyChecksum(t *testing.T) {
	// A valid ack frame plus a correct trailing checksum byte.
	frame := []byte{0x4B, 0x4B, 0x01, 0x01, 0x03, 0, 0, 0, 0, 0, 0, 0}
	frame = append(frame, Checksum(frame))

	strict := Decoder{VerifyChecksum: true}
	if _, err := strict.Decode(frame); err != nil {
		t.Fatalf("Decode() with valid checksum error = %v", err)
	}

	frame[len(frame)-1]++
	if _, err := strict.Decode(frame); !IsMalformedFrame(err) {
		t.Errorf("Decode() with bad checksum error = %v, want malformed frame", err)
	}

	// The default decoder never checks.
	if _, err := Decode(frame); err != nil {
		t.Errorf("default Decode() rejected frame on checksum: %v", err)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	buf := make([]byte, 40)
	buf[0], buf[1], buf[2] = 0x4B, 0x4B, 0x02
	if _, err := Decode(buf); err != nil {
		t.Errorf("Decode() with extra trailing bytes error = %v", err)
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want byte
	}{
		{name: "empty", buf: nil, want: 0},
		{name: "simple", buf: []byte{1, 2, 3}, want: 6},
		{name: "wraps mod 256", buf: []byte{0xFF, 0x02}, want: 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.buf); got != tt.want {
				t.Errorf("Checksum(%x) = 0x%02x, want 0x%02x", tt.buf, got, tt.want)
			}
		})
	}
}
