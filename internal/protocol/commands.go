package protocol

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ControlUnit selects which subsystem of the gimbal a command targets.
// The opcode space is scoped per unit: the same opcode byte means
// different things for EO and IR.
type ControlUnit byte

const (
	// ControlUnitEO targets the electro-optical (visible light) camera.
	ControlUnitEO ControlUnit = 0x01
	// ControlUnitIR targets the thermal imaging camera.
	ControlUnitIR ControlUnit = 0x02
	// ControlUnitTCP targets the network configuration interface.
	ControlUnitTCP ControlUnit = 0x21
)

func (u ControlUnit) String() string {
	switch u {
	case ControlUnitEO:
		return "EO"
	case ControlUnitIR:
		return "IR"
	case ControlUnitTCP:
		return "TCP"
	}
	return fmt.Sprintf("ControlUnit(0x%02x)", byte(u))
}

// EO (visible light) opcodes.
const (
	CmdEOPointZoom      = 0x01
	CmdEOFollowHeading  = 0x02
	CmdEOCenter         = 0x03
	CmdEOControlGimbal  = 0x04
	CmdEOStartTracking  = 0x05
	CmdEOStopTracking   = 0x06
	CmdEOVerticalView   = 0x07
	CmdEORotateToAngle  = 0x08
	CmdEOTakePhoto      = 0x10
	CmdEORecordVideo    = 0x11
	CmdEOZoom           = 0x12
	CmdEOFocus          = 0x13
	CmdEOPointFocus     = 0x14
	CmdEORangeFinding   = 0x21
	CmdEOTargetFollow   = 0x31
	CmdEOFormatSD       = 0xF1
	CmdEOQueryVersion   = 0xFF
)

// IR (thermal imaging) opcodes.
const (
	CmdIRToggleHUD         = 0x01
	CmdIRChangePalette     = 0x02
	CmdIRAutoSensitivity   = 0x03
	CmdIRManualSensitivity = 0x04
	CmdIRZoom              = 0x05
)

// Palette is a thermal camera colour palette.
type Palette byte

const (
	PaletteWhiteHot Palette = 0x00
	PaletteBlackHot Palette = 0x01
	PaletteRainbow  Palette = 0x02
	PaletteRedHot   Palette = 0x03
	PaletteIronBow  Palette = 0x04 // device default
	PaletteLV       Palette = 0x05
	PaletteAT       Palette = 0x06
	PaletteGB       Palette = 0x07
	PaletteGF       Palette = 0x08
	PaletteHT       Palette = 0x09
)

// RotateAxis selects what BuildRotateToAngleCmd drives.
type RotateAxis byte

const (
	RotateYaw   RotateAxis = 1
	RotatePitch RotateAxis = 2
	RotateZoom  RotateAxis = 3
)

// RotateReference selects the angular reference frame for rotation.
type RotateReference byte

const (
	ReferenceCompass       RotateReference = 1
	ReferenceFollowHeading RotateReference = 2
)

// PhotoMode selects the capture behaviour for BuildTakePhotoCmd.
type PhotoMode byte

const (
	PhotoSingle  PhotoMode = 1
	PhotoBurst   PhotoMode = 2 // param: shot count
	PhotoDelayed PhotoMode = 3 // param: delay seconds
	PhotoTimed   PhotoMode = 4 // param: interval seconds
	PhotoStop    PhotoMode = 5
)

// ZoomMode selects the EO zoom action.
type ZoomMode byte

const (
	ZoomIn     ZoomMode = 1
	ZoomOut    ZoomMode = 2
	ZoomStop   ZoomMode = 3
	ZoomReset  ZoomMode = 4 // back to 1x
	ZoomIn2x   ZoomMode = 5
	ZoomOut2x  ZoomMode = 6
)

// FocusMode selects the EO focus action.
type FocusMode byte

const (
	FocusNear FocusMode = 1
	FocusFar  FocusMode = 2
	FocusStop FocusMode = 3
	FocusAuto FocusMode = 4
)

// clampInt saturates v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// putInt16 appends v as little-endian signed 16 bit.
func putInt16(dst []byte, v int) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
	return append(dst, b[:]...)
}

// BuildPointZoomCmd encodes the point zoom command. Offsets are screen
// offsets from centre, clamped to [-10000, 10000].
func BuildPointZoomCmd(xOffset, yOffset int) []byte {
	params := putInt16(nil, clampInt(xOffset, -10000, 10000))
	params = putInt16(params, clampInt(yOffset, -10000, 10000))
	return BuildFrame(ControlUnitEO, CmdEOPointZoom, params)
}

// BuildFollowHeadingCmd encodes the follow heading mode command.
func BuildFollowHeadingCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOFollowHeading, nil)
}

// BuildCenterCmd encodes the command that returns the gimbal to centre.
func BuildCenterCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOCenter, nil)
}

// BuildGimbalSpeedCmd encodes a velocity control command. Speeds are in
// degrees per second; they are scaled by 100 on the wire and the raw
// values clamped to [-10000, 10000] (so the effective range is
// +/- 100 deg/s).
func BuildGimbalSpeedCmd(yawSpeed, pitchSpeed float64) []byte {
	params := putInt16(nil, clampInt(int(yawSpeed*100), -10000, 10000))
	params = putInt16(params, clampInt(int(pitchSpeed*100), -10000, 10000))
	return BuildFrame(ControlUnitEO, CmdEOControlGimbal, params)
}

// trackingParams encodes the shared (x, y, width, height) parameter shape
// used by start tracking and point focus: clamped 16-bit coordinates
// followed by width/16 and height/16 capped at one byte each.
func trackingParams(x, y, width, height int) []byte {
	params := putInt16(nil, clampInt(x, 0, 8191))
	params = putInt16(params, clampInt(y, 0, 8191))
	params = append(params, byte(clampInt(width/16, 0, 255)))
	params = append(params, byte(clampInt(height/16, 0, 255)))
	return params
}

// BuildStartTrackingCmd encodes the start tracking command for a target
// window centred at (x, y) with the given pixel size.
func BuildStartTrackingCmd(x, y, width, height int) []byte {
	return BuildFrame(ControlUnitEO, CmdEOStartTracking, trackingParams(x, y, width, height))
}

// BuildStopTrackingCmd encodes the stop tracking command.
func BuildStopTrackingCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOStopTracking, nil)
}

// BuildVerticalViewCmd encodes the command that points the camera
// straight down.
func BuildVerticalViewCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOVerticalView, nil)
}

// BuildRotateToAngleCmd encodes an absolute rotation. The value is
// degrees for yaw (clamped to +/- 180) and pitch (clamped to -100..60),
// or a zoom factor for RotateZoom (clamped to 10..35). Yaw and pitch are
// scaled by 10 on the wire, zoom by 100. An axis outside the closed set
// is rejected.
func BuildRotateToAngleCmd(axis RotateAxis, value float64, ref RotateReference) ([]byte, error) {
	var raw int
	switch axis {
	case RotateYaw:
		raw = clampInt(int(value*10), -1800, 1800)
	case RotatePitch:
		raw = clampInt(int(value*10), -1000, 600)
	case RotateZoom:
		raw = clampInt(int(value*100), 1000, 3500)
	default:
		return nil, &InvalidParameterError{
			Command: "rotate to angle",
			Reason:  fmt.Sprintf("axis must be 1, 2 or 3, got %d", axis),
		}
	}
	params := append([]byte{byte(axis)}, putInt16(nil, raw)...)
	params = append(params, byte(ref))
	return BuildFrame(ControlUnitEO, CmdEORotateToAngle, params), nil
}

// BuildTakePhotoCmd encodes a photo command. The param byte is the shot
// count for burst mode, delay seconds for delayed mode and interval
// seconds for timed mode; it is ignored otherwise. An unknown mode is
// rejected.
func BuildTakePhotoCmd(mode PhotoMode, param byte) ([]byte, error) {
	if mode < PhotoSingle || mode > PhotoStop {
		return nil, &InvalidParameterError{
			Command: "take photo",
			Reason:  fmt.Sprintf("mode must be 1..5, got %d", mode),
		}
	}
	return BuildFrame(ControlUnitEO, CmdEOTakePhoto, []byte{byte(mode), param}), nil
}

// BuildRecordVideoCmd encodes a recording start (true) or stop (false).
func BuildRecordVideoCmd(start bool) []byte {
	mode := byte(0x02)
	if start {
		mode = 0x01
	}
	return BuildFrame(ControlUnitEO, CmdEORecordVideo, []byte{mode})
}

// BuildZoomCmd encodes an EO zoom action. An unknown mode is rejected.
func BuildZoomCmd(mode ZoomMode) ([]byte, error) {
	if mode < ZoomIn || mode > ZoomOut2x {
		return nil, &InvalidParameterError{
			Command: "zoom",
			Reason:  fmt.Sprintf("mode must be 1..6, got %d", mode),
		}
	}
	return BuildFrame(ControlUnitEO, CmdEOZoom, []byte{byte(mode)}), nil
}

// BuildFocusCmd encodes an EO focus action. An unknown mode is rejected.
func BuildFocusCmd(mode FocusMode) ([]byte, error) {
	if mode < FocusNear || mode > FocusAuto {
		return nil, &InvalidParameterError{
			Command: "focus",
			Reason:  fmt.Sprintf("mode must be 1..4, got %d", mode),
		}
	}
	return BuildFrame(ControlUnitEO, CmdEOFocus, []byte{byte(mode)}), nil
}

// BuildPointFocusCmd encodes a focus on the window centred at (x, y).
func BuildPointFocusCmd(x, y, width, height int) []byte {
	return BuildFrame(ControlUnitEO, CmdEOPointFocus, trackingParams(x, y, width, height))
}

// BuildRangeFindingCmd encodes the laser range finding toggle
// (TX series only).
func BuildRangeFindingCmd(enable bool) []byte {
	return BuildFrame(ControlUnitEO, CmdEORangeFinding, []byte{boolByte(enable)})
}

// BuildTargetFollowCmd encodes the target follow toggle. The ratios are
// the desired target centre offset as a percentage of the frame, clamped
// to [-100, 100].
func BuildTargetFollowCmd(enable bool, xRatio, yRatio int) []byte {
	params := []byte{
		boolByte(enable),
		byte(int8(clampInt(xRatio, -100, 100))),
		byte(int8(clampInt(yRatio, -100, 100))),
	}
	return BuildFrame(ControlUnitEO, CmdEOTargetFollow, params)
}

// BuildFormatSDCmd encodes the SD card format command.
func BuildFormatSDCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOFormatSD, nil)
}

// BuildQueryVersionCmd encodes the firmware version query.
func BuildQueryVersionCmd() []byte {
	return BuildFrame(ControlUnitEO, CmdEOQueryVersion, nil)
}

// BuildToggleHUDCmd encodes the thermal camera HUD toggle.
func BuildToggleHUDCmd(enable bool) []byte {
	return BuildFrame(ControlUnitIR, CmdIRToggleHUD, []byte{boolByte(enable)})
}

// BuildChangePaletteCmd encodes a thermal palette change. Values outside
// the ten documented palettes are rejected.
func BuildChangePaletteCmd(p Palette) ([]byte, error) {
	if p > PaletteHT {
		return nil, &InvalidParameterError{
			Command: "change palette",
			Reason:  fmt.Sprintf("palette must be 0x00..0x09, got 0x%02x", byte(p)),
		}
	}
	return BuildFrame(ControlUnitIR, CmdIRChangePalette, []byte{byte(p)}), nil
}

// BuildAutoSensitivityCmd encodes the automatic sensitivity toggle.
func BuildAutoSensitivityCmd(enable bool) []byte {
	return BuildFrame(ControlUnitIR, CmdIRAutoSensitivity, []byte{boolByte(enable)})
}

// BuildManualSensitivityCmd encodes a manual sensitivity level, clamped
// to the device's 1..5 range.
func BuildManualSensitivityCmd(level int) []byte {
	return BuildFrame(ControlUnitIR, CmdIRManualSensitivity, []byte{byte(clampInt(level, 1, 5))})
}

// BuildIRZoomCmd encodes a thermal camera zoom in (true) or out (false).
func BuildIRZoomCmd(zoomIn bool) []byte {
	mode := byte(0x02)
	if zoomIn {
		mode = 0x01
	}
	return BuildFrame(ControlUnitIR, CmdIRZoom, []byte{mode})
}

// BuildModifyIPGatewayCmd encodes the network reconfiguration command,
// the protocol's second frame shape. Both addresses must be IPv4.
func BuildModifyIPGatewayCmd(ip, gateway net.IP) ([]byte, error) {
	ip4 := ip.To4()
	gw4 := gateway.To4()
	if ip4 == nil || gw4 == nil {
		return nil, &InvalidParameterError{
			Command: "modify ip/gateway",
			Reason:  "ip and gateway must be IPv4 addresses",
		}
	}
	var ipOctets, gwOctets [4]byte
	copy(ipOctets[:], ip4)
	copy(gwOctets[:], gw4)
	return buildNetworkFrame(ipOctets, gwOctets), nil
}

func boolByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}
