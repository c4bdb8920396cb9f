package gimbal

import (
	"net"

	"github.com/airgava/gimbalctl/internal/protocol"
)

// Command methods, one per catalog entry. Clamp-policy commands always
// encode; reject-policy commands return an InvalidParameterError from the
// codec without touching the wire.

// PointZoom zooms toward a point offset from screen centre.
func (s *Session) PointZoom(xOffset, yOffset int) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildPointZoomCmd(xOffset, yOffset))
}

// FollowHeading puts the gimbal in follow-heading mode.
func (s *Session) FollowHeading() (protocol.Response, error) {
	return s.SendCommand(protocol.BuildFollowHeadingCmd())
}

// Center returns the gimbal to its centre position.
func (s *Session) Center() (protocol.Response, error) {
	return s.SendCommand(protocol.BuildCenterCmd())
}

// SetSpeed drives the gimbal at the given yaw/pitch rates in degrees per
// second (effective range +/- 100, saturated).
func (s *Session) SetSpeed(yawSpeed, pitchSpeed float64) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildGimbalSpeedCmd(yawSpeed, pitchSpeed))
}

// Stop halts gimbal motion. It is SetSpeed(0, 0).
func (s *Session) Stop() (protocol.Response, error) {
	return s.SetSpeed(0, 0)
}

// StartTracking locks the tracker onto the window centred at (x, y).
func (s *Session) StartTracking(x, y, width, height int) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildStartTrackingCmd(x, y, width, height))
}

// StopTracking releases the tracker.
func (s *Session) StopTracking() (protocol.Response, error) {
	return s.SendCommand(protocol.BuildStopTrackingCmd())
}

// VerticalView points the camera straight down.
func (s *Session) VerticalView() (protocol.Response, error) {
	return s.SendCommand(protocol.BuildVerticalViewCmd())
}

// RotateToAngle rotates one axis to an absolute angle (or zoom factor).
func (s *Session) RotateToAngle(axis protocol.RotateAxis, value float64, ref protocol.RotateReference) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildRotateToAngleCmd(axis, value, ref))
}

// TakePhoto triggers a capture in the given mode.
func (s *Session) TakePhoto(mode protocol.PhotoMode, param byte) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildTakePhotoCmd(mode, param))
}

// RecordVideo starts (true) or stops (false) video recording.
func (s *Session) RecordVideo(start bool) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildRecordVideoCmd(start))
}

// Zoom performs an EO zoom action.
func (s *Session) Zoom(mode protocol.ZoomMode) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildZoomCmd(mode))
}

// Focus performs an EO focus action.
func (s *Session) Focus(mode protocol.FocusMode) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildFocusCmd(mode))
}

// PointFocus focuses on the window centred at (x, y).
func (s *Session) PointFocus(x, y, width, height int) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildPointFocusCmd(x, y, width, height))
}

// RangeFinding toggles the laser range finder (TX series only).
func (s *Session) RangeFinding(enable bool) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildRangeFindingCmd(enable))
}

// TargetFollow toggles target following with the desired centre offset
// ratios in percent.
func (s *Session) TargetFollow(enable bool, xRatio, yRatio int) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildTargetFollowCmd(enable, xRatio, yRatio))
}

// FormatSD formats the unit's SD card.
func (s *Session) FormatSD() (protocol.Response, error) {
	return s.SendCommand(protocol.BuildFormatSDCmd())
}

// QueryVersion asks the unit for its firmware version. Unlike the other
// commands this one expects a specific response shape.
func (s *Session) QueryVersion() (*protocol.Version, error) {
	resp, err := s.SendCommand(protocol.BuildQueryVersionCmd())
	if err != nil {
		return nil, err
	}
	v, ok := resp.(*protocol.Version)
	if !ok {
		return nil, &SessionError{
			Type:    ErrTypeUnexpectedResponse,
			Message: "expected version report, got " + resp.String(),
		}
	}
	return v, nil
}

// ToggleHUD toggles the thermal camera's on-screen HUD.
func (s *Session) ToggleHUD(enable bool) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildToggleHUDCmd(enable))
}

// ChangePalette switches the thermal colour palette.
func (s *Session) ChangePalette(p protocol.Palette) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildChangePaletteCmd(p))
}

// AutoSensitivity toggles automatic thermal sensitivity.
func (s *Session) AutoSensitivity(enable bool) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildAutoSensitivityCmd(enable))
}

// ManualSensitivity sets the thermal sensitivity level (1..5, saturated).
func (s *Session) ManualSensitivity(level int) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildManualSensitivityCmd(level))
}

// IRZoom zooms the thermal camera in (true) or out (false).
func (s *Session) IRZoom(zoomIn bool) (protocol.Response, error) {
	return s.SendCommand(protocol.BuildIRZoomCmd(zoomIn))
}

// ModifyIPGateway reconfigures the unit's control IP and gateway. The
// unit applies the change on its next boot; the current session keeps its
// existing connection.
func (s *Session) ModifyIPGateway(ip, gateway net.IP) (protocol.Response, error) {
	return s.sendChecked(protocol.BuildModifyIPGatewayCmd(ip, gateway))
}
