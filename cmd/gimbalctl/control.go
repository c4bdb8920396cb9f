package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airgava/gimbalctl/internal/gimbal"
	"github.com/airgava/gimbalctl/internal/protocol"
)

func init() {
	rootCmd.AddCommand(centerCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(pointCmd)
	rootCmd.AddCommand(verticalCmd)
	rootCmd.AddCommand(headingCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(zoomCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(pointFocusCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(hudCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(irZoomCmd)
	rootCmd.AddCommand(formatSDCmd)
	rootCmd.AddCommand(setNetworkCmd)
}

// runControl connects, runs a single control exchange, and reports the
// outcome. Shared by every one-shot control command.
func runControl(label string, fn func(*gimbal.Session) (protocol.Response, error)) error {
	s, _, err := connect()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := fn(s); err != nil {
		return fmt.Errorf("%s failed: %w", label, err)
	}
	fmt.Printf("%s: ok\n", label)
	return nil
}

// onOff parses an on/off style positional argument.
func onOff(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "start", "enable":
		return true, nil
	case "off", "stop", "disable":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", arg)
}

var centerCmd = &cobra.Command{
	Use:   "center",
	Short: "Return the gimbal to its center position",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl("center", func(s *gimbal.Session) (protocol.Response, error) {
			return s.Center()
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop all gimbal movement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl("stop", func(s *gimbal.Session) (protocol.Response, error) {
			return s.Stop()
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <yaw-speed> <pitch-speed>",
	Short: "Drive the gimbal at the given speeds",
	Long: `Drive the gimbal at the given speeds in degrees per second.
Positive yaw is rightward, positive pitch is upward. Speeds outside
the supported range are limited to the nearest supported value. The
gimbal keeps moving until 'gimbalctl stop' or a zero-speed command.`,
	Example: `  # Pan right at 20 deg/s
  gimbalctl move 20 0

  # Tilt down slowly
  gimbalctl move 0 -5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yaw, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid yaw speed %q", args[0])
		}
		pitch, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid pitch speed %q", args[1])
		}
		return runControl("move", func(s *gimbal.Session) (protocol.Response, error) {
			return s.SetSpeed(yaw, pitch)
		})
	},
}

var rotateRef string

var rotateCmd = &cobra.Command{
	Use:   "rotate <yaw|pitch|zoom> <value>",
	Short: "Rotate an axis to an absolute angle",
	Long: `Rotate a single axis to an absolute angle in degrees (or set the
zoom factor when the axis is zoom). The yaw reference frame defaults
to the compass heading; use --ref follow for airframe-relative yaw.`,
	Example: `  # Point 90 degrees east of north
  gimbalctl rotate yaw 90

  # Look 45 degrees down
  gimbalctl rotate pitch -45

  # Airframe-relative yaw
  gimbalctl rotate yaw 30 --ref follow`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var axis protocol.RotateAxis
		switch strings.ToLower(args[0]) {
		case "yaw":
			axis = protocol.RotateYaw
		case "pitch":
			axis = protocol.RotatePitch
		case "zoom":
			axis = protocol.RotateZoom
		default:
			return fmt.Errorf("unknown axis %q (use yaw, pitch or zoom)", args[0])
		}

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid angle %q", args[1])
		}

		ref := protocol.ReferenceCompass
		switch strings.ToLower(rotateRef) {
		case "", "compass":
		case "follow":
			ref = protocol.ReferenceFollowHeading
		default:
			return fmt.Errorf("unknown reference %q (use compass or follow)", rotateRef)
		}

		return runControl("rotate", func(s *gimbal.Session) (protocol.Response, error) {
			return s.RotateToAngle(axis, value, ref)
		})
	},
}

func init() {
	rotateCmd.Flags().StringVar(&rotateRef, "ref", "compass", "Yaw reference frame (compass, follow)")
}

var pointCmd = &cobra.Command{
	Use:   "point <x> <y>",
	Short: "Point the gimbal at a screen position",
	Long: `Point the gimbal at a position on the video frame. Coordinates are
offsets from the frame center in the -10000..10000 range; out-of-range
values are limited to the nearest edge.`,
	Example: `  # Slew to the upper-right quadrant
  gimbalctl point 5000 -3000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid x offset %q", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid y offset %q", args[1])
		}
		return runControl("point", func(s *gimbal.Session) (protocol.Response, error) {
			return s.PointZoom(x, y)
		})
	},
}

var verticalCmd = &cobra.Command{
	Use:   "vertical",
	Short: "Point the camera straight down",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl("vertical", func(s *gimbal.Session) (protocol.Response, error) {
			return s.VerticalView()
		})
	},
}

var headingCmd = &cobra.Command{
	Use:   "heading",
	Short: "Align the gimbal with the airframe heading",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl("heading", func(s *gimbal.Session) (protocol.Response, error) {
			return s.FollowHeading()
		})
	},
}

var photoMode string
var photoParam int

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Take photos",
	Long: `Take photos with the selected capture mode.

Modes:
  single    one photo (default)
  burst     a burst of --param shots
  delayed   one photo after --param seconds
  timed     a photo every --param seconds until stopped
  stop      stop timed capture`,
	Example: `  # Single shot
  gimbalctl photo

  # Five-shot burst
  gimbalctl photo --mode burst --param 5

  # One photo every 10 seconds
  gimbalctl photo --mode timed --param 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode protocol.PhotoMode
		switch strings.ToLower(photoMode) {
		case "", "single":
			mode = protocol.PhotoSingle
		case "burst":
			mode = protocol.PhotoBurst
		case "delayed":
			mode = protocol.PhotoDelayed
		case "timed":
			mode = protocol.PhotoTimed
		case "stop":
			mode = protocol.PhotoStop
		default:
			return fmt.Errorf("unknown photo mode %q", photoMode)
		}
		if photoParam < 0 || photoParam > 255 {
			return fmt.Errorf("param %d out of range (0-255)", photoParam)
		}
		return runControl("photo", func(s *gimbal.Session) (protocol.Response, error) {
			return s.TakePhoto(mode, byte(photoParam))
		})
	},
}

func init() {
	photoCmd.Flags().StringVar(&photoMode, "mode", "single", "Capture mode (single, burst, delayed, timed, stop)")
	photoCmd.Flags().IntVar(&photoParam, "param", 0, "Mode parameter (shot count, delay or interval in seconds)")
}

var recordCmd = &cobra.Command{
	Use:   "record <start|stop>",
	Short: "Start or stop video recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := onOff(args[0])
		if err != nil {
			return err
		}
		return runControl("record", func(s *gimbal.Session) (protocol.Response, error) {
			return s.RecordVideo(start)
		})
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom <in|out|stop|reset|in2x|out2x>",
	Short: "Control the EO camera zoom",
	Long: `Control the EO camera zoom. 'in' and 'out' zoom continuously until
'stop'; 'in2x' and 'out2x' step by a factor of two; 'reset' returns
to 1x.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode protocol.ZoomMode
		switch strings.ToLower(args[0]) {
		case "in":
			mode = protocol.ZoomIn
		case "out":
			mode = protocol.ZoomOut
		case "stop":
			mode = protocol.ZoomStop
		case "reset":
			mode = protocol.ZoomReset
		case "in2x":
			mode = protocol.ZoomIn2x
		case "out2x":
			mode = protocol.ZoomOut2x
		default:
			return fmt.Errorf("unknown zoom action %q", args[0])
		}
		return runControl("zoom", func(s *gimbal.Session) (protocol.Response, error) {
			return s.Zoom(mode)
		})
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus <near|far|stop|auto>",
	Short: "Control the EO camera focus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode protocol.FocusMode
		switch strings.ToLower(args[0]) {
		case "near":
			mode = protocol.FocusNear
		case "far":
			mode = protocol.FocusFar
		case "stop":
			mode = protocol.FocusStop
		case "auto":
			mode = protocol.FocusAuto
		default:
			return fmt.Errorf("unknown focus action %q", args[0])
		}
		return runControl("focus", func(s *gimbal.Session) (protocol.Response, error) {
			return s.Focus(mode)
		})
	},
}

var pointFocusCmd = &cobra.Command{
	Use:   "pointfocus <x> <y> <width> <height>",
	Short: "Focus on a region of the video frame",
	Long: `Focus on the region of the video frame centered at (x, y). The
center is given in 0..8191 pixel coordinates, the size in pixels.
Out-of-range values are limited to the nearest supported value.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		vals, err := intArgs(args)
		if err != nil {
			return err
		}
		return runControl("pointfocus", func(s *gimbal.Session) (protocol.Response, error) {
			return s.PointFocus(vals[0], vals[1], vals[2], vals[3])
		})
	},
}

var trackCmd = &cobra.Command{
	Use:   "track <x> <y> <width> <height>",
	Short: "Start tracking a target region",
	Long: `Start tracking the object inside a rectangular region of the video
frame, or stop tracking with 'gimbalctl track stop'. The region
center is given in 0..8191 pixel coordinates, the size in pixels.`,
	Example: `  # Track an object near frame center
  gimbalctl track 960 540 100 100

  # Stop tracking
  gimbalctl track stop`,
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && strings.EqualFold(args[0], "stop") {
			return runControl("track stop", func(s *gimbal.Session) (protocol.Response, error) {
				return s.StopTracking()
			})
		}
		if len(args) != 4 {
			return fmt.Errorf("expected <x> <y> <width> <height> or 'stop'")
		}
		vals, err := intArgs(args)
		if err != nil {
			return err
		}
		return runControl("track", func(s *gimbal.Session) (protocol.Response, error) {
			return s.StartTracking(vals[0], vals[1], vals[2], vals[3])
		})
	},
}

var followX, followY int

var followCmd = &cobra.Command{
	Use:   "follow <on|off>",
	Short: "Enable or disable target follow mode",
	Long: `Enable or disable target follow mode, keeping the tracked target at
a fixed position on the video frame. The hold position is given as
an offset from the frame center in -100..100 percent of the frame
size; 0 0 holds the target centered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enable, err := onOff(args[0])
		if err != nil {
			return err
		}
		return runControl("follow", func(s *gimbal.Session) (protocol.Response, error) {
			return s.TargetFollow(enable, followX, followY)
		})
	},
}

func init() {
	followCmd.Flags().IntVar(&followX, "x", 0, "Horizontal hold offset from center (-100..100 percent)")
	followCmd.Flags().IntVar(&followY, "y", 0, "Vertical hold offset from center (-100..100 percent)")
}

var rangeCmd = &cobra.Command{
	Use:   "range <on|off>",
	Short: "Enable or disable laser ranging",
	RunE:  enableDisable("range", (*gimbal.Session).RangeFinding),
	Args:  cobra.ExactArgs(1),
}

var hudCmd = &cobra.Command{
	Use:   "hud <on|off>",
	Short: "Show or hide the on-screen display overlay",
	RunE:  enableDisable("hud", (*gimbal.Session).ToggleHUD),
	Args:  cobra.ExactArgs(1),
}

// enableDisable builds a RunE for simple on/off commands.
func enableDisable(label string, fn func(*gimbal.Session, bool) (protocol.Response, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		enable, err := onOff(args[0])
		if err != nil {
			return err
		}
		return runControl(label, func(s *gimbal.Session) (protocol.Response, error) {
			return fn(s, enable)
		})
	}
}

var paletteNames = map[string]protocol.Palette{
	"whitehot": protocol.PaletteWhiteHot,
	"blackhot": protocol.PaletteBlackHot,
	"rainbow":  protocol.PaletteRainbow,
	"redhot":   protocol.PaletteRedHot,
	"ironbow":  protocol.PaletteIronBow,
	"lv":       protocol.PaletteLV,
	"at":       protocol.PaletteAT,
	"gb":       protocol.PaletteGB,
	"gf":       protocol.PaletteGF,
	"ht":       protocol.PaletteHT,
}

var paletteCmd = &cobra.Command{
	Use:   "palette <name>",
	Short: "Select the IR thermal palette",
	Long: `Select the IR camera thermal palette.

Palettes: whitehot, blackhot, rainbow, redhot, ironbow (device
default), lv, at, gb, gf, ht.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := paletteNames[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown palette %q", args[0])
		}
		return runControl("palette", func(s *gimbal.Session) (protocol.Response, error) {
			return s.ChangePalette(p)
		})
	},
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity <auto|level>",
	Short: "Set the tracker sensitivity",
	Long: `Set the tracker sensitivity, either automatic or a fixed level.`,
	Example: `  # Let the tracker adapt
  gimbalctl sensitivity auto

  # Fixed level
  gimbalctl sensitivity 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.EqualFold(args[0], "auto") {
			return runControl("sensitivity", func(s *gimbal.Session) (protocol.Response, error) {
				return s.AutoSensitivity(true)
			})
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("expected 'auto' or a level number, got %q", args[0])
		}
		return runControl("sensitivity", func(s *gimbal.Session) (protocol.Response, error) {
			return s.ManualSensitivity(level)
		})
	},
}

var irZoomCmd = &cobra.Command{
	Use:   "irzoom <in|out>",
	Short: "Step the IR camera digital zoom",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in bool
		switch strings.ToLower(args[0]) {
		case "in":
			in = true
		case "out":
			in = false
		default:
			return fmt.Errorf("expected in or out, got %q", args[0])
		}
		return runControl("irzoom", func(s *gimbal.Session) (protocol.Response, error) {
			return s.IRZoom(in)
		})
	},
}

var formatConfirm bool

var formatSDCmd = &cobra.Command{
	Use:   "format-sd",
	Short: "Format the gimbal's SD card",
	Long: `Format the SD card in the gimbal. This erases all recorded photos
and videos and requires --yes to confirm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !formatConfirm {
			return fmt.Errorf("formatting erases all recordings; re-run with --yes to confirm")
		}
		return runControl("format-sd", func(s *gimbal.Session) (protocol.Response, error) {
			return s.FormatSD()
		})
	},
}

func init() {
	formatSDCmd.Flags().BoolVar(&formatConfirm, "yes", false, "Confirm formatting the SD card")
}

var setNetworkCmd = &cobra.Command{
	Use:   "set-network <ip> <gateway>",
	Short: "Change the gimbal's IP address and gateway",
	Long: `Change the gimbal's IPv4 address and gateway. The new address takes
effect after the gimbal reboots; update your config entry afterwards.`,
	Example: `  gimbalctl set-network 192.168.144.25 192.168.144.1`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ip := net.ParseIP(args[0])
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("invalid IPv4 address %q", args[0])
		}
		gateway := net.ParseIP(args[1])
		if gateway == nil || gateway.To4() == nil {
			return fmt.Errorf("invalid IPv4 gateway %q", args[1])
		}
		return runControl("set-network", func(s *gimbal.Session) (protocol.Response, error) {
			return s.ModifyIPGateway(ip, gateway)
		})
	},
}

// intArgs parses a slice of integer positional arguments.
func intArgs(args []string) ([]int, error) {
	vals := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", a)
		}
		vals[i] = v
	}
	return vals, nil
}
