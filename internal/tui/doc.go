// Package tui implements the interactive watch dashboard.
//
// The dashboard shows live telemetry (attitude, zoom, target position,
// self-test state) while mapping the keyboard onto gimbal commands:
// arrow keys drive the gimbal at a fixed angular speed, space stops it,
// and single keys trigger center, photo, record, zoom, and laser
// ranging.
//
// The model polls the session for telemetry in a command loop; each
// poll uses a single read attempt so keystrokes stay responsive.
// Commands run off the UI goroutine and report back as messages, so a
// slow gimbal never blocks rendering.
//
// Built on Bubble Tea with bubbles/help for the key legend and lipgloss
// for layout.
package tui
