package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// MalformedFrameError is returned when an inbound buffer cannot be decoded:
// wrong header, short frame, unknown type byte, or (when verification is
// enabled) a bad checksum. Raw carries the original bytes for diagnostics.
type MalformedFrameError struct {
	Reason string
	Raw    []byte
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame: %s (raw: %s)", e.Reason, hex.EncodeToString(e.Raw))
}

// InvalidParameterError is returned by command builders under the reject
// policy: the mode or enum value is not part of the command's closed set
// and nothing was encoded.
type InvalidParameterError struct {
	Command string
	Reason  string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter: %s", e.Command, e.Reason)
}

// IsMalformedFrame reports whether err is (or wraps) a MalformedFrameError.
func IsMalformedFrame(err error) bool {
	var mfe *MalformedFrameError
	return errors.As(err, &mfe)
}

// IsInvalidParameter reports whether err is (or wraps) an
// InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var ipe *InvalidParameterError
	return errors.As(err, &ipe)
}

func newMalformed(reason string, raw []byte) *MalformedFrameError {
	// Copy so callers can reuse their receive buffer.
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return &MalformedFrameError{Reason: reason, Raw: cp}
}
