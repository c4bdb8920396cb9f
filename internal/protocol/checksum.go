package protocol

// Checksum computes the byte-sum checksum used by every frame shape in
// the protocol: the unsigned sum of all bytes modulo 256.
func Checksum(buf []byte) byte {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return sum
}

// ValidChecksum reports whether the final byte of buf equals the checksum
// of everything before it. Buffers shorter than two bytes cannot carry a
// checksum and always fail.
func ValidChecksum(buf []byte) bool {
	if len(buf) < 2 {
		return false
	}
	return buf[len(buf)-1] == Checksum(buf[:len(buf)-1])
}
