//go:build rp2040

package strconvx

// Decimal-only helpers; keeps strconv's tables out of the MCU image.

func FormatUint(u uint64) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

func ParseUint(s string, bitSize int) (uint64, error) {
	if len(s) == 0 {
		return 0, ErrSyntax
	}
	if bitSize <= 0 || bitSize > 64 {
		bitSize = 64
	}
	max := uint64(1)<<uint(bitSize) - 1
	if bitSize == 64 {
		max = ^uint64(0)
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrSyntax
		}
		d := uint64(c - '0')
		if v > (max-d)/10 {
			return 0, ErrSyntax
		}
		v = v*10 + d
	}
	return v, nil
}
