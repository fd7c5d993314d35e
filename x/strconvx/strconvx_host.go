//go:build !rp2040

package strconvx

import "strconv"

// Host builds delegate straight to strconv.

func FormatUint(u uint64) string { return strconv.FormatUint(u, 10) }

func ParseUint(s string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bitSize)
	if err != nil {
		return 0, ErrSyntax
	}
	return v, nil
}
