// Package strconvx provides the decimal conversions used by the command
// plane with one signature on host and MCU builds.
package strconvx

import "powermodule-go/errcode"

// ErrSyntax is returned for empty, non-decimal or out-of-range input.
const ErrSyntax = errcode.InvalidParams
