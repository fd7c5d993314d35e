//go:build !rp2040

package setups

// Selected mirrors the Pico wiring so host runs exercise the same claims.
var Selected = host()

func host() Plan { return PicoPowerModule() }
