//go:build rp2040

package setups

// Selected is the Pico wiring of the power module.
var Selected = PicoPowerModule()
