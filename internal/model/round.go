package model

import "math"

// Round2 rounds to two decimals, the resolution every emitted kW/kWh value
// carries on the wire (CSV files use two decimal places).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round4 rounds to four decimals, used for prices and €/kWh averages.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
