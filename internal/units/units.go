package units

import (
	"fmt"
	"math"
)

// System is the active display unit preference.
type System struct {
	UseCelsius bool `json:"useCelsius"`
}

// Metric returns the default metric preference.
func Metric() System {
	return System{UseCelsius: true}
}

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 {
	return c*9/5 + 32
}

// FToC converts Fahrenheit to Celsius.
func FToC(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatTemp renders a Celsius value in the preferred unit with one decimal.
func (s System) FormatTemp(celsius float64) string {
	if s.UseCelsius {
		return fmt.Sprintf("%.1f °C", Round1(celsius))
	}
	return fmt.Sprintf("%.1f °F", Round1(CToF(celsius)))
}

// Display converts a Celsius value into the preferred unit, rounded.
func (s System) Display(celsius float64) float64 {
	if s.UseCelsius {
		return Round1(celsius)
	}
	return Round1(CToF(celsius))
}

// Symbol returns the unit suffix for the active preference.
func (s System) Symbol() string {
	if s.UseCelsius {
		return "°C"
	}
	return "°F"
}
