// Package advisory derives human-readable guidance from a normalized
// weather model: rain and UV warnings per day, AQI advice, and clothing
// recommendations. Everything here is a pure function of the model.
package advisory

import (
	"fmt"
	"strings"
	"time"

	"github.com/weatherpro/weatherdash/internal/units"
	"github.com/weatherpro/weatherdash/internal/weather"
	"github.com/weatherpro/weatherdash/internal/wmo"
)

// summaryDays is how many leading days of the daily series get a sentence.
const summaryDays = 3

// AQIBand is a US AQI severity band.
type AQIBand string

const (
	AQIGood               AQIBand = "good"
	AQIModerate           AQIBand = "moderate"
	AQIUnhealthySensitive AQIBand = "unhealthy-sensitive"
	AQIUnhealthy          AQIBand = "unhealthy"
	AQIHazardous          AQIBand = "hazardous"
)

// BandAQI buckets a US AQI value. Bands are total and non-overlapping over
// the 0-500 scale.
func BandAQI(aqi float64) AQIBand {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	case aqi <= 200:
		return AQIUnhealthy
	default:
		return AQIHazardous
	}
}

var aqiAdviceText = map[AQIBand]string{
	AQIGood:               "Air quality is good.",
	AQIModerate:           "Moderate — some sensitive groups should take care.",
	AQIUnhealthySensitive: "Unhealthy for sensitive groups — consider limiting prolonged outdoor exertion.",
	AQIUnhealthy:          "Unhealthy — reduce outdoor activity.",
	AQIHazardous:          "Very unhealthy/hazardous — avoid outdoor activity if possible.",
}

// AQIAdvice returns the advisory sentence for a US AQI value.
func AQIAdvice(aqi float64) string {
	return aqiAdviceText[BandAQI(aqi)]
}

// ClothingAdvice recommends clothing for a daily max temperature in Celsius.
// Thresholds are evaluated in descending order; first match wins.
func ClothingAdvice(tempC float64) string {
	switch {
	case tempC >= 32:
		return "Very hot — light clothes, stay hydrated, avoid midday sun."
	case tempC >= 25:
		return "Warm — T-shirt & light trousers, sunglasses recommended."
	case tempC >= 18:
		return "Mild — layer with light jacket for mornings/evenings."
	case tempC >= 10:
		return "Cool — jacket or sweater recommended."
	default:
		return "Cold — heavy jacket, gloves and warm clothing."
	}
}

// Summarize produces the multi-day guidance text for a model. Temperatures
// follow the active unit preference.
func Summarize(m *weather.Model, prefs units.System) string {
	if m == nil {
		return "No forecast loaded yet."
	}

	parts := []string{fmt.Sprintf("Forecast summary for %s:", m.Location.DisplayName)}

	n := m.Daily.Len()
	if n > summaryDays {
		n = summaryDays
	}
	for i := 0; i < n; i++ {
		parts = append(parts, daySentence(m, i, prefs))
	}

	if aqi, ok := m.CurrentUSAQI(); ok {
		parts = append(parts, fmt.Sprintf("Current US AQI: %.0f. %s", aqi, AQIAdvice(aqi)))
	}

	if m.Daily.Len() > 0 {
		parts = append(parts, fmt.Sprintf("Clothing advice: %s", ClothingAdvice(m.Daily.TempMax[0])))
	}

	return strings.Join(parts, "\n\n")
}

func daySentence(m *weather.Model, i int, prefs units.System) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s: %s — ", formatDay(m.Daily.Time[i]), wmo.Lookup(m.Daily.WeatherCode[i]).Description))
	b.WriteString(fmt.Sprintf("High %s, Low %s. ", prefs.FormatTemp(m.Daily.TempMax[i]), prefs.FormatTemp(m.Daily.TempMin[i])))

	chance := m.Daily.PrecipProbability[i]
	rain := m.Daily.PrecipitationSum[i]
	switch {
	case chance >= 60 || rain > 5:
		b.WriteString(fmt.Sprintf("High chance of rain (%.0f%%), carry an umbrella. ", chance))
	case chance >= 30:
		b.WriteString(fmt.Sprintf("Moderate chance of rain (%.0f%%). ", chance))
	default:
		b.WriteString("Low chance of rain. ")
	}

	uv := m.Daily.UVIndexMax[i]
	switch {
	case uv >= 8:
		b.WriteString(fmt.Sprintf("Very high UV (%.1f) — wear sunscreen. ", uv))
	case uv >= 6:
		b.WriteString(fmt.Sprintf("High UV (%.1f). ", uv))
	}

	return strings.TrimRight(b.String(), " ")
}

func formatDay(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("Mon, Jan 2")
}
