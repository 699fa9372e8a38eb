// Package wmo maps WMO weather interpretation codes, as reported by
// Open-Meteo, to display metadata and coarse conditions.
package wmo

// CodeInfo describes a single weather code.
type CodeInfo struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Condition is a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

var codes = map[int]CodeInfo{
	0:  {Description: "Clear sky", Icon: "☀️"},
	1:  {Description: "Mainly clear", Icon: "🌤️"},
	2:  {Description: "Partly cloudy", Icon: "⛅"},
	3:  {Description: "Overcast", Icon: "☁️"},
	45: {Description: "Fog", Icon: "🌫️"},
	48: {Description: "Depositing rime fog", Icon: "🌫️"},
	51: {Description: "Light drizzle", Icon: "🌦️"},
	53: {Description: "Moderate drizzle", Icon: "🌦️"},
	55: {Description: "Dense drizzle", Icon: "🌧️"},
	61: {Description: "Slight rain", Icon: "🌧️"},
	63: {Description: "Moderate rain", Icon: "🌧️"},
	65: {Description: "Heavy rain", Icon: "🌧️"},
	71: {Description: "Slight snowfall", Icon: "❄️"},
	73: {Description: "Moderate snowfall", Icon: "❄️"},
	75: {Description: "Heavy snowfall", Icon: "❄️"},
	80: {Description: "Rain showers", Icon: "🌦️"},
	81: {Description: "Heavy rain showers", Icon: "🌧️"},
	95: {Description: "Thunderstorm", Icon: "⛈️"},
}

var unknown = CodeInfo{Description: "Unknown", Icon: "🌍"}

// Lookup returns display metadata for a weather code. Unknown codes return a
// generic entry rather than failing.
func Lookup(code int) CodeInfo {
	if info, ok := codes[code]; ok {
		return info
	}
	return unknown
}

// Classify buckets a weather code into a coarse condition.
func Classify(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case code >= 71 && code <= 77:
		return ConditionSnow
	case code >= 95:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}
