// Package export renders the current model as downloadable JSON or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/weatherpro/weatherdash/internal/weather"
)

var csvHeader = []string{"date", "max_temp_C", "min_temp_C", "precip_mm", "precip_chance_pct", "uv_index"}

// JSON dumps the full model with location and fetch time.
func JSON(m *weather.Model) ([]byte, error) {
	payload := struct {
		Location  weather.Location `json:"location"`
		FetchedAt time.Time        `json:"fetched_at"`
		Forecast  *weather.Model   `json:"forecast"`
	}{
		Location:  m.Location,
		FetchedAt: m.FetchedAt,
		Forecast:  m,
	}
	return json.MarshalIndent(payload, "", "  ")
}

// CSV renders the daily series. Temperature columns are always Celsius
// regardless of the display unit preference.
func CSV(m *weather.Model) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := 0; i < m.Daily.Len(); i++ {
		row := []string{
			m.Daily.Time[i],
			fmt.Sprintf("%g", m.Daily.TempMax[i]),
			fmt.Sprintf("%g", m.Daily.TempMin[i]),
			fmt.Sprintf("%g", m.Daily.PrecipitationSum[i]),
			fmt.Sprintf("%g", m.Daily.PrecipProbability[i]),
			fmt.Sprintf("%g", m.Daily.UVIndexMax[i]),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
