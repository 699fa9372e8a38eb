package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/weatherpro/weatherdash/internal/weather"
)

func exportModel() *weather.Model {
	return &weather.Model{
		Location:  weather.Location{Latitude: 25.59, Longitude: 85.14, DisplayName: "Patna"},
		FetchedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Daily: weather.DailySeries{
			Time:              []string{"2026-08-30", "2026-08-31"},
			WeatherCode:       []int{2, 61},
			TempMax:           []float64{33.2, 28.5},
			TempMin:           []float64{24.1, 23},
			PrecipitationSum:  []float64{0.2, 7.4},
			PrecipProbability: []float64{10, 72},
			UVIndexMax:        []float64{8.5, 4},
			Sunrise:           []string{"a", "b"},
			Sunset:            []string{"a", "b"},
		},
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(exportModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Location  weather.Location `json:"location"`
		FetchedAt time.Time        `json:"fetched_at"`
		Forecast  *weather.Model   `json:"forecast"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Location.DisplayName != "Patna" {
		t.Errorf("location = %+v", decoded.Location)
	}
	if decoded.Forecast == nil || decoded.Forecast.Daily.Len() != 2 {
		t.Error("forecast payload missing")
	}
}

func TestCSV(t *testing.T) {
	data, err := CSV(exportModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 days", len(records))
	}
	if strings.Join(records[0], ",") != "date,max_temp_C,min_temp_C,precip_mm,precip_chance_pct,uv_index" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "2026-08-30" || records[1][1] != "33.2" {
		t.Errorf("first data row = %v", records[1])
	}
	if records[2][3] != "7.4" || records[2][4] != "72" {
		t.Errorf("second data row = %v", records[2])
	}
}
