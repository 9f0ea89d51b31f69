package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComfortScore_Optimal(t *testing.T) {
	assert.Equal(t, 100, ComfortScore(22, 50, 12))
}

func TestComfortScore_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		tempC    float64
		humidity int
		windKmh  float64
		want     int
	}{
		{name: "good", tempC: 20, humidity: 45, windKmh: 10, want: 90},
		{name: "decent", tempC: 25, humidity: 60, windKmh: 15, want: 82},
		{name: "moderate", tempC: 30, humidity: 70, windKmh: 20, want: 58},
		{name: "poor", tempC: 35, humidity: 80, windKmh: 30, want: 31},
		{name: "humid", tempC: 22, humidity: 90, windKmh: 12, want: 70},
		{name: "windy", tempC: 22, humidity: 50, windKmh: 40, want: 85},
		{name: "still air", tempC: 22, humidity: 50, windKmh: 0, want: 93},
		{name: "sydney summer", tempC: 27.8, humidity: 65, windKmh: 15, want: 71},
		{name: "moscow winter", tempC: -19.8, humidity: 85, windKmh: 18, want: 15},
		{name: "extreme", tempC: -40, humidity: 100, windKmh: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComfortScore(tt.tempC, tt.humidity, tt.windKmh))
		})
	}
}

func TestComfortScore_HotDayRoundsHalfAwayFromZero(t *testing.T) {
	// 40°C leaves a temperature sub-score of 10: 5.5 + 30 + 15 = 50.5.
	assert.Equal(t, 51, ComfortScore(40, 50, 12))
}

func TestComfortScore_MonotonicInTemperatureDeviation(t *testing.T) {
	prevAbove := ComfortScore(22, 50, 12)
	prevBelow := prevAbove
	for d := 0.5; d <= 40; d += 0.5 {
		above := ComfortScore(22+d, 50, 12)
		below := ComfortScore(22-d, 50, 12)
		assert.LessOrEqual(t, above, prevAbove, "deviation +%.1f", d)
		assert.LessOrEqual(t, below, prevBelow, "deviation -%.1f", d)
		prevAbove, prevBelow = above, below
	}
}

func TestComfortScore_AlwaysInRange(t *testing.T) {
	temps := []float64{-273.15, -60, -40, 0, 22, 45, 60, 1e6, math.MaxFloat64}
	winds := []float64{0, 12, 100, 400, 1e9}
	for _, temp := range temps {
		for hum := 0; hum <= 100; hum += 10 {
			for _, wind := range winds {
				got := ComfortScore(temp, hum, wind)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 100)
			}
		}
	}
}

func TestComfortScore_NaNScoresZero(t *testing.T) {
	assert.Equal(t, 0, ComfortScore(math.NaN(), 50, 12))
}

func TestComfortScore_Weighting(t *testing.T) {
	badTemp := ComfortScore(35, 50, 12)
	badHumidity := ComfortScore(22, 90, 12)
	badWind := ComfortScore(22, 50, 40)

	assert.Less(t, badTemp, badHumidity, "temperature should weigh more than humidity")
	assert.Greater(t, badWind, badHumidity, "wind should weigh less than humidity")
}
