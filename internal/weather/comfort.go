package weather

import (
	"math"

	"github.com/i474232898/comfort-ranking/internal/common"
)

const (
	optimalTempC       = 22.0
	optimalHumidityPct = 50.0
	optimalWindKmh     = 12.0

	tempPenalty     = 5.0 // points per °C
	humidityPenalty = 2.5 // points per humidity point
	windPenalty     = 4.0 // points per km/h

	tempWeight     = 0.55
	humidityWeight = 0.30
	windWeight     = 0.15
)

// ComfortScore maps temperature, humidity and wind to a 0-100 score where
// 100 means ideal conditions (22°C, 50% humidity, 12 km/h wind).
//
// Each dimension scores 100 minus its weighted deviation from the optimum,
// floored at 0. The weighted sum (55% temperature, 30% humidity, 15% wind) is
// rounded half away from zero, so 50.5 becomes 51.
func ComfortScore(tempC float64, humidityPct int, windKmh float64) int {
	tempScore := subScore(tempC, optimalTempC, tempPenalty)
	humScore := subScore(float64(humidityPct), optimalHumidityPct, humidityPenalty)
	windScore := subScore(windKmh, optimalWindKmh, windPenalty)

	score := tempScore*tempWeight + humScore*humidityWeight + windScore*windWeight
	if math.IsNaN(score) {
		return 0
	}
	return common.ClampInt(int(math.Round(score)), 0, 100)
}

func subScore(actual, optimal, penalty float64) float64 {
	return math.Max(0, 100-math.Abs(actual-optimal)*penalty)
}
