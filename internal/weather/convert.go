package weather

import (
	"math"
	"strconv"
	"strings"
)

var windDirections = []string{
	"북", "북북동", "북동", "동북동", "동", "동남동", "남동", "남남동",
	"남", "남남서", "남서", "서남서", "서", "서북서", "북서", "북북서",
}

// WindDirection converts a wind bearing in degrees to a 16-point compass
// sector label.
func WindDirection(degree int) string {
	idx := int((float64(degree)+22.5*0.5)/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return windDirections[idx]
}

// parseRainfall interprets the bureau's RN1 value, which mixes numbers with
// phrases like "강수없음" and "1mm 미만".
func parseRainfall(value string) float64 {
	v := strings.TrimSpace(value)
	switch v {
	case "", "강수없음", "없음", "-", "null", "1mm 미만", "1.0mm 미만":
		return 0
	}
	v = strings.TrimSuffix(v, "mm")
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f
	}
	return 0
}

// ApparentTemperature computes the perceived temperature. Wind chill applies
// only at or below 10°C with wind of at least 1.34 m/s; the heat index only
// at or above 27°C with humidity of at least 40%.
func ApparentTemperature(temp float64, humidity int, windSpeed float64) float64 {
	if temp <= 10 && windSpeed >= 1.34 {
		return math.Round(windChill(temp, windSpeed)*10) / 10
	}
	if temp >= 27 && humidity >= 40 {
		if hi := heatIndex(temp, float64(humidity)); hi > temp {
			return math.Round(hi*10) / 10
		}
	}
	return temp
}

func windChill(temp, windSpeed float64) float64 {
	windKmh := windSpeed * 3.6
	return 13.12 + 0.6215*temp -
		11.37*math.Pow(windKmh, 0.16) +
		0.3965*temp*math.Pow(windKmh, 0.16)
}

func heatIndex(temp, humidity float64) float64 {
	tempF := temp*9/5 + 32
	if tempF < 80 || humidity < 40 {
		return temp
	}
	hi := -42.379 +
		2.04901523*tempF +
		10.14333127*humidity -
		0.22475541*tempF*humidity -
		6.83783e-3*tempF*tempF -
		5.481717e-2*humidity*humidity +
		1.22874e-3*tempF*tempF*humidity +
		8.5282e-4*tempF*humidity*humidity -
		1.99e-6*tempF*tempF*humidity*humidity
	return (hi - 32) * 5 / 9
}

// midCondition translates a mid-range forecast phrase ("구름많고 비") into
// the normalized sky/precipitation pair.
func midCondition(phrase string) (Sky, PrecipType) {
	sky := SkyClear
	switch {
	case strings.HasPrefix(phrase, "흐리"), strings.HasPrefix(phrase, "흐림"):
		sky = SkyOvercast
	case strings.HasPrefix(phrase, "구름많"):
		sky = SkyMostlyCloudy
	}

	precip := PrecipNone
	switch {
	case strings.Contains(phrase, "비/눈"), strings.Contains(phrase, "눈/비"):
		precip = PrecipRainSnow
	case strings.Contains(phrase, "소나기"):
		precip = PrecipShower
	case strings.Contains(phrase, "눈"):
		precip = PrecipSnow
	case strings.Contains(phrase, "비"):
		precip = PrecipRain
	}
	return sky, precip
}
