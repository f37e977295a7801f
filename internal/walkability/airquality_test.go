package walkability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddui/walkability-api/internal/airquality"
)

func koreanProfile(s ...Sensitivity) DogProfile {
	return DogProfile{Size: SizeMedium, Sensitivities: s, Standard: airquality.StandardKorean}
}

func whoProfile(s ...Sensitivity) DogProfile {
	return DogProfile{Size: SizeMedium, Sensitivities: s, Standard: airquality.StandardWHO}
}

func reading(pm10, pm25 float64) AirInput {
	return airFromReading(airquality.Reading{
		PM10Value: pm10,
		PM25Value: pm25,
		PM10Grade: -1,
		PM25Grade: -1,
	})
}

func TestAirAxisFromConcentrations(t *testing.T) {
	assert.Equal(t, 100, airAxis(reading(20, 10), koreanProfile()))
	assert.Equal(t, 70, airAxis(reading(55, 25), koreanProfile()))
	assert.Equal(t, 30, airAxis(reading(100, 80), koreanProfile()))

	// The same reading scores lower on the stricter scale.
	assert.Equal(t, 55, airAxis(reading(20, 20), whoProfile()))
}

func TestAirAxisPM25Dominates(t *testing.T) {
	// pm25 grade 3, pm10 grade 1: pm2.5 wins.
	assert.Equal(t, 50, airAxis(reading(20, 50), koreanProfile()))
}

func TestAirAxisPM10DominatesAtTwoSteps(t *testing.T) {
	// pm10 grade 3, pm25 grade 1: gap of two steps hands dominance to pm10.
	assert.Equal(t, 50, airAxis(reading(100, 10), koreanProfile()))
}

func TestAirAxisBlendsSingleStepGap(t *testing.T) {
	// pm10 grade 2, pm25 grade 1: round(0.45*2+0.55*1) = 1 on the korean
	// scale, floored at pm25's grade.
	assert.Equal(t, 100, airAxis(reading(55, 10), koreanProfile()))
}

func TestAirAxisFromKoreanGrades(t *testing.T) {
	assert.Equal(t, 100, airAxis(airFromGrades(1, 1, airquality.StandardKorean), koreanProfile()))
	assert.Equal(t, 70, airAxis(airFromGrades(2, 2, airquality.StandardKorean), koreanProfile()))
	assert.Equal(t, 30, airAxis(airFromGrades(4, 4, airquality.StandardKorean), koreanProfile()))
}

func TestAirAxisKoreanGradesOnWHOScale(t *testing.T) {
	// Korean grade 2 maps to representative concentrations (pm25 25,
	// pm10 55), which band as who grade 4 on both pollutants.
	assert.Equal(t, 55, airAxis(airFromGrades(2, 2, airquality.StandardKorean), whoProfile()))

	// Korean grade 1 stays clean on the who scale too.
	assert.Equal(t, 85, airAxis(airFromGrades(1, 1, airquality.StandardKorean), whoProfile()))
}

func TestAirAxisUnavailableSentinel(t *testing.T) {
	unavailable := airFromReading(airquality.Unavailable())
	assert.Equal(t, 70, airAxis(unavailable, koreanProfile()))
	assert.Equal(t, 55, airAxis(unavailable, whoProfile()))

	// Sensitivities never push the unknown default around.
	assert.Equal(t, 70, airAxis(unavailable, koreanProfile(Respiratory)))
}

func TestAirSensitivityDeduction(t *testing.T) {
	// Respiratory at pm25 40 (grade 2 band) and pm10 60 (grade 1 band):
	// int((2*1.0*0.6 + 1*1.0*0.4) * 5) = 8.
	assert.Equal(t, 8, airSensitivityDeduction(40, 60, []Sensitivity{Respiratory}))

	// Clean air deducts nothing.
	assert.Equal(t, 0, airSensitivityDeduction(5, 10, []Sensitivity{Respiratory}))

	// Obesity has no air bands.
	assert.Equal(t, 0, airSensitivityDeduction(40, 60, []Sensitivity{Obesity}))
}

func TestAirAxisWithSensitivity(t *testing.T) {
	base := airAxis(reading(60, 40), koreanProfile())
	withResp := airAxis(reading(60, 40), koreanProfile(Respiratory))
	assert.Less(t, withResp, base)
}
