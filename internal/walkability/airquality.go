package walkability

import (
	"math"

	"github.com/ddui/walkability-api/internal/airquality"
)

// AirInput is the air-quality slice of a score request. Concentrations are
// preferred when present; otherwise the grades are used, converted to the
// profile's scale when they come from a different one. All fields -1 means
// the measurement-unavailable sentinel.
type AirInput struct {
	PM10Value float64
	PM25Value float64
	PM10Grade int
	PM25Grade int

	// GradeScale is the scale PM10Grade/PM25Grade are expressed in.
	GradeScale airquality.Standard

	// Unknown marks the measurement-unavailable sentinel: every station
	// was down, so no value or grade here carries information.
	Unknown bool
}

func airFromReading(r airquality.Reading) AirInput {
	return AirInput{
		PM10Value:  r.PM10Value,
		PM25Value:  r.PM25Value,
		PM10Grade:  r.PM10Grade,
		PM25Grade:  r.PM25Grade,
		GradeScale: airquality.StandardKorean,
		Unknown:    r.IsUnavailable(),
	}
}

func airFromGrades(pm10, pm25 int, scale airquality.Standard) AirInput {
	return AirInput{
		PM10Value:  -1,
		PM25Value:  -1,
		PM10Grade:  pm10,
		PM25Grade:  pm25,
		GradeScale: scale,
	}
}

// airAxis scores air quality on 0..100 for the profile's scale. Unknown
// air quality scores as the scale's neutral default rather than failing.
func airAxis(in AirInput, p DogProfile) int {
	std := p.Standard
	pm25Grade, pm10Grade, pm25Conc, pm10Conc, known := resolveAir(in, std)
	if !known {
		return clampScore(airScoreDefault[std] - airSensitivityDeduction(-1, -1, p.Sensitivities))
	}

	combined := combineGrades(pm25Grade, pm10Grade)
	score, ok := airScoreByGrade[std][combined]
	if !ok {
		score = airScoreDefault[std]
	}

	score -= airSensitivityDeduction(pm25Conc, pm10Conc, p.Sensitivities)
	return clampScore(score)
}

// resolveAir produces grades on the requested scale plus the concentrations
// used for sensitivity deductions. Concentrations win when present; grades
// from another scale go through representative concentrations.
func resolveAir(in AirInput, std airquality.Standard) (pm25Grade, pm10Grade int, pm25Conc, pm10Conc float64, known bool) {
	if in.PM25Value >= 0 && in.PM10Value >= 0 {
		// Bands are integer-edged; round so fractional readings cannot
		// fall into a gap between adjacent bands.
		pm25Grade = lookupBand(concentrationBands[std]["pm25"], math.Round(in.PM25Value))
		pm10Grade = lookupBand(concentrationBands[std]["pm10"], math.Round(in.PM10Value))
		return pm25Grade, pm10Grade, in.PM25Value, in.PM10Value, pm25Grade != 0 && pm10Grade != 0
	}

	if in.PM25Grade < 0 || in.PM10Grade < 0 {
		return 0, 0, -1, -1, false
	}

	pm25Rep, ok25 := representativeConcentration[in.GradeScale][in.PM25Grade]
	pm10Rep, ok10 := representativeConcentration[in.GradeScale][in.PM10Grade]
	if !ok25 || !ok10 {
		return 0, 0, -1, -1, false
	}
	pm25Conc, pm10Conc = pm25Rep.PM25, pm10Rep.PM10

	if in.GradeScale == std {
		return in.PM25Grade, in.PM10Grade, pm25Conc, pm10Conc, true
	}
	// Cross-scale: re-band the representative concentrations.
	pm25Grade = lookupBand(concentrationBands[std]["pm25"], pm25Conc)
	pm10Grade = lookupBand(concentrationBands[std]["pm10"], pm10Conc)
	return pm25Grade, pm10Grade, pm25Conc, pm10Conc, pm25Grade != 0 && pm10Grade != 0
}

// combineGrades picks the dominant pollutant: pm2.5 unless pm10 is worse
// by at least two grade steps; near-equal grades blend 0.45/0.55.
func combineGrades(pm25, pm10 int) int {
	switch {
	case pm10-pm25 >= 2:
		return pm10
	case pm25 >= pm10:
		return pm25
	default:
		blended := int(math.Round(0.45*float64(pm10) + 0.55*float64(pm25)))
		if blended < pm25 {
			blended = pm25
		}
		return blended
	}
}

// airSensitivityDeduction mirrors the temperature sensitivity deduction on
// the air axis, weighting pm2.5 over pm10. Unknown concentrations (-1)
// never enter a band, so the sentinel deducts nothing.
func airSensitivityDeduction(pm25Conc, pm10Conc float64, sensitivities []Sensitivity) int {
	pm25Total, pm10Total := 0.0, 0.0
	for _, s := range sensitivities {
		bands, ok := airSensitivityBands[s]
		if !ok {
			continue
		}
		w := airPriorityWeight[airSensitivityPriority[s]]
		if g := lookupBand(bands["pm25"], math.Round(pm25Conc)); g != 0 {
			pm25Total += float64(g) * w
		}
		if g := lookupBand(bands["pm10"], math.Round(pm10Conc)); g != 0 {
			pm10Total += float64(g) * w
		}
	}
	return int((pm25Total*0.6 + pm10Total*0.4) * 5)
}
