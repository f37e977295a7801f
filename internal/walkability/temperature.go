package walkability

import "math"

// temperatureAxis scores the temperature for the given profile on 0..100.
// It starts from the size band score, then subtracts sensitivity and coat
// deductions.
func temperatureAxis(temp float64, p DogProfile) int {
	t := math.Round(temp)

	score := tempScoreDefault
	if g := lookupBand(tempBandsBySize[p.Size], t); g != 0 {
		score = tempScoreByGrade[g]
	}

	score -= tempSensitivityDeduction(t, p.Sensitivities)
	score -= coatDeduction(t, p.CoatType, p.CoatLength)

	return clampScore(score)
}

// tempSensitivityDeduction sums each matching condition's band grade scaled
// by its priority weight. Conditions whose bands the temperature avoids
// contribute nothing.
func tempSensitivityDeduction(t float64, sensitivities []Sensitivity) int {
	total := 0.0
	for _, s := range sensitivities {
		bands, ok := tempSensitivityBands[s]
		if !ok {
			continue
		}
		g := lookupBand(bands, t)
		if g == 0 {
			continue
		}
		total += float64(g) * priorityWeight[tempSensitivityPriority[s]]
	}
	return int(total * 5)
}

// coatDeduction penalizes coats mismatched to the temperature. With both
// attributes known the type and length components blend 0.4/0.6; with one
// known it stands alone; unspecified coats cost nothing.
func coatDeduction(t float64, coatType CoatType, coatLength CoatLength) int {
	typeScore, haveType := coatComponent(coatTypeBands[coatType], t, coatType != "")
	lengthScore, haveLength := coatComponent(coatLengthBands[coatLength], t, coatLength != "")

	switch {
	case haveType && haveLength:
		return int((typeScore*0.4 + lengthScore*0.6) * 3)
	case haveType:
		return int(typeScore * 3)
	case haveLength:
		return int(lengthScore * 3)
	}
	return 0
}

func coatComponent(bands []band, t float64, specified bool) (float64, bool) {
	if !specified {
		return 0, false
	}
	if g := lookupBand(bands, t); g != 0 {
		return coatGradeScore[g], true
	}
	return 0, true
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
