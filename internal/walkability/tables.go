package walkability

import "github.com/ddui/walkability-api/internal/airquality"

// band maps an inclusive [Min,Max] range to a grade. Range tables are kept
// in ascending order but lookup does not rely on it.
type band struct {
	Min, Max float64
	Grade    int
}

// lookupBand returns the grade of the band containing v, or 0 when no band
// matches.
func lookupBand(bands []band, v float64) int {
	for _, b := range bands {
		if v >= b.Min && v <= b.Max {
			return b.Grade
		}
	}
	return 0
}

// Temperature axis. Grade 1 is the comfort band; grades worsen outward in
// both directions. Smaller dogs lose heat faster, so their cold bands sit
// higher; large dogs overheat earlier.
var tempBandsBySize = map[Size][]band{
	SizeSmall: {
		{-50, -16, 5}, {-15, -9, 4}, {-8, -1, 3}, {0, 9, 2}, {10, 24, 1},
		{25, 28, 2}, {29, 31, 3}, {32, 35, 4}, {36, 50, 5},
	},
	SizeMedium: {
		{-50, -18, 5}, {-17, -11, 4}, {-10, -3, 3}, {-2, 7, 2}, {8, 26, 1},
		{27, 29, 2}, {30, 32, 3}, {33, 36, 4}, {37, 50, 5},
	},
	SizeLarge: {
		{-50, -20, 5}, {-19, -13, 4}, {-12, -5, 3}, {-4, 5, 2}, {6, 24, 1},
		{25, 28, 2}, {29, 31, 3}, {32, 35, 4}, {36, 50, 5},
	},
}

var tempScoreByGrade = map[int]int{1: 100, 2: 80, 3: 60, 4: 50, 5: 40}

const tempScoreDefault = 60

// Sensitivity bands add a deduction when the temperature enters a range
// that the condition tolerates poorly; grade 2 ranges are worse than
// grade 1. Respiratory issues affect only the air-quality axis.
var tempSensitivityBands = map[Sensitivity][]band{
	Puppy:          {{-50, -1, 2}, {0, 7, 1}, {28, 32, 1}, {33, 50, 2}},
	HeartDisease:   {{-50, -5, 2}, {-4, 2, 1}, {29, 33, 1}, {34, 50, 2}},
	Senior:         {{-50, -3, 2}, {-2, 4, 1}, {28, 32, 1}, {33, 50, 2}},
	Brachycephalic: {{26, 30, 1}, {31, 50, 2}},
	Obesity:        {{27, 31, 1}, {32, 50, 2}},
}

// tempSensitivityPriority orders conditions by how sharply they narrow the
// temperature range; the priority weight discounts lower-priority ones
// when several apply.
var tempSensitivityPriority = map[Sensitivity]int{
	Puppy:          1,
	HeartDisease:   2,
	Senior:         3,
	Brachycephalic: 4,
	Obesity:        5,
}

var priorityWeight = map[int]float64{1: 1.0, 2: 0.8, 3: 0.6, 4: 0.4, 5: 0.2}

// Coat bands: a double or long coat penalizes warm weather, a single or
// short coat penalizes cold.
var coatTypeBands = map[CoatType][]band{
	CoatDouble: {{23, 28, 1}, {29, 50, 2}},
	CoatSingle: {{-50, -5, 2}, {-4, 5, 1}},
}

var coatLengthBands = map[CoatLength][]band{
	CoatLong:  {{24, 29, 1}, {30, 50, 2}},
	CoatShort: {{-50, -8, 2}, {-7, 3, 1}},
}

var coatGradeScore = map[int]float64{1: 1.0, 2: 2.0}

// Air-quality axis. Concentration bands per pollutant (µg/m³) on the two
// supported scales; the scales are never mixed mid-calculation.
var concentrationBands = map[airquality.Standard]map[string][]band{
	airquality.StandardKorean: {
		"pm10": {{0, 30, 1}, {31, 80, 2}, {81, 150, 3}, {151, 999, 4}},
		"pm25": {{0, 15, 1}, {16, 35, 2}, {36, 75, 3}, {76, 999, 4}},
	},
	airquality.StandardWHO: {
		"pm10": {
			{0, 15, 1}, {16, 30, 2}, {31, 45, 3}, {46, 60, 4},
			{61, 80, 5}, {81, 100, 6}, {101, 150, 7}, {151, 999, 8},
		},
		"pm25": {
			{0, 5, 1}, {6, 10, 2}, {11, 15, 3}, {16, 25, 4},
			{26, 35, 5}, {36, 50, 6}, {51, 75, 7}, {76, 999, 8},
		},
	},
}

var airScoreByGrade = map[airquality.Standard]map[int]int{
	airquality.StandardKorean: {1: 100, 2: 70, 3: 50, 4: 30},
	airquality.StandardWHO:    {1: 100, 2: 85, 3: 70, 4: 55, 5: 40, 6: 25, 7: 10, 8: 0},
}

var airScoreDefault = map[airquality.Standard]int{
	airquality.StandardKorean: 70,
	airquality.StandardWHO:    55,
}

type pollutantPair struct {
	PM25, PM10 float64
}

// representativeConcentration maps a categorical grade back to a typical
// concentration pair, used when only grades are known but a band lookup on
// the other scale (or a sensitivity deduction) needs concentrations.
var representativeConcentration = map[airquality.Standard]map[int]pollutantPair{
	airquality.StandardKorean: {
		1: {7, 15}, 2: {25, 55}, 3: {55, 115}, 4: {85, 175},
	},
	airquality.StandardWHO: {
		1: {2, 7}, 2: {8, 23}, 3: {13, 38}, 4: {20, 53},
		5: {30, 70}, 6: {43, 90}, 7: {63, 125}, 8: {85, 200},
	},
}

// Air sensitivity bands, keyed by pollutant. Thresholds start lower for
// conditions that react to pollution earlier.
var airSensitivityBands = map[Sensitivity]map[string][]band{
	Respiratory: {
		"pm25": {{16, 35, 1}, {36, 999, 2}},
		"pm10": {{31, 80, 1}, {81, 999, 2}},
	},
	Brachycephalic: {
		"pm25": {{26, 45, 1}, {46, 999, 2}},
		"pm10": {{51, 100, 1}, {101, 999, 2}},
	},
	Puppy: {
		"pm25": {{36, 75, 1}, {76, 999, 2}},
		"pm10": {{81, 150, 1}, {151, 999, 2}},
	},
	Senior: {
		"pm25": {{36, 75, 1}, {76, 999, 2}},
		"pm10": {{81, 150, 1}, {151, 999, 2}},
	},
	HeartDisease: {
		"pm25": {{36, 75, 1}, {76, 999, 2}},
		"pm10": {{81, 150, 1}, {151, 999, 2}},
	},
}

var airSensitivityPriority = map[Sensitivity]int{
	Respiratory:    1,
	Brachycephalic: 2,
	Puppy:          3,
	Senior:         3,
	HeartDisease:   4,
}

var airPriorityWeight = map[int]float64{1: 1.0, 2: 0.8, 3: 0.6, 4: 0.4}
