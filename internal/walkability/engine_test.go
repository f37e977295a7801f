package walkability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddui/walkability-api/internal/airquality"
	"github.com/ddui/walkability-api/internal/weather"
)

func goodAir() AirInput {
	return airFromGrades(1, 1, airquality.StandardKorean)
}

func springNoon() time.Time {
	return time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
}

func TestScorePleasantDay(t *testing.T) {
	// 22°C, medium dog, double/long coat, clean air: both axes at 100 and
	// the coat bands are not triggered at this temperature.
	p := DogProfile{
		Size:       SizeMedium,
		CoatType:   CoatDouble,
		CoatLength: CoatLong,
		Standard:   airquality.StandardKorean,
	}
	in := ScoreInput{
		Temperature: 22,
		Sky:         weather.SkyClear,
		PrecipProb:  10,
		Air:         goodAir(),
		At:          springNoon(),
	}

	r := Score(in, p)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 5, r.Grade)
}

func TestRainOverrideDominates(t *testing.T) {
	p := DogProfile{Size: SizeMedium, Standard: airquality.StandardKorean}
	in := ScoreInput{
		Temperature:  22,
		PrecipAmount: 6.0,
		PrecipType:   weather.PrecipRain,
		Air:          goodAir(),
		At:           springNoon(),
	}

	r := Score(in, p)
	assert.Equal(t, 20, r.Score)
	assert.Equal(t, 2, r.Grade)

	// Probability alone triggers it too, exactly at the threshold.
	in = ScoreInput{Temperature: 22, PrecipProb: 80, Air: goodAir(), At: springNoon()}
	r = Score(in, p)
	assert.Equal(t, 20, r.Score)
	assert.Equal(t, 2, r.Grade)

	// Just below both thresholds, no override.
	in = ScoreInput{Temperature: 22, PrecipAmount: 4.9, PrecipProb: 79, Air: goodAir(), At: springNoon()}
	assert.Greater(t, Score(in, p).Score, 20)
}

func TestHeatwaveOverride(t *testing.T) {
	p := DogProfile{Size: SizeLarge, Standard: airquality.StandardKorean}
	base := ScoreInput{
		Temperature: 32,
		Sky:         weather.SkyClear,
		Air:         goodAir(),
		At:          time.Date(2026, 7, 15, 13, 0, 0, 0, time.UTC),
	}

	r := Score(base, p)
	assert.Equal(t, 20, r.Score)
	assert.Equal(t, 2, r.Grade)

	// Any clause failing disables the override.
	cloudy := base
	cloudy.Sky = weather.SkyOvercast
	assert.NotEqual(t, 20, Score(cloudy, p).Score)

	evening := base
	evening.At = time.Date(2026, 7, 15, 19, 0, 0, 0, time.UTC)
	assert.NotEqual(t, 20, Score(evening, p).Score)

	september := base
	september.At = time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC)
	assert.NotEqual(t, 20, Score(september, p).Score)
}

func TestGradeBandsExhaustiveAndMonotonic(t *testing.T) {
	prev := gradeOf(0)
	for s := 0; s <= 100; s++ {
		g := gradeOf(s)
		require.GreaterOrEqual(t, g, 1, "score %d", s)
		require.LessOrEqual(t, g, 5, "score %d", s)
		require.GreaterOrEqual(t, g, prev, "score %d", s)
		prev = g
	}
	assert.Equal(t, 1, gradeOf(19))
	assert.Equal(t, 2, gradeOf(20))
	assert.Equal(t, 3, gradeOf(40))
	assert.Equal(t, 4, gradeOf(60))
	assert.Equal(t, 5, gradeOf(80))
	assert.Equal(t, 5, gradeOf(100))
}

func TestTemperatureAxisBands(t *testing.T) {
	p := DogProfile{Size: SizeMedium}
	assert.Equal(t, 100, temperatureAxis(20, p))
	assert.Equal(t, 80, temperatureAxis(27, p))
	assert.Equal(t, 60, temperatureAxis(-5, p))
	assert.Equal(t, 40, temperatureAxis(40, p))

	// Band edges belong to the band they close.
	assert.Equal(t, 100, temperatureAxis(26, p))
	assert.Equal(t, 80, temperatureAxis(26.6, p))

	// Same temperature, different sizes.
	assert.Equal(t, 100, temperatureAxis(25, DogProfile{Size: SizeMedium}))
	assert.Equal(t, 80, temperatureAxis(25, DogProfile{Size: SizeSmall}))
	assert.Equal(t, 80, temperatureAxis(25, DogProfile{Size: SizeLarge}))
}

func TestTemperatureSensitivityDeduction(t *testing.T) {
	base := temperatureAxis(30, DogProfile{Size: SizeMedium})
	withPuppy := temperatureAxis(30, DogProfile{Size: SizeMedium, Sensitivities: []Sensitivity{Puppy}})
	assert.Equal(t, base-5, withPuppy)

	// Respiratory does not touch the temperature axis.
	withResp := temperatureAxis(30, DogProfile{Size: SizeMedium, Sensitivities: []Sensitivity{Respiratory}})
	assert.Equal(t, base, withResp)

	// Several conditions stack with priority weighting: puppy grade 1
	// at weight 1.0 plus obesity grade 1 at weight 0.2 is int(1.2*5)=6.
	stacked := temperatureAxis(30, DogProfile{Size: SizeMedium, Sensitivities: []Sensitivity{Puppy, Obesity}})
	assert.Equal(t, base-6, stacked)
}

func TestCoatDeduction(t *testing.T) {
	// 25°C triggers the first warm band for both double and long.
	assert.Equal(t, 3, coatDeduction(25, CoatDouble, CoatLong))

	// 22°C triggers neither.
	assert.Equal(t, 0, coatDeduction(22, CoatDouble, CoatLong))

	// One attribute unspecified: the known one stands alone.
	assert.Equal(t, 3, coatDeduction(25, CoatDouble, ""))
	assert.Equal(t, 0, coatDeduction(25, "", ""))

	// Deep heat escalates to grade 2 bands.
	assert.Equal(t, 6, coatDeduction(32, CoatDouble, CoatLong))

	// Cold penalizes single/short coats instead.
	assert.Equal(t, 3, coatDeduction(0, CoatSingle, CoatShort))
	assert.Equal(t, 6, coatDeduction(-10, CoatSingle, CoatShort))
}

func TestScoreSafelyMatchesScore(t *testing.T) {
	p := DefaultProfile()
	in := ScoreInput{Temperature: 15, Air: goodAir(), At: springNoon()}
	assert.Equal(t, Score(in, p), ScoreSafely(in, p))
}

func TestScoreUnavailableAirIsSentinel(t *testing.T) {
	p := DefaultProfile()
	in := ScoreInput{
		Temperature: 22,
		Sky:         weather.SkyClear,
		Air:         airFromReading(airquality.Unavailable()),
		At:          springNoon(),
	}

	r := Score(in, p)
	assert.Equal(t, ScoreNA, r.Score, "all stations down must not produce a real score")
	assert.Equal(t, GradeUnknown, r.Grade)

	// Rain needs no air reading, so the override still wins.
	in.PrecipAmount = 6
	r = Score(in, p)
	assert.Equal(t, overrideScore, r.Score)
	assert.Equal(t, overrideGrade, r.Grade)
}
