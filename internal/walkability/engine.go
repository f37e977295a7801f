package walkability

import (
	"log"
	"math"
	"time"

	"github.com/ddui/walkability-api/internal/weather"
)

const (
	// ScoreNA and GradeUnknown are the neutral sentinel emitted when
	// scoring itself fails; they are distinct from every real score and
	// grade.
	ScoreNA      = -1
	GradeUnknown = 0

	// Hard overrides pin the result to this fixed poor tier.
	overrideScore = 20
	overrideGrade = 2

	tempWeight = 0.6
	airWeight  = 0.4
)

// ScoreInput is one normalized weather and air-quality slot to score. At
// is the time the slot describes; the engine never consults the wall
// clock itself.
type ScoreInput struct {
	Temperature  float64
	Sky          weather.Sky
	PrecipType   weather.PrecipType
	PrecipAmount float64
	PrecipProb   int

	Air AirInput

	At time.Time
}

// Result is the scored verdict for one slot.
type Result struct {
	Score   int      `json:"score"`
	Grade   int      `json:"grade"`
	Outfit  string   `json:"outfit,omitempty"`
	Phrases []string `json:"phrases,omitempty"`
}

// Score computes the walkability verdict. Pure: equal inputs always yield
// equal results. An unavailable air measurement yields the unknown
// sentinel, not a real grade, so callers can tell "stations all down"
// from "air is moderate". Hard overrides still win: rain needs no air
// reading.
func Score(in ScoreInput, p DogProfile) Result {
	if override, ok := hardOverride(in); ok {
		return override
	}
	if in.Air.Unknown {
		return Result{Score: ScoreNA, Grade: GradeUnknown}
	}

	tempScore := temperatureAxis(in.Temperature, p)
	airScore := airAxis(in.Air, p)

	final := clampScore(int(math.Round(tempWeight*float64(tempScore) + airWeight*float64(airScore))))
	return Result{Score: final, Grade: gradeOf(final)}
}

// ScoreSafely wraps Score so a formula panic degrades to the neutral
// sentinel instead of failing the request.
func ScoreSafely(in ScoreInput, p DogProfile) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("walkability: scoring panic recovered: %v", r)
			result = Result{Score: ScoreNA, Grade: GradeUnknown}
		}
	}()
	return Score(in, p)
}

// hardOverride short-circuits conditions that must never be averaged away:
// meaningful rain, near-certain rain, or a midday heatwave.
func hardOverride(in ScoreInput) (Result, bool) {
	if in.PrecipAmount >= 5.0 || in.PrecipProb >= 80 {
		return Result{Score: overrideScore, Grade: overrideGrade}, true
	}
	if isHeatwave(in) {
		return Result{Score: overrideScore, Grade: overrideGrade}, true
	}
	return Result{}, false
}

// isHeatwave matches the midsummer clear-sky midday condition under which
// pavement heat is dangerous regardless of the other factors.
func isHeatwave(in ScoreInput) bool {
	if in.Temperature < 31 || in.Sky != weather.SkyClear {
		return false
	}
	month := in.At.Month()
	hour := in.At.Hour()
	return (month == time.July || month == time.August) && hour >= 9 && hour <= 17
}

// gradeOf bands a 0..100 score into grades 1..5, 5 best. Bands are 20
// points wide, exhaustive, and monotonic.
func gradeOf(score int) int {
	switch {
	case score >= 80:
		return 5
	case score >= 60:
		return 4
	case score >= 40:
		return 3
	case score >= 20:
		return 2
	default:
		return 1
	}
}
