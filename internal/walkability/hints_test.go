package walkability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ddui/walkability-api/internal/weather"
)

func TestOutfitByTemperature(t *testing.T) {
	p := DefaultProfile()

	assert.Equal(t, "패딩", outfitFor(-7, p))
	assert.Equal(t, "두꺼운 옷", outfitFor(3, p))
	assert.Equal(t, "얇은 옷", outfitFor(10, p))
	assert.Equal(t, "없음", outfitFor(20, p))
}

func TestOutfitThresholdShifts(t *testing.T) {
	single := DefaultProfile()
	single.CoatType = CoatSingle
	assert.Equal(t, "두꺼운 옷", outfitFor(7, single), "single coats chill at higher temperatures")

	small := DefaultProfile()
	small.Size = SizeSmall
	assert.Equal(t, "두꺼운 옷", outfitFor(6, small))
	assert.Equal(t, "얇은 옷", outfitFor(6, DefaultProfile()))
}

func TestRaincoatOverridesOutfit(t *testing.T) {
	in := ScoreInput{
		Temperature: 18,
		PrecipType:  weather.PrecipRain,
		At:          time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
	}
	r := withHints(Result{Grade: 3}, in, DefaultProfile())
	assert.Equal(t, "레인코트", r.Outfit)
}

func TestPhrasesFollowGradeAndConditions(t *testing.T) {
	good := phrasesFor(Result{Grade: 5}, ScoreInput{Temperature: 20})
	assert.Contains(t, good, "산책하기 좋은 날이에요!")

	bad := phrasesFor(Result{Grade: 2}, ScoreInput{Temperature: 20, PrecipAmount: 6})
	assert.Contains(t, bad, "비 소식이 있어요. 산책은 짧게 다녀오세요.")
	assert.Contains(t, bad, "오늘은 실내 놀이가 어떨까요?")
}
