package walkability

import (
	"github.com/ddui/walkability-api/internal/weather"
)

// withHints decorates a scored result with an outfit suggestion and short
// advisory phrases.
func withHints(r Result, in ScoreInput, p DogProfile) Result {
	r.Outfit = outfitFor(in.Temperature, p)
	if in.PrecipType.Wet() {
		r.Outfit = "레인코트"
	}
	r.Phrases = phrasesFor(r, in)
	return r
}

// outfitFor suggests dog clothing for the temperature. Single or short
// coats bump the threshold a few degrees since those dogs chill faster.
func outfitFor(temp float64, p DogProfile) string {
	threshold := 5.0
	if p.CoatType == CoatSingle || p.CoatLength == CoatShort {
		threshold = 8.0
	}
	if p.Size == SizeSmall {
		threshold += 2.0
	}
	switch {
	case temp <= threshold-10:
		return "패딩"
	case temp <= threshold:
		return "두꺼운 옷"
	case temp <= threshold+7:
		return "얇은 옷"
	default:
		return "없음"
	}
}

func phrasesFor(r Result, in ScoreInput) []string {
	var phrases []string
	if in.PrecipAmount >= 5.0 || in.PrecipProb >= 80 {
		phrases = append(phrases, "비 소식이 있어요. 산책은 짧게 다녀오세요.")
	} else if in.PrecipType.Wet() {
		phrases = append(phrases, "비가 오고 있어요. 발을 잘 닦아주세요.")
	} else if in.PrecipType == weather.PrecipSnow || in.PrecipType == weather.PrecipSnowFlurry {
		phrases = append(phrases, "눈이 와요. 염화칼슘을 조심하세요.")
	}
	if isHeatwave(in) {
		phrases = append(phrases, "한낮 더위가 심해요. 아스팔트가 뜨거우니 이른 아침이나 저녁 산책을 추천해요.")
	} else if in.Temperature >= 28 {
		phrases = append(phrases, "더운 날씨예요. 물을 꼭 챙겨주세요.")
	} else if in.Temperature <= -5 {
		phrases = append(phrases, "많이 추워요. 산책 시간을 줄여주세요.")
	}

	switch r.Grade {
	case 5:
		phrases = append(phrases, "산책하기 좋은 날이에요!")
	case 4:
		phrases = append(phrases, "산책하기 무난한 날이에요.")
	case 1, 2:
		phrases = append(phrases, "오늘은 실내 놀이가 어떨까요?")
	}
	return phrases
}
