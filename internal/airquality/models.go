package airquality

// Standard selects which grading scale the caller wants results expressed
// in. The two scales are never mixed within one calculation.
type Standard string

const (
	StandardKorean Standard = "korean"
	StandardWHO    Standard = "who"
)

// ParseStandard normalizes a query value, defaulting to the korean scale.
func ParseStandard(s string) Standard {
	if s == string(StandardWHO) {
		return StandardWHO
	}
	return StandardKorean
}

// Reading is one station measurement. All fields are -1 when every station
// was exhausted without a valid reading; that sentinel is a normal value,
// not an error.
type Reading struct {
	StationName string  `json:"station_name,omitempty"`
	DataTime    string  `json:"data_time,omitempty"`
	PM10Value   float64 `json:"pm10_value"`
	PM25Value   float64 `json:"pm25_value"`
	PM10Grade   int     `json:"pm10_grade"`
	PM25Grade   int     `json:"pm25_grade"`
}

// Unavailable is the measurement-unavailable sentinel.
func Unavailable() Reading {
	return Reading{PM10Value: -1, PM25Value: -1, PM10Grade: -1, PM25Grade: -1}
}

// IsUnavailable reports whether the reading is the sentinel value.
func (r Reading) IsUnavailable() bool {
	return r.PM10Value < 0 && r.PM25Value < 0
}

// AdvisoryItem is one row of the daily dust advisory, kept with its raw
// region blob so one cached copy serves every sub-region.
type AdvisoryItem struct {
	InformCode  string `json:"inform_code"` // "PM10" or "PM25"
	TargetDate  string `json:"target_date"` // day the grades apply to, "2026-09-01"
	PublishHour int    `json:"publish_hour"`
	GradeBlob   string `json:"grade_blob"` // "서울 : 좋음,제주 : 보통,..."
}

// WeeklyDay is one day of the weekly dust outlook with its raw region blob.
type WeeklyDay struct {
	Date string `json:"date"` // "2026-09-05"
	Blob string `json:"blob"` // "서울 : 낮음, 제주 : 높음, ..."
}

// Slot is one assembled hourly forecast record.
type Slot struct {
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	PM10Grade int    `json:"pm10_grade"`
	PM25Grade int    `json:"pm25_grade"`
}

// DailyGrade is one assembled day of the weekly forecast.
type DailyGrade struct {
	Date      string `json:"date"`
	PM10Grade int    `json:"pm10_grade"`
	PM25Grade int    `json:"pm25_grade"`
}
