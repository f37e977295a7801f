package weather

// PrecipType is the normalized precipitation form of one forecast slot.
// Values follow the weather bureau's PTY vocabulary.
type PrecipType int

const (
	PrecipNone         PrecipType = 0
	PrecipRain         PrecipType = 1
	PrecipRainSnow     PrecipType = 2
	PrecipSnow         PrecipType = 3
	PrecipShower       PrecipType = 4
	PrecipRaindrop     PrecipType = 5
	PrecipSleetDrizzle PrecipType = 6
	PrecipSnowFlurry   PrecipType = 7
)

// Wet reports whether the precipitation form leaves the dog wet.
func (p PrecipType) Wet() bool {
	switch p {
	case PrecipRain, PrecipRainSnow, PrecipRaindrop, PrecipSleetDrizzle:
		return true
	}
	return false
}

// Sky is the normalized sky condition (SKY vocabulary).
type Sky int

const (
	SkyUnknown      Sky = 0
	SkyClear        Sky = 1
	SkyMostlyCloudy Sky = 3
	SkyOvercast     Sky = 4
)

// Snapshot is one normalized forecast slot. BaseDate/BaseTime identify the
// slot ("20260901", "1400") and are unique within one response. Temperature
// and sky condition are always present once a slot is complete; the other
// fields depend on which upstream feed produced the slot.
type Snapshot struct {
	BaseDate      string     `json:"base_date"`
	BaseTime      string     `json:"base_time"`
	Temperature   float64    `json:"temperature"`
	Sky           Sky        `json:"sky_condition"`
	PrecipType    PrecipType `json:"precipitation_type"`
	PrecipProb    int        `json:"precipitation_probability,omitempty"`
	PrecipAmount  float64    `json:"precipitation_amount,omitempty"`
	Humidity      int        `json:"humidity,omitempty"`
	WindSpeed     float64    `json:"wind_speed,omitempty"`
	WindDirection string     `json:"wind_direction,omitempty"`
	ApparentTemp  float64    `json:"apparent_temperature,omitempty"`
	MinTemp       float64    `json:"min_temperature,omitempty"`
	MaxTemp       float64    `json:"max_temperature,omitempty"`
}

// DaySummary is one normalized day of the weekly forecast.
type DaySummary struct {
	BaseDate   string     `json:"base_date"`
	MinTemp    float64    `json:"min_temperature"`
	MaxTemp    float64    `json:"max_temperature"`
	Sky        Sky        `json:"sky_condition"`
	PrecipType PrecipType `json:"precipitation_type"`
}
