package weather

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ddui/walkability-api/internal/region"
	"github.com/ddui/walkability-api/internal/upstream"
)

// Config holds the service key and endpoint paths for the national
// weather feeds.
type Config struct {
	ServiceKey     string
	BaseURL        string
	UltraShortPath string
	ShortPath      string
	MidTempPath    string
	MidLandPath    string
}

// Client fetches forecasts from the national weather service.
type Client struct {
	conf    Config
	httpCfg upstream.ClientConfig
	breaker *gobreaker.CircuitBreaker

	// Now is swappable in tests.
	Now func() time.Time
}

func NewClient(httpClient *http.Client, conf Config) *Client {
	return &Client{
		conf: conf,
		httpCfg: upstream.ClientConfig{
			Client:  httpClient,
			Backoff: upstream.DefaultBackoff(),
		},
		breaker: upstream.NewBreaker("kma"),
		Now:     time.Now,
	}
}

type forecastItem struct {
	Category  string `json:"category"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
}

type forecastEnvelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []forecastItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type midEnvelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []map[string]any `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

func (c *Client) fetchForecast(ctx context.Context, path, baseDate, baseTime string, grid region.Grid) ([]forecastItem, error) {
	q := url.Values{}
	q.Set("serviceKey", c.conf.ServiceKey)
	q.Set("dataType", "JSON")
	q.Set("numOfRows", "1000")
	q.Set("pageNo", "1")
	q.Set("base_date", baseDate)
	q.Set("base_time", baseTime)
	q.Set("nx", strconv.Itoa(grid.NX))
	q.Set("ny", strconv.Itoa(grid.NY))

	body, err := upstream.Do(ctx, c.httpCfg, c.breaker, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.conf.BaseURL+path+"?"+q.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}

	var env forecastEnvelope
	if err := upstream.DecodeJSON(body, &env); err != nil {
		return nil, err
	}
	switch env.Response.Header.ResultCode {
	case "00":
	case "03":
		return nil, upstream.ErrNoData
	default:
		return nil, upstream.NewError(env.Response.Header.ResultCode, env.Response.Header.ResultMsg)
	}
	if len(env.Response.Body.Items.Item) == 0 {
		return nil, upstream.ErrNoData
	}
	return env.Response.Body.Items.Item, nil
}

func (c *Client) fetchMid(ctx context.Context, path, regID, tmFc string) (map[string]any, error) {
	q := url.Values{}
	q.Set("serviceKey", c.conf.ServiceKey)
	q.Set("dataType", "JSON")
	q.Set("numOfRows", "10")
	q.Set("pageNo", "1")
	q.Set("regId", regID)
	q.Set("tmFc", tmFc)

	body, err := upstream.Do(ctx, c.httpCfg, c.breaker, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.conf.BaseURL+path+"?"+q.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}

	var env midEnvelope
	if err := upstream.DecodeJSON(body, &env); err != nil {
		return nil, err
	}
	switch env.Response.Header.ResultCode {
	case "00":
	case "03":
		return nil, upstream.ErrNoData
	default:
		return nil, upstream.NewError(env.Response.Header.ResultCode, env.Response.Header.ResultMsg)
	}
	if len(env.Response.Body.Items.Item) == 0 {
		return nil, upstream.ErrNoData
	}
	return env.Response.Body.Items.Item[0], nil
}

func numField(item map[string]any, key string) (float64, bool) {
	v, ok := item[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func strField(item map[string]any, key string) string {
	if s, ok := item[key].(string); ok {
		return s
	}
	return ""
}

// Current returns the snapshot nearest to now from the ultra-short feed,
// decorated with today's min/max from the short-range feed when available.
func (c *Client) Current(ctx context.Context, grid region.Grid) (Snapshot, error) {
	now := c.Now()
	baseDate, baseTime := ultraShortBase(now)
	items, err := c.fetchForecast(ctx, c.conf.UltraShortPath, baseDate, baseTime, grid)
	if err != nil {
		return Snapshot{}, err
	}

	// The ultra-short feed carries six hourly slots per issue. Pick the
	// one closest to the wall clock; an issue near midnight spills into
	// the next date, so compare full timestamps.
	bestDate, bestTime := "", ""
	var bestDist time.Duration
	for _, it := range items {
		slot, err := time.ParseInLocation("200601021504", it.FcstDate+it.FcstTime, now.Location())
		if err != nil {
			continue
		}
		d := slot.Sub(now)
		if d < 0 {
			d = -d
		}
		if bestTime == "" || d < bestDist {
			bestDist = d
			bestDate, bestTime = it.FcstDate, it.FcstTime
		}
	}

	snap := Snapshot{BaseDate: bestDate, BaseTime: bestTime, Sky: SkyUnknown}
	for _, it := range items {
		if it.FcstDate != bestDate || it.FcstTime != bestTime {
			continue
		}
		switch it.Category {
		case "T1H":
			snap.Temperature, _ = strconv.ParseFloat(it.FcstValue, 64)
		case "RN1":
			snap.PrecipAmount = parseRainfall(it.FcstValue)
		case "SKY":
			v, _ := strconv.Atoi(it.FcstValue)
			snap.Sky = Sky(v)
		case "REH":
			snap.Humidity, _ = strconv.Atoi(it.FcstValue)
		case "PTY":
			v, _ := strconv.Atoi(it.FcstValue)
			snap.PrecipType = PrecipType(v)
		case "VEC":
			deg, _ := strconv.Atoi(it.FcstValue)
			snap.WindDirection = WindDirection(deg)
		case "WSD":
			snap.WindSpeed, _ = strconv.ParseFloat(it.FcstValue, 64)
		}
	}
	snap.ApparentTemp = ApparentTemperature(snap.Temperature, snap.Humidity, snap.WindSpeed)

	// Daily range is decorative; keep the snapshot usable when the
	// short-range call fails.
	if min, max, err := c.dailyRange(ctx, grid, now); err == nil {
		snap.MinTemp, snap.MaxTemp = min, max
	} else {
		log.Printf("weather: daily range unavailable: %v", err)
	}
	return snap, nil
}

// dailyRange extracts today's TMN/TMX from the 02:00 short-range issue,
// falling back to the hourly TMP envelope when either is absent.
func (c *Client) dailyRange(ctx context.Context, grid region.Grid, now time.Time) (float64, float64, error) {
	items, err := c.fetchForecast(ctx, c.conf.ShortPath, now.Format("20060102"), "0200", grid)
	if err != nil {
		return 0, 0, err
	}
	today := now.Format("20060102")
	var min, max float64
	var haveMin, haveMax bool
	var temps []float64
	for _, it := range items {
		if it.FcstDate != today {
			continue
		}
		switch it.Category {
		case "TMN":
			min, _ = strconv.ParseFloat(it.FcstValue, 64)
			haveMin = true
		case "TMX":
			max, _ = strconv.ParseFloat(it.FcstValue, 64)
			haveMax = true
		case "TMP":
			if t, err := strconv.ParseFloat(it.FcstValue, 64); err == nil {
				temps = append(temps, t)
			}
		}
	}
	if (!haveMin || !haveMax) && len(temps) > 0 {
		lo, hi := temps[0], temps[0]
		for _, t := range temps[1:] {
			if t < lo {
				lo = t
			}
			if t > hi {
				hi = t
			}
		}
		if !haveMin {
			min = lo
		}
		if !haveMax {
			max = hi
		}
		haveMin, haveMax = true, true
	}
	if !haveMin || !haveMax {
		return 0, 0, upstream.ErrNoData
	}
	return min, max, nil
}

// Hourly returns up to hours future slots from the short-range feed.
// Slots missing any core category are skipped.
func (c *Client) Hourly(ctx context.Context, grid region.Grid, hours int) ([]Snapshot, error) {
	now := c.Now()
	baseDate, baseTime := shortBase(now)
	items, err := c.fetchForecast(ctx, c.conf.ShortPath, baseDate, baseTime, grid)
	if err != nil {
		return nil, err
	}

	type slotKey struct{ date, tm string }
	slots := map[slotKey]map[string]string{}
	for _, it := range items {
		k := slotKey{it.FcstDate, it.FcstTime}
		if slots[k] == nil {
			slots[k] = map[string]string{}
		}
		slots[k][it.Category] = it.FcstValue
	}

	keys := make([]slotKey, 0, len(slots))
	cutoff := now.Format("20060102") + now.Format("1504")
	for k := range slots {
		if k.date+k.tm >= cutoff {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].date+keys[i].tm < keys[j].date+keys[j].tm
	})

	out := make([]Snapshot, 0, hours)
	for _, k := range keys {
		if len(out) == hours {
			break
		}
		vals := slots[k]
		tmp, okTmp := vals["TMP"]
		skyStr, okSky := vals["SKY"]
		ptyStr, okPty := vals["PTY"]
		if !okTmp || !okSky || !okPty {
			continue
		}
		snap := Snapshot{BaseDate: k.date, BaseTime: k.tm}
		snap.Temperature, _ = strconv.ParseFloat(tmp, 64)
		sky, _ := strconv.Atoi(skyStr)
		snap.Sky = Sky(sky)
		pty, _ := strconv.Atoi(ptyStr)
		snap.PrecipType = PrecipType(pty)
		if pop, ok := vals["POP"]; ok {
			snap.PrecipProb, _ = strconv.Atoi(pop)
		}
		if pcp, ok := vals["PCP"]; ok {
			snap.PrecipAmount = parseRainfall(pcp)
		}
		if reh, ok := vals["REH"]; ok {
			snap.Humidity, _ = strconv.Atoi(reh)
		}
		if wsd, ok := vals["WSD"]; ok {
			snap.WindSpeed, _ = strconv.ParseFloat(wsd, 64)
		}
		if vec, ok := vals["VEC"]; ok {
			deg, _ := strconv.Atoi(vec)
			snap.WindDirection = WindDirection(deg)
		}
		snap.ApparentTemp = ApparentTemperature(snap.Temperature, snap.Humidity, snap.WindSpeed)
		out = append(out, snap)
	}
	if len(out) == 0 {
		return nil, upstream.ErrNoData
	}
	return out, nil
}

// Weekly merges per-day summaries from the short-range feed with the
// mid-range temperature and land forecasts. Short-range days win where
// the two overlap.
func (c *Client) Weekly(ctx context.Context, grid region.Grid, midRegionID string, days int) ([]DaySummary, error) {
	now := c.Now()

	short, err := c.shortRangeDays(ctx, grid, now)
	if err != nil {
		log.Printf("weather: short-range days unavailable: %v", err)
		short = nil
	}

	mid, err := c.midRangeDays(ctx, midRegionID, now)
	if err != nil {
		log.Printf("weather: mid-range days unavailable: %v", err)
		mid = nil
	}
	if len(short) == 0 && len(mid) == 0 {
		return nil, upstream.ErrNoData
	}
	return mergeWeekly(short, mid, now, days), nil
}

// mergeWeekly combines the two horizons, preferring short-range entries,
// and returns at most days entries from today onward in date order.
func mergeWeekly(short, mid []DaySummary, now time.Time, days int) []DaySummary {
	byDate := map[string]DaySummary{}
	for _, d := range mid {
		byDate[d.BaseDate] = d
	}
	for _, d := range short {
		byDate[d.BaseDate] = d
	}
	today := now.Format("20060102")
	out := make([]DaySummary, 0, len(byDate))
	for _, d := range byDate {
		if d.BaseDate >= today {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BaseDate < out[j].BaseDate })
	if len(out) > days {
		out = out[:days]
	}
	return out
}

func (c *Client) shortRangeDays(ctx context.Context, grid region.Grid, now time.Time) ([]DaySummary, error) {
	baseDate, baseTime := shortBase(now)
	items, err := c.fetchForecast(ctx, c.conf.ShortPath, baseDate, baseTime, grid)
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		min, max       float64
		haveMin        bool
		haveMax        bool
		temps          []float64
		noonSky        Sky
		noonPty        PrecipType
		haveNoon       bool
		fallbackSky    Sky
		fallbackPty    PrecipType
		haveFallback   bool
		fallbackOffset int
	}
	agg := map[string]*dayAgg{}
	day := func(date string) *dayAgg {
		a, ok := agg[date]
		if !ok {
			a = &dayAgg{}
			agg[date] = a
		}
		return a
	}
	sky := map[string]Sky{}
	pty := map[string]PrecipType{}
	for _, it := range items {
		a := day(it.FcstDate)
		switch it.Category {
		case "TMN":
			a.min, _ = strconv.ParseFloat(it.FcstValue, 64)
			a.haveMin = true
		case "TMX":
			a.max, _ = strconv.ParseFloat(it.FcstValue, 64)
			a.haveMax = true
		case "TMP":
			if t, err := strconv.ParseFloat(it.FcstValue, 64); err == nil {
				a.temps = append(a.temps, t)
			}
		case "SKY":
			v, _ := strconv.Atoi(it.FcstValue)
			sky[it.FcstDate+it.FcstTime] = Sky(v)
		case "PTY":
			v, _ := strconv.Atoi(it.FcstValue)
			pty[it.FcstDate+it.FcstTime] = PrecipType(v)
		}
	}
	// Condition for a day comes from the noon slot, else the daytime slot
	// closest to noon that carries both categories.
	for key, s := range sky {
		date, tm := key[:8], key[8:]
		p, ok := pty[key]
		if !ok {
			continue
		}
		hh, _ := strconv.Atoi(tm[:2])
		off := hh - 12
		if off < 0 {
			off = -off
		}
		a := day(date)
		if hh == 12 {
			a.noonSky, a.noonPty, a.haveNoon = s, p, true
		} else if !a.haveFallback || off < a.fallbackOffset {
			a.fallbackSky, a.fallbackPty = s, p
			a.haveFallback = true
			a.fallbackOffset = off
		}
	}

	out := make([]DaySummary, 0, len(agg))
	for date, a := range agg {
		d := DaySummary{BaseDate: date}
		if !a.haveMin || !a.haveMax {
			if len(a.temps) == 0 {
				continue
			}
			lo, hi := a.temps[0], a.temps[0]
			for _, t := range a.temps[1:] {
				if t < lo {
					lo = t
				}
				if t > hi {
					hi = t
				}
			}
			if !a.haveMin {
				a.min = lo
			}
			if !a.haveMax {
				a.max = hi
			}
		}
		d.MinTemp, d.MaxTemp = a.min, a.max
		switch {
		case a.haveNoon:
			d.Sky, d.PrecipType = a.noonSky, a.noonPty
		case a.haveFallback:
			d.Sky, d.PrecipType = a.fallbackSky, a.fallbackPty
		default:
			d.Sky = SkyUnknown
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BaseDate < out[j].BaseDate })
	return out, nil
}

func (c *Client) midRangeDays(ctx context.Context, regID string, now time.Time) ([]DaySummary, error) {
	tmFc, startDay := midBase(now)

	// Day offsets count from the issue date, which trails now by a day
	// when the 18:00 fallback issue is in play.
	issue, err := time.ParseInLocation("20060102", tmFc[:8], now.Location())
	if err != nil {
		issue = now
	}

	temp, err := c.fetchMid(ctx, c.conf.MidTempPath, regID, tmFc)
	if err != nil {
		return nil, err
	}
	land, err := c.fetchMid(ctx, c.conf.MidLandPath, regID, tmFc)
	if err != nil {
		return nil, err
	}

	out := make([]DaySummary, 0, 10-startDay+1)
	for i := startDay; i <= 10; i++ {
		min, okMin := numField(temp, fmt.Sprintf("taMin%d", i))
		max, okMax := numField(temp, fmt.Sprintf("taMax%d", i))
		if !okMin || !okMax {
			continue
		}
		phrase := strField(land, fmt.Sprintf("wf%dPm", i))
		if phrase == "" {
			phrase = strField(land, fmt.Sprintf("wf%d", i))
		}
		sky, precip := midCondition(phrase)
		out = append(out, DaySummary{
			BaseDate:   issue.AddDate(0, 0, i).Format("20060102"),
			MinTemp:    min,
			MaxTemp:    max,
			Sky:        sky,
			PrecipType: precip,
		})
	}
	return out, nil
}
