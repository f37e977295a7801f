package airquality

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/ddui/walkability-api/internal/upstream"
)

// Config holds the service key and endpoint paths for the air-quality
// network feeds.
type Config struct {
	ServiceKey  string
	BaseURL     string
	StationPath string
	DustPath    string
	WeeklyPath  string
}

// Client fetches station readings and dust forecasts from the national
// air-quality network.
type Client struct {
	conf    Config
	httpCfg upstream.ClientConfig
	breaker *gobreaker.CircuitBreaker
}

func NewClient(httpClient *http.Client, conf Config) *Client {
	return &Client{
		conf: conf,
		httpCfg: upstream.ClientConfig{
			Client:  httpClient,
			Backoff: upstream.DefaultBackoff(),
		},
		breaker: upstream.NewBreaker("airkorea"),
	}
}

type stationRow struct {
	DataTime  string `json:"dataTime"`
	PM10Value string `json:"pm10Value"`
	PM25Value string `json:"pm25Value"`
	PM10Grade string `json:"pm10Grade"`
	PM25Grade string `json:"pm25Grade"`
}

type dustRow struct {
	InformCode  string `json:"informCode"`
	InformData  string `json:"informData"`
	InformGrade string `json:"informGrade"`
	DataTime    string `json:"dataTime"`
}

type weeklyRow struct {
	FrcstOneDt   string `json:"frcstOneDt"`
	FrcstOneCn   string `json:"frcstOneCn"`
	FrcstTwoDt   string `json:"frcstTwoDt"`
	FrcstTwoCn   string `json:"frcstTwoCn"`
	FrcstThreeDt string `json:"frcstThreeDt"`
	FrcstThreeCn string `json:"frcstThreeCn"`
	FrcstFourDt  string `json:"frcstFourDt"`
	FrcstFourCn  string `json:"frcstFourCn"`
}

// The network API nests items directly under body, unlike the weather
// bureau's items.item shape.
type networkEnvelope[T any] struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items []T `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

func fetchNetwork[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	q.Set("serviceKey", c.conf.ServiceKey)
	q.Set("returnType", "json")

	body, err := upstream.Do(ctx, c.httpCfg, c.breaker, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.conf.BaseURL+path+"?"+q.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}

	var env networkEnvelope[T]
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
	if len(env.Response.Body.Items) == 0 {
		return nil, upstream.ErrNoData
	}
	return env.Response.Body.Items, nil
}

// stationReadings returns the station's daily reading history, newest first
// as the provider emits it.
func (c *Client) stationReadings(ctx context.Context, stationName string) ([]stationRow, error) {
	q := url.Values{}
	q.Set("stationName", stationName)
	q.Set("dataTerm", "DAILY")
	q.Set("numOfRows", "100")
	q.Set("pageNo", "1")
	q.Set("ver", "1.3")
	return fetchNetwork[stationRow](ctx, c, c.conf.StationPath, q)
}

// dustAdvisory returns the advisory rows announced on searchDate
// ("2006-01-02"), with the publish hour parsed out of the announcement
// timestamp.
func (c *Client) dustAdvisory(ctx context.Context, searchDate string) ([]AdvisoryItem, error) {
	q := url.Values{}
	q.Set("searchDate", searchDate)
	rows, err := fetchNetwork[dustRow](ctx, c, c.conf.DustPath, q)
	if err != nil {
		return nil, err
	}

	out := make([]AdvisoryItem, 0, len(rows))
	for _, r := range rows {
		if r.InformCode != "PM10" && r.InformCode != "PM25" {
			continue
		}
		out = append(out, AdvisoryItem{
			InformCode:  r.InformCode,
			TargetDate:  r.InformData,
			PublishHour: publishHour(r.DataTime),
			GradeBlob:   r.InformGrade,
		})
	}
	if len(out) == 0 {
		return nil, upstream.ErrNoData
	}
	return out, nil
}

// dustOutlook returns the 3-5 day outlook announced on searchDate as
// date/blob pairs.
func (c *Client) dustOutlook(ctx context.Context, searchDate string) ([]WeeklyDay, error) {
	q := url.Values{}
	q.Set("searchDate", searchDate)
	rows, err := fetchNetwork[weeklyRow](ctx, c, c.conf.WeeklyPath, q)
	if err != nil {
		return nil, err
	}

	var out []WeeklyDay
	for _, r := range rows {
		for _, p := range [][2]string{
			{r.FrcstOneDt, r.FrcstOneCn},
			{r.FrcstTwoDt, r.FrcstTwoCn},
			{r.FrcstThreeDt, r.FrcstThreeCn},
			{r.FrcstFourDt, r.FrcstFourCn},
		} {
			if p[0] == "" || p[1] == "" {
				continue
			}
			out = append(out, WeeklyDay{Date: p[0], Blob: p[1]})
		}
	}
	if len(out) == 0 {
		return nil, upstream.ErrNoData
	}
	return out, nil
}

// publishHour extracts the hour from an announcement timestamp like
// "2026-09-01 11시 발표". Unparseable timestamps report -1 so they never
// match a selected publish hour.
func publishHour(dataTime string) int {
	fields := strings.Fields(dataTime)
	if len(fields) < 2 {
		return -1
	}
	h, err := strconv.Atoi(strings.TrimSuffix(fields[1], "시"))
	if err != nil {
		return -1
	}
	return h
}
