// Package astro fetches sunrise and sunset times from the astronomical
// almanac service. The feed only speaks XML and is frequently a few days
// behind, so lookups walk backward day by day until data appears.
package astro

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ddui/walkability-api/internal/upstream"
)

// maxWalkBack bounds how many days back a lookup will retry before giving
// up on the feed.
const maxWalkBack = 7

type Config struct {
	ServiceKey  string
	BaseURL     string
	RiseSetPath string
}

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
		breaker: upstream.NewBreaker("riseset"),
	}
}

// SunTimes holds one day's sunrise and sunset as "HHMM" strings.
type SunTimes struct {
	Date    string `json:"date"`
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

type riseSetEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []struct {
				LocDate string `xml:"locdate"`
				Sunrise string `xml:"sunrise"`
				Sunset  string `xml:"sunset"`
			} `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

// Lookup returns the sun times for date, walking back up to a week when
// the almanac has not published the requested day yet.
func (c *Client) Lookup(ctx context.Context, lat, lon float64, date time.Time) (SunTimes, error) {
	var lastErr error
	for i := 0; i < maxWalkBack; i++ {
		day := date.AddDate(0, 0, -i)
		st, err := c.fetch(ctx, lat, lon, day)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, upstream.ErrNoData) {
			return SunTimes{}, err
		}
		lastErr = err
		log.Printf("astro: no almanac data for %s, walking back", day.Format("20060102"))
	}
	return SunTimes{}, lastErr
}

func (c *Client) fetch(ctx context.Context, lat, lon float64, date time.Time) (SunTimes, error) {
	q := url.Values{}
	q.Set("serviceKey", c.conf.ServiceKey)
	q.Set("locdate", date.Format("20060102"))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("dnYn", "Y")

	body, err := upstream.Do(ctx, c.httpCfg, c.breaker, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.conf.BaseURL+c.conf.RiseSetPath+"?"+q.Encode(), nil)
	})
	if err != nil {
		return SunTimes{}, err
	}

	var env riseSetEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return SunTimes{}, upstream.ErrBadPayload
	}
	switch env.Header.ResultCode {
	case "00":
	case "03":
		return SunTimes{}, upstream.ErrNoData
	default:
		return SunTimes{}, upstream.NewError(env.Header.ResultCode, env.Header.ResultMsg)
	}
	if len(env.Body.Items.Item) == 0 {
		return SunTimes{}, upstream.ErrNoData
	}

	it := env.Body.Items.Item[0]
	st := SunTimes{
		Date:    strings.TrimSpace(it.LocDate),
		Sunrise: strings.TrimSpace(it.Sunrise),
		Sunset:  strings.TrimSpace(it.Sunset),
	}
	if st.Sunrise == "" || st.Sunset == "" {
		return SunTimes{}, upstream.ErrNoData
	}
	return st, nil
}
