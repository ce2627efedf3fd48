package feed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"newstrack/internal/logger"
	"newstrack/internal/models"
)

// Vendor JSON endpoint for 财联社 telegraph headlines. Used as an alternate
// source when the RSS bridge is unavailable.
const (
	clsTelegraphURL = "https://www.cls.cn/nodeapi/telegraphList"
	clsDetailURL    = "https://www.cls.cn/detail/%d"
)

const signChars = "abcdef0123456789"

// CLSClient collects headlines straight from the vendor JSON API.
type CLSClient struct {
	client  *resty.Client
	baseURL string
}

func NewCLSClient() *CLSClient {
	client := resty.New()
	client.SetTimeout(fetchTimeout)

	return &CLSClient{
		client:  client,
		baseURL: clsTelegraphURL,
	}
}

// randomSign fills the API's sign parameter; the endpoint accepts any
// 32-char hex string for anonymous web reads.
func randomSign() string {
	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = signChars[rand.Intn(len(signChars))]
	}
	return string(buf)
}

// Collect fetches one page of telegraph headlines. Like the RSS source,
// failure yields an empty batch.
func (c *CLSClient) Collect() []models.NewsItem {
	resp, err := c.client.R().
		SetHeader("User-Agent", randomUserAgent()).
		SetHeader("Referer", "https://www.cls.cn/").
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8").
		SetHeader("Origin", "https://www.cls.cn").
		SetQueryParams(map[string]string{
			"app":                 "CailianpressWeb",
			"category":            "",
			"hasFirstVipArticle":  "1",
			"lastTime":            fmt.Sprintf("%d", time.Now().Unix()),
			"os":                  "web",
			"rn":                  "20",
			"sv":                  "7.7.5",
			"sign":                randomSign(),
		}).
		Get(c.baseURL)
	if err != nil {
		logger.Log.Errorf("cls: request failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logger.Log.Errorf("cls: HTTP %d", resp.StatusCode())
		return nil
	}

	rolls := gjson.GetBytes(resp.Body(), "data.roll_data")
	if !rolls.Exists() || !rolls.IsArray() {
		logger.Log.Error("cls: no data.roll_data in response")
		return nil
	}

	var items []models.NewsItem
	rolls.ForEach(func(_, v gjson.Result) bool {
		id := v.Get("id").Int()
		if id == 0 {
			return true
		}

		pubDate := ""
		if ts := v.Get("ctime").Int(); ts > 0 {
			pubDate = time.Unix(ts, 0).Format("2006-01-02 15:04:05")
		}

		source := v.Get("source_name").String()
		if source == "" {
			source = DefaultSource
		}

		items = append(items, models.NewsItem{
			Title:   v.Get("title").String(),
			Content: v.Get("content").String(),
			Source:  source,
			PubDate: pubDate,
			Author:  source,
			Link:    fmt.Sprintf(clsDetailURL, id),
		})
		return true
	})

	logger.Log.Infof("cls: collected %d headlines", len(items))
	return items
}
