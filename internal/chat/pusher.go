package chat

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"newstrack/internal/config"
	"newstrack/internal/logger"
	"newstrack/internal/models"
)

const pushTimeout = 10 * time.Second

type pushRequest struct {
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

// Pusher posts the digest to a local bridge endpoint that relays it
// into the user's chat client.
type Pusher struct {
	client   *resty.Client
	url      string
	receiver string
}

func NewPusher(cfg *config.Config) *Pusher {
	return &Pusher{
		client:   resty.New().SetTimeout(pushTimeout),
		url:      cfg.ChatBridgeURL,
		receiver: cfg.ChatReceiver,
	}
}

// Push sends the digest. No records or no bridge URL is a no-op.
func (p *Pusher) Push(records []models.AnalysisRecord) error {
	if p.url == "" {
		logger.Log.Debug("未配置消息桥接地址，跳过推送")
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	resp, err := p.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(pushRequest{Receiver: p.receiver, Message: BuildDigest(records)}).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("chat: push: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("chat: push: status %d", resp.StatusCode())
	}
	logger.Log.WithField("receiver", p.receiver).Info("消息推送成功")
	return nil
}
