// Package pipeline orchestrates one fetch-analyze-deliver pass.
package pipeline

import (
	"context"
	"time"

	"newstrack/internal/analyzer"
	"newstrack/internal/chat"
	"newstrack/internal/config"
	"newstrack/internal/display"
	"newstrack/internal/feed"
	"newstrack/internal/ledger"
	"newstrack/internal/logger"
	"newstrack/internal/mail"
	"newstrack/internal/models"
	"newstrack/internal/track"
)

// 两次模型调用之间的间隔。
const analyzePause = time.Second

// Analyzer is the single-item analysis seam.
type Analyzer interface {
	Analyze(ctx context.Context, item models.NewsItem) models.AnalysisResult
}

// Deliverer pushes a finished batch to one outbound channel.
type Deliverer interface {
	Deliver(records []models.AnalysisRecord) error
}

// Pipeline wires the collector, the analyzer and the ledgers together.
type Pipeline struct {
	cfg        *config.Config
	source     feed.Source
	engine     Analyzer
	links      *ledger.LinkLedger
	analyses   *ledger.AnalysisLedger
	table      *track.Table
	deliverers []Deliverer
	sleep      func(time.Duration)
	now        func() time.Time
}

// New builds the production pipeline.
func New(ctx context.Context, cfg *config.Config, useTelegraph bool) (*Pipeline, error) {
	engine, err := analyzer.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var source feed.Source
	if useTelegraph {
		source = feed.NewCLSClient()
	} else {
		source = feed.NewCollector(cfg)
	}

	p := &Pipeline{
		cfg:      cfg,
		source:   source,
		engine:   engine,
		links:    ledger.NewLinkLedger(cfg.LinksPath()),
		analyses: ledger.NewAnalysisLedger(cfg.AnalysisPath()),
		table:    track.NewTable(cfg.TrackPath()),
		sleep:    time.Sleep,
		now:      time.Now,
	}
	if cfg.MailEnabled() {
		p.deliverers = append(p.deliverers, mailDeliverer{mail.NewSender(cfg)})
	}
	if cfg.ChatEnabled() {
		p.deliverers = append(p.deliverers, chatDeliverer{chat.NewPusher(cfg)})
	}
	return p, nil
}

type mailDeliverer struct{ sender *mail.Sender }

func (d mailDeliverer) Deliver(records []models.AnalysisRecord) error {
	return d.sender.SendReport(records)
}

type chatDeliverer struct{ pusher *chat.Pusher }

func (d chatDeliverer) Deliver(records []models.AnalysisRecord) error {
	return d.pusher.Push(records)
}

// RunOnce executes one full pass. Per-item failures degrade to
// placeholder records; only ledger persistence errors abort the run.
func (p *Pipeline) RunOnce(ctx context.Context) (display.RunSummary, error) {
	var summary display.RunSummary

	items := p.source.Collect()
	summary.Fetched = len(items)
	if len(items) == 0 {
		logger.Log.Info("本轮没有抓到新闻")
		return summary, nil
	}

	fresh := p.links.FilterUnseen(items)
	summary.New = len(fresh)
	if len(fresh) == 0 {
		logger.Log.Info("没有新链接需要分析")
		return summary, nil
	}
	if p.cfg.MaxPerRun > 0 && len(fresh) > p.cfg.MaxPerRun {
		fresh = fresh[:p.cfg.MaxPerRun]
	}

	var records []models.AnalysisRecord
	var doneLinks []string
	for i, item := range fresh {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if i > 0 {
			p.sleep(analyzePause)
		}

		result := p.engine.Analyze(ctx, item)
		summary.Analyzed++
		if result.Summary == models.SummaryParseFailed || result.Summary == models.SummaryAPIFailed {
			summary.Failures++
		}

		records = append(records, models.AnalysisRecord{
			News:       item,
			Analysis:   result,
			AnalyzedAt: p.now().Format("2006-01-02 15:04:05"),
		})
		// 只有解析出个股影响的链接才记为已分析，其余留待下轮重试。
		if result.HasImpact() {
			summary.Impacted++
			doneLinks = append(doneLinks, item.Link)
		}
	}

	// 先落分析结果再标记链接：中间崩溃只会重复分析，不会丢结果。
	if err := p.analyses.AppendBatch(records); err != nil {
		return summary, err
	}
	if len(doneLinks) > 0 {
		if err := p.links.MarkAnalyzed(doneLinks); err != nil {
			return summary, err
		}
	}
	if _, err := p.table.AppendRecords(records); err != nil {
		return summary, err
	}

	for _, d := range p.deliverers {
		if err := d.Deliver(records); err != nil {
			logger.Log.Warnf("推送失败: %v", err)
		}
	}
	return summary, nil
}

// RunForever loops RunOnce at the configured interval until the
// context is canceled.
func (p *Pipeline) RunForever(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.RunInterval)
	defer ticker.Stop()

	for {
		summary, err := p.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.Errorf("本轮运行失败: %v", err)
		} else {
			logger.Log.WithField("analyzed", summary.Analyzed).
				WithField("impacted", summary.Impacted).
				Info("本轮运行完成")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
