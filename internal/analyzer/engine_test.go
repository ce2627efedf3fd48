package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"newstrack/internal/models"
)

type fakeChatModel struct {
	reply string
	err   error
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func newsItem() models.NewsItem {
	return models.NewsItem{
		Title:   "央行宣布降准0.5个百分点",
		Content: "中国人民银行决定于下月下调金融机构存款准备金率0.5个百分点。",
	}
}

func TestAnalyzeWellFormedResponse(t *testing.T) {
	reply := `根据分析，结果如下：
{"summary": "央行降准释放流动性", "analysis": [{"stock": "工商银行(601398)", "impact": "利好", "reason": "资金面宽松"}]}`
	engine := NewEngineWithModel(&fakeChatModel{reply: reply})

	got := engine.Analyze(context.Background(), newsItem())
	if got.Summary != "央行降准释放流动性" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if len(got.Analysis) != 1 || got.Analysis[0].Stock != "工商银行(601398)" {
		t.Fatalf("analysis = %+v", got.Analysis)
	}
	if !got.HasImpact() {
		t.Fatal("expected HasImpact")
	}
}

func TestAnalyzeRepairsBrokenResponse(t *testing.T) {
	reply := `{"summary": 央行降准, "analysis": []}`
	engine := NewEngineWithModel(&fakeChatModel{reply: reply})

	got := engine.Analyze(context.Background(), newsItem())
	if got.Summary != "央行降准" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if got.HasImpact() {
		t.Fatal("empty analysis should report no impact")
	}
}

func TestAnalyzeModelError(t *testing.T) {
	engine := NewEngineWithModel(&fakeChatModel{err: errors.New("rate limited")})

	got := engine.Analyze(context.Background(), newsItem())
	if got.Summary != models.SummaryAPIFailed {
		t.Fatalf("summary = %q, want %q", got.Summary, models.SummaryAPIFailed)
	}
}

func TestAnalyzeGarbageResponse(t *testing.T) {
	engine := NewEngineWithModel(&fakeChatModel{reply: "抱歉，我无法完成该请求。"})

	got := engine.Analyze(context.Background(), newsItem())
	if got.Summary != models.SummaryParseFailed {
		t.Fatalf("summary = %q, want %q", got.Summary, models.SummaryParseFailed)
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	content := strings.Repeat("涨", maxPromptContentRunes+100)
	prompt := BuildPrompt(content)
	if n := strings.Count(prompt, "涨"); n != maxPromptContentRunes {
		t.Fatalf("content runes = %d, want %d", n, maxPromptContentRunes)
	}
}
