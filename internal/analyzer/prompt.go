package analyzer

import (
	"fmt"
)

const systemPersona = "你是一个十分顶级专业的大师级金融分析师，擅长从新闻中识别对股票的利好利空影响，并且只输出JSON。"

// 超出部分对判断利好利空帮助有限，截断可以省token。
const maxPromptContentRunes = 3000

const promptTemplate = `请分析以下新闻内容，判断其中涉及的股票及其利好利空影响。

新闻内容：
%s

请严格按照以下JSON格式输出，不要输出任何其他内容：
{
    "summary": "新闻的一句话总结",
    "analysis": [
        {
            "stock": "股票名称(股票代码)",
            "impact": "利好或利空",
            "reason": "判断理由"
        }
    ]
}

要求：
1. summary 用一句话概括新闻核心内容
2. analysis 列出新闻直接影响的股票，没有明确相关股票时返回空数组 []
3. stock 字段尽量带上股票代码，例如 贵州茅台(600519)
4. impact 只能是 利好 或 利空
5. reason 简要说明判断依据`

// BuildPrompt renders the analysis prompt for one piece of news,
// truncating overly long content by rune count.
func BuildPrompt(content string) string {
	runes := []rune(content)
	if len(runes) > maxPromptContentRunes {
		runes = runes[:maxPromptContentRunes]
	}
	return fmt.Sprintf(promptTemplate, string(runes))
}
