// Package service 包含了应用的业务逻辑层。
package service

import (
	"strings"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
)

// fallbackAnswer 是助手在 FAQ 未覆盖问题时必须逐字使用的回复。
const fallbackAnswer = "I'm sorry, I don't have that information yet. Please contact the host."

// buildSystemPrompt 构建聊天回合的 system 指令：
// 限定助手只服务单个短租房源、只允许基于给定 FAQ 作答、
// 未覆盖时使用固定的兜底回复，随后按接收顺序列出 Q/A 对。
// FAQ 列表为空时仍然输出完整的约束文本，模型对所有问题走兜底。
func buildSystemPrompt(faqs []model.FAQEntry) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant embedded on a short-term rental property page.\n")
	sb.WriteString("You can only answer questions based on the following FAQs.\n")
	sb.WriteString("If a question is not covered here, respond:\n")
	sb.WriteString("\"" + fallbackAnswer + "\"\n\n")

	for i, faq := range faqs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Q: ")
		sb.WriteString(faq.Question)
		sb.WriteString("\nA: ")
		sb.WriteString(faq.Answer)
	}

	return sb.String()
}
