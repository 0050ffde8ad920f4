// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"time"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/pkg/llm"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
)

// defaultLLMTimeout 是上游模型调用的兜底超时。
const defaultLLMTimeout = 30 * time.Second

// ChatService 串联一轮访客问答的完整流水线：
// FAQ 检索 -> 提示词组装 -> 历史回放 -> 模型调用 -> 会话落库。
type ChatService interface {
	// Ask 处理一轮访客提问并返回助手的回答。
	// 上游模型失败时返回 (空串, *llm.UpstreamError)，不写任何消息；
	// 落库失败时返回 (答案, *PersistenceError)，答案仍然送达访客。
	Ask(ctx context.Context, propertyID uint, guestID, question string) (string, error)
}

type chatService struct {
	retrieval   RetrievalService
	convService ConversationService
	llmClient   llm.Client
	llmTimeout  time.Duration
}

// NewChatService 创建一个新的 ChatService 实例。
// llmTimeout 非正时使用默认值。
func NewChatService(retrieval RetrievalService, convService ConversationService, llmClient llm.Client, llmTimeout time.Duration) ChatService {
	if llmTimeout <= 0 {
		llmTimeout = defaultLLMTimeout
	}
	return &chatService{
		retrieval:   retrieval,
		convService: convService,
		llmClient:   llmClient,
		llmTimeout:  llmTimeout,
	}
}

// Ask 执行一轮问答。
func (s *chatService) Ask(ctx context.Context, propertyID uint, guestID, question string) (string, error) {
	faqs := s.retrieval.FindRelevantFAQs(ctx, propertyID, question)

	messages := []llm.Message{
		{Role: "system", Content: buildSystemPrompt(faqs)},
	}

	// 历史读取失败只降级为"无历史"，不让本轮失败
	history, err := s.convService.History(ctx, propertyID, guestID)
	if err != nil {
		log.Warnf("conversation history load failed for property %d guest %s: %v", propertyID, guestID, err)
		history = nil
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: model.RoleUser, Content: question})

	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()
	answer, err := s.llmClient.Chat(llmCtx, messages)
	if err != nil {
		// 模型调用失败时不写入任何消息，这一轮在存储里不存在
		return "", err
	}

	if err := s.convService.Record(ctx, propertyID, guestID, question, answer); err != nil {
		log.Errorw("conversation persistence failed, answer still delivered",
			"propertyId", propertyID, "guestId", guestID, "error", err)
		return answer, err
	}
	return answer, nil
}
