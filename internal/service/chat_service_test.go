package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/pkg/llm"
	"github.com/stretchr/testify/require"
)

// stubRetrieval 返回固定的检索结果。
type stubRetrieval struct {
	faqs []model.FAQEntry
}

func (s *stubRetrieval) FindRelevantFAQs(ctx context.Context, propertyID uint, query string) []model.FAQEntry {
	return s.faqs
}

// stubConvService 记录 Record 的调用参数，历史与错误均可配置。
type stubConvService struct {
	history    []model.ChatMessage
	historyErr error
	recordErr  error

	recordedQuestion string
	recordedAnswer   string
	recordCalled     bool
}

func (s *stubConvService) Record(ctx context.Context, propertyID uint, guestID, question, answer string) error {
	s.recordCalled = true
	s.recordedQuestion = question
	s.recordedAnswer = answer
	return s.recordErr
}

func (s *stubConvService) History(ctx context.Context, propertyID uint, guestID string) ([]model.ChatMessage, error) {
	return s.history, s.historyErr
}

func (s *stubConvService) ListByProperty(ctx context.Context, hostID, propertyID uint) ([]model.Conversation, error) {
	return nil, nil
}

func (s *stubConvService) Transcript(ctx context.Context, hostID, propertyID, conversationID uint) ([]model.ChatMessage, error) {
	return nil, nil
}

// stubLLM 捕获收到的消息并返回预设的答案或错误。
type stubLLM struct {
	answer      string
	err         error
	gotMessages []llm.Message
}

func (s *stubLLM) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.gotMessages = messages
	return s.answer, s.err
}

func TestAskHappyPath(t *testing.T) {
	conv := &stubConvService{}
	client := &stubLLM{answer: "Check-in is at 3 PM."}
	svc := NewChatService(
		&stubRetrieval{faqs: []model.FAQEntry{{Question: "What time is check-in?", Answer: "3 PM."}}},
		conv, client, 0,
	)

	answer, err := svc.Ask(context.Background(), 1, "guest-1", "When can I check in?")

	require.NoError(t, err)
	require.Equal(t, "Check-in is at 3 PM.", answer)

	// 提示词结构：system 在首位，访客问题在末位
	require.NotEmpty(t, client.gotMessages)
	require.Equal(t, "system", client.gotMessages[0].Role)
	require.Contains(t, client.gotMessages[0].Content, "What time is check-in?")
	last := client.gotMessages[len(client.gotMessages)-1]
	require.Equal(t, model.RoleUser, last.Role)
	require.Equal(t, "When can I check in?", last.Content)

	// 问答对完整落库
	require.True(t, conv.recordCalled)
	require.Equal(t, "When can I check in?", conv.recordedQuestion)
	require.Equal(t, "Check-in is at 3 PM.", conv.recordedAnswer)
}

func TestAskReplaysHistory(t *testing.T) {
	conv := &stubConvService{history: []model.ChatMessage{
		{Role: model.RoleUser, Content: "Is there wifi?"},
		{Role: model.RoleAssistant, Content: "Yes, the password is on the fridge."},
	}}
	client := &stubLLM{answer: "ok"}
	svc := NewChatService(&stubRetrieval{}, conv, client, 0)

	_, err := svc.Ask(context.Background(), 1, "guest-1", "And parking?")

	require.NoError(t, err)
	// system + 2 条历史 + 本轮问题
	require.Len(t, client.gotMessages, 4)
	require.Equal(t, "Is there wifi?", client.gotMessages[1].Content)
	require.Equal(t, "Yes, the password is on the fridge.", client.gotMessages[2].Content)
}

func TestAskUpstreamErrorSkipsPersistence(t *testing.T) {
	conv := &stubConvService{}
	client := &stubLLM{err: &llm.UpstreamError{StatusCode: 503, Message: "overloaded"}}
	svc := NewChatService(&stubRetrieval{}, conv, client, 0)

	answer, err := svc.Ask(context.Background(), 1, "guest-1", "hello")

	require.Empty(t, answer)
	var upstreamErr *llm.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	// 失败的回合不写任何消息
	require.False(t, conv.recordCalled)
}

func TestAskPersistenceFailureStillDeliversAnswer(t *testing.T) {
	conv := &stubConvService{recordErr: &PersistenceError{Err: errors.New("disk full")}}
	client := &stubLLM{answer: "The pool opens at 8 AM."}
	svc := NewChatService(&stubRetrieval{}, conv, client, 0)

	answer, err := svc.Ask(context.Background(), 1, "guest-1", "When does the pool open?")

	// 答案照常返回，错误保留类型供调用方区分
	require.Equal(t, "The pool opens at 8 AM.", answer)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
}

func TestAskHistoryErrorIsAbsorbed(t *testing.T) {
	conv := &stubConvService{historyErr: errors.New("query timeout")}
	client := &stubLLM{answer: "ok"}
	svc := NewChatService(&stubRetrieval{}, conv, client, 0)

	answer, err := svc.Ask(context.Background(), 1, "guest-1", "hello there")

	require.NoError(t, err)
	require.Equal(t, "ok", answer)
	// 历史读取失败只降级为无历史：system + 本轮问题
	require.Len(t, client.gotMessages, 2)
}
