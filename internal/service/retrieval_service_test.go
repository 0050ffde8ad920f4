package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/pkg/tasks"
	"github.com/stretchr/testify/require"
)

// stubFAQRepo 是 FAQRepository 的内存实现，只有 FindByProperty 有实际行为。
type stubFAQRepo struct {
	faqs []model.FAQ
	err  error
}

func (s *stubFAQRepo) Create(faq *model.FAQ) error        { return nil }
func (s *stubFAQRepo) Update(faq *model.FAQ) error        { return nil }
func (s *stubFAQRepo) Delete(faqID uint) error            { return nil }
func (s *stubFAQRepo) FindByID(faqID uint) (*model.FAQ, error) {
	return nil, errors.New("not implemented")
}
func (s *stubFAQRepo) FindByProperty(propertyID uint) ([]model.FAQ, error) {
	return s.faqs, s.err
}
func (s *stubFAQRepo) CountByProperty(propertyID uint) (int64, error) {
	return int64(len(s.faqs)), nil
}

// chanPublisher 把收到的诊断记录转发到通道，供测试断言。
type chanPublisher struct {
	events chan tasks.RetrievalDiagnostic
}

func (p *chanPublisher) Publish(event tasks.RetrievalDiagnostic) error {
	p.events <- event
	return nil
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("What time is check-in?")

	require.Contains(t, keywords, "time")
	require.Contains(t, keywords, "check")
	// 停用词和短词被过滤
	require.NotContains(t, keywords, "what")
	require.NotContains(t, keywords, "is")
	require.NotContains(t, keywords, "in")
}

func TestExtractKeywordsLowercasesAndStripsPunctuation(t *testing.T) {
	keywords := extractKeywords("PARKING!!! Available???")

	require.Contains(t, keywords, "parking")
	require.Contains(t, keywords, "available")
	require.Len(t, keywords, 2)
}

func TestJaccard(t *testing.T) {
	a := map[string]struct{}{"wifi": {}, "password": {}}
	b := map[string]struct{}{"wifi": {}, "password": {}}
	c := map[string]struct{}{"pool": {}}

	require.Equal(t, 1.0, jaccard(a, b))
	require.Equal(t, 0.0, jaccard(a, c))
	// 对称性
	require.Equal(t, jaccard(a, c), jaccard(c, a))
}

func TestJaccardBothEmpty(t *testing.T) {
	// 0/0 约定为 0，不产生 NaN
	require.Equal(t, 0.0, jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestFindRelevantFAQsRanksByWeightedScore(t *testing.T) {
	repo := &stubFAQRepo{faqs: []model.FAQ{
		{ID: 1, Question: "Is parking available?", Answer: "Yes, free parking on site."},
		{ID: 2, Question: "What time is check-in?", Answer: "Check-in is at 3 PM."},
	}}
	svc := NewRetrievalService(repo, nil, nil)

	result := svc.FindRelevantFAQs(context.Background(), 1, "What time can I check in")

	require.Len(t, result, 1)
	require.Equal(t, "What time is check-in?", result[0].Question)
}

func TestFindRelevantFAQsFiltersBelowThreshold(t *testing.T) {
	repo := &stubFAQRepo{faqs: []model.FAQ{
		{ID: 1, Question: "Is the pool heated?", Answer: "Yes, the pool is heated year round."},
	}}
	svc := NewRetrievalService(repo, nil, nil)

	result := svc.FindRelevantFAQs(context.Background(), 1, "completely unrelated question about bicycles")

	require.Empty(t, result)
}

func TestFindRelevantFAQsCapsSelection(t *testing.T) {
	repo := &stubFAQRepo{faqs: []model.FAQ{
		{ID: 1, Question: "wifi network name", Answer: "The wifi network is Sunset."},
		{ID: 2, Question: "wifi password", Answer: "The wifi password is posted on the fridge."},
		{ID: 3, Question: "wifi speed", Answer: "The wifi supports streaming."},
		{ID: 4, Question: "wifi router location", Answer: "The wifi router is in the hallway."},
	}}
	svc := NewRetrievalService(repo, nil, nil)

	result := svc.FindRelevantFAQs(context.Background(), 1, "wifi")

	require.Len(t, result, maxSelectedFAQs)
}

func TestFindRelevantFAQsEmptyCorpus(t *testing.T) {
	svc := NewRetrievalService(&stubFAQRepo{}, nil, nil)

	result := svc.FindRelevantFAQs(context.Background(), 1, "anything")

	require.Empty(t, result)
}

func TestFindRelevantFAQsDegradesOnCorpusError(t *testing.T) {
	repo := &stubFAQRepo{err: errors.New("database unreachable")}
	svc := NewRetrievalService(repo, nil, nil)

	// 语料读取失败不 panic、不报错，降级为空结果
	result := svc.FindRelevantFAQs(context.Background(), 1, "wifi password")

	require.Empty(t, result)
}

func TestFindRelevantFAQsPublishesDiagnostic(t *testing.T) {
	repo := &stubFAQRepo{faqs: []model.FAQ{
		{ID: 1, Question: "wifi password", Answer: "Posted on the fridge."},
	}}
	publisher := &chanPublisher{events: make(chan tasks.RetrievalDiagnostic, 1)}
	svc := NewRetrievalService(repo, nil, publisher)

	result := svc.FindRelevantFAQs(context.Background(), 42, "wifi password")
	require.Len(t, result, 1)

	select {
	case event := <-publisher.events:
		require.Equal(t, uint(42), event.PropertyID)
		require.Equal(t, "wifi password", event.Query)
		require.Equal(t, 1, event.CorpusSize)
		require.Equal(t, 1, event.SelectedCount)
		require.NotEmpty(t, event.TopScores)
	case <-time.After(2 * time.Second):
		t.Fatal("diagnostic event was not published")
	}
}
