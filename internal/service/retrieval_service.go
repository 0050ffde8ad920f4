// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-redis/redis/v8"
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
	"github.com/nichestudioai/aibnb-superhost/pkg/tasks"
)

// 检索参数。问题比答案更接近查询的形态，因此权重更高；
// 阈值以下的条目视为不相关，不进入提示词。
const (
	questionWeight     = 0.6
	answerWeight       = 0.4
	relevanceThreshold = 0.1
	maxSelectedFAQs    = 3
)

// FAQ 语料缓存的 TTL。房东编辑 FAQ 时会主动失效。
const corpusCacheTTL = 5 * time.Minute

// 常见英文停用词：冠词、助动词、代词、连词和疑问词。
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "this": {}, "but": {},
	"they": {}, "have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "why": {}, "how": {},
}

// DiagnosticPublisher 将检索诊断记录发布到消息队列。
type DiagnosticPublisher interface {
	Publish(event tasks.RetrievalDiagnostic) error
}

// RetrievalService 定义了 FAQ 检索的接口。
// 检索内部的任何失败都被吸收为空结果，绝不向调用方抛出，
// 聊天回合在无 FAQ 的情况下继续进行。
type RetrievalService interface {
	FindRelevantFAQs(ctx context.Context, propertyID uint, query string) []model.FAQEntry
}

type retrievalService struct {
	faqRepo   repository.FAQRepository
	rdb       *redis.Client
	publisher DiagnosticPublisher
}

// NewRetrievalService 创建一个新的 RetrievalService 实例。
// rdb 和 publisher 都可以为 nil，分别表示不启用语料缓存和诊断发布。
func NewRetrievalService(faqRepo repository.FAQRepository, rdb *redis.Client, publisher DiagnosticPublisher) RetrievalService {
	return &retrievalService{
		faqRepo:   faqRepo,
		rdb:       rdb,
		publisher: publisher,
	}
}

// scoredFAQ 是检索过程中的临时结构，只在一次调用内存在。
type scoredFAQ struct {
	question string
	answer   string
	score    float64
}

// FindRelevantFAQs 在房源的 FAQ 语料中选出与查询最相关的条目。
// 按加权相关度降序排列，过滤低于阈值的条目，最多返回 3 条。
func (s *retrievalService) FindRelevantFAQs(ctx context.Context, propertyID uint, query string) []model.FAQEntry {
	startTime := time.Now()

	faqs, err := s.loadCorpus(ctx, propertyID)
	if err != nil {
		// 语料读取失败降级为"没有相关 FAQ"，不让整个聊天回合失败
		log.Errorw("FAQ corpus load failed, degrading to empty retrieval",
			"propertyId", propertyID, "error", err)
		return []model.FAQEntry{}
	}
	if len(faqs) == 0 {
		// 空语料直接返回，不做任何打分
		return []model.FAQEntry{}
	}

	queryKeywords := extractKeywords(query)

	scored := make([]scoredFAQ, 0, len(faqs))
	for _, faq := range faqs {
		questionScore := jaccard(queryKeywords, extractKeywords(faq.Question))
		answerScore := jaccard(queryKeywords, extractKeywords(faq.Answer))
		scored = append(scored, scoredFAQ{
			question: faq.Question,
			answer:   faq.Answer,
			score:    questionScore*questionWeight + answerScore*answerWeight,
		})
	}

	// 稳定排序：得分相同的条目保持语料中的原始顺序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	selected := make([]model.FAQEntry, 0, maxSelectedFAQs)
	for _, sf := range scored {
		if sf.score <= relevanceThreshold {
			continue
		}
		selected = append(selected, model.FAQEntry{Question: sf.question, Answer: sf.answer})
		if len(selected) == maxSelectedFAQs {
			break
		}
	}

	s.emitDiagnostic(propertyID, query, scored, len(selected), time.Since(startTime))

	return selected
}

// loadCorpus 读取房源的 FAQ 语料，优先走 Redis 缓存。
// 缓存层的任何错误都只记录日志，回退到数据库读取。
func (s *retrievalService) loadCorpus(ctx context.Context, propertyID uint) ([]model.FAQ, error) {
	cacheKey := faqCorpusCacheKey(propertyID)

	if s.rdb != nil {
		jsonData, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var faqs []model.FAQ
			if err := json.Unmarshal([]byte(jsonData), &faqs); err == nil {
				return faqs, nil
			}
			log.Warnf("corrupt FAQ cache entry for property %d, falling back to database", propertyID)
		} else if err != redis.Nil {
			log.Warnf("FAQ cache read failed for property %d: %v", propertyID, err)
		}
	}

	faqs, err := s.faqRepo.FindByProperty(propertyID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if jsonData, err := json.Marshal(faqs); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, jsonData, corpusCacheTTL).Err(); err != nil {
				log.Warnf("FAQ cache write failed for property %d: %v", propertyID, err)
			}
		}
	}

	return faqs, nil
}

// emitDiagnostic 记录并发布一条检索诊断。发布在后台进行，
// 任何失败都不会阻塞或影响检索结果。
func (s *retrievalService) emitDiagnostic(propertyID uint, query string, scored []scoredFAQ, selectedCount int, elapsed time.Duration) {
	topScores := make([]tasks.FAQScore, 0, maxSelectedFAQs)
	for i, sf := range scored {
		if i == maxSelectedFAQs {
			break
		}
		topScores = append(topScores, tasks.FAQScore{Question: sf.question, Score: sf.score})
	}

	log.Infow("FAQ selection",
		"propertyId", propertyID,
		"query", query,
		"totalFAQs", len(scored),
		"selectedCount", selectedCount,
		"processingTimeMs", elapsed.Milliseconds(),
		"topScores", topScores,
	)

	if s.publisher == nil {
		return
	}
	event := tasks.RetrievalDiagnostic{
		PropertyID:    propertyID,
		Query:         query,
		CorpusSize:    len(scored),
		SelectedCount: selectedCount,
		ElapsedMs:     elapsed.Milliseconds(),
		TopScores:     topScores,
	}
	go func() {
		if err := s.publisher.Publish(event); err != nil {
			log.Warnf("failed to publish retrieval diagnostic: %v", err)
		}
	}()
}

// faqCorpusCacheKey 生成房源 FAQ 语料的缓存键。
// FAQ 的增删改通过删除该键使缓存失效。
func faqCorpusCacheKey(propertyID uint) string {
	return fmt.Sprintf("property:%d:faqs", propertyID)
}

// extractKeywords 将文本归一化为关键词集合：
// 小写化、非字母数字字符视作空白、去除停用词、丢弃长度不超过 2 的词。
func extractKeywords(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	keywords := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		keywords[word] = struct{}{}
	}
	return keywords
}

// jaccard 计算两个关键词集合的 Jaccard 相似系数。
// 两个集合都为空时交集和并集都是空集（0/0），约定返回 0 而不是 NaN。
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}
