// Package pipeline 实现了检索诊断记录的异步处理。
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/tasks"
)

// Processor 消费 Kafka 上的检索诊断记录并写入数据库，
// 供房东侧的检索分析接口查询。
type Processor struct {
	eventRepo repository.RetrievalEventRepository
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(eventRepo repository.RetrievalEventRepository) *Processor {
	return &Processor{eventRepo: eventRepo}
}

// Process 将一条诊断记录落库。TopScores 以 JSON 字符串形式存储。
func (p *Processor) Process(ctx context.Context, event tasks.RetrievalDiagnostic) error {
	topScores, err := json.Marshal(event.TopScores)
	if err != nil {
		return fmt.Errorf("marshal top scores: %w", err)
	}

	return p.eventRepo.Create(&model.RetrievalEvent{
		PropertyID:    event.PropertyID,
		Query:         event.Query,
		CorpusSize:    event.CorpusSize,
		SelectedCount: event.SelectedCount,
		ElapsedMs:     event.ElapsedMs,
		TopScores:     string(topScores),
	})
}
