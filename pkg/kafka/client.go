// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"

	"github.com/nichestudioai/aibnb-superhost/internal/config"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
	"github.com/nichestudioai/aibnb-superhost/pkg/tasks"
	"github.com/segmentio/kafka-go"
)

// EventProcessor defines the interface for any service that can process a
// retrieval diagnostic. This decouples the Kafka consumer from the concrete
// pipeline implementation.
type EventProcessor interface {
	Process(ctx context.Context, event tasks.RetrievalDiagnostic) error
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceRetrievalDiagnostic 发送一条检索诊断记录到 Kafka。
func ProduceRetrievalDiagnostic(event tasks.RetrievalDiagnostic) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: eventBytes,
		},
	)
	return err
}

// Sink 将包级生产者适配为业务层需要的发布接口。
type Sink struct{}

// Publish 发送一条检索诊断记录。
func (Sink) Publish(event tasks.RetrievalDiagnostic) error {
	return ProduceRetrievalDiagnostic(event)
}

// StartConsumer 启动一个 Kafka 消费者来处理检索诊断记录。
func StartConsumer(cfg config.KafkaConfig, processor EventProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "aibnb-superhost-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break // 退出循环，可能需要重启策略
		}

		var event tasks.RetrievalDiagnostic
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		// 诊断记录属于尽力而为的数据：处理失败时记录日志并提交 offset，
		// 不做重试，避免一条坏记录卡住整个分区。
		if err := processor.Process(context.Background(), event); err != nil {
			log.Errorf("处理检索诊断记录失败: propertyId=%d, error: %v", event.PropertyID, err)
		}
		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}
