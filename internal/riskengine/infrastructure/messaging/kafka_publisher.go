// Package messaging 评估事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// MessageSender 消息发送接口，由 mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic string, key string, value any) error
}

// KafkaEventPublisher 实现 domain.EventPublisher，按公司名分区
type KafkaEventPublisher struct {
	sender MessageSender
	topic  string
}

// NewKafkaEventPublisher 创建事件发布者
func NewKafkaEventPublisher(sender MessageSender, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		sender: sender,
		topic:  topic,
	}
}

// PublishEvaluationCreated 发布评估创建事件
func (p *KafkaEventPublisher) PublishEvaluationCreated(ctx context.Context, event domain.EvaluationCreatedEvent) error {
	return p.sender.SendMessage(ctx, p.topic, event.CompanyName, event)
}
