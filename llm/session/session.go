// Package session owns the per-session conversation state and drives one
// answering-pipeline call per user turn.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"remedy/llm/qa"
	"remedy/pubsub"
)

// Greeting 会话开始时预置的助手问候语
const Greeting = "Hello! I can help with medicine information, symptoms analysis, and disease information. How can I help you today?"

// Disclaimer 附加在每条回答末尾的固定免责声明
const Disclaimer = "⚠️ Disclaimer: Consult a doctor before taking any medication."

// Answerer 回答管道契约，由 *qa.Pipeline 实现
type Answerer interface {
	Answer(ctx context.Context, question string) (qa.Answer, error)
}

// Session 会话运行时：持有对话历史、事件 Broker 和回答管道。
// 会话开始时创建，结束时 Close；索引等重资源不归它管。
type Session struct {
	store    ConversationStore
	broker   *pubsub.Broker[*schema.Message]
	pipeline Answerer
	ctx      context.Context
	cancel   context.CancelFunc
	log      zerolog.Logger
}

// NewSession 创建会话运行时，并预置开场问候
func NewSession(ctx context.Context, pipeline Answerer, log zerolog.Logger) *Session {
	childCtx, cancel := context.WithCancel(ctx)

	s := &Session{
		store:    NewMemoryStore(),
		broker:   pubsub.NewBroker[*schema.Message](),
		pipeline: pipeline,
		ctx:      childCtx,
		cancel:   cancel,
		log:      log.With().Str("component", "session").Logger(),
	}

	// 问候语只进历史用于展示，不参与检索
	_ = s.store.Add(childCtx, &schema.Message{
		Role:    schema.Assistant,
		Content: Greeting,
	})

	return s
}

// Ask 处理一个用户问题：消息先入历史，再走一次回答管道。
// 生成失败只影响本回合：历史保留用户消息，会话和索引继续可用。
// 任何失败路径都会广播 TurnFailedEvent，界面据此恢复就绪状态。
func (s *Session) Ask(question string) error {
	userMsg := &schema.Message{
		Role:    schema.User,
		Content: question,
	}
	if err := s.store.Add(s.ctx, userMsg); err != nil {
		err = fmt.Errorf("存储用户消息失败: %w", err)
		s.fail(err)
		return err
	}
	s.broker.Publish(pubsub.TurnStartedEvent, userMsg)

	ans, err := s.pipeline.Answer(s.ctx, question)
	if err != nil {
		s.fail(err)
		return err
	}

	assistantMsg := &schema.Message{
		Role:    schema.Assistant,
		Content: composeResponse(ans),
	}
	if err := s.store.Add(s.ctx, assistantMsg); err != nil {
		err = fmt.Errorf("存储助手消息失败: %w", err)
		s.fail(err)
		return err
	}
	s.broker.Publish(pubsub.TurnAnsweredEvent, assistantMsg)

	return nil
}

// fail 记录错误并把失败事件广播给界面
func (s *Session) fail(err error) {
	s.log.Error().Err(err).Msg("turn failed")
	s.broker.Publish(pubsub.TurnFailedEvent, &schema.Message{
		Role:    schema.System,
		Content: fmt.Sprintf("Error: %v", err),
	})
}

// composeResponse 在回答文本后追加来源行和固定免责声明
func composeResponse(ans qa.Answer) string {
	var sb strings.Builder
	sb.WriteString(ans.Text)
	if len(ans.CitedTypes) > 0 {
		sb.WriteString("\n\nSources: ")
		sb.WriteString(strings.Join(ans.CitedTypes, ", "))
	}
	sb.WriteString("\n\n")
	sb.WriteString(Disclaimer)
	return sb.String()
}

// History 返回当前会话的全部消息
func (s *Session) History() ([]*schema.Message, error) {
	return s.store.List(s.ctx)
}

// Broker 获取事件 Broker
func (s *Session) Broker() *pubsub.Broker[*schema.Message] {
	return s.broker
}

// Close 结束会话：取消上下文并关闭所有订阅
func (s *Session) Close() {
	s.cancel()
	s.broker.Shutdown()
}
