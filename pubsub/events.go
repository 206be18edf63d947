package pubsub

const (
	// TurnStartedEvent 用户提问已被接收，问答回合开始
	TurnStartedEvent EventType = "turn_started"
	// TurnAnsweredEvent 助手回答已生成，问答回合正常结束
	TurnAnsweredEvent EventType = "turn_answered"
	// TurnFailedEvent 本回合生成失败，会话保持可用
	TurnFailedEvent EventType = "turn_failed"
)

type (
	// EventType 标识事件的类型
	EventType string

	// Event 代表一个问答回合生命周期中的事件
	Event[T any] struct {
		Type    EventType // 事件类型
		Payload T         // 事件携带的具体数据载荷
	}
)
