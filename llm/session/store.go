package session

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// ConversationStore 对话存储接口
type ConversationStore interface {
	// Add 追加一条消息到会话历史
	Add(ctx context.Context, msg *schema.Message) error
	// List 按顺序获取全部消息历史
	List(ctx context.Context) ([]*schema.Message, error)
	// Clear 清空消息历史
	Clear(ctx context.Context) error
}

// MemoryStore 内存实现的对话存储。
// 历史只追加、不截断，随会话结束一起丢弃。
type MemoryStore struct {
	mu   sync.RWMutex
	msgs []*schema.Message
}

// NewMemoryStore 创建一个新的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		msgs: make([]*schema.Message, 0),
	}
}

// Add 追加一条消息
func (s *MemoryStore) Add(ctx context.Context, msg *schema.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

// List 获取所有消息
func (s *MemoryStore) List(ctx context.Context) ([]*schema.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// 返回副本，避免外部修改
	result := make([]*schema.Message, len(s.msgs))
	copy(result, s.msgs)
	return result, nil
}

// Clear 清空所有消息
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = nil
	return nil
}
