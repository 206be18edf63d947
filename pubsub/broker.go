package pubsub

import (
	"context"
	"sync"
)

// bufferSize 每个订阅者通道的缓冲区大小
const bufferSize = 64

// Broker 实现了基于内存的发布者/订阅者模型。
// 使用泛型 T 保证事件数据载荷的类型安全。
type Broker[T any] struct {
	mu   sync.RWMutex
	subs map[chan Event[T]]struct{} // 活跃订阅者的集合
	done chan struct{}              // 关闭信号，停止所有后续操作
}

// NewBroker 创建一个新的 Broker。
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]struct{}),
		done: make(chan struct{}),
	}
}

// Subscribe 注册一个订阅者并返回接收事件的通道。
// 通道会在 ctx 结束或 Broker 关闭时自动注销并关闭。
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Broker 已关闭时返回一个立即关闭的通道
	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], bufferSize)
	b.subs[sub] = struct{}{}

	// 后台协程监听上下文状态，自动清理
	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			// Shutdown 负责关闭所有通道
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		select {
		case <-b.done:
			return
		default:
		}

		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub)
		}
	}()

	return sub
}

// Publish 将一个事件分发给所有活跃的订阅者。
// 发送是非阻塞的：订阅者缓冲区已满时，该订阅者跳过当前事件，
// 保证慢订阅者不会拖住发布方。
func (b *Broker[T]) Publish(t EventType, payload T) {
	b.mu.RLock()
	select {
	case <-b.done:
		b.mu.RUnlock()
		return
	default:
	}

	// 复制订阅者切片，缩短持有读锁的时间
	subscribers := make([]chan Event[T], 0, len(b.subs))
	for sub := range b.subs {
		subscribers = append(subscribers, sub)
	}
	b.mu.RUnlock()

	event := Event[T]{Type: t, Payload: payload}
	for _, sub := range subscribers {
		select {
		case sub <- event:
		default:
			// 通道已满，放弃本条事件
		}
	}
}

// SubscriberCount 返回当前活跃的订阅者数量。
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Shutdown 优雅地关闭 Broker，停止接收新事件并关闭所有订阅通道。
// 可以安全地重复调用。
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
		close(b.done)
	}

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
