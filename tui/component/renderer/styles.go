package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageStyles 消息渲染样式配置
type MessageStyles struct {
	// 消息角色样式
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Thinking  lipgloss.Style
}

// DefaultMessageStyles 返回默认消息样式配置
func DefaultMessageStyles() *MessageStyles {
	return &MessageStyles{
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		System:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true),
		Thinking:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4")).Italic(true),
	}
}
