package renderer

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/schema"
)

// welcomeText 没有任何消息时的占位内容
const welcomeText = "Ask about medicines, symptoms, or diseases."

// MessageRenderer 消息渲染器：助手回答按 Markdown 渲染，
// 用户与系统消息按纯文本渲染
type MessageRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *MessageStyles
	renderedCache    []string // 已渲染消息的缓存
	viewportWidth    int
}

// NewMessageRenderer 创建消息渲染器
func NewMessageRenderer() *MessageRenderer {
	// Markdown 渲染器 (Dracula 主题)；换行由外层 viewport 宽度控制
	markdownRenderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0),
	)

	return &MessageRenderer{
		markdownRenderer: markdownRenderer,
		styles:           DefaultMessageStyles(),
		renderedCache:    make([]string, 0),
	}
}

// SetViewportWidth 设置视口宽度
func (r *MessageRenderer) SetViewportWidth(width int) {
	r.viewportWidth = width
}

// RenderMessages 渲染所有消息
func (r *MessageRenderer) RenderMessages(messages []*schema.Message) string {
	if len(messages) == 0 {
		return welcomeText
	}

	// 消息列表发生回退（例如清空）时重置缓存
	if len(messages) < len(r.renderedCache) {
		r.renderedCache = r.renderedCache[:0]
	}

	// 除最后一条外的消息不会再变化，渲染结果可以缓存
	for i := len(r.renderedCache); i < len(messages)-1; i++ {
		r.renderedCache = append(r.renderedCache, r.RenderMessage(messages[i]))
	}

	var sb strings.Builder
	for _, cached := range r.renderedCache {
		if cached != "" {
			sb.WriteString(cached)
			sb.WriteString("\n\n")
		}
	}

	// 最后一条消息不缓存
	if last := r.RenderMessage(messages[len(messages)-1]); last != "" {
		sb.WriteString(last)
	}

	content := sb.String()
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

// RenderMessage 渲染单条消息
func (r *MessageRenderer) RenderMessage(msg *schema.Message) string {
	switch msg.Role {
	case schema.User:
		return r.renderUserMessage(msg)
	case schema.Assistant:
		return r.renderAssistantMessage(msg)
	case schema.System:
		return r.renderSystemMessage(msg)
	}
	return ""
}

// renderMarkdown 渲染 Markdown 内容
func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		// 渲染失败，返回原始内容
		return content
	}
	// 去除首尾空白（glamour 会添加前后换行）
	return strings.TrimSpace(rendered)
}

// renderUserMessage 渲染用户消息
func (r *MessageRenderer) renderUserMessage(msg *schema.Message) string {
	if msg.Content == "" {
		return ""
	}
	// 用户消息保持原始文本
	return r.styles.User.Render("You:") + " " + msg.Content
}

// renderAssistantMessage 渲染助手消息
func (r *MessageRenderer) renderAssistantMessage(msg *schema.Message) string {
	var parts []string

	// 渲染思考内容（若模型返回）
	if msg.ReasoningContent != "" {
		header := r.styles.Thinking.Render("Thinking:")
		content := r.styles.Thinking.Render(msg.ReasoningContent)
		parts = append(parts, header+"\n"+content)
	}

	// 渲染回答文本（支持 Markdown）
	if msg.Content != "" {
		header := r.styles.Assistant.Render("Assistant:")
		parts = append(parts, header+"\n"+r.renderMarkdown(msg.Content))
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n")
}

// renderSystemMessage 渲染系统消息（回合失败提示等）
func (r *MessageRenderer) renderSystemMessage(msg *schema.Message) string {
	if msg.Content == "" {
		return ""
	}
	return r.styles.System.Render("System: " + msg.Content)
}
