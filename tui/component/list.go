package component

import (
	"remedy/pubsub"
	"remedy/tui/component/renderer"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/eino/schema"
)

// ListModel 封装消息列表组件
// 负责消息存储和 viewport 管理，渲染逻辑委托给 MessageRenderer
type ListModel struct {
	viewport viewport.Model
	messages []*schema.Message
	width    int
	height   int
	ready    bool

	// renderer 消息渲染器
	renderer *renderer.MessageRenderer
}

// NewListModel 创建新的消息列表组件，initial 为会话已有的历史消息
// （通常只有开场问候）
func NewListModel(initial []*schema.Message) ListModel {
	vp := viewport.New(30, 30)

	m := ListModel{
		viewport: vp,
		messages: append([]*schema.Message(nil), initial...),
		renderer: renderer.NewMessageRenderer(),
		width:    30,
		height:   5,
		ready:    true,
	}
	m.updateViewportContent()

	return m
}

// Init 初始化组件
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// 处理鼠标滚轮事件
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[*schema.Message]:
		// 回合事件都携带一条要展示的消息：
		// 用户提问、助手回答或失败提示
		m.messages = append(m.messages, msg.Payload)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	// 更新 viewport
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View 渲染组件视图
func (m ListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}

// SetSize 设置组件尺寸
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// 确保高度至少为 1，防止负数或零
	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	// 更新渲染器宽度
	m.renderer.SetViewportWidth(width)

	// 更新内容
	if len(m.messages) > 0 {
		m.updateViewportContent()
	}
	m.viewport.GotoBottom()
}

// updateViewportContent 更新 viewport 内容
func (m *ListModel) updateViewportContent() {
	m.viewport.SetContent(m.renderer.RenderMessages(m.messages))
}
