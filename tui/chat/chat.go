package chat

import (
	"context"

	"remedy/llm/session"
	"remedy/pubsub"
	"remedy/tui/component"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/schema"
)

// Model 聊天界面模型
type Model struct {
	list   component.ListModel
	edit   component.EditModel
	status component.StatusModel

	session *session.Session
	sub     <-chan pubsub.Event[*schema.Message]
	ctx     context.Context

	width  int
	height int
}

// InitialModel 创建初始模型，列表以会话已有历史（开场问候）初始化
func InitialModel(sess *session.Session) Model {
	ctx := context.Background()
	sub := sess.Broker().Subscribe(ctx)

	history, _ := sess.History()

	return Model{
		list:    component.NewListModel(history),
		edit:    component.NewEditModel(),
		status:  component.NewStatusModel(),
		session: sess,
		sub:     sub,
		ctx:     ctx,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.edit.Init(),
		m.status.Init(),
		m.waitForTurnEvent(), // 订阅回合事件
	)
}

// waitForTurnEvent 等待下一个回合事件的 Cmd
func (m Model) waitForTurnEvent() tea.Cmd {
	return func() tea.Msg {
		event := <-m.sub
		return event
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// 计算各组件高度
		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		listHeight := m.height - statusHeight - editHeight

		// 更新各组件尺寸
		m.list.SetSize(m.width, listHeight)
		m.edit.SetWidth(m.width)
		m.status.SetWidth(m.width)

	case component.EditorSubmitMsg:
		// 在 goroutine 中驱动回合；失败以 TurnFailedEvent 回到界面
		go func(question string) {
			_ = m.session.Ask(question)
		}(msg.Value)

	case pubsub.Event[*schema.Message]:
		// 继续等待下一条事件
		cmds = append(cmds, m.waitForTurnEvent())
		// list、edit 和 status 会在下面透传处理

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	// 更新各子组件
	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
}
