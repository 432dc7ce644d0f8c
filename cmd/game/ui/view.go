package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)

	chatPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const inputHeight = 3

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	chat := chatPanel.Width(m.width - 2).Render(m.viewport.View())
	status := statusStyle.Render(m.statusLine())
	input := inputStyle.Width(m.width - 4).Render(m.textInput.View())

	return lipgloss.JoinVertical(lipgloss.Left, chat, status, input)
}

// chatSize is the viewport area left once borders, status and input are drawn.
func (m Model) chatSize() (int, int) {
	return max(m.width-6, 10), max(m.height-inputHeight-5, 3)
}

func (m Model) statusLine() string {
	if m.active == nil {
		return "no puzzle open"
	}
	def, err := m.orchestrator.Registry().Get(m.active.PuzzleID)
	if err != nil {
		return m.active.PuzzleID
	}
	status := def.Name
	if left := m.active.AttemptsLeft(def); left >= 0 {
		status += " · " + text(msgAttemptsLeft, left)
	}
	if !m.draft.empty() {
		status += " · draft pending"
	}
	return status
}

func (m Model) renderMessages() string {
	contentWidth, _ := m.chatSize()

	var chatContent strings.Builder
	for _, message := range m.messages {
		switch {
		case message == "":
			chatContent.WriteString("\n")
		case strings.HasPrefix(message, "> "):
			chatContent.WriteString(userStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "! "):
			chatContent.WriteString(noticeStyle.Render(wrapAndIndent(message[2:], contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "* "):
			chatContent.WriteString(rewardStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "[DEBUG] "):
			chatContent.WriteString(debugStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case message == loadingMarker:
			chatContent.WriteString(loadingStyle.Render(wrapAndIndent(getLoadingAnimation(m.animationFrame), contentWidth, " ")) + "\n")
		default:
			chatContent.WriteString(messageStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		}
	}
	return strings.TrimSuffix(chatContent.String(), "\n")
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
