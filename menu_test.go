package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(key string) tea.KeyMsg {
	if len(key) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func testEntries() []menuEntry {
	return []menuEntry{
		{label: "Half-Life 2 [Not installed]", appid: 220},
		{label: "Team Fortress 2 [Not installed]", appid: 440},
		{label: "Counter-Strike 2 [Installed]", appid: 730},
	}
}

func TestGameMenu_SelectsUnderCursor(t *testing.T) {
	model := newGameMenu(testEntries())

	next, _ := model.Update(keyPress("down"))
	next, _ = next.(gameMenuModel).Update(keyPress("enter"))

	m := next.(gameMenuModel)
	require.True(t, m.done)
	assert.Equal(t, 440, m.selected.appid)
}

func TestGameMenu_CursorStaysInBounds(t *testing.T) {
	model := newGameMenu(testEntries())

	next, _ := model.Update(keyPress("up"))
	m := next.(gameMenuModel)
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		result, _ := m.Update(keyPress("down"))
		m = result.(gameMenuModel)
	}
	assert.Equal(t, 2, m.cursor)
}

func TestGameMenu_Quit(t *testing.T) {
	model := newGameMenu(testEntries())

	next, _ := model.Update(keyPress("esc"))
	m := next.(gameMenuModel)
	assert.True(t, m.quit)
	assert.False(t, m.done)
	assert.Empty(t, m.View())
}

func TestGameMenu_ViewMarksCursor(t *testing.T) {
	model := newGameMenu(testEntries())

	view := model.View()
	assert.Contains(t, view, "> Half-Life 2 [Not installed]")
	assert.Contains(t, view, "  Team Fortress 2 [Not installed]")
}
