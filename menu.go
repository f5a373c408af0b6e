package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type menuEntry struct {
	label string
	appid int
}

// gameMenuModel is a single-step selection menu over the library store's
// selection ordering (not-installed games first, alphabetical).
type gameMenuModel struct {
	entries []menuEntry
	cursor  int
	done    bool
	quit    bool

	selected menuEntry
}

func newGameMenu(entries []menuEntry) gameMenuModel {
	return gameMenuModel{entries: entries}
}

func (m gameMenuModel) Init() tea.Cmd {
	return nil
}

func (m gameMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quit = true
			return m, tea.Quit
		case "enter":
			if len(m.entries) > 0 {
				m.selected = m.entries[m.cursor]
				m.done = true
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m gameMenuModel) View() string {
	if m.quit || m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("Select a game (enter installs or uninstalls, q quits):\n\n")
	for i, entry := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + entry.label + "\n")
	}
	return b.String()
}

// runInteractiveMenu surfaces the library for selection and runs the
// matching operation: install for a not-installed game, uninstall for
// an installed one.
func runInteractiveMenu(app *application) error {
	var entries []menuEntry
	err := app.store.ListForSelection(func(label string, appid int) bool {
		entries = append(entries, menuEntry{label: label, appid: appid})
		return true
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Library is empty. Run --sync first.")
		return nil
	}

	program := tea.NewProgram(newGameMenu(entries))
	result, err := program.Run()
	if err != nil {
		return err
	}

	model := result.(gameMenuModel)
	if !model.done {
		return nil
	}

	info, err := app.store.GetGameInfo(model.selected.appid)
	if err != nil {
		return err
	}

	if info.Installed {
		return app.uninstall(info.Name, model.selected.appid)
	}
	return app.install(info.Name, model.selected.appid)
}
