package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"renamer/internal/infra/config"
)

var runLauncherCommand = runSelf

type launchAction struct {
	Label string
	Hint  string
	Args  []string
	Quit  bool
}

// launcherModel is the menu shown by a bare `renamer` on a terminal. Rollback
// entries only appear while a journal exists.
type launcherModel struct {
	actions []launchAction
	journal string
	pos     int
	chosen  []string
	quit    bool
}

func newLauncherModel(j *config.Journal) launcherModel {
	m := launcherModel{journal: "nothing to roll back"}
	m.actions = append(m.actions, launchAction{
		Label: "Rename session",
		Hint:  "edit rules and rename files in the current directory",
		Args:  []string{"session", "."},
	})
	if j != nil && len(j.Entries) > 0 {
		m.journal = fmt.Sprintf("last rename %s: %d file(s) at %s", j.PlanID, len(j.Entries), j.CreatedAt.Local().Format(time.DateTime))
		m.actions = append(m.actions,
			launchAction{Label: "Rollback (dry run)", Hint: "list what the last rename would restore", Args: []string{"rollback", "--dry-run"}},
			launchAction{Label: "Rollback", Hint: "restore the original names", Args: []string{"rollback", "--yes"}},
		)
	}
	m.actions = append(m.actions,
		launchAction{Label: "Hash files", Hint: "MD5 and SHA-256 of files in the current directory", Args: []string{"hash", "--algo", "md5,sha256", "."}},
		launchAction{Label: "Quit", Quit: true},
	)
	return m
}

func (m launcherModel) Init() tea.Cmd { return nil }

func (m launcherModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "ctrl+c", "esc", "q":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.pos > 0 {
			m.pos--
		}
	case "down", "j":
		if m.pos < len(m.actions)-1 {
			m.pos++
		}
	case "enter":
		return m.choose(m.pos), tea.Quit
	default:
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(m.actions) {
			return m.choose(n - 1), tea.Quit
		}
	}
	return m, nil
}

func (m launcherModel) choose(i int) launcherModel {
	m.pos = i
	if m.actions[i].Quit {
		m.quit = true
		return m
	}
	m.chosen = append([]string(nil), m.actions[i].Args...)
	return m
}

func (m launcherModel) View() string {
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faint := lipgloss.NewStyle().Faint(true)

	lines := []string{
		accent.Render("Renamer"),
		faint.Render(m.journal),
		"",
	}
	for i, a := range m.actions {
		label := fmt.Sprintf("%d. %s", i+1, a.Label)
		if i == m.pos {
			label = active.Render("> " + label)
		} else {
			label = "  " + label
		}
		if a.Hint != "" {
			label += faint.Render("  " + a.Hint)
		}
		lines = append(lines, label)
	}
	lines = append(lines, "", faint.Render("j/k or arrows to move, enter or a number to run, q to quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func runLauncher(ctx context.Context, store config.Store) error {
	for {
		var journal *config.Journal
		if j, err := store.LoadJournal(ctx); err == nil {
			journal = &j
		}

		result, err := tea.NewProgram(newLauncherModel(journal)).Run()
		if err != nil {
			return err
		}
		m, ok := result.(launcherModel)
		if !ok || m.quit || len(m.chosen) == 0 {
			return nil
		}

		fmt.Println()
		if err := runLauncherCommand(m.chosen...); err != nil {
			return fmt.Errorf("%s: %w", m.chosen[0], err)
		}
		fmt.Println()
	}
}
