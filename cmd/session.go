package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"renamer/internal/app/common"
	"renamer/internal/app/transaction"
	"renamer/internal/app/workset"
	"renamer/internal/domain/model"
	"renamer/internal/domain/rules"
	"renamer/internal/infra/config"
)

var sessionFlags ruleFlags

var sessionCmd = &cobra.Command{
	Use:   "session <path>...",
	Short: "Edit rules, preview and rename files interactively",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		if !onTerminal() {
			return errors.New("session requires an interactive terminal; use preview/apply instead")
		}
		ruleSet, err := sessionFlags.rules()
		if err != nil {
			return err
		}

		engine := transaction.NewEngine(transaction.WithLogger(app.Logger), transaction.WithCommand("session"))
		sess, openErr := workset.Open(workset.Source{
			Paths:     args,
			Recursive: sessionFlags.recursive,
			Rules:     ruleSet,
		}, engine, app.Whitelist)
		if len(sess.Entries) == 0 {
			if openErr != nil {
				return openErr
			}
			return errors.New("no files to rename")
		}

		m := newSessionModel(cmd.Context(), sess, app.Store, app.Options.DryRun)
		if n := workset.SkippedCount(openErr); n > 0 {
			m.status = fmt.Sprintf("%d input(s) skipped", n)
		}
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	sessionFlags.bind(sessionCmd)
}

type sessionModel struct {
	ctx     context.Context
	sess    *workset.Session
	store   config.Store
	dryRun  bool
	cursor  int
	status  string
	editing bool
	input   string
	exit    bool
}

func newSessionModel(ctx context.Context, sess *workset.Session, store config.Store, dryRun bool) sessionModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := sessionModel{ctx: ctx, sess: sess, store: store, dryRun: dryRun}
	m.refresh()
	return m
}

func (m sessionModel) Init() tea.Cmd { return nil }

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateInput(key), nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.exit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sess.Entries)-1 {
			m.cursor++
		}
	case " ":
		if err := m.sess.Toggle(m.cursor); err != nil {
			m.status = err.Error()
		}
	case "d":
		m.sess.InsertDummy(m.cursor)
		m.refresh()
	case "x":
		if err := m.sess.Remove(m.cursor); err != nil {
			m.status = err.Error()
			break
		}
		if m.cursor >= len(m.sess.Entries) && m.cursor > 0 {
			m.cursor--
		}
		m.refresh()
	case "r":
		m.editing = true
		m.input = ""
	case "c":
		m.sess.Rules = nil
		m.refresh()
	case "p":
		m.refresh()
	case "a":
		m.apply()
	case "u":
		m.rollback()
	}
	return m, nil
}

func (m sessionModel) updateInput(key tea.KeyMsg) sessionModel {
	switch key.Type {
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyEnter:
		m.editing = false
		rule, err := rules.Parse(m.input)
		if err != nil {
			m.status = err.Error()
			return m
		}
		m.sess.Rules = append(m.sess.Rules, rule)
		m.refresh()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m
}

// refresh recomputes candidate names; without rules the pending names are
// cleared instead.
func (m *sessionModel) refresh() {
	if len(m.sess.Rules) == 0 {
		for _, e := range m.sess.Entries {
			if !e.Renamed {
				e.CandidateName = ""
				e.Exhausted = false
				e.Error = ""
			}
		}
		m.status = "no rules: press r to add one"
		return
	}
	rep, err := m.sess.Preview(m.ctx)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("named %d, exhausted %d, errors %d, conflicts %d", rep.Named, rep.Exhausted, rep.Errors, rep.Conflicts)
}

func (m *sessionModel) apply() {
	if !m.sess.CanApply() {
		m.status = "nothing to rename"
		return
	}
	if m.dryRun {
		m.status = "dry run: rename skipped"
		return
	}
	rep, err := m.sess.Apply(m.ctx)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("rename %s: %d of %d in %d pass(es)", rep.Outcome, rep.Changed, rep.Eligible, rep.Passes)
	if j, ok := m.sess.Journal(); ok {
		if err := m.store.SaveJournal(m.ctx, j); err != nil {
			m.status += "; journal: " + err.Error()
		}
	}
}

func (m *sessionModel) rollback() {
	if !m.sess.CanRollback() {
		m.status = "nothing to roll back"
		return
	}
	if m.dryRun {
		m.status = "dry run: rollback skipped"
		return
	}
	rep, err := m.sess.Rollback(m.ctx)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("rollback %s: %d of %d in %d pass(es)", rep.Outcome, rep.Changed, rep.Eligible, rep.Passes)
	if j, ok := m.sess.Journal(); ok {
		err = m.store.SaveJournal(m.ctx, j)
	} else {
		err = m.store.ClearJournal(m.ctx)
	}
	if err != nil {
		m.status += "; journal: " + err.Error()
	}
}

func (m sessionModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("Renamer Session")
	hint := lipgloss.NewStyle().Faint(true).Render("↑/↓ move, space select, d placeholder, x remove, r add rule, c clear rules, p preview, a apply, u rollback, q quit")

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	defaultStyle := lipgloss.NewStyle()
	faint := lipgloss.NewStyle().Faint(true)

	described := make([]string, 0, len(m.sess.Rules))
	for _, r := range m.sess.Rules {
		described = append(described, rules.Describe(r))
	}
	ruleLine := "rules: " + strings.Join(described, " + ")
	if len(described) == 0 {
		ruleLine = "rules: (none)"
	}

	lines := []string{title, hint, faint.Render(ruleLine), ""}
	for i, e := range m.sess.Entries {
		cursor := "  "
		style := defaultStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		lines = append(lines, style.Render(cursor+entryLine(e)))
	}
	lines = append(lines, "")
	if m.editing {
		lines = append(lines, "rule> "+m.input+"_")
	} else {
		lines = append(lines, faint.Render(m.status))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func entryLine(e *model.FileRenameEntry) string {
	if e.Dummy {
		return "    ---- placeholder ----"
	}
	mark := "[ ]"
	if e.Selected {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s -> %s  %s  %s", mark, e.OriginalName, e.CandidateName, e.Size(), workset.ResultOf(e))
	if e.Error != "" {
		line += "  " + e.Error
	}
	return line
}
