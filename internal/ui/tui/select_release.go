// Package tui renders the interactive release picker and transfer
// progress screens.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mediawriter/pkg/mediawriter"
)

type releaseItem struct {
	release mediawriter.Release
}

func (i releaseItem) FilterValue() string { return i.release.DisplayName }
func (i releaseItem) Title() string       { return i.release.DisplayName }
func (i releaseItem) Description() string {
	if i.release.Local {
		return "pick a file from your drive"
	}
	if len(i.release.Versions) == 0 {
		return i.release.Summary
	}
	v := i.release.Versions[0]
	archs := make([]string, 0, len(v.Variants))
	seen := map[string]bool{}
	for _, va := range v.Variants {
		if !seen[va.Arch] {
			seen[va.Arch] = true
			archs = append(archs, va.Arch)
		}
	}
	return fmt.Sprintf("%s | %s | %s", i.release.Summary, v.Name, strings.Join(archs, ", "))
}

type selectModel struct {
	list   list.Model
	chosen *mediawriter.Release
	err    error
}

func newSelectModel(releases []mediawriter.Release) selectModel {
	items := make([]list.Item, 0, len(releases))
	for _, r := range releases {
		items = append(items, releaseItem{release: r})
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Select an operating system image"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return selectModel{list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.err = tea.ErrInterrupted
			return m, tea.Quit
		case "enter":
			item, ok := m.list.SelectedItem().(releaseItem)
			if !ok {
				m.err = fmt.Errorf("no release selected")
				return m, tea.Quit
			}
			picked := item.release
			m.chosen = &picked
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.err != nil && m.err != tea.ErrInterrupted {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.err.Error())
	}
	return "\n" + m.list.View()
}

// SelectRelease runs a bubbletea selector over the release listing.
func SelectRelease(releases []mediawriter.Release) (mediawriter.Release, error) {
	if len(releases) == 0 {
		return mediawriter.Release{}, fmt.Errorf("no releases available")
	}

	m := newSelectModel(releases)
	prog := tea.NewProgram(m)
	model, err := prog.Run()
	if err != nil {
		return mediawriter.Release{}, err
	}
	out := model.(selectModel)
	if out.err != nil {
		return mediawriter.Release{}, out.err
	}
	if out.chosen == nil {
		return mediawriter.Release{}, fmt.Errorf("selection canceled")
	}
	return *out.chosen, nil
}
