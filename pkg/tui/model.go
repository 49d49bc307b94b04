// Package tui provides the interactive plan wizard for gymctl.
// It is built on the bubbletea/lipgloss stack and walks the user through
// four steps: pick a plan, enter the member count, toggle add-on features,
// then review the itemised price and confirm or cancel.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/pricing"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/processor"
)

// step identifies the wizard screen currently shown.
type step int

const (
	stepPlan step = iota
	stepMembers
	stepFeatures
	stepReview
	stepDone
)

const maxMemberDigits = 4

var errMembers = errors.New("please enter a positive whole number")

// Model is the bubbletea model for the plan wizard.
type Model struct {
	proc     *processor.Processor
	plans    []catalog.Plan
	currency string

	step     step
	cursor   int
	plan     catalog.Plan
	members  string
	selected map[string]bool

	breakdown pricing.Breakdown
	err       error

	result    int
	quote     *processor.Quote
	cancelled bool
}

// New returns a wizard offering plans and pricing through proc.
func New(proc *processor.Processor, plans []catalog.Plan, currency string) Model {
	return Model{
		proc:     proc,
		plans:    plans,
		currency: currency,
		selected: map[string]bool{},
		result:   processor.Rejected,
	}
}

// Result is the value the wizard settled on: the confirmed total, or -1 if
// the user cancelled or quit early.
func (m Model) Result() int { return m.result }

// Quote returns the confirmed quote, or nil.
func (m Model) Quote() *processor.Quote { return m.quote }

// Done reports whether the wizard reached a terminal state.
func (m Model) Done() bool { return m.step == stepDone }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update processes key presses and returns an updated model plus any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m.cancel()
	}

	switch m.step {
	case stepPlan:
		return m.updatePlan(key)
	case stepMembers:
		return m.updateMembers(key)
	case stepFeatures:
		return m.updateFeatures(key)
	case stepReview:
		return m.updateReview(key)
	}
	return m, nil
}

func (m Model) updatePlan(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.plans) == 0 {
		return m.cancel()
	}
	switch key.String() {
	case "q", "esc":
		return m.cancel()
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.plans)) % len(m.plans)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(m.plans)
	case "enter":
		m.plan = m.plans[m.cursor]
		m.selected = map[string]bool{}
		m.step = stepMembers
		m.err = nil
	}
	return m, nil
}

func (m Model) updateMembers(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.step = stepPlan
		m.err = nil
		return m, nil
	case tea.KeyBackspace:
		if m.members != "" {
			m.members = m.members[:len(m.members)-1]
		}
		return m, nil
	case tea.KeyEnter:
		n, err := strconv.Atoi(m.members)
		if err != nil || n <= 0 {
			m.err = errMembers
			return m, nil
		}
		m.err = nil
		m.cursor = 0
		if len(m.plan.Features) == 0 {
			return m.review()
		}
		m.step = stepFeatures
		return m, nil
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if r < '0' || r > '9' {
				m.err = errMembers
				return m, nil
			}
		}
		if len(m.members)+len(key.Runes) <= maxMemberDigits {
			m.members += string(key.Runes)
		}
		m.err = nil
	}
	return m, nil
}

func (m Model) updateFeatures(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.plan.Features)
	switch key.String() {
	case "esc":
		m.step = stepMembers
	case "up", "k":
		m.cursor = (m.cursor - 1 + n) % n
	case "down", "j":
		m.cursor = (m.cursor + 1) % n
	case " ", "x":
		code := m.plan.Features[m.cursor].Code
		m.selected[code] = !m.selected[code]
	case "enter":
		return m.review()
	}
	return m, nil
}

func (m Model) updateReview(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y":
		q, err := m.proc.Quote(m.request(true))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.quote = q
		m.result = q.Total
		m.step = stepDone
		return m, tea.Quit
	case "n", "N", "q":
		return m.cancel()
	case "esc":
		if len(m.plan.Features) == 0 {
			m.step = stepMembers
		} else {
			m.step = stepFeatures
		}
		m.err = nil
	}
	return m, nil
}

// review prices the current selection and moves to the review screen.
func (m Model) review() (tea.Model, tea.Cmd) {
	_, b, err := m.proc.Preview(m.request(false))
	if err != nil {
		m.err = err
		return m, nil
	}
	m.breakdown = b
	m.step = stepReview
	m.err = nil
	return m, nil
}

// cancel records the cancellation with the processor and quits.
func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.result = m.proc.Process(m.request(false))
	m.cancelled = true
	m.step = stepDone
	return m, tea.Quit
}

func (m Model) request(confirmed bool) processor.Request {
	members, _ := strconv.Atoi(m.members)
	return processor.Request{
		PlanCode:  m.plan.Code,
		Members:   members,
		Features:  m.selectedCodes(),
		Confirmed: confirmed,
	}
}

// selectedCodes returns the toggled features in menu order.
func (m Model) selectedCodes() []string {
	var codes []string
	for _, f := range m.plan.Features {
		if m.selected[f.Code] {
			codes = append(codes, f.Code)
		}
	}
	return codes
}

func (m Model) money(n int) string {
	return fmt.Sprintf("%s%d", m.currency, n)
}

// View renders the current step.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gymctl · membership plan wizard"))
	b.WriteString("\n\n")

	switch m.step {
	case stepPlan:
		b.WriteString(stepStyle.Render("Step 1 of 4 · Choose a plan") + "\n\n")
		for i, p := range m.plans {
			line := fmt.Sprintf("%-8s %-8s %s per member", p.Code, p.Name, m.money(p.BasePrice))
			if p.Premium {
				line += " " + premiumBadge.Render("(Premium)")
			}
			b.WriteString(m.row(i, line) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ move · enter select · q quit"))

	case stepMembers:
		b.WriteString(stepStyle.Render("Step 2 of 4 · Number of members") + "\n\n")
		fmt.Fprintf(&b, "Plan: %s (%s)\n", m.plan.Name, m.plan.Code)
		fmt.Fprintf(&b, "Members: %s█\n", m.members)
		b.WriteString("\n" + helpStyle.Render("type a number · enter continue · esc back"))

	case stepFeatures:
		b.WriteString(stepStyle.Render("Step 3 of 4 · Add-on features") + "\n\n")
		for i, f := range m.plan.Features {
			box := "[ ]"
			if m.selected[f.Code] {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %-4s %-24s %s per member", box, f.Code, f.Description, m.money(f.Price))
			b.WriteString(m.row(i, line) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("space toggle · enter review · esc back"))

	case stepReview:
		b.WriteString(stepStyle.Render("Step 4 of 4 · Review") + "\n\n")
		b.WriteString(summaryStyle.Render(m.summary()))
		b.WriteString("\n\nConfirm this plan? [y/N]")
		b.WriteString("\n" + helpStyle.Render("y confirm · n cancel · esc back"))

	case stepDone:
		if m.quote != nil {
			b.WriteString(totalStyle.Render("Plan confirmed. Total due: " + m.money(m.result)))
		} else {
			b.WriteString(dimStyle.Render("Plan cancelled. No charge was made."))
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) row(i int, line string) string {
	if i == m.cursor {
		return cursorStyle.Render("> " + line)
	}
	return rowStyle.Render("  " + line)
}

func (m Model) summary() string {
	bd := m.breakdown
	features := strings.Join(m.selectedCodes(), ", ")
	if features == "" {
		features = "none"
	}
	lines := []string{
		fmt.Sprintf("Plan:              %s (%s)", m.plan.Name, m.plan.Code),
		fmt.Sprintf("Members:           %s", m.members),
		fmt.Sprintf("Features:          %s", features),
		fmt.Sprintf("Base cost:         %s", m.money(bd.Base)),
		fmt.Sprintf("Add-on features:   %s", m.money(bd.Extras)),
		fmt.Sprintf("Premium surcharge: %s", m.money(bd.Surcharge)),
		fmt.Sprintf("Group discount:   -%s", m.money(bd.GroupDiscount)),
		fmt.Sprintf("Special discount: -%s", m.money(bd.SpecialDiscount)),
		totalStyle.Render("TOTAL:             " + m.money(bd.Total)),
	}
	return strings.Join(lines, "\n")
}
