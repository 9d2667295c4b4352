// Package replui implements an interactive read-eval-print loop for the
// dust language, built on the Charm stack (Bubble Tea, Bubbles,
// Lipgloss) the same way dr8co-kong/repl builds its Monke REPL: a single
// bubbletea model owning a textinput, a spinner for the async evaluation
// step, and a scrollback of history entries rendered with lipgloss
// styles.
//
// Unlike Monke's tree-walking evaluator, dust's CompileProgram only
// compiles a Program whose entry point is a declared `fn main`; a bare
// expression typed at the prompt is therefore wrapped in an implicit
// `fn main() { <input> }` before it is sent through the pipeline, so the
// prompt still feels like "type an expression, see its value" even
// though every compiled unit needs a named entry function.
package replui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/engine"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
	"github.com/dust-lang/dust/lang/value"
	"github.com/dust-lang/dust/lang/workerpool"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = "dust> "

	// ContPrompt is shown while a multiline entry is being accumulated.
	ContPrompt = " ...> "
)

// Options configures a REPL session.
type Options struct {
	NoColor bool // disable styled output
}

// Start runs the REPL until the user quits. It blocks until the
// underlying bubbletea program exits.
func Start(options Options) error {
	p := tea.NewProgram(initialModel(options))
	_, err := p.Run()
	return err
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F5FD7")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

type historyEntry struct {
	input   string
	output  string
	isError bool
	elapsed time.Duration
}

type evalResultMsg struct {
	output  string
	isError bool
	elapsed time.Duration
}

// model is the bubbletea state for one REPL session. res and fileCount
// persist across submissions so item declarations made in one entry (a
// helper `fn`) stay visible to later ones. A `let` binding is a compiler
// local, never a resolver declaration, so it does not carry over to a
// later entry.
type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	options Options

	res       *resolver.Resolver
	fset      *token.FileSet
	fileCount int

	evaluating   bool
	currentInput string

	multiline  bool
	lineBuffer string
}

func initialModel(options Options) model {
	ti := textinput.New()
	ti.Placeholder = "fn main() { ... }"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = Prompt

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5FD7"))

	return model{
		textInput: ti,
		spinner:   s,
		options:   options,
		res:       resolver.New(),
		fset:      token.NewFileSet(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether braces/brackets/parens are balanced,
// mirroring the bracket-matching heuristic a Dust REPL needs for
// multiline block entry the same way dr8co-kong/repl.isBalanced does for
// Monke.
func isBalanced(input string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	for _, r := range input {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

func (m *model) evalCmd(input string) tea.Cmd {
	res := m.res
	fset := m.fset
	idx := m.fileCount
	m.fileCount++

	return func() tea.Msg {
		start := time.Now()
		output, isError := evaluate(fset, res, idx, input)
		return evalResultMsg{output: output, isError: isError, elapsed: time.Since(start)}
	}
}

// evaluate runs one REPL entry through the full front end, the same
// scan -> parse -> bind -> compile -> run pipeline internal/maincmd's
// Run command drives for a whole file, scoped to a single, throwaway,
// one-worker pool.
func evaluate(fset *token.FileSet, res *resolver.Resolver, fileIdx int, input string) (string, bool) {
	src := input
	if !strings.Contains(src, "fn main") {
		src = "fn main() {\n" + src + "\n}"
	}

	name := fmt.Sprintf("<repl:%d>", fileIdx)
	tree, err := parser.ParseFile(context.Background(), fset, name, []byte(src))
	if err != nil {
		return err.Error(), true
	}

	b := binder.New(0, tree, res, resolver.ScopeMain)
	if errs := b.BindFile(tree.Root()); len(errs) > 0 {
		return errs[0].Error(), true
	}

	program, errs := compiler.CompileProgram(tree, res, tree.Root())
	if len(errs) > 0 {
		return errs[0].Error(), true
	}

	pool := workerpool.New(program, engine.Run)
	defer pool.Shutdown()

	pool.Spawn(context.Background(), 0, nil)
	msg := <-pool.Receiver()
	if msg.Err != nil {
		return msg.Err.Error(), true
	}
	if msg.Result.Kind == value.KindNone {
		return "", false
	}
	return msg.Result.String(), false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:   m.currentInput,
			output:  msg.output,
			isError: msg.isError,
			elapsed: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit

		case tea.KeyEnter:
			input := m.textInput.Value()

			if m.multiline {
				if input == "" {
					if m.lineBuffer == "" {
						m.multiline = false
						return m, nil
					}
					buf := m.lineBuffer
					m.lineBuffer = ""
					m.multiline = false
					m.evaluating = true
					m.currentInput = buf
					m.textInput.SetValue("")
					return m, m.evalCmd(buf)
				}

				m.lineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.lineBuffer) {
					buf := m.lineBuffer
					m.lineBuffer = ""
					m.multiline = false
					m.evaluating = true
					m.currentInput = buf
					return m, m.evalCmd(buf)
				}
				return m, nil
			}

			if input == "" {
				return m, nil
			}

			if !isBalanced(input) {
				m.multiline = true
				m.lineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			m.evaluating = true
			m.currentInput = input
			m.textInput.SetValue("")
			return m, m.evalCmd(input)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) render(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.render(titleStyle, " dust REPL "))
	s.WriteString("\n\n")

	for _, entry := range m.history {
		for i, line := range strings.Split(entry.input, "\n") {
			if i == 0 {
				s.WriteString(m.render(promptStyle, Prompt))
			} else {
				s.WriteString(m.render(promptStyle, ContPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}

		if entry.output != "" {
			if entry.isError {
				s.WriteString(m.render(errorStyle, entry.output))
			} else {
				s.WriteString(m.render(resultStyle, entry.output))
			}
			s.WriteString("\n")
		}

		if entry.elapsed > 10*time.Millisecond {
			s.WriteString(m.render(historyStyle, fmt.Sprintf(" (%.2fs)", entry.elapsed.Seconds())))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	if m.evaluating {
		s.WriteString(m.render(promptStyle, Prompt))
		s.WriteString(m.currentInput)
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" evaluating...\n\n")
	}

	if m.multiline && !m.evaluating {
		s.WriteString(m.render(historyStyle, "(multiline: empty line evaluates)\n"))
	}

	if !m.evaluating {
		if m.multiline {
			m.textInput.Prompt = m.render(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.render(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(m.render(historyStyle, "\nctrl+c/esc to exit"))
	return s.String()
}
