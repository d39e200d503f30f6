// ABOUTME: Ordered set of labelled text inputs with focus cycling
// ABOUTME: Renders each field's validation error under its input

package fields

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/validation"
)

// Spec describes one field
type Spec struct {
	Key         string
	Label       string
	Placeholder string
	Password    bool
	CharLimit   int
}

type field struct {
	spec  Spec
	input textinput.Model
}

// Set is a vertical stack of inputs
type Set struct {
	fields []*field
	focus  int
	width  int
}

// New builds a set with the first field focused
func New(specs ...Spec) *Set {
	s := &Set{width: 40}
	for _, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.Placeholder
		ti.CharLimit = spec.CharLimit
		if ti.CharLimit == 0 {
			ti.CharLimit = 256
		}
		ti.Width = s.width
		ti.Prompt = "› "
		if spec.Password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		s.fields = append(s.fields, &field{spec: spec, input: ti})
	}
	if len(s.fields) > 0 {
		s.fields[0].input.Focus()
	}
	return s
}

// Keys returns the field keys in display order
func (s *Set) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.spec.Key
	}
	return keys
}

// Value returns the current text of key
func (s *Set) Value(key string) string {
	if f := s.find(key); f != nil {
		return f.input.Value()
	}
	return ""
}

// SetValue replaces the text of key
func (s *Set) SetValue(key, value string) {
	if f := s.find(key); f != nil {
		f.input.SetValue(value)
		f.input.CursorEnd()
	}
}

// Focused returns the key of the focused field
func (s *Set) Focused() string {
	if len(s.fields) == 0 {
		return ""
	}
	return s.fields[s.focus].spec.Key
}

// FocusKey moves focus to key
func (s *Set) FocusKey(key string) tea.Cmd {
	for i, f := range s.fields {
		if f.spec.Key == key {
			return s.focusIndex(i)
		}
	}
	return nil
}

// OnLast reports whether the last field has focus
func (s *Set) OnLast() bool {
	return s.focus == len(s.fields)-1
}

// Next moves focus down, wrapping around
func (s *Set) Next() tea.Cmd {
	return s.focusIndex((s.focus + 1) % len(s.fields))
}

// Prev moves focus up, wrapping around
func (s *Set) Prev() tea.Cmd {
	return s.focusIndex((s.focus - 1 + len(s.fields)) % len(s.fields))
}

func (s *Set) focusIndex(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	s.fields[s.focus].input.Blur()
	s.focus = i
	return s.fields[i].input.Focus()
}

// SetWidth resizes every input
func (s *Set) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	s.width = width
	for _, f := range s.fields {
		f.input.Width = width
	}
}

// Update handles focus keys and forwards everything else to the focused
// input. changed is the key of the field whose text changed, if any.
func (s *Set) Update(msg tea.Msg) (changed string, cmd tea.Cmd) {
	if len(s.fields) == 0 {
		return "", nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return "", s.Next()
		case "shift+tab", "up":
			return "", s.Prev()
		}
	}

	f := s.fields[s.focus]
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		changed = f.spec.Key
	}
	return changed, cmd
}

// View renders labels, inputs and any errors from errs
func (s *Set) View(errs validation.Errors) string {
	var sb strings.Builder
	for i, f := range s.fields {
		label := styles.FieldLabel
		if i == s.focus {
			label = styles.FieldLabelFocused
		}
		sb.WriteString(label.Render(f.spec.Label))
		sb.WriteString("\n")
		sb.WriteString(f.input.View())
		sb.WriteString("\n")
		if msg, ok := errs[f.spec.Key]; ok {
			sb.WriteString(styles.FieldError.Render(msg))
			sb.WriteString("\n")
		}
		if i < len(s.fields)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (s *Set) find(key string) *field {
	for _, f := range s.fields {
		if f.spec.Key == key {
			return f
		}
	}
	return nil
}
