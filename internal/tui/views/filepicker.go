package views

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/spf13/afero"
)

// FileSelectedMsg is sent when a file is selected
type FileSelectedMsg struct {
	Path string
}

// FilePickerCancelledMsg is sent when the picker is closed without a choice.
type FilePickerCancelledMsg struct{}

// ImageExtensions are the files offered when choosing a tutor photo.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// File picker styles
var (
	fpPathStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(colorText)
)

// FileEntry represents a file or directory
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel browses a filesystem for one file.
type FilePickerModel struct {
	fs         afero.Fs
	t          *i18n.Translator
	currentDir string
	entries    []FileEntry
	selected   int
	offset     int // For scrolling

	extensions []string // Filter to these extensions

	err error

	width  int
	height int
}

// NewFilePickerModel creates a picker rooted at dir that lists directories
// and files with one of extensions.
func NewFilePickerModel(fs afero.Fs, t *i18n.Translator, dir string, extensions []string) FilePickerModel {
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "/"
	}

	m := FilePickerModel{
		fs:         fs,
		t:          t,
		currentDir: dir,
		extensions: extensions,
	}
	m.loadDir()
	return m
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory being shown.
func (m FilePickerModel) Dir() string { return m.currentDir }

// Entries returns the listed entries.
func (m FilePickerModel) Entries() []FileEntry { return m.entries }

// loadDir loads the entries from the current directory
func (m *FilePickerModel) loadDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := afero.ReadDir(m.fs, m.currentDir)
	if err != nil {
		m.err = err
		return
	}

	// Add parent directory entry
	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.entries = append(m.entries, FileEntry{
			Name:  "..",
			IsDir: true,
			Path:  parent,
		})
	}

	var dirs, files []FileEntry
	for _, entry := range entries {
		// Skip hidden files
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		fe := FileEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(m.currentDir, entry.Name()),
		}

		if entry.IsDir() {
			dirs = append(dirs, fe)
		} else if m.matchesExtension(entry.Name()) {
			files = append(files, fe)
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].Name) < strings.ToLower(dirs[j].Name)
	})
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})

	// Dirs first, then files
	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) matchesExtension(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch msgKey.String() {
	case "j", "down":
		if m.selected < len(m.entries)-1 {
			m.selected++
			m.adjustScroll()
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.adjustScroll()
		}
	case "enter", "l", "right":
		if m.selected < len(m.entries) {
			entry := m.entries[m.selected]
			if entry.IsDir {
				m.currentDir = entry.Path
				m.loadDir()
				return m, nil
			}
			return m, func() tea.Msg {
				return FileSelectedMsg{Path: entry.Path}
			}
		}
	case "backspace", "h":
		parent := filepath.Dir(m.currentDir)
		if parent != m.currentDir {
			m.currentDir = parent
			m.loadDir()
		}
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.currentDir = home
			m.loadDir()
		}
	case "g":
		m.selected = 0
		m.offset = 0
	case "G":
		m.selected = max(len(m.entries)-1, 0)
		m.adjustScroll()
	case "esc":
		return m, func() tea.Msg { return FilePickerCancelledMsg{} }
	}

	return m, nil
}

func (m *FilePickerModel) visibleHeight() int {
	return max(m.height-8, 5) // Account for header, path, help
}

func (m *FilePickerModel) adjustScroll() {
	h := m.visibleHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t.T("PickerTitle")))
	b.WriteString("\n")
	b.WriteString(fpPathStyle.Render(m.currentDir))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.t.Td("Error", map[string]any{"Err": m.err})))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("  " + m.t.T("PickerEmpty")))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleHeight(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		icon := "[FILE] "
		style := fpFileStyle
		if entry.IsDir {
			icon = "[DIR]  "
			style = fpDirStyle
		}

		prefix := "  "
		if i == m.selected {
			prefix = "> "
			style = selectedStyle
		}

		b.WriteString(prefix)
		b.WriteString(style.Render(icon + entry.Name))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.t.T("PickerHelp")))

	return b.String()
}
