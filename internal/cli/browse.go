package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/order"
	"github.com/matzehuels/stackorder/pkg/dag/transform"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxRelated caps how many parents or children a row spells out.
const maxRelated = 4

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Step through the order of a working set interactively",
		Long: `Browse orders the working set and opens an interactive list of the result.
Each row shows the node's position, depth and its parents and children inside
the working set. Press p or c to jump to the first parent or child.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input.load(args[0])
			if err != nil {
				return err
			}
			sub := workingSetGraph(in)
			ordered, err := order.Sort(sub.Adjacency(), sub.NodeIDs())
			if err != nil {
				reportCycle(err)
				return err
			}

			p := tea.NewProgram(NewOrderListModel(sub, ordered),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	input.register(cmd)
	return cmd
}

// =============================================================================
// OrderListModel - Interactive order browser
// =============================================================================

// orderEntry is one row of the browser.
type orderEntry struct {
	ID       dag.NodeID
	Depth    int
	Parents  []dag.NodeID
	Children []dag.NodeID
}

// OrderListModel is the bubbletea model for browsing an order.
type OrderListModel struct {
	Entries []orderEntry
	Cursor  int
	Height  int
	Offset  int

	index map[dag.NodeID]int
}

// NewOrderListModel builds a browser over ordered, taking parents, children
// and depths from g.
func NewOrderListModel(g *dag.Graph, ordered []dag.NodeID) OrderListModel {
	depths := transform.AssignDepths(g)
	m := OrderListModel{
		Entries: make([]orderEntry, 0, len(ordered)),
		Height:  15,
		index:   make(map[dag.NodeID]int, len(ordered)),
	}
	for _, id := range ordered {
		m.index[id] = len(m.Entries)
		m.Entries = append(m.Entries, orderEntry{
			ID:       id,
			Depth:    depths[id],
			Parents:  g.Parents(id),
			Children: g.Children(id),
		})
	}
	return m
}

func (m OrderListModel) Init() tea.Cmd {
	return nil
}

func (m OrderListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Entries) - 1)
		case "p":
			if len(m.Entries) > 0 {
				m.jump(m.Entries[m.Cursor].Parents)
			}
		case "c":
			if len(m.Entries) > 0 {
				m.jump(m.Entries[m.Cursor].Children)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m *OrderListModel) moveTo(i int) {
	if i > len(m.Entries)-1 {
		i = len(m.Entries) - 1
	}
	if i < 0 {
		i = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *OrderListModel) jump(ids []dag.NodeID) {
	if len(ids) == 0 {
		return
	}
	if i, ok := m.index[ids[0]]; ok {
		m.moveTo(i)
	}
}

func (m OrderListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  c child  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  (empty working set)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			e.ID,
			fmt.Sprintf("%d", e.Depth),
			summarize(e.Parents),
			summarize(e.Children),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Node", "Depth", "Parents", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// summarize joins up to maxRelated IDs and counts the rest.
func summarize(ids []dag.NodeID) string {
	if len(ids) == 0 {
		return "—"
	}
	if len(ids) <= maxRelated {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s +%d", strings.Join(ids[:maxRelated], ", "), len(ids)-maxRelated)
}
