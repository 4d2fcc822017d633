// Package render draws controller state for a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"user-search-service/internal/client/controller"
	"user-search-service/internal/client/pagination"
	"user-search-service/internal/domain/user"
)

const (
	prevLabel = "← Previous"
	nextLabel = "Next →"
)

// Renderer formats listings with styles matched to its output.
type Renderer struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	info     lipgloss.Style
	errStyle lipgloss.Style
	muted    lipgloss.Style
	active   lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	border   lipgloss.Style
}

// New creates a renderer whose color profile is detected from w.
func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		subtitle: r.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
		info: r.NewStyle().
			Foreground(lipgloss.Color("32")),
		errStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		active: r.NewStyle().
			Bold(true).
			Reverse(true),
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1),
		cell: r.NewStyle().
			Padding(0, 1),
		border: r.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Header is the application banner.
func (r *Renderer) Header() string {
	return r.title.Render("User Search") + "\n" +
		r.subtitle.Render("Search and browse through our user directory")
}

// Summary describes what is on screen, e.g.
// `Showing 10 of 11 users for "Alice1" (Page 1 of 2)`.
func Summary(shown int, total int64, search string, page, totalPages int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Showing %d of %d users", shown, total)
	if search != "" {
		fmt.Fprintf(&b, " for %q", search)
	}
	if totalPages > 1 {
		fmt.Fprintf(&b, " (Page %d of %d)", page, totalPages)
	}
	return b.String()
}

// Table draws users, or a placeholder when there are none.
func (r *Renderer) Table(users []user.User) string {
	if len(users) == 0 {
		return r.muted.Render("No users found")
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{strconv.FormatInt(u.ID, 10), u.Name, u.Email}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		}).
		Headers("ID", "Name", "Email").
		Rows(rows...).
		Render()
}

// Pager draws the navigation controls for current out of totalPages.
func (r *Renderer) Pager(current, totalPages int64) string {
	parts := make([]string, 0, 11)

	if pagination.PrevEnabled(current) {
		parts = append(parts, prevLabel)
	} else {
		parts = append(parts, r.muted.Render(prevLabel))
	}

	for _, item := range pagination.Window(current, totalPages) {
		switch {
		case item.Ellipsis:
			parts = append(parts, r.muted.Render("..."))
		case item.Page == current:
			parts = append(parts, r.active.Render("["+strconv.FormatInt(item.Page, 10)+"]"))
		default:
			parts = append(parts, strconv.FormatInt(item.Page, 10))
		}
	}

	if pagination.NextEnabled(current, totalPages) {
		parts = append(parts, nextLabel)
	} else {
		parts = append(parts, r.muted.Render(nextLabel))
	}

	return strings.Join(parts, " ")
}

// Error draws an error banner.
func (r *Renderer) Error(msg string) string {
	return r.errStyle.Render("Error:") + " " + msg
}

// State draws a full listing screen.
func (r *Renderer) State(s controller.State) string {
	var sections []string

	if s.Err != "" {
		sections = append(sections, r.Error(s.Err))
	}

	if s.Loading {
		sections = append(sections, r.muted.Render("Loading users..."))
	} else {
		sections = append(sections,
			r.info.Render(Summary(len(s.Users), s.TotalUsers, s.SearchTerm, s.CurrentPage, s.TotalPages())),
			r.Table(s.Users),
		)
	}

	if s.TotalPages() > 1 {
		sections = append(sections, r.Pager(s.CurrentPage, s.TotalPages()))
	}

	return strings.Join(sections, "\n")
}
