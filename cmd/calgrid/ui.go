package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/clinicboard/calgrid/pkg/domain/calendar"
	"github.com/clinicboard/calgrid/pkg/domain/grid"
	"github.com/clinicboard/calgrid/pkg/repository/model"
)

// One terminal row is the geometry's pixel unit; four rows make an hour, so
// a row is one 15-minute block.
const rowsPerHour = 4

const (
	headerRows = 2
	gutterW    = 7
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	apptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	blockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	draftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Italic(true)
	nowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// scrollPort adapts the grid area of the terminal to grid.ScrollPort.
type scrollPort struct {
	top     float64
	viewH   float64
	content float64
}

func (p *scrollPort) ScrollTop() float64       { return p.top }
func (p *scrollPort) SetScrollTop(top float64) { p.top = top }
func (p *scrollPort) ViewHeight() float64      { return p.viewH }
func (p *scrollPort) MaxScroll() float64 {
	if m := p.content - p.viewH; m > 0 {
		return m
	}
	return 0
}

// gestureOutbox collects what the drag callbacks decided during a single
// Update call; the model drains it right after feeding the pointer event in.
type gestureOutbox struct {
	completed *grid.Span
	clicked   *time.Time
}

type (
	eventsMsg     struct{ events []calendar.Event }
	errMsg        struct{ err error }
	commitDoneMsg struct{ err error }
	refetchMsg    struct{}
)

type ui struct {
	store     *calendar.Store
	committer *calendar.Committer
	undo      *calendar.UndoBuffer
	repo      model.Repo
	geo       grid.Geometry
	drag      *grid.Drag
	port      *scrollPort
	outbox    *gestureOutbox
	logger    zerolog.Logger

	width, height int
	status        string
	lastDeleted   string
}

func newUI(store *calendar.Store, committer *calendar.Committer, undo *calendar.UndoBuffer, repo model.Repo, geo grid.Geometry, logger zerolog.Logger) ui {
	port := &scrollPort{
		top:     float64((9 - geo.StartHour) * rowsPerHour), // open on the working morning
		content: float64((geo.EndHour - geo.StartHour) * rowsPerHour),
	}
	outbox := &gestureOutbox{}

	m := ui{
		store:     store,
		committer: committer,
		undo:      undo,
		repo:      repo,
		geo:       geo,
		port:      port,
		outbox:    outbox,
		logger:    logger,
		status:    "drag to create, esc cancels, q quits",
	}

	m.drag = grid.NewDrag(geo, grid.DragConfig{}, port, grid.DragCallbacks{
		OnDraft: func(span grid.Span, dragging bool) {
			store.SetDraft(&calendar.Draft{StartAt: span.From, EndAt: span.To, Dragging: dragging})
		},
		OnDiscard: func() { store.ClearDraft() },
		OnClick:   func(anchor time.Time) { outbox.clicked = &anchor },
		OnComplete: func(span grid.Span) { outbox.completed = &span },
	})
	return m
}

func (m ui) Init() tea.Cmd {
	return m.fetch()
}

func (m ui) fetch() tea.Cmd {
	from, to := m.store.VisibleRange()
	repo, logger := m.repo, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		recs, err := repo.ListEvents(ctx, from, to)
		if err != nil {
			return errMsg{err}
		}
		return eventsMsg{calendar.DecodeRecords(recs, logger)}
	}
}

func (m ui) commit() tea.Cmd {
	committer := m.committer
	return func() tea.Msg {
		_, err := committer.CommitDraft(context.Background(), calendar.EventInput{
			Title:     "New appointment",
			Type:      calendar.TypeAppointment,
			CreatedBy: "demo",
		})
		return commitDoneMsg{err}
	}
}

func (m ui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.port.viewH = float64(m.gridHeight())
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		x, y, ok := m.gridCoords(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if col, inside := grid.ColumnAt(x, m.columnBounds()); inside {
			m.drag.PointerDown(0, x, y, m.store.Days()[col])
		}
		return m, nil

	case tea.MouseMotionMsg:
		x, y, _ := m.gridCoords(msg.X, msg.Y)
		m.drag.PointerMove(0, x, y)
		return m, nil

	case tea.MouseReleaseMsg:
		x, y, ok := m.gridCoords(msg.X, msg.Y)
		if ok {
			m.drag.PointerUp(0, x, y)
		} else {
			// Released off-canvas: terminate the drag unconditionally.
			m.drag.Cancel()
		}
		return m.drainGesture()

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.port.SetScrollTop(clamp(m.port.ScrollTop()-2, 0, m.port.MaxScroll()))
		case tea.MouseWheelDown:
			m.port.SetScrollTop(clamp(m.port.ScrollTop()+2, 0, m.port.MaxScroll()))
		}
		return m, nil

	case eventsMsg:
		m.store.SetEvents(msg.events)
		return m, nil

	case errMsg:
		m.status = "fetch failed: " + msg.err.Error()
		return m, nil

	case commitDoneMsg:
		if msg.err != nil {
			// Not optimistic: the collection is untouched and the draft is
			// still on screen for correction.
			m.status = "save failed, draft kept: " + msg.err.Error()
		} else {
			m.status = "event saved"
		}
		return m, nil

	case refetchMsg:
		return m, m.fetch()
	}

	return m, nil
}

func (m ui) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.drag.Cancel()
		m.store.ClearDraft()
		m.status = "cancelled"
		return m, nil
	case "left":
		m.store.NavigatePrevious()
		return m, m.fetch()
	case "right":
		m.store.NavigateNext()
		return m, m.fetch()
	case "t":
		m.store.NavigateToday()
		return m, m.fetch()
	case "d":
		m.store.SetView(calendar.ViewDay)
		return m, m.fetch()
	case "w":
		m.store.SetView(calendar.ViewWeek)
		return m, m.fetch()
	case "x":
		if ev, ok := latestEvent(m.store.Events()); ok {
			m.undo.Delete(ev.ID)
			m.lastDeleted = ev.ID
			m.status = fmt.Sprintf("deleted %q (u to undo)", ev.Title)
		}
		return m, nil
	case "u":
		if m.lastDeleted != "" && m.undo.Undo(m.lastDeleted) {
			m.status = "delete undone"
			m.lastDeleted = ""
		}
		return m, nil
	}
	return m, nil
}

// drainGesture turns what the pointer-up callbacks produced into commands.
func (m ui) drainGesture() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.outbox.completed != nil || m.outbox.clicked != nil {
		cmd = m.commit()
	}
	m.outbox.completed = nil
	m.outbox.clicked = nil
	return m, cmd
}

// gridCoords maps terminal coordinates to grid-area coordinates; ok is
// false when the pointer is outside the grid area.
func (m ui) gridCoords(tx, ty int) (x, y float64, ok bool) {
	x = float64(tx)
	y = float64(ty - headerRows)
	ok = y >= 0 && y < m.port.viewH && tx >= gutterW && tx < m.width
	return x, y, ok
}

func (m ui) gridHeight() int {
	h := m.height - headerRows - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m ui) columnBounds() []grid.ColumnBounds {
	days := m.store.Days()
	colW := m.columnWidth(len(days))
	bounds := make([]grid.ColumnBounds, len(days))
	for i := range days {
		left := float64(gutterW + i*colW)
		bounds[i] = grid.ColumnBounds{Left: left, Right: left + float64(colW)}
	}
	return bounds
}

func (m ui) columnWidth(cols int) int {
	if cols == 0 {
		return 1
	}
	w := (m.width - gutterW) / cols
	if w < 4 {
		w = 4
	}
	return w
}

func (m ui) View() string {
	days := m.store.Days()
	colW := m.columnWidth(len(days))
	now := time.Now()

	var b strings.Builder
	from, to := m.store.VisibleRange()
	b.WriteString(headerStyle.Render(fmt.Sprintf(" %s – %s (%s view)",
		from.Format("Mon 02 Jan"), to.AddDate(0, 0, -1).Format("Mon 02 Jan"), m.store.View())))
	b.WriteString("\n")

	b.WriteString(pad("", gutterW))
	for _, day := range days {
		label := day.Format("Mon 02")
		if grid.SameDay(day, now) {
			label = "*" + label
		}
		b.WriteString(headerStyle.Render(pad(label, colW)))
	}
	b.WriteString("\n")

	columns := m.renderColumns(days, colW, now)
	top := int(m.port.ScrollTop())
	for r := 0; r < m.gridHeight(); r++ {
		row := top + r
		b.WriteString(gutterStyle.Render(pad(m.gutterLabel(row), gutterW)))
		for _, col := range columns {
			if row >= 0 && row < len(col) {
				b.WriteString(col[row])
			} else {
				b.WriteString(pad("", colW))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(" " + m.status))
	return b.String()
}

func (m ui) gutterLabel(row int) string {
	if row%rowsPerHour != 0 {
		return ""
	}
	return fmt.Sprintf("%02d:00", m.geo.StartHour+row/rowsPerHour)
}

// renderColumns rasterizes each visible day into contentHeight styled rows.
func (m ui) renderColumns(days []time.Time, colW int, now time.Time) [][]string {
	events := m.store.Events()
	items := make([]grid.Interval, len(events))
	for i := range events {
		items[i] = events[i]
	}
	var draft grid.Interval
	if d, ok := m.store.Draft(); ok {
		draft = d
	}

	contentH := int(m.port.content)
	columns := make([][]string, len(days))
	for ci, day := range days {
		rows := make([]string, contentH)
		for r := range rows {
			rows[r] = pad("", colW)
		}

		for _, p := range grid.DayColumn(day, items, draft, m.geo) {
			paintBox(rows, p, colW)
		}

		if off, ok := grid.NowIndicator(day, now, m.geo); ok {
			r := int(off)
			if r >= 0 && r < contentH {
				rows[r] = nowStyle.Render(strings.Repeat("─", colW-1) + " ")
			}
		}
		columns[ci] = rows
	}
	return columns
}

func paintBox(rows []string, p grid.Placed, colW int) {
	style := apptStyle
	label := eventTitle(p.Item)
	switch {
	case p.Draft:
		style = draftStyle
		label = "· new"
	case isBlock(p.Item):
		style = blockStyle
	}

	top := int(p.Box.Top)
	h := int(p.Box.Height)
	if h < 1 {
		h = 1
	}
	for r := top; r < top+h; r++ {
		if r < 0 || r >= len(rows) {
			continue // clipped outside the visible hour range
		}
		var text string
		switch {
		case r == top && p.Density == grid.DensityMinimal:
			text = "▪"
		case r == top:
			text = "▌" + label
		case r == top+1 && p.Density >= grid.DensityTime:
			text = "▌" + timeRange(p.Item)
		case r == top+2 && p.Density >= grid.DensityFull:
			text = "▌" + durationText(p.Item)
		default:
			text = "▌"
		}
		rows[r] = style.Render(pad(text, colW))
	}
}

func eventTitle(iv grid.Interval) string {
	if ev, ok := iv.(calendar.Event); ok {
		return ev.Title
	}
	return ""
}

func isBlock(iv grid.Interval) bool {
	ev, ok := iv.(calendar.Event)
	return ok && ev.Type == calendar.TypeBlock
}

func timeRange(iv grid.Interval) string {
	return iv.Start().Format("15:04") + "-" + iv.End().Format("15:04")
}

func durationText(iv grid.Interval) string {
	return iv.End().Sub(iv.Start()).String()
}

func latestEvent(events []calendar.Event) (calendar.Event, bool) {
	var best calendar.Event
	found := false
	for _, ev := range events {
		if !found || ev.StartAt.After(best.StartAt) {
			best = ev
			found = true
		}
	}
	return best, found
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
