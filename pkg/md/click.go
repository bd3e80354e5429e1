package md

// MouseEvent is the host pointer event wrapped by MarkdownMouseEvent.
type MouseEvent interface {
	PreventDefault()
	StopPropagation()
}

// MarkdownMouseEvent is delivered to the configured click callback whenever a
// rendered node is activated.
type MarkdownMouseEvent struct {
	// MouseEvent is the original host event.
	MouseEvent MouseEvent

	// Position is the byte range of the markdown that produced the clicked node.
	Position SourceRange
}

// ClickFunc receives markdown click events.
type ClickFunc func(MarkdownMouseEvent)

// ClickHandler binds one source range to the shared click callback.
// It holds no state besides the range, so one handler may fire any number of times.
type ClickHandler struct {
	Position SourceRange

	// Intercept makes the handler cancel the host's default activation before
	// dispatching. Task list checkboxes use it so the host never toggles them.
	Intercept bool

	dispatch ClickFunc
}

// NewClickHandler returns a handler forwarding clicks on position to fn.
// fn may be nil, in which case clicks are inert.
func NewClickHandler(position SourceRange, fn ClickFunc) *ClickHandler {
	return &ClickHandler{Position: position, dispatch: fn}
}

// NewTaskListHandler returns an intercepting handler for a task list marker.
func NewTaskListHandler(position SourceRange, fn ClickFunc) *ClickHandler {
	return &ClickHandler{Position: position, Intercept: true, dispatch: fn}
}

// Handle processes one activation of the node.
func (h *ClickHandler) Handle(ev MouseEvent) {
	if h == nil {
		return
	}
	if h.Intercept && ev != nil {
		ev.PreventDefault()
		ev.StopPropagation()
	}
	if h.dispatch == nil {
		return
	}
	h.dispatch(MarkdownMouseEvent{
		MouseEvent: ev,
		Position:   h.Position,
	})
}

// Active reports whether activating the handler reaches a callback.
func (h *ClickHandler) Active() bool {
	return h != nil && h.dispatch != nil
}
