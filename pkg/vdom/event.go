package vdom

import "github.com/open-cli-collective/mdview/pkg/md"

// PointerEvent is a simulated mouse event.
type PointerEvent struct {
	DefaultPrevented   bool
	PropagationStopped bool
}

var _ md.MouseEvent = (*PointerEvent)(nil)

func (e *PointerEvent) PreventDefault()  { e.DefaultPrevented = true }
func (e *PointerEvent) StopPropagation() { e.PropagationStopped = true }

// Click activates target and bubbles the event up through its ancestors in
// root, the way a browser dispatches a click. It returns the event.
func Click(root, target *Node) *PointerEvent {
	ev := &PointerEvent{}
	path := pathTo(root, target)
	for i := len(path) - 1; i >= 0; i-- {
		path[i].OnClick.Handle(ev)
		if ev.PropagationStopped {
			break
		}
	}
	return ev
}

// ClickAt clicks the deepest node covering the source offset. It returns nil
// when no node covers offset.
func ClickAt(root *Node, offset int) *PointerEvent {
	target := root.At(offset)
	if target == nil {
		return nil
	}
	return Click(root, target)
}

func pathTo(root, target *Node) []*Node {
	if root == target {
		return []*Node{root}
	}
	for _, c := range root.Children {
		if p := pathTo(c, target); p != nil {
			return append([]*Node{root}, p...)
		}
	}
	return nil
}
