package adf

import "github.com/open-cli-collective/mdview/pkg/md"

// panelTypes are the panel styles ADF accepts.
var panelTypes = map[string]bool{
	"info": true, "note": true, "warning": true, "success": true, "error": true,
}

// Components returns the built-in component renderers. <Note kind="..."> becomes
// a panel; unknown kinds fall back to "info".
func Components() map[string]md.ComponentRenderer[View] {
	return map[string]md.ComponentRenderer[View]{
		"Note": notePanel,
	}
}

func notePanel(p md.ComponentProps[View]) View {
	kind, _ := p.Attr("kind")
	if !panelTypes[kind] {
		kind = "info"
	}
	return View{{
		Type:    "panel",
		Attrs:   map[string]interface{}{"panelType": kind},
		Content: wrapBlocks(p.Children),
	}}
}
