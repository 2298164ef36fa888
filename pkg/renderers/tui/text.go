package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/widget"
)

// Text implements render.Output as a plain-text summary of a tree: sections,
// fields with their current values, visible errors and banners.
type Text struct{}

var _ render.Output = Text{}

// Name reports the output identifier.
func (Text) Name() string {
	return "text"
}

// ContentType reports the media type produced by Render.
func (Text) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes tree as text. Options are ignored.
func (t Text) Render(ctx context.Context, tree *widget.Tree, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("tui: tree is required")
	}
	var b strings.Builder
	WriteText(&b, tree)
	return []byte(b.String()), nil
}

// WriteText writes the text form of tree to w.
func WriteText(w io.Writer, tree *widget.Tree) {
	if title := tree.Root.Attr("aria-label"); title != "" {
		fmt.Fprintf(w, "%s\n\n", title)
	}
	tree.Root.Walk(func(n *widget.Node) bool {
		switch {
		case n.HasClass(widget.ClassSectionTitle):
			fmt.Fprintf(w, "== %s ==\n", n.TextContent())
			return false
		case n.HasClass(widget.ClassSectionDesc):
			fmt.Fprintf(w, "%s\n", render.PlainText(n.TextContent()))
			return false
		case n.HasClass(widget.ClassFieldWrapper):
			writeField(w, tree, n)
			return false
		case n.HasClass(widget.ClassSubmit):
			fmt.Fprintf(w, "\n[ %s ]\n", n.TextContent())
			return false
		case n.HasClass(widget.ClassSuccess), n.HasClass(widget.ClassErrorBanner):
			if widget.Visible(n) {
				fmt.Fprintf(w, "%s\n", n.TextContent())
			}
			return false
		}
		return true
	})
}

func writeField(w io.Writer, tree *widget.Tree, wrapper *widget.Node) {
	label := wrapper.Find(widget.ByClass(widget.ClassLabel))
	slot := wrapper.Find(func(n *widget.Node) bool { return n.Attr(widget.AttrErrorFor) != "" })
	if slot == nil {
		return
	}
	fieldID := slot.Attr(widget.AttrErrorFor)

	name := label.TextContent()
	if wrapper.HasClass(widget.ClassRequired) {
		name += " *"
	}
	controls := tree.Controls(fieldID)

	switch wrapper.Attr("data-kind") {
	case "checkbox", "radio":
		fmt.Fprintf(w, "%s:\n", name)
		for _, control := range controls {
			optLabel := wrapper.Find(func(n *widget.Node) bool {
				return n.HasClass(widget.ClassOptionLabel) && n.Attr("for") == control.Attr("id")
			})
			mark := " "
			if control.Flag("checked") {
				mark = "x"
			}
			if control.Attr("type") == "radio" {
				fmt.Fprintf(w, "  (%s) %s\n", mark, optLabel.TextContent())
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", mark, optLabel.TextContent())
			}
		}
	case "select":
		value := ""
		if len(controls) > 0 {
			for _, opt := range controls[0].Children {
				if opt.Flag("selected") && opt.Attr("value") != "" {
					value = opt.TextContent()
				}
			}
		}
		fmt.Fprintf(w, "%s: %s\n", name, value)
	case "textarea":
		value := ""
		if len(controls) > 0 {
			value = controls[0].TextContent()
		}
		fmt.Fprintf(w, "%s:\n", name)
		for _, line := range strings.Split(value, "\n") {
			fmt.Fprintf(w, "  | %s\n", line)
		}
	default:
		value := ""
		if len(controls) > 0 {
			value = controls[0].Attr("value")
		}
		fmt.Fprintf(w, "%s: %s\n", name, value)
	}

	if widget.Visible(slot) {
		fmt.Fprintf(w, "  ! %s\n", slot.TextContent())
	}
}
