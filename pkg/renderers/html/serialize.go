package html

import (
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-formflow/pkg/widget"
)

var voidElements = map[string]struct{}{
	"input": {}, "br": {}, "img": {}, "hr": {}, "meta": {}, "link": {},
}

// Fragment serialises n and its descendants.
func Fragment(n *widget.Node) string {
	var b strings.Builder
	_ = WriteNode(&b, n)
	return b.String()
}

// WriteNode writes n as HTML. Text is escaped; raw nodes are written as is.
// Attributes come out as id, class, then the rest sorted by name.
func WriteNode(w io.Writer, n *widget.Node) error {
	sw := &stickyWriter{w: w}
	writeNode(sw, n)
	return sw.err
}

func writeNode(w *stickyWriter, n *widget.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case widget.KindText:
		w.write(html.EscapeString(n.Text))
		return
	case widget.KindRaw:
		w.write(n.Text)
		return
	case widget.KindElement:
	}

	w.write("<" + n.Tag)
	if id := n.Attr("id"); id != "" {
		writeAttr(w, "id", id)
	}
	if len(n.Classes) > 0 {
		writeAttr(w, "class", strings.Join(n.Classes, " "))
	}
	for _, key := range n.PropKeys() {
		if key == "id" {
			continue
		}
		switch v := n.Props[key].(type) {
		case bool:
			if v {
				w.write(" " + key)
			}
		case string:
			writeAttr(w, key, v)
		}
	}
	w.write(">")

	if _, void := voidElements[n.Tag]; void {
		return
	}
	for _, child := range n.Children {
		writeNode(w, child)
	}
	w.write("</" + n.Tag + ">")
}

func writeAttr(w *stickyWriter, key, value string) {
	w.write(" " + key + `="` + html.EscapeString(value) + `"`)
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}
