package widget

// Class names and attributes shared by the renderer, the controller and the
// output renderers.
const (
	ClassForm          = "form-manager"
	ClassSection       = "form-section"
	ClassSectionTitle  = "section-title"
	ClassSectionDesc   = "section-description"
	ClassFields        = "fields-container"
	ClassFieldWrapper  = "field-wrapper"
	ClassRequired      = "required"
	ClassFullWidth     = "full-width"
	ClassLabel         = "field-label"
	ClassInput         = "form-input"
	ClassTextarea      = "form-textarea"
	ClassAutoResize    = "auto-resize"
	ClassSelect        = "form-select"
	ClassOptionsGroup  = "options-group"
	ClassOptionWrapper = "option-wrapper"
	ClassOptionLabel   = "option-label"
	ClassErrorSlot     = "error-message"
	ClassActions       = "form-actions"
	ClassSubmit        = "submit-button"
	ClassResponse      = "form-response"
	ClassSuccess       = "success-message"
	ClassErrorBanner   = "error-message-global"

	// ClassShow marks a visible error slot or banner.
	ClassShow = "show"
	// ClassInvalid marks a control whose error slot is shown.
	ClassInvalid = "invalid"

	AttrField      = "data-field"
	AttrErrorFor   = "data-error-for"
	AttrAutoResize = "data-auto-resize"
	AttrHidden     = "hidden"
)

// Tree is a rendered form with indexes over the nodes the controller drives.
type Tree struct {
	Root   *Node
	FormID string
	Locale string

	fields     []string
	errorSlots map[string]*Node
	controls   map[string][]*Node
	autoResize []string
	hidden     []*Node
	success    *Node
	failure    *Node
	submit     *Node
}

// NewTree indexes root. Controls are elements carrying data-field, error
// slots carry data-error-for, banners and the submit control are found by
// class.
func NewTree(root *Node, formID, locale string) *Tree {
	t := &Tree{
		Root:       root,
		FormID:     formID,
		Locale:     locale,
		errorSlots: make(map[string]*Node),
		controls:   make(map[string][]*Node),
	}
	root.Walk(func(n *Node) bool {
		if n.Kind != KindElement {
			return false
		}
		if id := n.Attr(AttrErrorFor); id != "" {
			t.errorSlots[id] = n
			t.fields = append(t.fields, id)
		}
		if id := n.Attr(AttrField); id != "" {
			t.controls[id] = append(t.controls[id], n)
			if n.Flag(AttrAutoResize) {
				t.autoResize = append(t.autoResize, id)
			}
		}
		if n.Tag == "input" && n.Attr("type") == "hidden" {
			t.hidden = append(t.hidden, n)
		}
		switch {
		case n.HasClass(ClassSuccess):
			t.success = n
		case n.HasClass(ClassErrorBanner):
			t.failure = n
		case n.HasClass(ClassSubmit):
			t.submit = n
		}
		return true
	})
	return t
}

// Clone deep-copies the tree and rebuilds its indexes.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	return NewTree(t.Root.Clone(), t.FormID, t.Locale)
}

// Fields lists field ids in render order.
func (t *Tree) Fields() []string {
	return append([]string(nil), t.fields...)
}

// ErrorSlot returns the error holder of a field.
func (t *Tree) ErrorSlot(fieldID string) *Node {
	return t.errorSlots[fieldID]
}

// Controls returns the input nodes bound to a field: one for single
// controls, one per option for checkbox and radio groups.
func (t *Tree) Controls(fieldID string) []*Node {
	return t.controls[fieldID]
}

// HiddenInputs returns hidden inputs in document order.
func (t *Tree) HiddenInputs() []*Node {
	return t.hidden
}

// AutoResizeFields lists textareas flagged for height growth.
func (t *Tree) AutoResizeFields() []string {
	return append([]string(nil), t.autoResize...)
}

// SuccessBanner returns the success message holder.
func (t *Tree) SuccessBanner() *Node {
	return t.success
}

// ErrorBanner returns the form-level error message holder.
func (t *Tree) ErrorBanner() *Node {
	return t.failure
}

// SubmitButton returns the submit control.
func (t *Tree) SubmitButton() *Node {
	return t.submit
}

// Visible reports whether a slot or banner is shown.
func Visible(n *Node) bool {
	return n != nil && n.HasClass(ClassShow) && !n.Flag(AttrHidden)
}

// Show reveals n with text. An empty text keeps the current content.
func Show(n *Node, text string) {
	if n == nil {
		return
	}
	if text != "" {
		n.SetText(text)
	}
	n.AddClass(ClassShow)
	n.SetProp(AttrHidden, false)
}

// Hide conceals n. clear also drops its text.
func Hide(n *Node, clear bool) {
	if n == nil {
		return
	}
	if clear {
		n.SetText("")
	}
	n.RemoveClass(ClassShow)
	n.SetProp(AttrHidden, true)
}
