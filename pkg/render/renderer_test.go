package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/widget"
)

func renderContact(t *testing.T, locale string) *widget.Tree {
	t.Helper()
	tree, err := render.New().Render(testsupport.Contact(), locale)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return tree
}

func classes(nodes []*widget.Node) [][]string {
	out := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Classes)
	}
	return out
}

func TestRender_OneErrorSlotPerFieldAndOneBannerPair(t *testing.T) {
	def := testsupport.Contact()
	tree := renderContact(t, "es")

	slots := tree.Root.FindAll(widget.ByClass(widget.ClassErrorSlot))
	if len(slots) != len(def.Fields()) {
		t.Fatalf("expected %d error slots, got %d", len(def.Fields()), len(slots))
	}
	for _, field := range def.Fields() {
		slot := tree.ErrorSlot(field.ID)
		if slot == nil || slot.Attr("id") != "error-"+field.ID {
			t.Fatalf("missing error slot for %s", field.ID)
		}
		if widget.Visible(slot) || slot.TextContent() != "" {
			t.Fatalf("error slot for %s should start hidden and empty", field.ID)
		}
	}

	if n := len(tree.Root.FindAll(widget.ByClass(widget.ClassSuccess))); n != 1 {
		t.Fatalf("expected one success banner, got %d", n)
	}
	if n := len(tree.Root.FindAll(widget.ByClass(widget.ClassErrorBanner))); n != 1 {
		t.Fatalf("expected one error banner, got %d", n)
	}
	if widget.Visible(tree.SuccessBanner()) || widget.Visible(tree.ErrorBanner()) {
		t.Fatalf("banners should start hidden")
	}
}

func TestRender_StructureFollowsSchemaOrder(t *testing.T) {
	tree := renderContact(t, "es")

	if diff := cmp.Diff([]string{"form-manager", "contact-form"}, tree.Root.Classes); diff != "" {
		t.Fatalf("form classes mismatch (-want +got):\n%s", diff)
	}
	if tree.Root.Attr("method") != "post" || tree.Root.Attr("data-lang") != "es" {
		t.Fatalf("unexpected form props %v", tree.Root.Props)
	}

	var titles []string
	for _, n := range tree.Root.FindAll(widget.ByClass(widget.ClassSectionTitle)) {
		titles = append(titles, n.TextContent())
	}
	if diff := cmp.Diff([]string{"Información Personal", "Preferencias"}, titles); diff != "" {
		t.Fatalf("section titles mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(
		[]string{"name", "email", "phone", "age", "plan", "contact", "topics", "message"},
		tree.Fields(),
	); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	wrappers := tree.Root.FindAll(widget.ByClass(widget.ClassFieldWrapper))
	want := [][]string{
		{"field-wrapper", "required"},
		{"field-wrapper", "required"},
		{"field-wrapper"},
		{"field-wrapper"},
		{"field-wrapper", "required"},
		{"field-wrapper"},
		{"field-wrapper"},
		{"field-wrapper", "full-width", "wide"},
	}
	if diff := cmp.Diff(want, classes(wrappers)); diff != "" {
		t.Fatalf("wrapper classes mismatch (-want +got):\n%s", diff)
	}

	submit := tree.SubmitButton()
	if submit == nil || submit.TextContent() != "Enviar mensaje" || submit.Attr("type") != "submit" {
		t.Fatalf("unexpected submit button %+v", submit)
	}
}

func TestRender_ControlsByKind(t *testing.T) {
	tree := renderContact(t, "en")

	name := tree.Controls("name")[0]
	if name.Tag != "input" || name.Attr("type") != "text" || !name.Flag("required") || name.Attr("placeholder") != "Mario" {
		t.Fatalf("unexpected name control %+v", name)
	}

	age := tree.Controls("age")[0]
	if age.Attr("min") != "18" || age.Attr("max") != "120" {
		t.Fatalf("expected number bounds, got %v", age.Props)
	}

	plan := tree.Controls("plan")[0]
	if plan.Tag != "select" || len(plan.Children) != 3 {
		t.Fatalf("expected select with prompt and two options, got %+v", plan)
	}
	prompt := plan.Children[0]
	if !prompt.Flag("disabled") || !prompt.Flag("selected") || prompt.Attr("value") != "" || prompt.TextContent() != "Select an option" {
		t.Fatalf("unexpected prompt option %+v", prompt)
	}

	topics := tree.Controls("topics")
	var ids, names []string
	for _, n := range topics {
		ids = append(ids, n.Attr("id"))
		names = append(names, n.Attr("name"))
	}
	if diff := cmp.Diff([]string{"topics-tech", "topics-design", "topics-business"}, ids); diff != "" {
		t.Fatalf("option ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"topics", "topics", "topics"}, names); diff != "" {
		t.Fatalf("option names mismatch (-want +got):\n%s", diff)
	}
	labels := tree.Root.FindAll(widget.ByClass(widget.ClassOptionLabel))
	if labels[0].Attr("for") != "contact-email" {
		t.Fatalf("expected option label bound to contact-email, got %q", labels[0].Attr("for"))
	}

	message := tree.Controls("message")[0]
	if message.Tag != "textarea" || !message.HasClass(widget.ClassAutoResize) {
		t.Fatalf("expected auto-resize textarea, got %+v", message)
	}
	if diff := cmp.Diff([]string{"message"}, tree.AutoResizeFields()); diff != "" {
		t.Fatalf("auto resize mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SanitisesDescriptions(t *testing.T) {
	def := testsupport.Contact()
	def.Sections[0].Description = `Hola <strong>mundo</strong><script>alert(1)</script>`

	tree, err := render.New().Render(def, "es")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	desc := tree.Root.Find(widget.ByClass(widget.ClassSectionDesc))
	if desc == nil {
		t.Fatalf("expected description")
	}
	if got := desc.TextContent(); got != "Hola <strong>mundo</strong>" {
		t.Fatalf("unexpected sanitised description %q", got)
	}
	if render.PlainText(desc.TextContent()) != "Hola mundo" {
		t.Fatalf("unexpected plain text %q", render.PlainText(desc.TextContent()))
	}
}

func TestRender_HiddenFields(t *testing.T) {
	r := render.New(render.WithHiddenFields(
		render.CSRFToken("_csrf", "tok"),
		render.Hidden(" ", "skip"),
		render.Hidden("version", 3),
	))
	tree, err := r.Render(testsupport.SingleName(), "es")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got []string
	for _, n := range tree.Root.FindAll(func(n *widget.Node) bool { return n.Attr("type") == "hidden" }) {
		got = append(got, n.Attr("name")+"="+n.Attr("value"))
	}
	if diff := cmp.Diff([]string{"_csrf=tok", "version=3"}, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ConfigErrors(t *testing.T) {
	r := render.New()

	_, err := r.Render(nil, "es")
	if !errors.Is(err, model.ErrDefinitionMissing) || !model.IsConfigError(err) {
		t.Fatalf("expected missing definition config error, got %v", err)
	}

	def := testsupport.Newsletter()
	def.Sections[0].Fields[1].Options = nil
	_, err = r.Render(def, "es")
	if !errors.Is(err, model.ErrOptionsMissing) || !model.IsConfigError(err) {
		t.Fatalf("expected missing options config error, got %v", err)
	}

	def = testsupport.SingleName()
	def.Sections[0].Fields[0].Validation.Pattern = "(unclosed"
	_, err = r.Render(def, "es")
	if !errors.Is(err, model.ErrInvalidPattern) {
		t.Fatalf("expected invalid pattern, got %v", err)
	}
}

func TestRenderKey(t *testing.T) {
	store := schema.NewStore()
	r := render.New(render.WithMessages(store.Messages()))

	_, err := r.RenderKey(store, "missing", "es")
	if !errors.Is(err, model.ErrDefinitionMissing) || !model.IsConfigError(err) {
		t.Fatalf("expected missing definition, got %v", err)
	}
}
