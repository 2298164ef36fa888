package schema_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const contactJSON = `{
  "forms": {
    "contact": {
      "id": "contact-form",
      "action": "/api/contact.json",
      "submitButtonText": "Enviar mensaje",
      "successMessage": "ok",
      "errorMessage": "ko",
      "sections": [{
        "title": "Información Personal",
        "fields": [{
          "id": "name",
          "type": "text",
          "label": "Nombre completo",
          "required": true,
          "validation": {"minLength": 2, "maxLength": 100, "pattern": "^[a-zA-ZÀ-ÿ\\s]+$", "errorMessage": "Solo letras"}
        }]
      }]
    }
  }
}`

func TestParseDocument_JSON(t *testing.T) {
	doc, err := schema.ParseDocument(schema.SourceFromFS("contact.json"), []byte(contactJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form, ok := doc.Form("contact")
	if !ok {
		t.Fatalf("expected contact form")
	}
	field, ok := form.Field("name")
	if !ok {
		t.Fatalf("expected name field")
	}
	if field.Kind != model.KindText || !field.Required {
		t.Fatalf("unexpected field %+v", field)
	}
	if field.Validation == nil || *field.Validation.MinLength != 2 || field.Validation.ErrorMessage != "Solo letras" {
		t.Fatalf("unexpected validation %+v", field.Validation)
	}
}

func TestParseDocument_YAML(t *testing.T) {
	raw, err := os.ReadFile("testdata/forms.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := schema.ParseDocument(schema.SourceFromFile("testdata/forms.yaml"), raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"newsletter"}, doc.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	form, _ := doc.Form("newsletter")
	topics, _ := form.Field("topics")
	want := []model.Option{
		{Value: "tech", Label: "Tecnología"},
		{Value: "design", Label: "Diseño"},
		{Value: "business", Label: "Negocios"},
	}
	if diff := cmp.Diff(want, topics.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_RejectsGarbage(t *testing.T) {
	if _, err := schema.ParseDocument(schema.SourceFromFS("x.yaml"), []byte("forms: [unterminated")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := schema.ParseDocument(schema.SourceFromFS("x.yaml"), []byte("messages: {}\n")); err == nil {
		t.Fatalf("expected error for document without forms")
	}
}

func TestLoadFS_BuildsStoreAndMergesMessages(t *testing.T) {
	yamlRaw, err := os.ReadFile("testdata/forms.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	fsys := fstest.MapFS{
		"forms/contact.json":    {Data: []byte(contactJSON)},
		"forms/newsletter.yaml": {Data: yamlRaw},
		"forms/README.md":       {Data: []byte("ignored")},
	}

	store, err := schema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "newsletter"}, store.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	def, err := store.Definition("contact")
	if err != nil || def.ID != "contact-form" {
		t.Fatalf("expected contact definition, got %v, %v", def, err)
	}
	if got := store.Messages().Catalog("es").Get(messages.KeyRequired); got != "Obligatorio" {
		t.Fatalf("expected merged override, got %q", got)
	}
}

func TestStore_MissingDefinitionIsConfigError(t *testing.T) {
	store := schema.NewStore()
	_, err := store.Definition("contact")
	if !model.IsConfigError(err) || !errors.Is(err, model.ErrDefinitionMissing) {
		t.Fatalf("expected missing-definition config error, got %v", err)
	}
}

func TestStore_RejectsDuplicatesAndInvalidForms(t *testing.T) {
	doc := schema.MustParseDocument(schema.SourceFromFS("a.json"), []byte(contactJSON))
	store, err := schema.StoreFrom(doc)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.Add(schema.MustParseDocument(schema.SourceFromFS("b.json"), []byte(contactJSON))); err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	broken := strings.Replace(contactJSON, `"type": "text"`, `"type": "select"`, 1)
	broken = strings.Replace(broken, `"contact"`, `"other"`, 1)
	err = store.Add(schema.MustParseDocument(schema.SourceFromFS("c.json"), []byte(broken)))
	if !errors.Is(err, model.ErrOptionsMissing) {
		t.Fatalf("expected options-missing error, got %v", err)
	}
}
