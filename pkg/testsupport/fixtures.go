package testsupport

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-formflow/pkg/model"
)

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// FloatPtr returns a pointer to n.
func FloatPtr(n float64) *float64 {
	return &n
}

// NameRule is the letters-and-spaces rule used by the contact form.
func NameRule() *model.ValidationRule {
	return &model.ValidationRule{
		MinLength:    IntPtr(2),
		MaxLength:    IntPtr(100),
		Pattern:      `^[a-zA-ZÀ-ÿ\s]+$`,
		ErrorMessage: "El nombre solo puede contener letras y espacios",
	}
}

// SingleName returns a form with one required text field "name".
func SingleName() *model.FormDefinition {
	return &model.FormDefinition{
		ID:               "name-form",
		Action:           "https://forms.example.test/api/name",
		SubmitButtonText: "Enviar",
		SuccessMessage:   "Enviado",
		ErrorMessage:     "Ha ocurrido un error",
		Sections: []model.Section{{
			Title: "Datos",
			Fields: []model.Field{{
				ID:         "name",
				Kind:       model.KindText,
				Label:      "Nombre",
				Required:   true,
				Validation: NameRule(),
			}},
		}},
	}
}

// Contact returns a contact form covering every field kind.
func Contact() *model.FormDefinition {
	return &model.FormDefinition{
		ID:               "contact-form",
		Name:             "Formulario de Contacto",
		Action:           "https://forms.example.test/api/contact.json",
		Method:           "POST",
		ClassName:        "contact-form",
		SubmitButtonText: "Enviar mensaje",
		SuccessMessage:   "¡Formulario enviado con éxito! Gracias por contactarnos.",
		ErrorMessage:     "Ha ocurrido un error al enviar el formulario. Por favor, inténtalo de nuevo.",
		Sections: []model.Section{
			{
				Title:       "Información Personal",
				Description: "Por favor, completa tus <strong>datos personales</strong>.",
				Fields: []model.Field{
					{ID: "name", Kind: model.KindText, Label: "Tu nombre", Placeholder: "Mario", Required: true, Validation: NameRule()},
					{ID: "email", Kind: model.KindEmail, Label: "Email", Placeholder: "mario@example.com", Required: true},
					{ID: "phone", Kind: model.KindTel, Label: "Teléfono"},
					{ID: "age", Kind: model.KindNumber, Label: "Edad", Min: FloatPtr(18), Max: FloatPtr(120)},
				},
			},
			{
				Title: "Preferencias",
				Fields: []model.Field{
					{ID: "plan", Kind: model.KindSelect, Label: "Plan", Required: true, Options: []model.Option{
						{Value: "free", Label: "Gratis"},
						{Value: "pro", Label: "Pro"},
					}},
					{ID: "contact", Kind: model.KindRadio, Label: "Contacto preferido", Options: []model.Option{
						{Value: "email", Label: "Email"},
						{Value: "phone", Label: "Teléfono"},
					}},
					{ID: "topics", Kind: model.KindCheckbox, Label: "Temas", Options: []model.Option{
						{Value: "tech", Label: "Tecnología"},
						{Value: "design", Label: "Diseño"},
						{Value: "business", Label: "Negocios"},
					}},
					{ID: "message", Kind: model.KindTextarea, Label: "Mensaje", ClassName: "wide", Validation: &model.ValidationRule{
						MinLength: IntPtr(10),
						MaxLength: IntPtr(1000),
					}},
				},
			},
		},
	}
}

// Newsletter returns the newsletter subscription form.
func Newsletter() *model.FormDefinition {
	return &model.FormDefinition{
		ID:               "newsletter-form",
		Name:             "Newsletter",
		Action:           "https://forms.example.test/api/newsletter.json",
		SubmitButtonText: "Suscribirme",
		SuccessMessage:   "¡Gracias por suscribirte!",
		ErrorMessage:     "No pudimos completar la suscripción.",
		Sections: []model.Section{{
			Title: "Suscripción",
			Fields: []model.Field{
				{ID: "newsletter-email", Kind: model.KindEmail, Label: "Email", Required: true},
				{ID: "frequency", Kind: model.KindSelect, Label: "Frecuencia", Required: true, Options: []model.Option{
					{Value: "daily", Label: "Diaria"},
					{Value: "weekly", Label: "Semanal"},
					{Value: "monthly", Label: "Mensual"},
				}},
				{ID: "topics", Kind: model.KindCheckbox, Label: "Temas", Required: true, Options: []model.Option{
					{Value: "tech", Label: "Tecnología"},
					{Value: "design", Label: "Diseño"},
					{Value: "business", Label: "Negocios"},
				}},
			},
		}},
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
