package messages

var builtin = map[string]Catalog{
	"es": {
		KeyRequired:        "Este campo es obligatorio",
		KeySelect:          "Selecciona una opción",
		KeyInvalidEmail:    "Introduce un email válido",
		KeyInvalidNumber:   "Introduce un valor numérico válido",
		KeyMinValue:        "El valor mínimo es",
		KeyMaxValue:        "El valor máximo es",
		KeyMinLength:       "Debe tener al menos",
		KeyMaxLength:       "No debe exceder",
		KeyCharacters:      "caracteres",
		KeyInvalidFormat:   "Formato inválido",
		KeyConnectionError: "Error de conexión. Verifique que el servidor esté funcionando.",
		KeyConnectionRetry: "Error de conexión. Por favor, inténtalo de nuevo.",
		KeyInvalidResponse: "Respuesta inválida",
	},
	"en": {
		KeyRequired:        "This field is required",
		KeySelect:          "Select an option",
		KeyInvalidEmail:    "Enter a valid email",
		KeyInvalidNumber:   "Enter a valid numeric value",
		KeyMinValue:        "Minimum value is",
		KeyMaxValue:        "Maximum value is",
		KeyMinLength:       "Must be at least",
		KeyMaxLength:       "Must not exceed",
		KeyCharacters:      "characters",
		KeyInvalidFormat:   "Invalid format",
		KeyConnectionError: "Connection error. Check that the server is running.",
		KeyConnectionRetry: "Connection error. Please try again.",
		KeyInvalidResponse: "Invalid response",
	},
}
