package tui

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling fill logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme marks errors and successes with plain ASCII prefixes.
var DefaultTheme = Theme{
	InfoPrefix:    "",
	ErrorPrefix:   "! ",
	SuccessPrefix: "* ",
}

const defaultMaxAttempts = 3

// Option configures the Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver used by the filler.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithMaxAttempts bounds how often an invalid field is asked again.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithConfirm asks for confirmation before submitting.
func WithConfirm(confirm bool) Option {
	return func(f *Filler) {
		f.confirm = confirm
	}
}
