package field

// DefaultTextRows is the row count of text fields without a local rows option.
const DefaultTextRows = 3

// Defaults holds default option values applied by kind handlers. It is
// read-only during a build.
type Defaults struct {
	Text TextDefaults `json:"text" yaml:"text" koanf:"text"`
}

// TextDefaults holds text field defaults.
type TextDefaults struct {
	Rows int `json:"rows" yaml:"rows" koanf:"rows" validate:"omitempty,gte=1"`
}

// DefaultFieldDefaults returns the built-in defaults.
func DefaultFieldDefaults() Defaults {
	return Defaults{Text: TextDefaults{Rows: DefaultTextRows}}
}
