package tui

// Theme carries message prefixes applied to Info output.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	IssuePrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	ErrorPrefix: "error: ",
	IssuePrefix: "! ",
}

// Option configures the terminal editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithPageSize sets how many options select prompts show at once.
func WithPageSize(size int) Option {
	return func(e *Editor) {
		if size > 0 {
			e.pageSize = size
		}
	}
}

// WithExitOnSubmit ends Run after the first successful submission.
func WithExitOnSubmit() Option {
	return func(e *Editor) {
		e.exitOnSubmit = true
	}
}

// WithPreviewAfterEdit prints the preview after every successful mutation.
func WithPreviewAfterEdit() Option {
	return func(e *Editor) {
		e.previewAfterEdit = true
	}
}
