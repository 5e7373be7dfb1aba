package types

// LogConfig holds settings for the slog logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format selects the handler: text (default) or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File, when set, sends log output to a rotating file instead of stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// ParseConfig holds settings shared by every command that reads a transcript.
type ParseConfig struct {
	// Match selects role-label strictness: exact or prefix.
	Match MatchMode `json:"match" yaml:"match" mapstructure:"match"`
}

// HTMLStyle selects one of the built-in page designs.
type HTMLStyle string

const (
	// StyleScreen renders chat bubbles for on-screen reading.
	StyleScreen HTMLStyle = "screen"
	// StylePrint renders flat labelled blocks suited to paged output.
	StylePrint HTMLStyle = "print"
)

// HTMLConfig holds settings for the html command.
type HTMLConfig struct {
	ParseConfig `yaml:",inline" mapstructure:",squash"`

	InputPath  string    `json:"input_path" yaml:"input_path"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	Style      HTMLStyle `json:"style" yaml:"style" mapstructure:"style"`
}

// PDFConfig holds settings for the pdf command.
type PDFConfig struct {
	ParseConfig `yaml:",inline" mapstructure:",squash"`

	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Image is the container image that turns HTML on stdin into PDF on
	// stdout (default "weasyprint:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Args are passed to the container after the image name (default "- -").
	Args []string `json:"args" yaml:"args" mapstructure:"args"`
}

// FilterConfig holds settings for the filter command.
type FilterConfig struct {
	ParseConfig `yaml:",inline" mapstructure:",squash"`

	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`
	TargetRole Role   `json:"target_role" yaml:"target_role"`
}

// SummarizeConfig holds settings for the summarize command.
type SummarizeConfig struct {
	ParseConfig `yaml:",inline" mapstructure:",squash"`

	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`

	// MaxSentences is how many leading sentences of each assistant
	// message are kept (default 3).
	MaxSentences int `json:"max_sentences" yaml:"max_sentences" mapstructure:"max_sentences"`
}

// ScrapeConfig holds settings for the scrape command.
type ScrapeConfig struct {
	// Source is a local HTML file or an http(s) URL. Empty means the first
	// .html file in the working directory.
	Source     string `json:"source" yaml:"source"`
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Role is the value of data-message-author-role to collect (default "assistant").
	Role string `json:"role" yaml:"role" mapstructure:"role"`
}

// ArchiveConfig holds settings for the archive commands.
type ArchiveConfig struct {
	ParseConfig `yaml:",inline" mapstructure:",squash"`

	// Dir is the directory holding transcripts.db (default "archive").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
