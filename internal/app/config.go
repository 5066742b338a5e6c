package app

// Config holds runtime configuration for one batch run.
type Config struct {
	// Dir is the directory scanned for <basename>.pdf / <basename>.html
	// pairs; per-pair reports are written alongside the inputs.
	Dir string

	// Batch report output: Format is one of csv, markdown, json, all.
	// csv means per-pair reports only. OutDir defaults to Dir.
	Format string
	OutDir string

	// Normalization policy
	CaseFold       bool
	StripPunct     bool
	StripArtifacts bool

	// Optional LLM review pass; enabled when Model is set.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	Verbose bool
}
