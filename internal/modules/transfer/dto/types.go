package dto

// Format is "json", "yaml" or empty to pick by file extension.
type ExportInput struct {
	Path   string
	Format string
}

type ExportOutput struct {
	Path   string
	Format string
	Count  int
}

type ImportInput struct {
	Path   string
	Format string
	DryRun bool
}

type ImportOutput struct {
	Total      int
	Imported   int
	Duplicates int
	Malformed  int
	Problems   []string
	DryRun     bool
}
