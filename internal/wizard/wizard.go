// Package wizard collects the answers for a new .ebikerank.yaml.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/projectconfig"
)

// Answers holds all fields collected during the interactive wizard.
type Answers struct {
	DataFile       string
	Port           int
	OutputDir      string
	AccountURL     string
	EnrichCategory dataset.Category
}

// Defaults returns answers prefilled from cfg.
func Defaults(cfg *projectconfig.ProjectConfig) *Answers {
	return &Answers{
		DataFile:       cfg.Data.File,
		Port:           cfg.Server.Port,
		OutputDir:      cfg.Build.OutputDir,
		AccountURL:     cfg.Publish.AccountURL,
		EnrichCategory: dataset.Category(cfg.Enrich.Category),
	}
}

const configTemplate = `# ebikerank project configuration
data:
  file: {{ quote .DataFile }}
server:
  port: {{ .Port }}
build:
  output_dir: {{ quote .OutputDir }}
{{- if .AccountURL }}
publish:
  account_url: {{ quote .AccountURL }}
{{- end }}
enrich:
  category: {{ .EnrichCategory }}
`

// Run runs an interactive huh form prefilled with defaults.
func Run(in io.Reader, out io.Writer, defaults *Answers) (*Answers, error) {
	var (
		dataFile   = defaults.DataFile
		port       = strconv.Itoa(defaults.Port)
		outputDir  = defaults.OutputDir
		accountURL = defaults.AccountURL
		category   = string(defaults.EnrichCategory)
	)

	var categories []huh.Option[string]
	for _, c := range dataset.ComponentCategories() {
		categories = append(categories, huh.NewOption(c.Label(), string(c)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data file").
				Description("Path of the e-bike data document").
				Placeholder(projectconfig.DefaultDataFile).
				Value(&dataFile).
				Validate(required("data file")),
			huh.NewInput().
				Title("Server port").
				Value(&port).
				Validate(func(s string) error {
					_, err := parsePort(s)
					return err
				}),
			huh.NewInput().
				Title("Build output directory").
				Placeholder(projectconfig.DefaultBuildOutputDir).
				Value(&outputDir).
				Validate(required("output directory")),
			huh.NewInput().
				Title("Storage account URL").
				Description("Blob endpoint for publish (optional)").
				Placeholder("https://<account>.blob.core.windows.net").
				Value(&accountURL),
			huh.NewSelect[string]().
				Title("Category to enrich").
				Options(categories...).
				Value(&category),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	p, err := parsePort(port)
	if err != nil {
		return nil, err
	}
	return &Answers{
		DataFile:       strings.TrimSpace(dataFile),
		Port:           p,
		OutputDir:      strings.TrimSpace(outputDir),
		AccountURL:     strings.TrimSpace(accountURL),
		EnrichCategory: dataset.Category(category),
	}, nil
}

// GenerateConfig renders .ebikerank.yaml from the given answers.
func GenerateConfig(a *Answers) (string, error) {
	tmpl, err := template.New("config").
		Funcs(template.FuncMap{"quote": strconv.Quote}).
		Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, a); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return p, nil
}
