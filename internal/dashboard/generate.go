// Grafana dashboard rendering for the GreptimeDB tables
package dashboard

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"firefleet-sim/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

func funcMap() template.FuncMap {
	return template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}
}

// tableNames are the GreptimeDB tables the dashboards query.
type tableNames struct {
	TickTable  string
	SweepTable string
}

// Render parses the embedded dashboard templates and writes the rendered
// dashboards to outDir. Table names honour the same environment overrides
// as the writers.
func Render(outDir string) error {
	names, err := fs.Glob(templates, "templates/*.json.tmpl")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data := tableNames{TickTable: telemetry.TickTableName, SweepTable: telemetry.SweepTableName}
	for _, name := range names {
		t, err := template.New(filepath.Base(name)).Funcs(funcMap()).ParseFS(templates, name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(name), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
