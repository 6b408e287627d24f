package report

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/model"
)

// WriteYAML writes run as a YAML document at path.
func WriteYAML(path string, run *model.Run) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return eris.Wrap(err, "report: marshal run")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return failure.New(failure.KindIO, eris.Wrapf(err, "report: write %s", path))
	}
	return nil
}

// ReadYAML loads a run written by WriteYAML.
func ReadYAML(path string) (*model.Run, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, failure.New(failure.KindIO, eris.Wrapf(err, "report: read %s", path))
	}
	var run model.Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, failure.New(failure.KindParse, eris.Wrapf(err, "report: parse %s", path))
	}
	return &run, nil
}
