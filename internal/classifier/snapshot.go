package classifier

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/intentgate/internal/encoder"
	"github.com/ppiankov/intentgate/internal/model"
)

// DefaultModel is the snapshot loaded when no model name is configured.
const DefaultModel = "acc85.95"

// DefaultThreshold is the decision threshold used when a snapshot omits one.
const DefaultThreshold = 0.5

//go:embed snapshots/*.yaml
var embedded embed.FS

// validName matches snapshot labels: alphanumerics, dot, dash, underscore.
var validName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Snapshot is the on-disk form of a trained model.
type Snapshot struct {
	Version     string         `yaml:"version"`
	Description string         `yaml:"description,omitempty"`
	Threshold   float64        `yaml:"threshold"`
	Encoder     encoder.Config `yaml:"encoder"`
	Layers      []Layer        `yaml:"layers"`
}

// Layer is one fully connected layer. Units reference their inputs by name:
// encoder feature names for the first layer, unit names of the previous
// layer afterwards. Missing weights are zero.
type Layer struct {
	Activation string `yaml:"activation"`
	Units      []Unit `yaml:"units"`
}

// Unit is a single neuron.
type Unit struct {
	Name    string             `yaml:"name"`
	Bias    float64            `yaml:"bias"`
	Weights map[string]float64 `yaml:"weights"`
}

// ParseSnapshot decodes a YAML snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parse snapshot: %v", model.ErrModelLoad, err)
	}
	return &s, nil
}

// ReadSnapshot locates the snapshot called name. A non-empty dir is searched
// first for <name>.yaml, then the snapshots compiled into the binary.
func ReadSnapshot(name, dir string) (*Snapshot, error) {
	if name == "" {
		name = DefaultModel
	}
	if strings.Contains(name, "..") || !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid model name %q", model.ErrModelLoad, name)
	}

	file := name + ".yaml"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return ParseSnapshot(data)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %v", model.ErrModelLoad, file, err)
		}
	}

	data, err := embedded.ReadFile("snapshots/" + file)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot %q not found", model.ErrModelLoad, name)
	}
	return ParseSnapshot(data)
}

// Available lists the names of the snapshots compiled into the binary.
func Available() []string {
	entries, err := embedded.ReadDir("snapshots")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}
