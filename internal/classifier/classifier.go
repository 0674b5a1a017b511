// Package classifier scores intent strings with a small feed-forward network
// loaded from an immutable snapshot.
package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/intentgate/internal/encoder"
	"github.com/ppiankov/intentgate/internal/model"
)

// Classifier is a compiled snapshot. It is immutable and safe for
// concurrent use.
type Classifier struct {
	version   string
	threshold float64
	enc       *encoder.Encoder
	layers    []dense
}

type dense struct {
	weights [][]float64 // one row per unit
	bias    []float64
	act     func(float64) float64
}

// Load reads and compiles the named snapshot. See ReadSnapshot for lookup
// order. Every failure wraps model.ErrModelLoad.
func Load(name, dir string) (*Classifier, error) {
	snap, err := ReadSnapshot(name, dir)
	if err != nil {
		return nil, err
	}
	return Compile(snap)
}

// Compile validates a snapshot and builds its dense layers.
func Compile(snap *Snapshot) (*Classifier, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", model.ErrModelLoad)
	}
	if len(snap.Layers) == 0 {
		return nil, fmt.Errorf("%w: snapshot %q has no layers", model.ErrModelLoad, snap.Version)
	}

	threshold := snap.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", model.ErrModelLoad, threshold)
	}

	enc := encoder.New(snap.Encoder)
	inputs := enc.FeatureNames()

	c := &Classifier{
		version:   snap.Version,
		threshold: threshold,
		enc:       enc,
	}

	last := len(snap.Layers) - 1
	for li, layer := range snap.Layers {
		if len(layer.Units) == 0 {
			return nil, fmt.Errorf("%w: layer %d has no units", model.ErrModelLoad, li)
		}

		actName := layer.Activation
		if actName == "" {
			actName = "relu"
			if li == last {
				actName = "sigmoid"
			}
		}
		act, ok := activations[actName]
		if !ok {
			return nil, fmt.Errorf("%w: layer %d: unknown activation %q", model.ErrModelLoad, li, actName)
		}

		index := make(map[string]int, len(inputs))
		for i, n := range inputs {
			index[n] = i
		}

		d := dense{act: act}
		names := make([]string, 0, len(layer.Units))
		seen := make(map[string]bool, len(layer.Units))
		for ui, u := range layer.Units {
			name := u.Name
			if name == "" {
				name = fmt.Sprintf("l%d_u%d", li, ui)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: layer %d: duplicate unit %q", model.ErrModelLoad, li, name)
			}
			seen[name] = true

			row := make([]float64, len(inputs))
			for in, w := range u.Weights {
				i, ok := index[in]
				if !ok {
					return nil, fmt.Errorf("%w: layer %d unit %q: unknown input %q", model.ErrModelLoad, li, name, in)
				}
				row[i] = w
			}
			d.weights = append(d.weights, row)
			d.bias = append(d.bias, u.Bias)
			names = append(names, name)
		}

		c.layers = append(c.layers, d)
		inputs = names
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("%w: output layer must have exactly one unit, has %d", model.ErrModelLoad, len(inputs))
	}
	return c, nil
}

// Version returns the snapshot label, e.g. "acc85.95".
func (c *Classifier) Version() string {
	return c.version
}

// Threshold returns the decision threshold baked into the snapshot.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Encoder returns the encoder the snapshot was compiled with.
func (c *Classifier) Encoder() *encoder.Encoder {
	return c.enc
}

// Score encodes text and runs the network. Encoding failures wrap
// model.ErrEncoding; non-finite scores wrap model.ErrInference.
func (c *Classifier) Score(text string) (float64, error) {
	v, err := c.enc.Encode(text)
	if err != nil {
		return 0, err
	}

	x := []float64(v)
	for _, d := range c.layers {
		out := make([]float64, len(d.weights))
		for u, row := range d.weights {
			sum := d.bias[u]
			for i, w := range row {
				if w != 0 {
					sum += w * x[i]
				}
			}
			out[u] = d.act(sum)
		}
		x = out
	}

	score := x[0]
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite score", model.ErrInference)
	}
	return score, nil
}

// Predict reports whether text is a substantive intent. A threshold outside
// (0,1) selects the snapshot threshold. Scoring runs on its own goroutine so
// the caller can abandon it through ctx; an abandoned or failed evaluation
// returns an error wrapping model.ErrInference (or model.ErrEncoding).
func (c *Classifier) Predict(ctx context.Context, text string, threshold float64) (bool, error) {
	if threshold <= 0 || threshold >= 1 {
		threshold = c.threshold
	}

	type result struct {
		score float64
		err   error
	}
	done := make(chan result, 1)
	go func() {
		s, err := c.Score(text)
		done <- result{s, err}
	}()

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %v", model.ErrInference, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return false, r.err
		}
		return r.score > threshold, nil
	}
}

var activations = map[string]func(float64) float64{
	"relu": func(x float64) float64 {
		return math.Max(0, x)
	},
	"sigmoid": func(x float64) float64 {
		return 1 / (1 + math.Exp(-x))
	},
	"tanh":   math.Tanh,
	"linear": func(x float64) float64 { return x },
}
