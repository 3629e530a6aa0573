package score

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

const (
	// GenericKey marks a flat model: its value is the label table itself.
	GenericKey = "generic"
	// InterceptKey holds the base value of a label. It is never a feature.
	InterceptKey = "_intercept"
)

var (
	// ErrInvalidModel is returned when the model document is not a JSON object.
	ErrInvalidModel = errors.New("weight model must be a JSON object")
)

// Feature is one weighted answer statement. Key is normalized.
type Feature struct {
	Key    string  `json:"key" yaml:"key"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// LabelWeights is the linear model of a single label.
type LabelWeights struct {
	Label     string    `json:"label" yaml:"label"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
	Features  []Feature `json:"features" yaml:"features"`
}

// WeightModel is the flattened label table in declaration order.
type WeightModel struct {
	Labels []LabelWeights `json:"labels" yaml:"labels"`
}

// IsEmpty reports whether the model has no labels.
func (m *WeightModel) IsEmpty() bool {
	return m == nil || len(m.Labels) == 0
}

// Find returns the weights of label.
func (m *WeightModel) Find(label string) (LabelWeights, bool) {
	if m == nil {
		return LabelWeights{}, false
	}
	for _, l := range m.Labels {
		if l.Label == label {
			return l, true
		}
	}
	return LabelWeights{}, false
}

// ParseModel parses a weight model document. A top-level "generic" object is
// the flat label table. Otherwise every top-level object is a group of labels
// and the groups are merged in document order, a label defined by a later
// group replacing the earlier definition. Label names are canonicalized.
func ParseModel(b []byte) (*WeightModel, error) {
	if !json.Valid(b) {
		return nil, errors.Wrap(ErrInvalidModel, "malformed JSON")
	}

	if _, dt, _, err := jsonparser.Get(b); err != nil || dt != jsonparser.Object {
		return nil, ErrInvalidModel
	}

	f := newFlattener()

	generic, dt, _, err := jsonparser.Get(b, GenericKey)
	if err == nil && dt == jsonparser.Object {
		if err := f.addGroup(generic); err != nil {
			return nil, errors.Wrap(err, "error parsing generic label table")
		}
		return f.model(), nil
	}

	err = jsonparser.ObjectEach(b, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		if dt != jsonparser.Object {
			slog.Debug("skipping non-object model group", "group", string(key))
			return nil
		}
		if err := f.addGroup(value); err != nil {
			return errors.Wrapf(err, "error parsing group %s", string(key))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "error parsing weight model")
	}

	return f.model(), nil
}

// LoadModel parses b like ParseModel but never fails: a malformed document
// yields an empty model, which scores nothing.
func LoadModel(b []byte) *WeightModel {
	m, err := ParseModel(b)
	if err != nil {
		slog.Warn("ignoring weight model", "error", err)
		return &WeightModel{}
	}

	for _, l := range Unclassified(m) {
		slog.Debug("label not in taxonomy, filed under traits", "label", l)
	}

	return m
}

// Unclassified lists the model labels the taxonomy does not know. They are
// scored under traits, which may hide a misspelled label.
func Unclassified(m *WeightModel) []string {
	out := make([]string, 0)
	if m == nil {
		return out
	}
	for _, l := range m.Labels {
		if _, ok := taxonomy.Lookup(l.Label); !ok {
			out = append(out, l.Label)
		}
	}
	return out
}

// flattener merges label tables keeping the position of the first
// definition and the content of the last.
type flattener struct {
	labels []LabelWeights
	pos    map[string]int
}

func newFlattener() *flattener {
	return &flattener{
		labels: make([]LabelWeights, 0),
		pos:    make(map[string]int),
	}
}

func (f *flattener) addGroup(group []byte) error {
	return jsonparser.ObjectEach(group, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		label := taxonomy.Canonical(string(key))
		if dt != jsonparser.Object {
			slog.Debug("skipping non-object label weights", "label", label)
			return nil
		}

		lw, err := parseLabel(label, value)
		if err != nil {
			return err
		}

		if i, ok := f.pos[label]; ok {
			f.labels[i] = lw
			return nil
		}
		f.pos[label] = len(f.labels)
		f.labels = append(f.labels, lw)
		return nil
	})
}

func (f *flattener) model() *WeightModel {
	return &WeightModel{Labels: f.labels}
}

func parseLabel(label string, b []byte) (LabelWeights, error) {
	lw := LabelWeights{
		Label:    label,
		Features: make([]Feature, 0),
	}
	pos := make(map[string]int)

	err := jsonparser.ObjectEach(b, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		raw := string(key)
		v, ok := number(value, dt)

		if raw == InterceptKey {
			if ok {
				lw.Intercept = v
			} else {
				lw.Intercept = 0
			}
			return nil
		}

		if !ok {
			slog.Debug("ignoring non-numeric feature weight", "label", label, "feature", raw)
			return nil
		}

		if i, seen := pos[raw]; seen {
			lw.Features[i].Weight = v
			return nil
		}
		pos[raw] = len(lw.Features)
		lw.Features = append(lw.Features, Feature{Key: answer.Normalize(raw), Weight: v})
		return nil
	})
	if err != nil {
		return lw, errors.Wrapf(err, "error parsing label %s", label)
	}

	return lw, nil
}

func number(value []byte, dt jsonparser.ValueType) (float64, bool) {
	switch dt {
	case jsonparser.Number:
		v, err := strconv.ParseFloat(string(value), 64)
		if err != nil || !finite(v) {
			return 0, false
		}
		return v, true
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return 0, false
		}
		return answer.ParseNumber(s)
	default:
		return 0, false
	}
}
