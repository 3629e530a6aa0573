// Package taxonomy holds the fixed label sections, the label alias table and
// the composite indicator definitions.
package taxonomy

import (
	"slices"

	"github.com/mchmarny/hiscore/pkg/answer"
)

// Section groups related labels.
type Section string

const (
	Traits       Section = "traits"
	Expectations Section = "expectations"
	TaskPrefs    Section = "taskPrefs"
	Interests    Section = "interests"
	WorkEnv      Section = "workEnv"
	Behavioral   Section = "behavioral"
	Functions    Section = "functions"
)

// Sections lists every section in display order.
var Sections = []Section{
	Traits,
	Expectations,
	TaskPrefs,
	Interests,
	WorkEnv,
	Behavioral,
	Functions,
}

var labels = map[Section][]string{
	Traits: {
		"Warmth / empathy",
		"Helpful",
		"Cause Motivated",
		"Self-Improvement",
		"Enthusiastic",
		"Open / reflective",
		"Wants Capable Leader",
		"Self-Motivated",
		"Takes Initiative",
		"Wants Recognition",
		"Wants Stable Career",
		"Wants Challenge",
		"Self-Acceptance",
		"Diplomatic",
		"Flexible",
		"Wants Frankness",
		"Tolerance Of Bluntness",
		"Planning",
		"Outgoing",
		"Analyzes Pitfalls",
		"Enlists Cooperation",
		"Wants High Pay",
		"Risking",
		"Wants Autonomy",
		"Organized",
		"Wants To Lead",
		"Optimistic",
		"Persistent",
		"Experimenting",
		"Assertive",
		"Analytical",
		"Manages Stress Well",
		"Systematic",
		"Comfort With Conflict",
		"Tempo",
		"Intuitive",
		"Authoritative",
		"Collaborative",
		"Tolerance Of Structure",
		"Influencing",
		"Frank",
		"Certain",
		"Enforcing",
		"Wants Diplomacy",
		"Relaxed",
		"Precise",
	},
	Expectations: {
		"Wants Advancement",
		"Wants Quick Pay Increases",
		"Wants Opinions Valued",
		"Wants Development",
		"Wants Social Opportunities",
		"Wants Work/Life Balance",
		"Wants Appreciation",
		"Wants Flexible Work Time",
		"Wants Personal Help",
		"Wants To Be Informed",
	},
	TaskPrefs: {
		"Artistic",
		"Manual Work",
		"Public Speaking",
		"Research / learning",
		"Teaching",
		"Driving",
		"Building / making",
		"Clerical",
		"Computers",
		"Numerical",
		"Mechanical",
		"Physical Work",
	},
	Interests: {
		"Selling",
		"Animals",
		"Psychology",
		"Children",
		"Writing / language",
		"Travel",
		"Manufacturing",
		"Legal Matters",
		"Computer Hardware",
		"Biology",
		"Medical Science",
		"Computer Software",
		"Finance / business",
		"Health / medicine",
		"Science",
		"Physical Science",
		"Sports",
		"Electronics",
		"Plants",
		"Food",
		"Entertainment",
	},
	WorkEnv: {
		"Team",
		"Public Contact",
		"Noise",
		"Repetition",
		"Outdoors",
		"Pressure Tolerance",
		"Sitting",
		"Standing",
	},
	Behavioral: {
		"People Oriented",
		"Innovative",
		"Provides Direction",
		"Handles Autonomy",
		"Doesn't Need Structure",
		"Receives Correction",
		"Coaching",
		"Organizational Compatibility",
		"Judgment (strategic)",
		"Handles Conflict",
		"Self-Employed",
		"Interpersonal Skills",
		"Effective Enforcing",
		"Negotiating",
		"Tolerance Of Evasiveness",
	},
	Functions: {
		"Administration - General",
		"Sales - Cold Calling",
		"Management - Upper",
		"Supervisory",
		"Management - Middle",
		"Customer Service - Friendly",
		"Technical",
	},
}

// aliases maps the normalized spelling of legacy or variant label names to
// the canonical trait name.
var aliases = map[string]string{
	"problem solving":        "Analytical",
	"open/reflective":        "Open / reflective",
	"cause motivate":         "Cause Motivated",
	"stress management":      "Manages Stress Well",
	"takes autonomy":         "Wants Autonomy",
	"tolerance of bluntness": "Tolerance Of Bluntness",
	"provides direction":     "Provides Direction",
	"provides leadership":    "Provides Direction",
	"handles conflict":       "Comfort With Conflict",
}

// index is built once from labels and never modified afterwards.
var index = buildIndex()

func buildIndex() map[string]Section {
	m := make(map[string]Section)
	for _, s := range Sections {
		for _, l := range labels[s] {
			if _, ok := m[l]; !ok {
				m[l] = s
			}
		}
	}
	return m
}

// IsValid reports whether s is one of the known sections.
func (s Section) IsValid() bool {
	return slices.Contains(Sections, s)
}

// Lookup returns the section of an exact label name and whether it is known.
func Lookup(label string) (Section, bool) {
	s, ok := index[label]
	return s, ok
}

// SectionOf returns the section of an exact label name. Unknown labels
// belong to traits.
func SectionOf(label string) Section {
	if s, ok := Lookup(label); ok {
		return s
	}
	return Traits
}

// Labels returns a copy of the labels in section s in reference order.
func Labels(s Section) []string {
	return slices.Clone(labels[s])
}

// Canonical maps a label name to its canonical spelling. Names that are
// already known labels are returned unchanged, as are names with no alias.
func Canonical(label string) string {
	if _, ok := index[label]; ok {
		return label
	}
	if c, ok := aliases[answer.Normalize(label)]; ok {
		return c
	}
	return label
}

// Aliases returns a copy of the alias table keyed by normalized name.
func Aliases() map[string]string {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[k] = v
	}
	return m
}
