package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSizes(t *testing.T) {
	want := map[Section]int{
		Traits:       46,
		Expectations: 10,
		TaskPrefs:    12,
		Interests:    21,
		WorkEnv:      8,
		Behavioral:   15,
		Functions:    7,
	}

	require.Len(t, Sections, 7)
	for _, s := range Sections {
		assert.Len(t, Labels(s), want[s], "section %s", s)
		assert.True(t, s.IsValid())
	}
	assert.False(t, Section("other").IsValid())
}

func TestSectionOf(t *testing.T) {
	tests := []struct {
		label string
		want  Section
	}{
		{"Analytical", Traits},
		{"Wants Work/Life Balance", Expectations},
		{"Public Speaking", TaskPrefs},
		{"Animals", Interests},
		{"Outdoors", WorkEnv},
		{"Handles Conflict", Behavioral},
		{"Technical", Functions},
		{"Made Up Label", Traits},
		{"analytical", Traits},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionOf(tt.label))
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("Outdoors")
	assert.True(t, ok)
	assert.Equal(t, WorkEnv, s)

	_, ok = Lookup("outdoors")
	assert.False(t, ok)
}

func TestLabels_Copy(t *testing.T) {
	l := Labels(Functions)
	l[0] = "changed"
	assert.Equal(t, "Administration - General", Labels(Functions)[0])
	assert.Empty(t, Labels(Section("nope")))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Problem Solving", "Analytical"},
		{"  open/reflective ", "Open / reflective"},
		{"Cause Motivate", "Cause Motivated"},
		{"stress management", "Manages Stress Well"},
		{"Takes Autonomy", "Wants Autonomy"},
		{"tolerance of bluntness", "Tolerance Of Bluntness"},
		{"Provides Leadership", "Provides Direction"},
		{"provides direction", "Provides Direction"},
		{"handles conflict", "Comfort With Conflict"},
		// exact known labels keep their own section
		{"Handles Conflict", "Handles Conflict"},
		{"Provides Direction", "Provides Direction"},
		{"Unknown Thing", "Unknown Thing"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestAliases_Copy(t *testing.T) {
	a := Aliases()
	require.Len(t, a, 9)
	a["problem solving"] = "x"
	assert.Equal(t, "Analytical", Canonical("problem solving"))
}

func TestComposites(t *testing.T) {
	list := Composites()
	require.Len(t, list, 9)
	assert.Equal(t, "Outlook", list[0].Name)
	assert.Equal(t, "Leadership", list[8].Name)

	for _, c := range list {
		assert.Len(t, c.Labels(), 4)
	}

	c, ok := CompositeByName("Decisions")
	require.True(t, ok)
	assert.Equal(t, []string{"Analytical", "Collaborative", "Intuitive", "Authoritative"}, c.Labels())

	_, ok = CompositeByName("decisions")
	assert.False(t, ok)
}
