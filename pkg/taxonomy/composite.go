package taxonomy

// Composite names four trait labels plotted on the top, right, bottom and
// left axes of a four-way chart.
type Composite struct {
	Name   string `json:"name" yaml:"name"`
	Top    string `json:"top" yaml:"top"`
	Right  string `json:"right" yaml:"right"`
	Bottom string `json:"bottom" yaml:"bottom"`
	Left   string `json:"left" yaml:"left"`
}

// Labels returns the axis labels in top, right, bottom, left order.
func (c Composite) Labels() []string {
	return []string{c.Top, c.Right, c.Bottom, c.Left}
}

var composites = []Composite{
	{Name: "Outlook", Top: "Certain", Right: "Optimistic", Bottom: "Open / reflective", Left: "Outgoing"},
	{Name: "Decisions", Top: "Analytical", Right: "Collaborative", Bottom: "Intuitive", Left: "Authoritative"},
	{Name: "Innovation", Top: "Persistent", Right: "Tempo", Bottom: "Experimenting", Left: "Risking"},
	{Name: "Communication", Top: "Frank", Right: "Tolerance Of Bluntness", Bottom: "Diplomatic", Left: "Influencing"},
	{Name: "Power", Top: "Assertive", Right: "Wants Capable Leader", Bottom: "Helpful", Left: "Wants Autonomy"},
	{Name: "Motivation", Top: "Self-Motivated", Right: "Cause Motivated", Bottom: "Manages Stress Well", Left: "Wants High Pay"},
	{Name: "Support", Top: "Self-Acceptance", Right: "Wants Recognition", Bottom: "Self-Improvement", Left: "Warmth / empathy"},
	{Name: "Organization", Top: "Organized", Right: "Tolerance Of Structure", Bottom: "Flexible", Left: "Precise"},
	{Name: "Leadership", Top: "Provides Direction", Right: "Enforcing", Bottom: "Planning", Left: "Comfort With Conflict"},
}

// Composites returns the reference composites in declaration order.
func Composites() []Composite {
	out := make([]Composite, len(composites))
	copy(out, composites)
	return out
}

// CompositeByName finds a reference composite by exact name.
func CompositeByName(name string) (Composite, bool) {
	for _, c := range composites {
		if c.Name == name {
			return c, true
		}
	}
	return Composite{}, false
}
