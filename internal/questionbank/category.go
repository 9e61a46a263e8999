package questionbank

// Category is one of the five focus dimensions a question measures.
type Category string

const (
	CategoryAttention   Category = "attention"
	CategoryDistraction Category = "distraction"
	CategoryEnvironment Category = "environment"
	CategoryHabits      Category = "habits"
	CategoryCognitive   Category = "cognitive"
)

// AllCategories returns all categories in enumeration order. Every
// tie-break and radial layout in the app follows this order.
func AllCategories() []Category {
	return []Category{
		CategoryAttention,
		CategoryDistraction,
		CategoryEnvironment,
		CategoryHabits,
		CategoryCognitive,
	}
}

// CategoryMeta is the display metadata attached to a category.
type CategoryMeta struct {
	Label  string
	Color  string
	Advice string
}

// FallbackColor is used for nodes whose category is unknown.
const FallbackColor = "#6b7280"

// DefaultAdvice is shown for categories without specific advice.
const DefaultAdvice = "Focus on building consistent routines that support your cognitive strengths."

var categoryMeta = map[Category]CategoryMeta{
	CategoryAttention: {
		Label:  "Sustained Attention",
		Color:  "#4f46e5",
		Advice: "Practice focused work sessions in increasing durations. Start with 25 minutes and gradually build up.",
	},
	CategoryDistraction: {
		Label:  "Distraction Management",
		Color:  "#ef4444",
		Advice: "Use app blockers and notification silencers during focus sessions. Create a digital minimalism routine.",
	},
	CategoryEnvironment: {
		Label:  "Environment Optimization",
		Color:  "#10b981",
		Advice: "Designate a specific focus zone with minimal visual clutter. Use noise-cancelling headphones if needed.",
	},
	CategoryHabits: {
		Label:  "Focus Habits",
		Color:  "#f59e0b",
		Advice: "Implement the Pomodoro Technique or time-blocking to structure your work day.",
	},
	CategoryCognitive: {
		Label:  "Cognitive Control",
		Color:  "#8b5cf6",
		Advice: "Practice mindfulness meditation for 10 minutes daily to strengthen your attentional control.",
	},
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}

// Meta returns the metadata for c. Unknown categories get their raw name
// as label, the fallback color and the default advice.
func (c Category) Meta() CategoryMeta {
	if m, ok := categoryMeta[c]; ok {
		return m
	}
	return CategoryMeta{Label: string(c), Color: FallbackColor, Advice: DefaultAdvice}
}

// Label returns the human-readable name of c.
func (c Category) Label() string { return c.Meta().Label }

// Color returns the hex color of c.
func (c Category) Color() string { return c.Meta().Color }

// Advice returns the improvement advice for c.
func (c Category) Advice() string { return c.Meta().Advice }

// Index returns the position of c in enumeration order, or -1.
func (c Category) Index() int {
	for i, cat := range AllCategories() {
		if cat == c {
			return i
		}
	}
	return -1
}

// ParseCategory converts a string to a Category. The second result is
// false when s does not name a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
