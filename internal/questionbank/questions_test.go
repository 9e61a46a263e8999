package questionbank

import "testing"

func TestDefaultBankShape(t *testing.T) {
	b := Default()
	if b.Len() != 10 {
		t.Fatalf("expected 10 questions, got %d", b.Len())
	}

	seen := make(map[int]bool)
	for i, q := range b.Questions() {
		if q.ID != i+1 {
			t.Errorf("question at %d has ID %d, want %d", i, q.ID, i+1)
		}
		if seen[q.ID] {
			t.Errorf("duplicate question ID %d", q.ID)
		}
		seen[q.ID] = true
		if !q.Category.Valid() {
			t.Errorf("question %d has unknown category %q", q.ID, q.Category)
		}
		if len(q.Options) < 4 {
			t.Errorf("question %d has %d options, want at least 4", q.ID, len(q.Options))
		}
		for _, o := range q.Options {
			if o.Value < 1 || o.Value > MaxOptionValue {
				t.Errorf("question %d option %q has value %d out of range", q.ID, o.Label, o.Value)
			}
		}
	}
}

func TestEveryCategoryHasTwoQuestions(t *testing.T) {
	b := Default()
	for _, c := range AllCategories() {
		if got := len(b.InCategory(c)); got != 2 {
			t.Errorf("category %s: %d questions, want 2", c, got)
		}
	}
}

func TestPeakTimeQuestion(t *testing.T) {
	q, ok := Default().ByID(PeakTimeQuestionID)
	if !ok {
		t.Fatal("peak time question missing")
	}
	if q.Category != CategoryHabits {
		t.Errorf("peak time question category = %s, want habits", q.Category)
	}
	if len(q.Options) != 5 {
		t.Errorf("peak time question has %d options, want 5", len(q.Options))
	}
}

func TestCategoryMeta(t *testing.T) {
	tests := []struct {
		cat   Category
		label string
		color string
	}{
		{CategoryAttention, "Sustained Attention", "#4f46e5"},
		{CategoryDistraction, "Distraction Management", "#ef4444"},
		{CategoryEnvironment, "Environment Optimization", "#10b981"},
		{CategoryHabits, "Focus Habits", "#f59e0b"},
		{CategoryCognitive, "Cognitive Control", "#8b5cf6"},
	}
	for _, tt := range tests {
		if got := tt.cat.Label(); got != tt.label {
			t.Errorf("%s label = %q, want %q", tt.cat, got, tt.label)
		}
		if got := tt.cat.Color(); got != tt.color {
			t.Errorf("%s color = %q, want %q", tt.cat, got, tt.color)
		}
		if tt.cat.Advice() == DefaultAdvice {
			t.Errorf("%s should have specific advice", tt.cat)
		}
	}
}

func TestUnknownCategoryFallsBack(t *testing.T) {
	c := Category("sleep")
	if c.Valid() {
		t.Fatal("expected unknown category to be invalid")
	}
	if c.Color() != FallbackColor {
		t.Errorf("color = %q, want fallback", c.Color())
	}
	if c.Advice() != DefaultAdvice {
		t.Errorf("advice = %q, want default", c.Advice())
	}
	if c.Index() != -1 {
		t.Errorf("index = %d, want -1", c.Index())
	}
}

func TestByIDMissing(t *testing.T) {
	if _, ok := Default().ByID(99); ok {
		t.Error("expected lookup of unknown ID to fail")
	}
}
