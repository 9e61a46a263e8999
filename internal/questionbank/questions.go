package questionbank

// Option is one selectable answer. Value is the points it contributes.
type Option struct {
	Label string
	Value int
}

// Question is a single scored multiple-choice question.
type Question struct {
	ID       int
	Text     string
	Options  []Option
	Category Category
}

// MaxOptionValue is the highest value any option contributes to a
// category or overall score.
const MaxOptionValue = 4

// PeakTimeQuestionID identifies the time-of-day preference question
// whose raw answer drives the peak focus hours label.
const PeakTimeQuestionID = 3

// Bank is an ordered, immutable question set.
type Bank struct {
	questions []Question
	byID      map[int]*Question
}

// New builds a Bank from the given questions. Question order is kept.
func New(questions []Question) *Bank {
	b := &Bank{
		questions: questions,
		byID:      make(map[int]*Question, len(questions)),
	}
	for i := range b.questions {
		b.byID[b.questions[i].ID] = &b.questions[i]
	}
	return b
}

// Default returns the built-in focus assessment bank.
func Default() *Bank { return defaultBank }

// Questions returns the questions in presentation order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// At returns the question at position i.
func (b *Bank) At(i int) Question { return b.questions[i] }

// ByID looks up a question by its ID.
func (b *Bank) ByID(id int) (Question, bool) {
	q, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return *q, true
}

// InCategory returns the questions tagged with c, in presentation order.
func (b *Bank) InCategory(c Category) []Question {
	var out []Question
	for _, q := range b.questions {
		if q.Category == c {
			out = append(out, q)
		}
	}
	return out
}

var defaultBank = New(defaultQuestions)

var defaultQuestions = []Question{
	{
		ID:   1,
		Text: "How long can you typically focus on a single task before feeling the need to switch?",
		Options: []Option{
			{"Less than 15 minutes", 1},
			{"15-30 minutes", 2},
			{"30-60 minutes", 3},
			{"More than 60 minutes", 4},
		},
		Category: CategoryAttention,
	},
	{
		ID:   2,
		Text: "How often do you check your phone or other notifications during focused work?",
		Options: []Option{
			{"Every few minutes", 1},
			{"Every 15-30 minutes", 2},
			{"Only during breaks", 3},
			{"I keep devices away during focus time", 4},
		},
		Category: CategoryDistraction,
	},
	{
		ID:   3,
		Text: "What time of day do you feel most mentally alert?",
		Options: []Option{
			{"Early morning (5am-9am)", 3},
			{"Late morning (9am-12pm)", 4},
			{"Afternoon (1pm-5pm)", 3},
			{"Evening (6pm-10pm)", 2},
			{"Late night (after 10pm)", 1},
		},
		Category: CategoryHabits,
	},
	{
		ID:   4,
		Text: "How would you describe your typical work environment?",
		Options: []Option{
			{"Noisy with frequent interruptions", 1},
			{"Somewhat distracting", 2},
			{"Mostly quiet with occasional interruptions", 3},
			{"Controlled environment with minimal distractions", 4},
		},
		Category: CategoryEnvironment,
	},
	{
		ID:   5,
		Text: "How often do you find yourself daydreaming or with your mind wandering during tasks?",
		Options: []Option{
			{"Very frequently (multiple times per hour)", 1},
			{"Frequently (a few times per hour)", 2},
			{"Occasionally (a few times per day)", 3},
			{"Rarely (once a day or less)", 4},
		},
		Category: CategoryCognitive,
	},
	{
		ID:   6,
		Text: "How do you typically react when you receive a notification during focused work?",
		Options: []Option{
			{"Check it immediately", 1},
			{"Feel anxious but try to resist checking", 2},
			{"Usually ignore until a natural break", 3},
			{"I silence all notifications during focus time", 4},
		},
		Category: CategoryDistraction,
	},
	{
		ID:   7,
		Text: "How often do you use techniques like the Pomodoro method or scheduled breaks?",
		Options: []Option{
			{"Never heard of them", 1},
			{"I know about them but rarely use them", 2},
			{"I use them occasionally", 3},
			{"I consistently structure my work with these techniques", 4},
		},
		Category: CategoryHabits,
	},
	{
		ID:   8,
		Text: "After being interrupted, how long does it typically take you to refocus?",
		Options: []Option{
			{"More than 15 minutes", 1},
			{"5-15 minutes", 2},
			{"1-5 minutes", 3},
			{"Less than a minute", 4},
		},
		Category: CategoryAttention,
	},
	{
		ID:   9,
		Text: "How often do you multitask during activities requiring concentration?",
		Options: []Option{
			{"Almost always", 1},
			{"Frequently", 2},
			{"Occasionally", 3},
			{"Rarely or never", 4},
		},
		Category: CategoryCognitive,
	},
	{
		ID:   10,
		Text: "How do you organize your workspace before starting focused work?",
		Options: []Option{
			{"I don't organize it specifically", 1},
			{"Minimal cleanup of immediate distractions", 2},
			{"Organize tools and materials needed for the task", 3},
			{"Methodically prepare environment and remove all distractions", 4},
		},
		Category: CategoryEnvironment,
	},
}
