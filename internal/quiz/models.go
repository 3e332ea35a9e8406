package quiz

// Course identifies the course a quiz belongs to.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Stub is the minimal record the portal bundle carries for a quiz before
// its content is built.
type Stub struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"` // A, B, C, ...
	Value string `json:"value"`
}

type Question struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correct_option_id,omitempty"`
}

// Content is a fully built quiz. Treat it as immutable once built.
type Content struct {
	QuizID           string     `json:"quiz_id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	Date             string     `json:"date"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	DurationLabel    string     `json:"duration_label"`
	Weight           string     `json:"weight"`
	FocusAreas       []string   `json:"focus_areas"`
	Questions        []Question `json:"questions"`
}

// Question returns the question with the given id.
func (c Content) Question(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// StudentView returns a copy with every correct answer removed.
func (c Content) StudentView() Content {
	out := c
	out.FocusAreas = append([]string(nil), c.FocusAreas...)
	out.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		q.Options = append([]Option(nil), q.Options...)
		q.CorrectOptionID = ""
		out.Questions[i] = q
	}
	return out
}

// Stat is one row of the result summary table.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ResultSummary struct {
	ScorePercent     int      `json:"score_percent"`
	CorrectCount     int      `json:"correct_count"`
	TotalQuestions   int      `json:"total_questions"`
	AnsweredCount    int      `json:"answered_count"`
	TimeSpentMinutes int      `json:"time_spent_minutes"`
	SummaryStats     []Stat   `json:"summary_stats"`
	FocusAreas       []string `json:"focus_areas"`
}
