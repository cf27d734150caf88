package qna

// Step is what the interview shows next: either a question with 3-4 choices,
// or a terminal marker with no question.
type Step struct {
	Question string   `json:"question,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	IsFinal  bool     `json:"isFinal"`
}

// HistoryItem is one answered turn of the adaptive interview. Sequence order
// is conversation order.
type HistoryItem struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Choices  []string `json:"choices,omitempty"`
}
