package models

// PracticeItem is one immutable entry of a content table, identified by a natural key
type PracticeItem interface {
	Key() string
}

// Feedback describes the outcome of a single submitted answer.
// It lives until the next advance or clear.
type Feedback struct {
	IsCorrect     bool   `json:"isCorrect"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Prompt        string `json:"prompt"`
	Explanation   string `json:"explanation,omitempty"`
}

// Completion summarises a finished session for the summary screen
type Completion struct {
	TimeMs         int64 `json:"timeMs"`
	Accuracy       int   `json:"accuracy"`
	ItemCount      int   `json:"itemCount"`
	NewBest        bool  `json:"newBest"`
	TopicCompleted bool  `json:"topicCompleted"`
	// NewlyCompleted lists topic ids whose flag was flipped by this session
	NewlyCompleted []string `json:"newlyCompleted,omitempty"`
}
