package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ServedQuestionDTO is a question as served inside an attempt: options only,
// correct answer and explanation withheld.
type ServedQuestionDTO struct {
	ID            uint    `json:"id"`
	Text          string  `json:"text"`
	OptionA       string  `json:"option_a"`
	OptionB       string  `json:"option_b"`
	OptionC       string  `json:"option_c"`
	OptionD       string  `json:"option_d"`
	Marks         float64 `json:"marks"`
	NegativeMarks float64 `json:"negative_marks"`
	Order         int     `json:"order"`
}

type AttemptStartResponse struct {
	AttemptID       uint                `json:"attempt_id"`
	ExamID          uint                `json:"exam_id"`
	ExamTitle       string              `json:"exam_title"`
	DurationMinutes int                 `json:"duration_minutes"`
	Status          string              `json:"status"`
	StartedAt       time.Time           `json:"started_at"`
	Questions       []ServedQuestionDTO `json:"questions"`
}

// AttemptResultResponse is the aggregate summary returned by submission.
type AttemptResultResponse struct {
	AttemptID      uint    `json:"attempt_id"`
	TotalMarks     float64 `json:"total_marks"`
	Percentage     float64 `json:"percentage"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	TimeSpent      int     `json:"time_spent"`
	Status         string  `json:"status"`
}

type AnswerOutcomeDTO struct {
	QuestionID       uint    `json:"question_id"`
	QuestionText     string  `json:"question_text,omitempty"`
	SelectedOption   *string `json:"selected_option,omitempty"`
	CorrectOption    string  `json:"correct_option,omitempty"`
	IsCorrect        *bool   `json:"is_correct,omitempty"`
	MarksObtained    float64 `json:"marks_obtained"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
	Explanation      *string `json:"explanation,omitempty"`
}

type AttemptDetailResponse struct {
	AttemptID  uint               `json:"attempt_id"`
	ExamID     uint               `json:"exam_id"`
	ExamTitle  string             `json:"exam_title,omitempty"`
	Status     string             `json:"status"`
	StartedAt  time.Time          `json:"started_at"`
	EndedAt    *time.Time         `json:"ended_at,omitempty"`
	TotalMarks *float64           `json:"total_marks,omitempty"`
	Percentage *float64           `json:"percentage,omitempty"`
	Answers    []AnswerOutcomeDTO `json:"answers,omitempty"`
}

type AttemptSummaryResponse struct {
	AttemptID  uint       `json:"attempt_id"`
	ExamID     uint       `json:"exam_id"`
	ExamTitle  string     `json:"exam_title,omitempty"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	TotalMarks *float64   `json:"total_marks,omitempty"`
	Percentage *float64   `json:"percentage,omitempty"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type ExamSummaryResponse struct {
	ID              uint      `json:"id"`
	CategoryID      uint      `json:"category_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCredits    int       `json:"price_credits"`
	IsFree          bool      `json:"is_free"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProfileResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}

type TransactionResponse struct {
	ID               uint      `json:"id"`
	Type             string    `json:"type"`
	Amount           float64   `json:"amount"`
	Credits          int       `json:"credits"`
	Status           string    `json:"status"`
	Gateway          string    `json:"gateway,omitempty"`
	GatewayOrderID   *string   `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string   `json:"gateway_payment_id,omitempty"`
	ReceiptID        string    `json:"receipt_id"`
	CreatedAt        time.Time `json:"created_at"`
}
