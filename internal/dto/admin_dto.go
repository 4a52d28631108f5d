package dto

// CategoryCreateDTO is for admin category management.
type CategoryCreateDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// SchemeRowDTO is one marking-scheme entry inside an exam create/update payload.
type SchemeRowDTO struct {
	QuestionID    uint    `json:"question_id" binding:"required"`
	Marks         float64 `json:"marks" binding:"required,gt=0"`
	NegativeMarks float64 `json:"negative_marks" binding:"min=0"`
	OrderInExam   int     `json:"order_in_exam" binding:"required,min=1"`
}

// ExamCreateDTO is for admin to create an exam together with its marking scheme.
type ExamCreateDTO struct {
	CategoryID      uint           `json:"category_id" binding:"required"`
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description"`
	DurationMinutes int            `json:"duration_minutes" binding:"required,gt=0"`
	PriceCredits    int            `json:"price_credits" binding:"min=0"`
	IsFree          bool           `json:"is_free"`
	Active          *bool          `json:"active"`
	Questions       []SchemeRowDTO `json:"questions" binding:"omitempty,dive"`
}

// QuestionCreateDTO is for admin question-bank management.
type QuestionCreateDTO struct {
	Text          string  `json:"text" binding:"required"`
	OptionA       string  `json:"option_a" binding:"required"`
	OptionB       string  `json:"option_b" binding:"required"`
	OptionC       string  `json:"option_c" binding:"required"`
	OptionD       string  `json:"option_d" binding:"required"`
	CorrectOption string  `json:"correct_option" binding:"required,oneof=A B C D"`
	Explanation   *string `json:"explanation"`
	Subject       string  `json:"subject"`
}

// ManualCreditDTO is for admin add/deduct of a user's credits.
type ManualCreditDTO struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Credits int    `json:"credits" binding:"required"`
	Note    string `json:"note"`
}
