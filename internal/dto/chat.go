package dto

// ChatRequest is the POST /chat payload.
type ChatRequest struct {
	StudentID string `json:"student_id"`
	Question  string `json:"question"`
}

// ChatResponse carries the advisor answer and the policy sources it was grounded on.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
