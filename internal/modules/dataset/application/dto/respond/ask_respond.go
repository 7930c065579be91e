package respond

// AskEcho mirrors the caller's inputs back in the not-configured response.
type AskEcho struct {
	Question string `json:"question"`
	Table    string `json:"table,omitempty"`
}

// AskTodoRespond is the success-shaped "retrieval not configured" state.
// Missing flags each required credential with true when present, so the
// caller can see exactly which ones are absent.
type AskTodoRespond struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Missing map[string]bool `json:"missing"`
	Echo    AskEcho         `json:"echo"`
}
