package request

// AskRequest is the body of POST /ask. Table is the logical dataset name;
// empty means search across every table of the tenant.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Table    string `json:"table"`
}
