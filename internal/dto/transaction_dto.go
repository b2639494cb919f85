package dto

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	Date   string `form:"date"`                   // YYYY-MM-DD; empty = today
	Status string `form:"status,default=settled"` // settled | pending | all
	Origin string `form:"origin"`                 // pos | web | empty = all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
