package types

// ErrorResponse is the body rendered by the error middleware. Error extras
// such as remaining, showUpgrade or conflict are merged in at the top level.
type ErrorResponse struct {
	Type      string `json:"type" example:"VALIDATION_ERROR"`
	Message   string `json:"message" example:"Invalid request parameters"`
	Code      string `json:"code" example:"400"`
	ErrorCode string `json:"errorCode,omitempty" example:"invalid_token"`
	Details   string `json:"details,omitempty"`
}
