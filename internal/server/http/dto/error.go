package dto

// ErrorResponse carries a machine-readable error message; stock errors also
// include the per-item shortfall breakdown.
type ErrorResponse struct {
	Error      string              `json:"error"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}
