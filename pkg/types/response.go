package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ActionResult is the flat shape the storefront's AJAX callers expect from
// cart mutations.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
