package model

// SuccessResponse is the standard envelope for 2xx responses.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type VerifyData struct {
	User AuthenticatedUser `json:"user"`
}

type LogoutData struct {
	Status string `json:"status"`
}
