package fortune

// Reading is one parsed fortune, ready to render.
type Reading struct {
	Fortune string `json:"fortune"`
}

// FortuneRequest carries the non-file multipart form fields. Persona and
// language are advisory: unknown values fall back to defaults instead of
// failing, so validation only rejects garbage input.
type FortuneRequest struct {
	MasterType string `validate:"omitempty,alpha,max=16"`
	Language   string `validate:"omitempty,alpha,max=8"`
}

type FortuneResponse struct {
	Success bool     `json:"success"`
	Fortune *Reading `json:"fortune,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
}
