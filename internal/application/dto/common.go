package dto

// ErrorResponse cuerpo de error HTTP. Error repite Message para los clientes que leen "error".
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}
