package models

// ErrorMessageResponse returns the error message response struct written by
// config.ErrorStatus
type ErrorMessageResponse struct {
	Response string `json:"response"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// ValidationErrorResponse carries the field name to error message mapping
// produced when form validation fails
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// OnlineStatusResponse is returned by the online-status toggle
type OnlineStatusResponse struct {
	DriverID       string `json:"driverId"`
	IsOnline       bool   `json:"isOnline"`
	RecordsVisible bool   `json:"recordsVisible"`
}

// AuthResponse is returned after a successful OTP verification
type AuthResponse struct {
	Token    string `json:"token"`
	JWT      string `json:"jwt,omitempty"`
	DriverID string `json:"driverId,omitempty"`
	Name     string `json:"name"`
}
