package models

type MatchRequest struct {
	StyleDescription string `json:"style_description" example:"cinematic and moody"`
}

type CreatePresetRequest struct {
	StyleDescription string `json:"style_description" example:"soft dreamy portrait"`
	// Name is written to crs:Name; defaults to a title derived from the description.
	Name string `json:"name,omitempty" example:"Dreamy Portrait"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
