package models

import (
	"time"

	"style-preset-backend/internal/style"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type MatchResponse struct {
	StyleDescription string           `json:"style_description"`
	MatchedStyles    []string         `json:"matched_styles"`
	Parameters       style.Parameters `json:"parameters"`
}

type StylesResponse struct {
	Styles []style.Template `json:"styles"`
}

type GenerateResponse struct {
	ID               string           `json:"id"`
	StyleDescription string           `json:"style_description"`
	MatchedStyles    []string         `json:"matched_styles"`
	Parameters       style.Parameters `json:"parameters"`
	UploadURL        string           `json:"upload_url"`
	PreviewURL       string           `json:"preview_url"`
	PresetURL        string           `json:"preset_url"`
	CreatedAt        time.Time        `json:"created_at"`
}

type FileResponse struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	StyleDescription string    `json:"style_description"`
	MatchedStyles    []string  `json:"matched_styles"`
	UploadURL        string    `json:"upload_url"`
	PreviewURL       string    `json:"preview_url"`
	PresetURL        string    `json:"preset_url"`
	UploadTime       time.Time `json:"upload_time"`
}

type FilesResponse struct {
	Files []FileResponse `json:"files"`
}

type StoredFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type StoredFilesResponse struct {
	Kind  string       `json:"kind"`
	Files []StoredFile `json:"files"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}
