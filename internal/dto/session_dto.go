package dto

type AttachFileRequest struct {
	FilePath string `json:"file_path" validate:"required"`
	FileType string `json:"file_type" validate:"omitempty,oneof=csv json txt md text"`
}

type FileInfoResponse struct {
	SessionId string `json:"session_id"`
	FileType  string `json:"file_type"`
	FilePath  string `json:"file_path"`
	Queued    bool   `json:"queued"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
