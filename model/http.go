package model

type TaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type TaskStatusResponse struct {
	TaskID             string  `json:"task_id"`
	Status             string  `json:"status"`
	Error              string  `json:"error,omitempty"`
	MelodyNotes        int     `json:"melody_notes,omitempty"`
	AccompanimentNotes int     `json:"accompaniment_notes,omitempty"`
	Duration           float64 `json:"duration,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
