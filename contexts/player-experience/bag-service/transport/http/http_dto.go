package httptransport

type RegisterPlayerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	SkillLevel string `json:"skill_level,omitempty"`
}

type RegisterPlayerResponse struct {
	UserID   string `json:"user_id"`
	EventID  string `json:"event_id"`
	QueuedAt string `json:"queued_at"`
	Message  string `json:"message"`
}

type BagCommandRequest struct {
	UserID string `json:"user_id"`
	DiscID string `json:"disc_id"`
}

type BagCommandResponse struct {
	EventID  string `json:"event_id"`
	QueuedAt string `json:"queued_at"`
	Message  string `json:"message"`
}

type DiscSnapshotDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Type         string  `json:"type,omitempty"`
	Speed        float64 `json:"speed"`
	Glide        float64 `json:"glide"`
	Turn         float64 `json:"turn"`
	Fade         float64 `json:"fade"`
	Stability    string  `json:"stability,omitempty"`
	Plastic      string  `json:"plastic,omitempty"`
}

type BagResponse struct {
	UserID    string            `json:"user_id"`
	Discs     []DiscSnapshotDTO `json:"discs"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
