package httptransport

type DiscDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Manufacturer  string  `json:"manufacturer"`
	Type          string  `json:"type"`
	Speed         float64 `json:"speed"`
	Glide         float64 `json:"glide"`
	Turn          float64 `json:"turn"`
	Fade          float64 `json:"fade"`
	Stability     string  `json:"stability"`
	Plastic       string  `json:"plastic,omitempty"`
	FlightNumbers string  `json:"flight_numbers"`
	BeginnerSafe  bool    `json:"beginner_safe"`
}

type DiscListResponse struct {
	Items []DiscDTO `json:"items"`
	Count int       `json:"count"`
}

type CourseDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type CourseListResponse struct {
	Items []CourseDTO `json:"items"`
	Count int         `json:"count"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
