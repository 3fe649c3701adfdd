package entities

// RemedyStatusSuccess is the status the remedy service reports on a match.
const RemedyStatusSuccess = "success"

// Remedy is one symptom match returned by the remedy service.
type Remedy struct {
	Symptom     string   `json:"symptom,omitempty"`
	Remedies    []string `json:"remedies"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Precautions string   `json:"precautions"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// RemedyResult is the response envelope of the remedy service.
type RemedyResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    []Remedy `json:"data"`
}

// OK reports whether the service found remedies.
func (r RemedyResult) OK() bool {
	return r.Status == RemedyStatusSuccess
}
