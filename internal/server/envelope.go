package server

// Envelope is the JSON body of every response. Failures carry only
// is_success; the health check carries no data.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email,omitempty"`
	Data          any    `json:"data,omitempty"`
}

func failure() Envelope {
	return Envelope{IsSuccess: false}
}
