package contact

// Ack is the body returned for an accepted submission.
type Ack struct {
	Message string `json:"message" doc:"Acknowledgement shown to the submitter" example:"Thanks for reaching out! We'll be in touch within one business day."`
}
