package domain

// Message is a contact-form submission. The fields are free text and never validated.
type Message struct {
	Document
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
