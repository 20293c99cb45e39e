package domain

import "time"

// InquiryType classifies a contact inquiry.
type InquiryType string

const (
	InquiryGeneral  InquiryType = "General"
	InquirySupport  InquiryType = "Support"
	InquiryFeedback InquiryType = "Feedback"
)

// InquiryTypes lists every inquiry type in display order.
var InquiryTypes = []InquiryType{InquiryGeneral, InquirySupport, InquiryFeedback}

// ContactStatus is the admin-managed state of an inquiry.
type ContactStatus string

const (
	StatusPending  ContactStatus = "pending"
	StatusResolved ContactStatus = "resolved"
)

// Contact is an inquiry submitted through the contact form.
type Contact struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	InquiryType InquiryType   `json:"inquiryType"`
	Subject     string        `json:"subject"`
	Message     string        `json:"message"`
	Status      ContactStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ContactInput is the anonymous submission payload.
type ContactInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Subject     string      `json:"subject"`
	Message     string      `json:"message"`
	InquiryType InquiryType `json:"inquiryType"`
}

// CountPending returns how many inquiries are still pending.
func CountPending(contacts []Contact) int {
	n := 0
	for _, c := range contacts {
		if c.Status == StatusPending {
			n++
		}
	}
	return n
}
