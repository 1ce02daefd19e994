package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventStaffLoggedIn      EventType = "staff_logged_in"
	EventPlanSubmitted      EventType = "plan_submitted"
	EventPortfolioRefreshed EventType = "portfolio_refreshed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string `json:"username"`
	Branch   string `json:"branch"`
	Role     string `json:"role"`
	Sources  string `json:"sources"`
}

// PlanSubmittedPayload payload.
type PlanSubmittedPayload struct {
	PlanDate string `json:"plan_date"`
	Tasks    int    `json:"tasks"`
	Rows     int    `json:"rows"`
}

// PortfolioRefreshedPayload payload.
type PortfolioRefreshedPayload struct {
	RawRows int `json:"raw_rows"`
}
