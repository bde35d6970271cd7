package domain

import (
	"regexp"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	// CLOSED and REOPENED exist in stored data but no transition produces
	// them; they are kept for parity with legacy records.
	TicketStatusClosed   TicketStatus = "CLOSED"
	TicketStatusReopened TicketStatus = "REOPENED"
)

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusResolved, TicketStatusClosed, TicketStatusReopened:
		return true
	}
	return false
}

// TicketPriority enumerates triage urgency, set at assignment time.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// ValidPriority reports whether p is a member of the priority enum.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Locations is the fixed set of work sites a requester may select.
var Locations = []string{"MSPL", "MPPL", "MFPL", "Capital-A"}

// ValidLocation reports whether loc is one of the known work sites.
func ValidLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// ITStaff is the fixed set of staff usernames tickets may be assigned to.
var ITStaff = []string{"staff-a", "staff-b"}

// ValidStaff reports whether username belongs to the staff directory.
func ValidStaff(username string) bool {
	for _, s := range ITStaff {
		if s == username {
			return true
		}
	}
	return false
}

// TicketIDPattern is the wire-visible ticket identifier format, e.g. IT2025-0012.
var TicketIDPattern = regexp.MustCompile(`^IT\d{4}-\d{4}$`)

// ValidTicketID reports whether id matches the public ticket identifier format.
func ValidTicketID(id string) bool {
	return TicketIDPattern.MatchString(id)
}

// Attachment describes one uploaded image hosted by the upload provider.
type Attachment struct {
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Ticket is the aggregate for support requests.
//
// Requester fields are immutable after creation. Lifecycle fields change
// only through the defined transitions: AssignedTo and Priority are nil
// while OPEN and non-nil from ASSIGNED onward; Resolution, ResolutionDate
// and ResolvedBy are nil until RESOLVED and fixed afterwards.
type Ticket struct {
	ID       string
	TicketID string

	Name        string
	EmployeeID  string
	Email       string
	Location    string
	IssueDesc   string
	Attachments []Attachment

	Status         TicketStatus
	AssignedTo     *string
	Priority       *TicketPriority
	Resolution     *string
	ResolutionDate *time.Time
	ResolvedBy     *string

	// Feedback fields are persisted at creation for parity with legacy
	// documents; no flow writes them after that.
	UserFeedback string
	FeedbackFlag bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
