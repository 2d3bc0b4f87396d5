package models

import "time"

// Grant roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Admin request states
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AdminGrant is a role document. In the `admins` collection it is keyed by
// user id, in `admins_by_email` by lowercased email address.
type AdminGrant struct {
	ID         string    `json:"id" bson:"_id"`
	Role       string    `json:"role" bson:"role"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	InvitedBy  string    `json:"invitedBy,omitempty" bson:"invitedBy,omitempty"`
	ApprovedBy string    `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// AdminRequest is the one-per-user admin registration request, keyed by the
// requesting user's id. Overwritten on re-submission, never deleted.
type AdminRequest struct {
	UID        string    `json:"uid" bson:"_id"`
	Email      string    `json:"email" bson:"email"`
	FirstName  string    `json:"firstName" bson:"firstName"`
	MiddleName string    `json:"middleName,omitempty" bson:"middleName,omitempty"`
	LastName   string    `json:"lastName" bson:"lastName"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	DOB        string    `json:"dob,omitempty" bson:"dob,omitempty"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	ApprovedBy string    `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt time.Time `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	RejectedBy string    `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	RejectedAt time.Time `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
}
