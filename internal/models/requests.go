package models

// RegisterRequest creates an account. Timezone and week start fall back to
// the product defaults when omitted.
type RegisterRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Color     string `json:"color"`
	Timezone  string `json:"timezone"`
	WeekStart string `json:"weekStart"`
}

// LoginRequest exchanges credentials for a bearer token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateHabitRequest is the POST /habits body. Defaults: period=day,
// unit=count, visibility=private, active=true.
type CreateHabitRequest struct {
	Name            string  `json:"name"`
	Emoji           *string `json:"emoji"`
	Type            string  `json:"type"`
	Target          float64 `json:"target"`
	Period          string  `json:"period"`
	Unit            string  `json:"unit"`
	UnitLabel       *string `json:"unitLabel"`
	Visibility      string  `json:"visibility"`
	TemplateKey     *string `json:"templateKey"`
	ScheduleDowMask *int    `json:"scheduleDowMask"`
}

// UpdateHabitRequest is the PATCH /habits/:id body. Nil fields are left
// untouched. Archival is Active=false; there is no delete.
type UpdateHabitRequest struct {
	Name       *string  `json:"name"`
	Emoji      *string  `json:"emoji"`
	Target     *float64 `json:"target"`
	Period     *string  `json:"period"`
	Unit       *string  `json:"unit"`
	UnitLabel  *string  `json:"unitLabel"`
	Active     *bool    `json:"active"`
	Visibility *string  `json:"visibility"`
}

// CreateEventRequest is the POST /habits/:id/events body. TsClient defaults
// to now; Value defaults to 1. ClientID is an optional idempotency token:
// re-logging with the same ClientID returns the original event.
type CreateEventRequest struct {
	Value    *float64 `json:"value"`
	Note     *string  `json:"note"`
	TsClient *string  `json:"tsClient"`
	ClientID *string  `json:"clientId"`
}

// VoidEventRequest is the POST /events/:id/void body.
type VoidEventRequest struct {
	Reason string `json:"reason"`
}

// CreateHouseholdRequest creates a household with the caller as first member.
type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

// JoinHouseholdRequest joins the caller to a household by its invite code.
type JoinHouseholdRequest struct {
	InviteCode string `json:"inviteCode"`
}

// AddMemberRequest adds an existing user to the caller's household by email.
type AddMemberRequest struct {
	Email string `json:"email"`
}
