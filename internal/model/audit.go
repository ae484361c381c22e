package model

type AuditAction string

const (
	AuditLogin           AuditAction = "auth.login"
	AuditLogout          AuditAction = "auth.logout"
	AuditRegister        AuditAction = "auth.register"
	AuditResetRequested  AuditAction = "auth.reset_requested"
	AuditResetConsumed   AuditAction = "auth.reset_consumed"
	AuditPasswordChanged AuditAction = "auth.password_changed"
	AuditStaffCreated    AuditAction = "staff.created"
	AuditStaffActivation AuditAction = "staff.activation_changed"
	AuditProfileUpdated  AuditAction = "profile.updated"
	AuditClinicCreated   AuditAction = "clinic.created"
	AuditAppointmentBook AuditAction = "appointment.booked"
)

const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

type AuditActor struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	IP     string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     AuditAction `json:"action"`
	OccurredAt string      `json:"occurred_at"`
	Actor      AuditActor  `json:"actor"`
	Status     string      `json:"status"`
	Resource   string      `json:"resource,omitempty"`
	Detail     any         `json:"detail,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type AuditQuery struct {
	Action   string
	ActorID  string
	Status   string
	Resource string
	From     string
	To       string
	Page     int
	Limit    int
}

type AuditListData struct {
	Items []AuditEntry `json:"items"`
}
