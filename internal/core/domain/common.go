package domain

// AuditFields holds the audit stamp the ERP expects on every exchange-rate row.
type AuditFields struct {
	User      string `json:"user"`      // PXUSER
	ProgramID string `json:"programID"` // PXPID
	JobName   string `json:"jobName"`   // PXJOBN
	TimeOfDay int    `json:"timeOfDay"` // PXTDAY, HHMMSS
}
