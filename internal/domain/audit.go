package domain

import "time"

// AuditRecord captures one processed request for the persistent audit log.
type AuditRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Message    string    `json:"message"`
	Domains    []string  `json:"domains"`
	Granted    int       `json:"granted"`
	Denied     int       `json:"denied"`
	Errored    int       `json:"errored"`
	TraceSteps int       `json:"trace_steps"`
	Answer     string    `json:"answer"`
}
