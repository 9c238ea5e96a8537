package models

import "time"

// LoginAudit is one append-only row per successful credential check
// ("sesiones"). Never updated or deleted by the login flow.
type LoginAudit struct {
	ID            string    `json:"id"`
	IP            string    `json:"ip"`
	Timestamp     time.Time `json:"fecha"`
	OperatorLogin string    `json:"operador_id"`
	CompanyID     *int64    `json:"empresa"`
}

// ActiveSession is the mutable record of one in-progress or completed login
// ceremony ("sesiones_activas"). Verification reconciles an operator's rows
// down to the most recent one; logout deletes by token.
type ActiveSession struct {
	ID               int64     `json:"id"`
	OperatorLogin    string    `json:"operador_id"`
	AuditID          string    `json:"sesion_id"`
	RegisteredAt     time.Time `json:"fecha_registro"`
	CompanyID        *int64    `json:"empresa"`
	Token            string    `json:"token"`
	VerificationCode string    `json:"cod_verificacion"`
}
