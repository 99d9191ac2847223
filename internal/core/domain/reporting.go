package domain

import "time"

// ReportingEdge is a directed "reports to" relation within a tenant. The
// org chart is assumed acyclic; the hierarchy resolver defends against
// violations of that assumption anyway.
type ReportingEdge struct {
	SubordinateID string
	ManagerID     string
	TenantID      string
	CreatedAt     time.Time
}
