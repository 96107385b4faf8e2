package domain

import "time"

// WeeklyReport aggregates stored feedback over one reporting window.
// Built fresh per aggregation run; never mutated afterward.
type WeeklyReport struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	TotalCount      int
	AverageScore    float64
	CountsByDay     map[string]int
	CountsByUrgency map[Urgency]int
	StorageLocation string
}

// ReportDocument is the serialized report shape handed to the report store.
// Field names match the document contract consumed downstream.
type ReportDocument struct {
	PeriodStart     string         `json:"periodo_inicio"`
	PeriodEnd       string         `json:"periodo_fim"`
	TotalCount      int            `json:"total_avaliacoes"`
	AverageScore    float64        `json:"media_avaliacoes"`
	CountsByDay     map[string]int `json:"avaliacoes_por_dia"`
	CountsByUrgency map[string]int `json:"avaliacoes_por_urgencia"`
	GeneratedAt     string         `json:"data_geracao"`
}
