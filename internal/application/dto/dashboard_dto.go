package dto

// TierCount cantidad de registros en un nivel de riesgo.
type TierCount struct {
	Tier  string `json:"tier"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardResponse panel de vencimientos de la empresa.
type DashboardResponse struct {
	Today        string           `json:"today"`
	Total        int              `json:"total"`
	WithoutDate  int              `json:"without_date"`
	Tiers        []TierCount      `json:"tiers"`
	LegacyCounts map[string]int   `json:"legacy_counts"`
	Upcoming     []RecordResponse `json:"upcoming"` // ordenados por días restantes
}
