package expiry

// Tier nivel de riesgo derivado de los días hasta el vencimiento.
type Tier string

// Niveles de riesgo, en orden de precedencia.
const (
	TierOverdue    Tier = "overdue"
	TierDueToday   Tier = "due_today"
	TierHighRisk   Tier = "high_risk"
	TierMediumRisk Tier = "medium_risk"
	TierLowRisk    Tier = "low_risk"
	TierOK         Tier = "ok"
)

// Umbrales (en días) de los niveles de riesgo.
const (
	HighRiskMaxDays   = 7
	MediumRiskMaxDays = 15
	LowRiskMaxDays    = 30
)

// Tiers lista ordenada de todos los niveles.
var Tiers = []Tier{TierOverdue, TierDueToday, TierHighRisk, TierMediumRisk, TierLowRisk, TierOK}

var tierLabels = map[Tier]string{
	TierOverdue:    "Vencido",
	TierDueToday:   "Vence hoje",
	TierHighRisk:   "Risco alto",
	TierMediumRisk: "Risco médio",
	TierLowRisk:    "Risco baixo",
	TierOK:         "Em dia",
}

// Label etiqueta pt-BR del nivel.
func (t Tier) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid informa si t es uno de los seis niveles.
func (t Tier) Valid() bool {
	_, ok := tierLabels[t]
	return ok
}

// TierFromOffset clasifica un desplazamiento en días en exactamente un nivel.
func TierFromOffset(offset int) Tier {
	switch {
	case offset < 0:
		return TierOverdue
	case offset == 0:
		return TierDueToday
	case offset <= HighRiskMaxDays:
		return TierHighRisk
	case offset <= MediumRiskMaxDays:
		return TierMediumRisk
	case offset <= LowRiskMaxDays:
		return TierLowRisk
	default:
		return TierOK
	}
}

// LegacyStatus esquema anterior de tres estados, conservado solo para exportaciones legadas.
type LegacyStatus string

// Estados legados (mismo texto que las planillas exportadas antes del esquema de seis niveles).
const (
	LegacyOverdue  LegacyStatus = "Vencido"
	LegacyWithin30 LegacyStatus = "Vence em 30 dias"
	LegacyOK       LegacyStatus = "Ok"
)

// LegacyStatusFromOffset clasifica un desplazamiento con el esquema de tres estados.
func LegacyStatusFromOffset(offset int) LegacyStatus {
	switch {
	case offset < 0:
		return LegacyOverdue
	case offset <= LowRiskMaxDays:
		return LegacyWithin30
	default:
		return LegacyOK
	}
}
