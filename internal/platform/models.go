package platform

// Profile is static per-platform reference data used to tune generated
// disputes. Populated from configuration at start, never derived from claims.
type Profile struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`

	// Tone is the register the platform's review teams respond to best
	Tone      string `json:"tone" yaml:"tone"`
	MaxLength int    `json:"max_length" yaml:"max_length"` // Characters; 0 means unlimited

	// RequiredElements are narrative sections the platform expects in an objection
	RequiredElements []string `json:"required_elements" yaml:"required_elements"`

	// EvidenceWeights ranks evidence kinds by how much the platform values them
	EvidenceWeights map[string]float64 `json:"evidence_weights" yaml:"evidence_weights"`

	ResponseSLAHours int     `json:"response_sla_hours" yaml:"response_sla_hours"`
	SuccessRate      float64 `json:"success_rate" yaml:"success_rate"` // Historical dispute win rate, 0..1
}
