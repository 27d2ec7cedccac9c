package dispute

import (
	"time"

	"github.com/google/uuid"
)

// Level is the objection's escalation level. Levels are terminal: one is
// chosen per generation call and documents never transition between them.
type Level string

const (
	LevelLight      Level = "light"
	LevelModerate   Level = "moderate"
	LevelStrong     Level = "strong"
	LevelHard       Level = "hard"
	LevelAggressive Level = "aggressive"
)

// Levels lists all escalation levels in ascending assertiveness
var Levels = []Level{LevelLight, LevelModerate, LevelStrong, LevelHard, LevelAggressive}

// EvidenceRef is one evidence item cited by the objection text
type EvidenceRef struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"` // Platform importance, 0..1
}

// AlternativePreview shows a non-selected level's opening plus usage guidance,
// so a reviewer can compare escalation options before submitting
type AlternativePreview struct {
	Level    Level  `json:"level"`
	Opening  string `json:"opening"`
	Guidance string `json:"guidance"`
}

// Objection is a generated written argument contesting a refund claim
type Objection struct {
	ClaimID  uuid.UUID `json:"claim_id"`
	Platform string    `json:"platform"`

	Level      Level  `json:"level"`
	Text       string `json:"text"`
	Confidence int    `json:"confidence"` // 0-100 estimated chance of success

	EvidenceRefs []EvidenceRef        `json:"evidence_refs"`
	Alternatives []AlternativePreview `json:"alternatives"`

	// Set by platform optimization; zero values when no profile was supplied
	Tone          string `json:"tone,omitempty"`
	LengthWarning bool   `json:"length_warning"`

	GeneratedAt time.Time `json:"generated_at"`
}
