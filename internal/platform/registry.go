package platform

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable lookup table of platform profiles keyed by code.
// Built once at process start; reads are safe for concurrent use.
type Registry struct {
	profiles map[string]Profile
}

type profilesFile struct {
	Platforms []Profile `yaml:"platforms"`
}

// NewRegistry builds a registry from path. An empty path yields the compiled-in
// defaults for the major platforms.
func NewRegistry(path string) (*Registry, error) {
	if path == "" {
		return newRegistry(defaultProfiles()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform profiles: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse platform profiles: %w", err)
	}
	if len(file.Platforms) == 0 {
		return nil, fmt.Errorf("platform profiles file %s defines no platforms", path)
	}

	for _, p := range file.Platforms {
		if p.Code == "" {
			return nil, fmt.Errorf("platform profile with empty code in %s", path)
		}
	}

	return newRegistry(file.Platforms), nil
}

func newRegistry(profiles []Profile) *Registry {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[strings.ToLower(p.Code)] = p
	}
	return &Registry{profiles: m}
}

// Get looks up a profile by platform code, case-insensitively
func (r *Registry) Get(code string) (Profile, bool) {
	p, ok := r.profiles[strings.ToLower(code)]
	return p, ok
}

// Codes returns the registered platform codes
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.profiles))
	for code := range r.profiles {
		codes = append(codes, code)
	}
	return codes
}

// defaultProfiles covers the three platforms most merchants run on
func defaultProfiles() []Profile {
	return []Profile{
		{
			Code:             "yemeksepeti",
			Name:             "Yemeksepeti",
			Tone:             "formal",
			MaxLength:        3000,
			RequiredElements: []string{"order_reference", "timeline", "evidence_summary", "requested_outcome"},
			EvidenceWeights: map[string]float64{
				"photos":          0.9,
				"delivery_timing": 0.8,
				"order_history":   0.6,
				"notes":           0.4,
			},
			ResponseSLAHours: 48,
			SuccessRate:      0.62,
		},
		{
			Code:             "getir",
			Name:             "Getir",
			Tone:             "concise",
			MaxLength:        1500,
			RequiredElements: []string{"order_reference", "evidence_summary", "requested_outcome"},
			EvidenceWeights: map[string]float64{
				"delivery_timing": 0.9,
				"photos":          0.7,
				"order_history":   0.5,
				"notes":           0.3,
			},
			ResponseSLAHours: 24,
			SuccessRate:      0.55,
		},
		{
			Code:             "trendyol",
			Name:             "Trendyol Yemek",
			Tone:             "professional",
			MaxLength:        2500,
			RequiredElements: []string{"order_reference", "timeline", "policy_reference", "evidence_summary", "requested_outcome"},
			EvidenceWeights: map[string]float64{
				"photos":          0.8,
				"order_history":   0.8,
				"delivery_timing": 0.7,
				"notes":           0.5,
			},
			ResponseSLAHours: 72,
			SuccessRate:      0.58,
		},
	}
}
