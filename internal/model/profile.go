package model

import (
	"fmt"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// MedicalProfile carries the health-related tag sets attached to both users
// and recipes. Every tag is drawn from a closed enumeration; the sentinel
// "none" is valid here but excluded from graph propagation.
type MedicalProfile struct {
	ChronicDiseases    []string `json:"chronic_diseases"`
	DietaryPreferences []string `json:"dietary_preferences"`
	Allergies          []string `json:"allergies"`
}

// Validate checks every tag against its enumeration.
func (p MedicalProfile) Validate() error {
	for _, t := range p.ChronicDiseases {
		if !IsChronicDisease(t) {
			return types.NewError(types.ENTITY_INVALID,
				fmt.Sprintf("unknown chronic disease tag: %q", t))
		}
	}
	for _, t := range p.DietaryPreferences {
		if !IsDietaryPreference(t) {
			return types.NewError(types.ENTITY_INVALID,
				fmt.Sprintf("unknown dietary preference tag: %q", t))
		}
	}
	for _, t := range p.Allergies {
		if !IsAllergy(t) {
			return types.NewError(types.ENTITY_INVALID,
				fmt.Sprintf("unknown allergy tag: %q", t))
		}
	}
	return nil
}

// ActiveChronicDiseases returns the chronic-disease tags with "none" removed.
func (p MedicalProfile) ActiveChronicDiseases() []string {
	return withoutNone(p.ChronicDiseases)
}

// ActiveDietaryPreferences returns the dietary-preference tags with "none" removed.
func (p MedicalProfile) ActiveDietaryPreferences() []string {
	return withoutNone(p.DietaryPreferences)
}

// ActiveAllergies returns the allergy tags with "none" removed.
func (p MedicalProfile) ActiveAllergies() []string {
	return withoutNone(p.Allergies)
}

func withoutNone(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != TagNone && t != "" {
			out = append(out, t)
		}
	}
	return out
}
