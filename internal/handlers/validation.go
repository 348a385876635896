package handlers

import (
	"strings"
	"time"
)

var allowedExperienceLevels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
}

func validateMemberOnboardingRequest(req memberOnboardingRequest) string {
	if strings.TrimSpace(req.AthleteName) == "" {
		return "athlete_name is required"
	}
	currentYear := time.Now().Year()
	if req.BirthYear < currentYear-25 || req.BirthYear > currentYear-4 {
		return "birth_year is out of range for a youth athlete"
	}
	if strings.TrimSpace(req.Position) == "" {
		return "position is required"
	}
	if _, ok := allowedExperienceLevels[req.ExperienceLevel]; !ok {
		return "experience_level must be beginner, intermediate or advanced"
	}
	if len(req.Goals) == 0 {
		return "goals must contain at least one item"
	}
	for _, goal := range req.Goals {
		if strings.TrimSpace(goal) == "" {
			return "goals must not contain empty values"
		}
	}
	return ""
}

func validateCoachOnboardingRequest(req coachOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if strings.TrimSpace(req.Bio) == "" {
		return "bio is required"
	}
	if len(req.Specialties) == 0 {
		return "specialties must contain at least one item"
	}
	for _, specialty := range req.Specialties {
		if strings.TrimSpace(specialty) == "" {
			return "specialties must not contain empty values"
		}
	}
	for _, certification := range req.Certifications {
		if strings.TrimSpace(certification) == "" {
			return "certifications must not contain empty values"
		}
	}
	if req.ExperienceYears < 0 {
		return "experience_years must be 0 or greater"
	}
	return ""
}
