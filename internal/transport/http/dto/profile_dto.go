package dto

import "github.com/NoelOsiro/tuma-task-api/internal/core/ports"

type OnboardingRequest struct {
	Onboarding *bool  `json:"onboarding"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	AvatarPath string `json:"avatar_path"`
}

func (r *OnboardingRequest) ToInput() ports.OnboardingInput {
	// A missing flag means the caller is finishing onboarding.
	onboarding := true
	if r.Onboarding != nil {
		onboarding = *r.Onboarding
	}
	return ports.OnboardingInput{
		Onboarding: onboarding,
		FullName:   r.FullName,
		Phone:      r.Phone,
		AvatarPath: r.AvatarPath,
	}
}

type AvatarUploadResponse struct {
	SignedURL string `json:"signedUrl"`
	Path      string `json:"path"`
}

type SignedAvatarResponse struct {
	SignedURL string `json:"signedUrl"`
	Path      string `json:"path"`
	ExpiresIn int    `json:"expiresIn"`
}
