// Package onboarding drives the three-step profile setup flow: identity,
// phone, then an optional avatar. Each step is validated on its own when the
// user advances; nothing is sent to the server until the final submit.
package onboarding

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/NoelOsiro/tuma-task-api/pkg/client"
)

type Step int

const (
	StepIdentity Step = iota
	StepPhone
	StepAvatar
)

var (
	ErrFullNameRequired = errors.New("onboarding: full name is required")
	ErrPhoneRequired    = errors.New("onboarding: phone is required")
	ErrAtFirstStep      = errors.New("onboarding: already at the first step")
	ErrAtLastStep       = errors.New("onboarding: already at the last step")
)

// Avatar is the optional step-three payload.
type Avatar struct {
	Filename string
	Content  []byte
}

type Wizard struct {
	api Client

	step     Step
	fullName string
	phone    string
	avatar   *Avatar
}

// Client is the slice of the profile API the wizard drives; pkg/client.Client
// satisfies it.
type Client interface {
	UploadAvatar(ctx context.Context, filename string, content io.Reader) (*client.AvatarUpload, error)
	CompleteOnboarding(ctx context.Context, req client.OnboardingRequest) (*client.Profile, error)
}

func New(api Client) *Wizard {
	return &Wizard{api: api}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) SetFullName(name string) { w.fullName = name }
func (w *Wizard) SetPhone(phone string)   { w.phone = phone }
func (w *Wizard) SetAvatar(a *Avatar)     { w.avatar = a }

// validateStep checks only the given step; later steps stay untouched until
// the user reaches them.
func (w *Wizard) validateStep(step Step) error {
	switch step {
	case StepIdentity:
		if strings.TrimSpace(w.fullName) == "" {
			return ErrFullNameRequired
		}
	case StepPhone:
		if strings.TrimSpace(w.phone) == "" {
			return ErrPhoneRequired
		}
	case StepAvatar:
		// Avatar is optional.
	}
	return nil
}

// Next validates the current step and advances by exactly one. A failed
// validation leaves the active step unchanged.
func (w *Wizard) Next() error {
	if w.step >= StepAvatar {
		return ErrAtLastStep
	}
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

func (w *Wizard) Back() error {
	if w.step <= StepIdentity {
		return ErrAtFirstStep
	}
	w.step--
	return nil
}

// Submit validates every step, uploads the avatar when one was chosen, and
// then marks onboarding complete with the collected profile fields. A failure
// in either remote call aborts the whole submission; no partial completion is
// recorded.
func (w *Wizard) Submit(ctx context.Context) (*client.Profile, error) {
	for step := StepIdentity; step <= StepAvatar; step++ {
		if err := w.validateStep(step); err != nil {
			return nil, err
		}
	}

	var avatarPath string
	if w.avatar != nil {
		upload, err := w.api.UploadAvatar(ctx, w.avatar.Filename, bytes.NewReader(w.avatar.Content))
		if err != nil {
			return nil, err
		}
		avatarPath = upload.Path
	}

	return w.api.CompleteOnboarding(ctx, client.OnboardingRequest{
		Onboarding: true,
		FullName:   w.fullName,
		Phone:      w.phone,
		AvatarPath: avatarPath,
	})
}
