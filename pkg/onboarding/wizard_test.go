package onboarding

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/NoelOsiro/tuma-task-api/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	uploadFn   func(ctx context.Context, filename string, content io.Reader) (*client.AvatarUpload, error)
	completeFn func(ctx context.Context, req client.OnboardingRequest) (*client.Profile, error)

	uploads     int
	completions int
}

func (f *fakeClient) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*client.AvatarUpload, error) {
	f.uploads++
	return f.uploadFn(ctx, filename, content)
}

func (f *fakeClient) CompleteOnboarding(ctx context.Context, req client.OnboardingRequest) (*client.Profile, error) {
	f.completions++
	return f.completeFn(ctx, req)
}

func TestNextRequiresFullName(t *testing.T) {
	w := New(&fakeClient{})

	err := w.Next()
	assert.ErrorIs(t, err, ErrFullNameRequired)
	assert.Equal(t, StepIdentity, w.Step(), "failed validation must not advance")

	w.SetFullName("   ")
	assert.ErrorIs(t, w.Next(), ErrFullNameRequired)
	assert.Equal(t, StepIdentity, w.Step())
}

func TestNextAdvancesByExactlyOne(t *testing.T) {
	w := New(&fakeClient{})
	w.SetFullName("Amina Odhiambo")

	require.NoError(t, w.Next())
	assert.Equal(t, StepPhone, w.Step())

	assert.ErrorIs(t, w.Next(), ErrPhoneRequired)
	assert.Equal(t, StepPhone, w.Step())

	w.SetPhone("+254700000000")
	require.NoError(t, w.Next())
	assert.Equal(t, StepAvatar, w.Step())

	assert.ErrorIs(t, w.Next(), ErrAtLastStep)
}

func TestBackStopsAtFirstStep(t *testing.T) {
	w := New(&fakeClient{})
	assert.ErrorIs(t, w.Back(), ErrAtFirstStep)

	w.SetFullName("Amina Odhiambo")
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	assert.Equal(t, StepIdentity, w.Step())
}

func TestSubmitUploadsAvatarThenCompletes(t *testing.T) {
	var gotFilename string
	var gotReq client.OnboardingRequest
	api := &fakeClient{
		uploadFn: func(ctx context.Context, filename string, content io.Reader) (*client.AvatarUpload, error) {
			gotFilename = filename
			return &client.AvatarUpload{Path: "user-1/1700000000_me.png"}, nil
		},
		completeFn: func(ctx context.Context, req client.OnboardingRequest) (*client.Profile, error) {
			gotReq = req
			return &client.Profile{ID: "user-1", Onboarding: true}, nil
		},
	}

	w := New(api)
	w.SetFullName("Amina Odhiambo")
	w.SetPhone("+254700000000")
	w.SetAvatar(&Avatar{Filename: "me.png", Content: []byte("png-bytes")})

	profile, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, 1, api.uploads)
	assert.Equal(t, 1, api.completions)
	assert.Equal(t, "me.png", gotFilename)
	assert.True(t, gotReq.Onboarding)
	assert.Equal(t, "Amina Odhiambo", gotReq.FullName)
	assert.Equal(t, "+254700000000", gotReq.Phone)
	assert.Equal(t, "user-1/1700000000_me.png", gotReq.AvatarPath)
}

func TestSubmitWithoutAvatarSkipsUpload(t *testing.T) {
	api := &fakeClient{
		completeFn: func(ctx context.Context, req client.OnboardingRequest) (*client.Profile, error) {
			assert.Empty(t, req.AvatarPath)
			return &client.Profile{ID: "user-1"}, nil
		},
	}

	w := New(api)
	w.SetFullName("Amina Odhiambo")
	w.SetPhone("+254700000000")

	_, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Zero(t, api.uploads)
	assert.Equal(t, 1, api.completions)
}

func TestSubmitAbortsWhenUploadFails(t *testing.T) {
	boom := errors.New("storage unavailable")
	api := &fakeClient{
		uploadFn: func(ctx context.Context, filename string, content io.Reader) (*client.AvatarUpload, error) {
			return nil, boom
		},
	}

	w := New(api)
	w.SetFullName("Amina Odhiambo")
	w.SetPhone("+254700000000")
	w.SetAvatar(&Avatar{Filename: "me.png", Content: []byte("png-bytes")})

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, api.completions, "onboarding must not complete after a failed upload")
}

func TestSubmitValidatesAllSteps(t *testing.T) {
	api := &fakeClient{}
	w := New(api)
	w.SetFullName("Amina Odhiambo")

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrPhoneRequired)
	assert.Zero(t, api.uploads)
	assert.Zero(t, api.completions)
}
