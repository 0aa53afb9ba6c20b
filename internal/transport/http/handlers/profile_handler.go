package handlers

import (
	"errors"
	"strconv"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/core/services"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/NoelOsiro/tuma-task-api/internal/transport/http/dto"
	httpmw "github.com/NoelOsiro/tuma-task-api/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles ports.ProfileService
	storage  ports.StorageService
	logger   *logger.Logger
}

func NewProfileHandler(profiles ports.ProfileService, storage ports.StorageService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, storage: storage, logger: logger}
}

// UpdateOnboarding handles PATCH /api/profile/onboarding.
func (h *ProfileHandler) UpdateOnboarding(c *fiber.Ctx) error {
	userID := httpmw.UserID(c)

	var req dto.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("onboarding_body_parse_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	h.logger.Infow("onboarding_request", "user_id", userID)
	profile, err := h.profiles.CompleteOnboarding(c.Context(), userID, req.ToInput())
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			h.logger.Warnw("onboarding_profile_missing", "user_id", userID)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "profile not found",
			})
		}
		h.logger.Errorw("onboarding_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("onboarding_success", "user_id", userID, "onboarding", profile.Onboarding)
	return c.JSON(dto.DataResponse{Data: profile})
}

// UploadAvatar handles POST /api/profile/avatar (multipart field `avatar`).
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID := httpmw.UserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "no file provided",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Errorw("avatar_open_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}
	defer file.Close()

	path, err := h.storage.SaveAvatar(c.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		h.logger.Errorw("avatar_upload_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	signed, err := h.storage.SignedURL(path, queryTTL(c))
	if err != nil {
		h.logger.Errorw("avatar_sign_failed", "user_id", userID, "path", path, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("avatar_upload_success", "user_id", userID, "path", path)
	return c.JSON(dto.AvatarUploadResponse{
		SignedURL: signed.SignedURL,
		Path:      signed.Path,
	})
}

// AvatarURL handles GET /api/profile/avatar-url?ttl=. A profile without an
// avatar answers {data: null} rather than failing.
func (h *ProfileHandler) AvatarURL(c *fiber.Ctx) error {
	userID := httpmw.UserID(c)

	signed, err := h.profiles.AvatarURL(c.Context(), userID, queryTTL(c))
	if err != nil {
		if errors.Is(err, services.ErrProfileNoAvatar) {
			return c.JSON(dto.DataResponse{Data: nil})
		}
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "profile not found",
			})
		}
		h.logger.Errorw("avatar_url_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(dto.DataResponse{Data: dto.SignedAvatarResponse{
		SignedURL: signed.SignedURL,
		Path:      signed.Path,
		ExpiresIn: signed.ExpiresIn,
	}})
}

// queryTTL distinguishes "no ttl asked for" from an explicit value: an
// explicit 0 must clamp up to the minimum, not fall back to the default.
func queryTTL(c *fiber.Ctx) int {
	v := c.Query("ttl")
	if v == "" {
		return services.TTLDefault
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return services.TTLDefault
	}
	return n
}
