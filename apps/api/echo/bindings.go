package echoapi

import (
	"time"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/entitlement"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}

	// SaveSelectionRequest replaces an organization's whole grant set.
	// An empty selection reverts the organization to full catalog access.
	SaveSelectionRequest struct {
		Selection []entitlement.SelectionKey `json:"selection"`
	}

	SelectionResponse struct {
		Selection []entitlement.SelectionKey `json:"selection"`
	}

	AccessResponse struct {
		All        bool     `json:"all"`
		ProductIDs []string `json:"product_ids"`
	}

	CompletionRequest struct {
		LessonID    string     `json:"lesson_id" validate:"required"`
		Completed   *bool      `json:"completed"`
		CompletedAt *time.Time `json:"completed_at"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

func (cr *CompletionRequest) Validate() error {
	cr.LessonID = core.CleanString(cr.LessonID)
	return core.Validate.Struct(cr)
}
