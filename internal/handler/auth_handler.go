package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc tokenIssuer) *AuthHandler {
	return &AuthHandler{service: svc}
}

// IssueToken godoc
// @Summary Issue access token
// @Description Sign an access token for the given identity
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.TokenRequest true "Identity payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jwt [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req, "invalid token payload") {
		return
	}

	res, err := h.service.IssueToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}
