package csrf_token

import (
	"net/http"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
)

// TokenResponse CSRF токен для заголовка X-CSRF-Token
type TokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type Handler struct {
	issuer TokenIssuer
	logger Logger
}

func NewHandler(issuer TokenIssuer, logger Logger) *Handler {
	return &Handler{
		issuer: issuer,
		logger: logger,
	}
}

// Handle GET /api/v1/csrf-token
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token, err := h.issuer.IssueToken(w)
	if err != nil {
		h.logger.Error("GET /csrf-token - Failed to issue token: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TokenResponse{CSRFToken: token})
}
