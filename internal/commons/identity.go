package commons

import (
	"net/http"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// CallerFromRequest reads the authenticated identity propagated by the
// gateway. Requests without an X-User-Id never reach the use cases.
func CallerFromRequest(r *http.Request) (domain.Caller, error) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return domain.Caller{}, apperrors.NewForbiddenError("missing user identity")
	}

	role := r.Header.Get(HeaderUserRole)
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	return domain.Caller{UserID: userID, Role: role}, nil
}
