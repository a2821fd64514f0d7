package middleware

import (
	"net/http"
	"strings"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/data/repository"
	"heart-predict/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession verifies the bearer token signature and that its session is
// still live, then puts the user and session into the request context.
func AuthSession(sessionRepo repository.SessionRepository, secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization token. Use: Bearer <token>")
				return
			}

			claims, err := utils.ParseToken(token, secret)
			if err != nil {
				logger.Warn("Rejected token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), claims.ID)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("session_id", claims.ID),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil || session.UserID != claims.UserID {
				logger.Warn("Invalid or expired session", zap.String("session_id", claims.ID))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Role)
			ctx = utils.SetSessionContext(ctx, session.ID.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin checks the stored role rather than the token claim, so a demotion
// takes effect immediately.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Admin check: failed to get user",
					zap.Error(err), zap.Int64("user_id", userID))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || user.Role != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.Int64("user_id", userID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
