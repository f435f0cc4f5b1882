package route

import (
	"context"
	"errors"
	"huddygate/src-server/jwt"
	"huddygate/src-server/utils"
	"net/http"
	"strings"
	"time"
)

type StaffCtxKeyType string

const (
	StaffCtxKey          StaffCtxKeyType = "staff"
	StaffTokenCookieName string          = "staff-token"
)

// StaffMiddleware lets a request through when it carries a valid staff token,
// either as the staff-token cookie or as a Bearer header. With no passcode
// configured the gate is open.
func StaffMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if as.Config.GetStaffPasscode() == "" {
			next(w, r)
			return
		}

		token := func() string {
			if cookie, err := r.Cookie(StaffTokenCookieName); err == nil {
				return strings.TrimSpace(cookie.Value)
			}
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
			return ""
		}()
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, RespBody{Status: STATUS_INVALID, Message: "Staff token not found"})
			return
		}

		payload, err := jwt.Decode(token, as.Config.GetJWTSecret(), time.Now())
		switch {
		case errors.Is(err, jwt.ErrExpired):
			writeJSON(w, http.StatusUnauthorized, RespBody{Status: STATUS_INVALID, Message: "Staff token expired"})
			return
		case err != nil:
			writeJSON(w, http.StatusUnauthorized, RespBody{Status: STATUS_INVALID, Message: "Invalid staff token"})
			return
		}

		ctx := context.WithValue(r.Context(), StaffCtxKey, payload)
		next(w, r.WithContext(ctx))
	}
}
