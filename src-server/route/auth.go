package route

import (
	"crypto/subtle"
	"encoding/json"
	"huddygate/src-server/jwt"
	"huddygate/src-server/utils"
	"log/slog"
	"net/http"
	"time"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     StaffTokenCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeSuccess(w, nil)
	})

	type AuthReqBody struct {
		Passcode string `json:"passcode"`
		Station  string `json:"station"`
	}

	// login
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			writeInvalid(w, "Invalid request body")
			return
		}

		passcode := as.Config.GetStaffPasscode()
		if passcode != "" && subtle.ConstantTimeCompare([]byte(reqBody.Passcode), []byte(passcode)) != 1 {
			writeJSON(w, http.StatusUnauthorized, RespBody{Status: STATUS_INVALID, Message: "Invalid passcode"})
			return
		}

		station := reqBody.Station
		if station == "" {
			station = "staff"
		}
		now := time.Now()
		token, err := jwt.Encode(jwt.NewPayload(station, now, as.Config.GetJWTExpire()), as.Config.GetJWTSecret())
		if err != nil {
			slog.Error("can't encode staff token", "error", err)
			writeJSON(w, http.StatusInternalServerError, RespBody{Status: STATUS_UNAVAILABLE, Message: "Can't issue token"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     StaffTokenCookieName,
			Value:    token,
			Path:     "/",
			Expires:  now.Add(as.Config.GetJWTExpire()),
			HttpOnly: true,
			Secure:   !as.Config.GetDev(),
			SameSite: http.SameSiteLaxMode,
		})
		writeSuccess(w, map[string]string{"token": token})
	})
}
