package route

import (
	"encoding/json"
	"huddygate/src-server/claim"
	"huddygate/src-server/utils"
	"net/http"
)

type CodeReqBody struct {
	Code string `json:"code"`
}

func Claims(muxer *http.ServeMux, as *utils.AppState) {
	claimHandler := func(do func(*claim.Service, *http.Request, string) (*claim.Result, error)) http.HandlerFunc {
		return StaffMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
			var reqBody CodeReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				writeInvalid(w, "Invalid request body")
				return
			}
			res, err := do(as.Claims, r, reqBody.Code)
			if err != nil {
				writeError(w, err)
				return
			}
			writeSuccess(w, res)
		})
	}

	muxer.HandleFunc("POST /claims/entry", claimHandler(func(svc *claim.Service, r *http.Request, code string) (*claim.Result, error) {
		return svc.ClaimEntry(r.Context(), code)
	}))
	muxer.HandleFunc("POST /claims/gift", claimHandler(func(svc *claim.Service, r *http.Request, code string) (*claim.Result, error) {
		return svc.ClaimGift(r.Context(), code)
	}))

	muxer.HandleFunc("GET /attendees/{code}", StaffMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		attendee, err := as.Claims.Lookup(r.Context(), r.PathValue("code"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, attendee)
	}))
}

// Register is public: attendees sign up themselves.
func Register(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var reqBody claim.Registration
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			writeInvalid(w, "Invalid request body")
			return
		}
		attendee, err := as.Claims.Register(r.Context(), reqBody)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, attendee)
	})
}
