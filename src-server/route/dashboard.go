package route

import (
	"huddygate/src-server/claim"
	"huddygate/src-server/model"
	"huddygate/src-server/utils"
	"net/http"
	"strconv"
)

func Dashboard(muxer *http.ServeMux, as *utils.AppState) {
	parseListOptions := func(r *http.Request) (claim.ListOptions, bool) {
		query := r.URL.Query()
		opts := claim.ListOptions{
			SortBy: model.SortKey(query.Get("sortBy")),
			Order:  query.Get("order"),
		}
		for key, dst := range map[string]*int{"page": &opts.Page, "pageSize": &opts.PageSize} {
			raw := query.Get(key)
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return opts, false
			}
			*dst = n
		}
		return opts, true
	}

	listHandler := func(list func(*claim.Service, *http.Request, claim.ListOptions) (*claim.Page, error)) http.HandlerFunc {
		return StaffMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
			opts, ok := parseListOptions(r)
			if !ok {
				writeInvalid(w, "page and pageSize must be integers")
				return
			}
			page, err := list(as.Claims, r, opts)
			if err != nil {
				writeError(w, err)
				return
			}
			writeSuccess(w, page)
		})
	}

	muxer.HandleFunc("GET /dashboard/entered", listHandler(func(svc *claim.Service, r *http.Request, opts claim.ListOptions) (*claim.Page, error) {
		return svc.ListEntered(r.Context(), opts)
	}))
	muxer.HandleFunc("GET /dashboard/gifted", listHandler(func(svc *claim.Service, r *http.Request, opts claim.ListOptions) (*claim.Page, error) {
		return svc.ListGifted(r.Context(), opts)
	}))

	muxer.HandleFunc("GET /dashboard/stats", StaffMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		stats, err := as.Claims.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, stats)
	}))
}
