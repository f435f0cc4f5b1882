package route

import (
	"huddygate/src-server/utils"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// NewMux wires every HTTP route onto a fresh ServeMux.
func NewMux(as *utils.AppState, gatherer prometheus.Gatherer) *http.ServeMux {
	muxer := http.NewServeMux()
	Health(muxer, as, gatherer)
	Auth(muxer, as)
	Register(muxer, as)
	Claims(muxer, as)
	Dashboard(muxer, as)
	if as.Config.GetStaticWebClientDir() != "" {
		SPA(muxer, as)
	}
	return muxer
}
