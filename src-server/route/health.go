package route

import (
	"huddygate/src-server/utils"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Health(muxer *http.ServeMux, as *utils.AppState, gatherer prometheus.Gatherer) {
	muxer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]string{"uptime": as.GetUptime().String()})
	})
	muxer.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
