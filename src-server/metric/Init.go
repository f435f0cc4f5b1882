package metric

import (
	"context"
	"huddygate/src-server/model"
	"huddygate/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// time for a read that matches nothing; tracks store health independently of traffic
func database(as *utils.AppState) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), as.Config.GetStoreTimeout())
	defer cancel()

	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Attendee)(nil)).
		Where("unique_code = ?", "").
		Exists(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	databaseEmptyRead := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "huddygate_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register huddygate_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("huddygate_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("huddygate_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("huddygate_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func discordHeartbeatLatency(as *utils.AppState, tickerInterval time.Duration) {
	if as.DgSession == nil {
		return
	}
	discordHeartbeatLatency := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "huddygate_discord_heartbeat_latency_microsec",
		Help: "The latency of a discord heartbeat in microseconds",
	})
	good := true
	if err := prometheus.Register(discordHeartbeatLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("huddygate_discord_heartbeat_latency_microsec metric can't register", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("huddygate_discord_heartbeat_latency_microsec metric registered")
		discordHeartbeatLatency.Set(0)
	}
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-gracefulShutdownCh:
				switch prometheus.Unregister(discordHeartbeatLatency) {
				case true:
					slog.Debug("huddygate_discord_heartbeat_latency_microsec metric unregistered")
				case false:
					slog.Warn("huddygate_discord_heartbeat_latency_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency := as.DgSession.HeartbeatLatency().Microseconds()
				discordHeartbeatLatency.Set(float64(latency))
			}
		}
	}()
}

// Init starts the sampled gauges. Claim and store-op metrics come from the
// Recorder handed to the claim service.
func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()

	databaseEmptyRead(as, tickerInterval)
	discordHeartbeatLatency(as, tickerInterval)
}
