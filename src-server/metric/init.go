package metric

import (
	"log/slog"
	"time"

	"huddle/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// gaugeFromChan registers a gauge fed by one of the AppState metric
// channels; the value clears back to zero after a quiet interval.
func gaugeFromChan(as *utils.AppState, name, help string, ch chan float64, clearTickerInterval *time.Duration) {
	gauge := promauto.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	good := true
	if err := prometheus.Register(gauge); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "name", name, "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("metric registered", "name", name)
		gauge.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				switch prometheus.Unregister(gauge) {
				case true:
					slog.Debug("metric unregistered", "name", name)
				case false:
					slog.Warn("metric not registered", "name", name)
				}
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "huddle_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register huddle_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("huddle_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("huddle_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("huddle_database_empty_read_microsec metric not registered")
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

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	gaugeFromChan(as,
		"huddle_database_read_microsec",
		"The latency of a database read in microseconds",
		as.MetricChans.DatabaseRead, &clearTickerInterval)
	gaugeFromChan(as,
		"huddle_database_write_microsec",
		"The latency of a database write in microseconds",
		as.MetricChans.DatabaseWrite, &clearTickerInterval)
	gaugeFromChan(as,
		"huddle_form_validation_microsec",
		"The latency of a full form validation pass in microseconds",
		as.MetricChans.FormValidation, &clearTickerInterval)
	gaugeFromChan(as,
		"huddle_notification_send_microsec",
		"The latency of a notification send in microseconds",
		as.MetricChans.NotificationSend, &clearTickerInterval)
	gaugeFromChan(as,
		"huddle_http_request_microsec",
		"The latency of an HTTP request in microseconds",
		as.MetricChans.HttpRequest, &clearTickerInterval)
}
