package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"huddle/src-server/model"
	"huddle/src-server/utils"
)

// NotifyDispatch polls the pending-notification table and delivers the
// rows that are due. Delivery failures are logged and retried on the
// next pass; a row only flips to sent after the notifier accepted it.
func NotifyDispatch(as *utils.AppState) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	for {
		select {
		case <-gracefulShutdownCh:
			return
		case <-time.After(time.Second * 30):
		}

		notificationModels := make([]model.Notification, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&notificationModels).
			Where("send_at <= ?", time.Now().UTC().Unix()).
			Where("sent = ?", false).
			Scan(context.Background()); err != nil {
			slog.Error("NotifyDispatch: can't get due notifications", "error", err)
			continue
		}

		for _, notificationModel := range notificationModels {
			data := make(map[string]string)
			if notificationModel.Data != "" {
				if err := json.Unmarshal([]byte(notificationModel.Data), &data); err != nil {
					slog.Warn("NotifyDispatch: can't decode notification data",
						"notification", notificationModel.ID, "error", err)
				}
			}

			startTimer := time.Now()
			if _, err := as.Notifier.Schedule(
				context.Background(),
				notificationModel.Title,
				notificationModel.Body,
				data,
				nil,
			); err != nil {
				slog.Error("NotifyDispatch: can't deliver notification",
					"notification", notificationModel.ID, "error", err)
				continue
			}
			as.MetricChans.NotificationSend <- float64(time.Since(startTimer).Microseconds())

			if _, err := as.BunDB.NewUpdate().
				Model((*model.Notification)(nil)).
				Set("sent = ?", true).
				Where("id = ?", notificationModel.ID).
				Exec(context.Background()); err != nil {
				slog.Error("NotifyDispatch: can't update sent field",
					"notification", notificationModel.ID, "error", err)
			}
		}
	}
}
