package utils

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	port       string
	sqlitePath string

	discordAppToken        string
	discordNotifyChannelID string

	geoipEndpoint string
	sessionTTL    time.Duration

	metricCollectionInterval time.Duration

	location *time.Location
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),
		sqlitePath: func() string {
			sqlitePath := os.Getenv("SQLITE_PATH")
			if sqlitePath == "" {
				sqlitePath = "./sqlite.db"
			}
			slog.Debug("env", "SQLITE_PATH", sqlitePath)
			return sqlitePath
		}(),

		discordAppToken: func() string {
			discordAppToken := os.Getenv("DISCORD_APP_TOKEN")
			if discordAppToken == "" {
				slog.Warn("DISCORD_APP_TOKEN is not set, notifications go to the log only")
				return ""
			}
			slog.Debug("env", "DISCORD_APP_TOKEN", discordAppToken[0:3]+"...")
			return discordAppToken
		}(),
		discordNotifyChannelID: func() string {
			discordNotifyChannelID := os.Getenv("DISCORD_NOTIFY_CHANNEL_ID")
			if discordNotifyChannelID == "" {
				slog.Warn("DISCORD_NOTIFY_CHANNEL_ID is not set, notifications go to the log only")
				return ""
			}
			slog.Debug("env", "DISCORD_NOTIFY_CHANNEL_ID", discordNotifyChannelID)
			return discordNotifyChannelID
		}(),

		geoipEndpoint: func() string {
			geoipEndpoint := os.Getenv("GEOIP_ENDPOINT")
			if geoipEndpoint == "" {
				geoipEndpoint = "http://ip-api.com/json"
			}
			slog.Debug("env", "GEOIP_ENDPOINT", geoipEndpoint)
			return geoipEndpoint
		}(),
		sessionTTL: func() time.Duration {
			sessionTTL := os.Getenv("SESSION_TTL")
			if sessionTTL == "" {
				sessionTTL = "30m"
			}
			duration, err := time.ParseDuration(sessionTTL)
			if err != nil {
				slog.Error("invalid SESSION_TTL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "SESSION_TTL", sessionTTL, "duration", duration)
			return duration
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "30s"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricCollectionInterval)
			return duration
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get SQLITE_PATH env, default to ./sqlite.db
func (c *Config) GetSqlitePath() string {
	return c.sqlitePath
}

// Get DISCORD_APP_TOKEN env, blank when unset
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_NOTIFY_CHANNEL_ID env, blank when unset
func (c *Config) GetDiscordNotifyChannelID() string {
	return c.discordNotifyChannelID
}

// Get GEOIP_ENDPOINT env
func (c *Config) GetGeoipEndpoint() string {
	return c.geoipEndpoint
}

// Get SESSION_TTL env, default to 30m
func (c *Config) GetSessionTTL() time.Duration {
	return c.sessionTTL
}

// Get METRIC_COLLECTION_INTERVAL env, default to 30s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}
