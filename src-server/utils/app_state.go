package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"huddle/src-server/model"
	"huddle/src-server/notify"
	"huddle/src-server/session"
	"huddle/src-server/submit"

	"github.com/bwmarrin/discordgo"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	// nil when Discord is not configured; notifications fall back to
	// the log
	DgSession *discordgo.Session
	When      *when.Parser

	EventStore *model.EventStore
	Notifier   submit.Notifier
	Sessions   *session.Manager
	Geo        Geolocator

	MetricChans        *Metric
	AppCloseSignalChan chan os.Signal

	gracefulShutdownChansMutex sync.Mutex
	gracefulShutdownChans      []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{}

	as.Config = NewConfig()
	as.MetricChans = NewMetric()
	as.AppCloseSignalChan = make(chan os.Signal, 1)

	// natural-language date parser for the startDate/endDate fields
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetSqlitePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	// notification delivery: Discord when configured, the log
	// otherwise; Queue adds deferral on top of either
	var delivery submit.Notifier = notify.Log{}
	if token := as.Config.GetDiscordAppToken(); token != "" &&
		as.Config.GetDiscordNotifyChannelID() != "" {
		as.DgSession, err = discordgo.New("Bot " + token)
		if err != nil {
			slog.Error("can't create discord session", "error", err)
			os.Exit(1)
		}
		discordNotifier, err := notify.NewDiscord(as.DgSession, as.Config.GetDiscordNotifyChannelID())
		if err != nil {
			slog.Error("can't create discord notifier", "error", err)
			os.Exit(1)
		}
		delivery = discordNotifier
	}
	as.Notifier = notify.NewQueue(as.BunDB, delivery)

	as.EventStore = model.NewEventStore(as.BunDB)
	as.Sessions = session.NewManager(as.EventStore, as.Notifier, as.Config.GetSessionTTL())

	as.Geo, err = InitGeolocator(as.Config.GetGeoipEndpoint())
	if err != nil {
		slog.Error("can't init geolocator", "error", err)
		os.Exit(1)
	}

	return as
}

// CreateGracefulShutdownChan hands out a channel that closes when the
// app shuts down; long-running goroutines select on it.
func (as *AppState) CreateGracefulShutdownChan() chan struct{} {
	as.gracefulShutdownChansMutex.Lock()
	defer as.gracefulShutdownChansMutex.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownChansMutex.Lock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil
	as.gracefulShutdownChansMutex.Unlock()

	if as.DgSession != nil {
		if err := as.DgSession.Close(); err != nil {
			slog.Warn("can't close discord session", "error", err)
		}
	}
	if err := as.RawDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
