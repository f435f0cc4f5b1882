package utils

import (
	"context"
	"database/sql"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/model"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// AppState owns every process-wide handle. It is built once by the entry
// point and passed to whoever needs the store, the claim service or Discord.
type AppState struct {
	Config    *Config
	RawDB     *sql.DB
	BunDB     *bun.DB
	DgSession *discordgo.Session // nil when DISCORD_APP_TOKEN is not set
	Claims    *claim.Service

	startTime time.Time

	// will be sent to Discord
	appCmdInfo map[string]*discordgo.ApplicationCommand
	// handling commands from Discord WSAPI
	appCmdHandler map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error
	appCmdMu      sync.RWMutex

	gracefulShutdownChans []chan struct{}
	shutdownMu            sync.Mutex
}

func NewAppState(cfg *Config, observer claim.Observer, notifier claim.Notifier) (*AppState, error) {
	as := &AppState{
		Config:        cfg,
		startTime:     time.Now(),
		appCmdInfo:    make(map[string]*discordgo.ApplicationCommand),
		appCmdHandler: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error),
	}

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, "file:"+cfg.GetDatabasePath()+"?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("NewAppState: can't open sqlite database: %w", err)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		as.BunDB.Close()
		return nil, fmt.Errorf("NewAppState: %w", err)
	}

	as.Claims = claim.NewService(as.BunDB, claim.Options{
		StoreTimeout:  cfg.GetStoreTimeout(),
		TicketBaseURL: cfg.GetTicketBaseURL(),
		Observer:      observer,
		Notifier:      notifier,
	})

	// discord is optional
	if token := cfg.GetDiscordAppToken(); token != "" {
		as.DgSession, err = discordgo.New("Bot " + token)
		if err != nil {
			as.BunDB.Close()
			return nil, fmt.Errorf("NewAppState: can't create discord session: %w", err)
		}
	}

	return as, nil
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startTime).Round(time.Second)
}

func (as *AppState) AddAppCmdInfo(id string, info *discordgo.ApplicationCommand) {
	as.appCmdMu.Lock()
	defer as.appCmdMu.Unlock()
	as.appCmdInfo[id] = info
}

func (as *AppState) AddAppCmdHandler(id string, handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error) {
	as.appCmdMu.Lock()
	defer as.appCmdMu.Unlock()
	as.appCmdHandler[id] = handler
}

func (as *AppState) GetAppCmdHandler(id string) (func(s *discordgo.Session, i *discordgo.InteractionCreate) error, bool) {
	as.appCmdMu.RLock()
	defer as.appCmdMu.RUnlock()
	handler, ok := as.appCmdHandler[id]
	return handler, ok
}

func (as *AppState) IterateAppCmdInfo(fn func(k string, v *discordgo.ApplicationCommand)) {
	as.appCmdMu.RLock()
	defer as.appCmdMu.RUnlock()
	for k, v := range as.appCmdInfo {
		fn(k, v)
	}
}

// NukeAppCmdInfo drops the command descriptions once Discord has them.
func (as *AppState) NukeAppCmdInfo() {
	as.appCmdMu.Lock()
	defer as.appCmdMu.Unlock()
	as.appCmdInfo = make(map[string]*discordgo.ApplicationCommand)
}

// CreateGracefulShutdownChan returns a channel closed by GracefulShutdown.
func (as *AppState) CreateGracefulShutdownChan() <-chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return ch
}

// GracefulShutdown notifies background workers, then closes Discord and the
// database. Safe to call more than once.
func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	chans := as.gracefulShutdownChans
	as.gracefulShutdownChans = nil
	as.shutdownMu.Unlock()

	for _, ch := range chans {
		close(ch)
	}

	if as.DgSession != nil {
		if err := as.DgSession.Close(); err != nil {
			slog.Warn("can't close discord session", "error", err)
		}
	}
	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
