package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	port string
	dev  bool

	databasePath string
	storeTimeout time.Duration

	jwtSecret     string
	jwtExpire     time.Duration
	staffPasscode string

	ticketBaseURL  string
	sendgridAPIKey string
	emailFrom      string
	emailSubject   string

	discordAppToken        string
	discordClientId        string
	discordGuildID         string
	discordReportChannelID string
	reportInterval         time.Duration

	metricCollectionInterval time.Duration
	staticWebClientDir       string
}

func parseDurationEnv(key, fallback string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		slog.Error("invalid duration", "key", key, "value", value, "error", err)
		os.Exit(1)
	}
	slog.Debug("env", key, value)
	return duration
}

// keeps the first 3 characters of a secret for the debug log
func redact(secret string) string {
	if len(secret) <= 3 {
		return "..."
	}
	return secret[0:3] + "..."
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
		dev: func() bool {
			dev := strings.EqualFold(os.Getenv("DEV"), "true")
			slog.Debug("env", "DEV", dev)
			return dev
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		storeTimeout: parseDurationEnv("STORE_TIMEOUT", "5s"),

		jwtSecret: func() string {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				slog.Warn("JWT_SECRET is not set")
				secret = "secret"
			}
			return secret
		}(),
		jwtExpire: parseDurationEnv("JWT_EXPIRE", "12h"),
		staffPasscode: func() string {
			staffPasscode := os.Getenv("STAFF_PASSCODE")
			if staffPasscode == "" {
				slog.Warn("STAFF_PASSCODE is not set, staff endpoints are open")
			}
			return staffPasscode
		}(),

		ticketBaseURL: func() string {
			ticketBaseURL := os.Getenv("TICKET_BASE_URL")
			slog.Debug("env", "TICKET_BASE_URL", ticketBaseURL)
			return ticketBaseURL
		}(),
		sendgridAPIKey: func() string {
			sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
			if sendgridAPIKey == "" {
				slog.Info("SENDGRID_API_KEY is not set, tickets won't be emailed")
				return ""
			}
			slog.Debug("env", "SENDGRID_API_KEY", redact(sendgridAPIKey))
			return sendgridAPIKey
		}(),
		emailFrom: func() string {
			emailFrom := os.Getenv("EMAIL_FROM")
			if emailFrom == "" {
				emailFrom = "Huddy Gate <noreply@example.com>"
			}
			slog.Debug("env", "EMAIL_FROM", emailFrom)
			return emailFrom
		}(),
		emailSubject: func() string {
			emailSubject := os.Getenv("EMAIL_SUBJECT")
			if emailSubject == "" {
				emailSubject = "Your event ticket"
			}
			slog.Debug("env", "EMAIL_SUBJECT", emailSubject)
			return emailSubject
		}(),

		discordAppToken: func() string {
			discordAppToken := os.Getenv("DISCORD_APP_TOKEN")
			if discordAppToken == "" {
				slog.Info("DISCORD_APP_TOKEN is not set, Discord commands are off")
				return ""
			}
			slog.Debug("env", "DISCORD_APP_TOKEN", redact(discordAppToken))
			return discordAppToken
		}(),
		discordClientId: func() string {
			discordClientId := os.Getenv("DISCORD_CLIENT_ID")
			slog.Debug("env", "DISCORD_CLIENT_ID", discordClientId)
			return discordClientId
		}(),
		discordGuildID: func() string {
			discordGuildID := os.Getenv("DISCORD_GUILD_ID")
			slog.Debug("env", "DISCORD_GUILD_ID", discordGuildID)
			return discordGuildID
		}(),
		discordReportChannelID: func() string {
			discordReportChannelID := os.Getenv("DISCORD_REPORT_CHANNEL_ID")
			slog.Debug("env", "DISCORD_REPORT_CHANNEL_ID", discordReportChannelID)
			return discordReportChannelID
		}(),
		reportInterval: parseDurationEnv("REPORT_INTERVAL", "15m"),

		metricCollectionInterval: parseDurationEnv("METRIC_COLLECTION_INTERVAL", "15s"),
		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "path", staticWebClientDir)
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DEV env
func (c *Config) GetDev() bool {
	return c.dev
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get STORE_TIMEOUT env, default to 5s
func (c *Config) GetStoreTimeout() time.Duration {
	return c.storeTimeout
}

// Get JWT_SECRET env
func (c *Config) GetJWTSecret() string {
	return c.jwtSecret
}

// Get JWT_EXPIRE env, default to 12h
func (c *Config) GetJWTExpire() time.Duration {
	return c.jwtExpire
}

// Get STAFF_PASSCODE env; empty disables the staff gate
func (c *Config) GetStaffPasscode() string {
	return c.staffPasscode
}

// Get TICKET_BASE_URL env
func (c *Config) GetTicketBaseURL() string {
	return c.ticketBaseURL
}

// Get SENDGRID_API_KEY env
func (c *Config) GetSendgridAPIKey() string {
	return c.sendgridAPIKey
}

// Get EMAIL_FROM env
func (c *Config) GetEmailFrom() string {
	return c.emailFrom
}

// Get EMAIL_SUBJECT env
func (c *Config) GetEmailSubject() string {
	return c.emailSubject
}

// Get DISCORD_APP_TOKEN env
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_CLIENT_ID env
func (c *Config) GetDiscordClientId() string {
	return c.discordClientId
}

// Get DISCORD_GUILD_ID env
func (c *Config) GetDiscordGuildID() string {
	return c.discordGuildID
}

// Get DISCORD_REPORT_CHANNEL_ID env
func (c *Config) GetDiscordReportChannelID() string {
	return c.discordReportChannelID
}

// Get REPORT_INTERVAL env, default to 15m
func (c *Config) GetReportInterval() time.Duration {
	return c.reportInterval
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get STATIC_WEB_CLIENT_DIR env
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}
