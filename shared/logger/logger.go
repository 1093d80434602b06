package logger

import (
	"io"
	"os"
	"time"
	"tutorbook/config"
	"tutorbook/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Init sets up the global logger from cfg and must run before anything else logs.
func Init(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(Level(cfg))

	log.Logger = New(os.Stdout, cfg)
	log.Debug().Str("loglevel", zerolog.GlobalLevel().String()).Msg("Zerolog initialized.")
}

// New returns a logger tagged with the app name and environment. Production writes JSON
// lines to out; every other environment gets the console format.
func New(out io.Writer, cfg *config.Config) zerolog.Logger {
	if cfg.Server.Env != constant.ServerEnvProduction {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

// Level parses SERVER_LOG_LEVEL. When it is unset or unknown, production logs at info and
// everything else at debug.
func Level(cfg *config.Config) zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err == nil && level != zerolog.NoLevel {
		return level
	}

	if cfg.Server.Env == constant.ServerEnvProduction {
		return zerolog.InfoLevel
	}

	return zerolog.DebugLevel
}

func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Send()
}
