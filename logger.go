package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// SetupLogger picks the output format and level for the global logger.
func SetupLogger(env string, level string) {
	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

type SessionLogger struct {
	zerolog zerolog.Logger
}

func GetSessionLogger(ip string, sessionID string) SessionLogger {
	return SessionLogger{log.With().Str("ip", ip).Str("session-id", sessionID).Logger()}
}

func (l SessionLogger) Connected() {
	l.zerolog.Info().Msg("Connected")
}

func (l SessionLogger) Disconnected() {
	l.zerolog.Info().Msg("Disconnected")
}

func (l SessionLogger) JoinedRoom(roomCode string, playerName string) {
	l.zerolog.Info().Str("room-code", roomCode).Str("player", playerName).Msg("Joined room")
}

func (l SessionLogger) UpdatedState(roomCode string, keys int) {
	l.zerolog.Debug().Str("room-code", roomCode).Int("keys", keys).Msg("Updated state")
}

func (l SessionLogger) Watching(roomCode string) {
	l.zerolog.Info().Str("room-code", roomCode).Msg("Watching room")
}

func (l SessionLogger) StoppedWatching(roomCode string) {
	l.zerolog.Info().Str("room-code", roomCode).Msg("Stopped watching room")
}

func (l SessionLogger) ProtocolError(err error) {
	l.zerolog.Warn().Err(err).Msg("Protocol error")
}

func LogCreatedRoom(roomCode string) {
	log.Info().Str("room-code", roomCode).Msg("Created")
}

func LogErrorWhileCreatingRoom(err error) {
	log.Error().Err(err).Msg("Error while creating room")
}

func LogSweptRoom(roomCode string, idle time.Duration) {
	log.Info().Str("room-code", roomCode).Dur("idle", idle).Msg("Removed inactive room")
}

func LogDroppedMessage(sessionID string) {
	log.Debug().Str("session-id", sessionID).Msg("Dropped message, send buffer full")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogStoppedServer() {
	log.Info().Msg("Server stopped")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}

func LogDefaultRejoinSecret() {
	log.Warn().Msg("REJOIN_SECRET is not provided, using the development default")
}
