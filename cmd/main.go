package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campus-chat/broadcast"
	"campus-chat/internal"
	"campus-chat/moderation"
	"campus-chat/observability"
	"campus-chat/repositories"
	"campus-chat/server"
	"campus-chat/services"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that deferred cleanup always executes
// before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation
	replacement, err := config.ReplacementRune()
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(config.CensoredWordList(), replacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	// 3. Shared state & services
	monitor := observability.NewMonitor()
	users := repositories.NewUserRepository(log, config.DefaultGroup)
	messages := repositories.NewMessageRepository(log)
	dispatcher := broadcast.NewDispatcher(log, users, monitor)
	authService := services.NewAuthService(users)
	chatService := services.NewChatService(users, messages, dispatcher, moderator, monitor)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Optional status endpoint
	if config.DebugPort > 0 {
		internal.StartDebugServer(log, config.DebugPort,
			statsProvider(monitor, messages), usersProvider(users))
	}

	// 6. Chat listener
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	srv := server.NewServer(log, authService, chatService, monitor)
	log.Info("Starting chat server", "address", address, "default_group", config.DefaultGroup)
	if err := srv.Serve(ctx, listener); err != nil {
		return err
	}

	log.Info("Program stopped cleanly")
	return nil
}

func statsProvider(monitor *observability.Monitor, messages repositories.IMessageRepository) internal.StatsProvider {
	return func() map[string]any {
		stats := monitor.Snapshot()
		return map[string]any{
			"sessions_opened":   stats.SessionsOpened,
			"sessions_active":   stats.SessionsActive,
			"messages_posted":   stats.MessagesPosted,
			"delivered":         stats.Delivered,
			"delivery_failures": stats.DeliveryFailures,
			"log_length":        messages.Count(),
		}
	}
}

func usersProvider(users repositories.IUserRepository) internal.UsersProvider {
	return func() []internal.StatusRow {
		return lo.Map(users.Snapshot(), func(summary repositories.AccountSummary, _ int) internal.StatusRow {
			status := "offline"
			if summary.Online {
				status = "online"
			}
			return internal.StatusRow{
				Email:  summary.Email,
				Name:   summary.Name,
				Status: status,
				Groups: strings.Join(summary.Groups, ", "),
			}
		})
	}
}
