package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	. "timesheet-service/internal"
	"timesheet-service/internal/clients"
	"timesheet-service/internal/config"
	"timesheet-service/internal/directory"
	"timesheet-service/internal/email"
	"timesheet-service/internal/nonce"
	"timesheet-service/internal/profile"
	"timesheet-service/internal/routes"
	"timesheet-service/internal/storage"
	"timesheet-service/internal/timesheet"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

const DIST_DIR = "dist"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the timesheet service",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fmt.Println("Starting timesheet service...")
		ServerMain(ctx, provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

// Generate static QR code pointing employees to the sign-in page
func genSupportQr(url string) {
	qrCode, err := qrcode.Encode(url, qrcode.Medium, config.QR_IMAGE_SIZE)
	if err != nil {
		slog.Error("Error generating support QR code", "error", err)
		return
	}

	filePath := fmt.Sprintf("%s/assets/support_qr.png", DIST_DIR)

	// Save the QR code to a file
	if err := os.WriteFile(filePath, qrCode, 0644); err != nil {
		slog.Error("Error saving support QR code", "error", err)
	} else {
		slog.Debug("Support QR code saved successfully", "file_path", filePath, "support_url", url)
	}
}

// NewAppFromConfig wires the stores and the employee directory into the
// HTTP-layer App.
func NewAppFromConfig(cfg *config.Config, storageProvider storage.Provider) (*routes.App, error) {
	dir, err := directory.Load(cfg.DirectoryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee directory: %w", err)
	}

	entries := timesheet.NewStore(storageProvider)

	api := &routes.App{
		Cfg:       cfg,
		Entries:   entries,
		Clients:   clients.NewStore(storageProvider),
		Profile:   profile.NewStore(storageProvider, entries),
		Directory: dir,
	}
	if cfg.Email.Host != "" {
		api.Mailer = email.NewClient(cfg.Email)
	}
	return api, nil
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {

	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	initLogger(config.Cfg)

	// Use the provider passed from cobra command (already initialized)
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	if err := nonce.InitNonceStore(config.Cfg, storageProvider); err != nil {
		slog.Error("Failed to initialize nonce store", "error", err)
		os.Exit(1)
	}

	if config.Cfg.SupportURL != "" {
		genSupportQr(config.Cfg.SupportURL)
	}

	api, err := NewAppFromConfig(config.Cfg, storageProvider)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := api.Clients.Seed(ctx); err != nil {
		slog.Error("Failed to seed client list", "error", err)
		os.Exit(1)
	}

	server := HTTPServer(api)

	server.Run()
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
