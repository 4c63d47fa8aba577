package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/dongnecli/dongne/internal/app"
	"github.com/dongnecli/dongne/internal/chat"
	"github.com/dongnecli/dongne/internal/client"
	"github.com/dongnecli/dongne/internal/config"
	"github.com/dongnecli/dongne/internal/log"
	"github.com/dongnecli/dongne/internal/storage"
	"github.com/dongnecli/dongne/internal/weather"
)

// version is set by ldflags during build
var version = "dev"

func main() {
	// A .env in the working directory may carry DONGNE_API_URL; absence is
	// not an error.
	_ = godotenv.Load()

	opts := parseFlags()

	// Set custom config path (CLI flag > env var > default)
	configPath := opts.configFile
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("DONGNE_CONFIG"))
	}
	if configPath != "" {
		if err := config.SetConfigPath(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Base URL: CLI flag > env var > built-in default
	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("DONGNE_API_URL"))
	}
	if baseURL != "" {
		if !config.IsValidBaseURL(baseURL) {
			fmt.Fprintf(os.Stderr, "Error: invalid base URL: %s\n", baseURL)
			os.Exit(1)
		}
		config.Global().SetBaseURL(baseURL)
	}

	if opts.logFile != "" {
		if err := log.EnableFile(opts.logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file %s: %v\n", opts.logFile, err)
		} else {
			log.Info("dongne started", "baseURL", config.Global().BaseURL())
		}
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: dongne needs an interactive terminal")
		os.Exit(1)
	}

	fileCfg := config.File()

	store, err := storage.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	chats, err := chat.NewStore(fileCfg.MaxChatSessions(), fileCfg.SaveChatSessions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	api := client.New()
	ctx := context.Background()

	application := app.New(ctx, app.Deps{
		Backend: api,
		Weather: weather.NewService(api, fileCfg.WeatherStale()),
		Store:   store,
		Chats:   chats,
	})

	p := tea.NewProgram(application)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	baseURL    string
	configFile string
	logFile    string
}

// parseFlags parses command line flags and returns options
func parseFlags() cliOptions {
	return parseFlagsFromArgs(os.Args[1:])
}

// parseFlagsFromArgs parses the given args and returns options (testable)
func parseFlagsFromArgs(args []string) cliOptions {
	opts := cliOptions{}
	showHelp := false
	showVersion := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-u", "--url":
			if i+1 < len(args) {
				i++
				opts.baseURL = args[i]
			}
		case "-c", "--config":
			if i+1 < len(args) {
				i++
				opts.configFile = args[i]
			}
		case "-l", "--log-file":
			if i+1 < len(args) {
				i++
				opts.logFile = args[i]
			}
		case "-h", "--help":
			showHelp = true
		case "-v", "--version":
			showVersion = true
		}
	}

	if showVersion {
		fmt.Printf("dongne %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printUsage()
		os.Exit(0)
	}

	return opts
}

func printUsage() {
	fmt.Println("dongne - 우리 동네 챗봇 터미널 클라이언트")
	fmt.Println()
	fmt.Println("Usage: dongne [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -u, --url <url>")
	fmt.Println("        Backend base URL (default: " + config.DefaultBaseURL + ")")
	fmt.Println("  -c, --config <path>")
	fmt.Println("        Use custom config file instead of ~/.config/dongne/config.yaml")
	fmt.Println("  -l, --log-file <path>")
	fmt.Println("        Enable debug logging to specified file")
	fmt.Println("  -v, --version")
	fmt.Println("        Show version")
	fmt.Println("  -h, --help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("Keys:")
	fmt.Println("  Enter   질문 보내기")
	fmt.Println("  Ctrl+B  버스 안내")
	fmt.Println("  Ctrl+G  지역화폐 가맹점 지도")
	fmt.Println("  Ctrl+L  동네 다시 설정")
	fmt.Println("  Ctrl+C  종료")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DONGNE_CONFIG=<path>   Use custom config file")
	fmt.Println("  DONGNE_API_URL=<url>   Backend base URL (also read from ./.env)")
}
