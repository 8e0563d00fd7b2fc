package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mindfort-ai/bulwark/pkg/analyzer"
	"github.com/mindfort-ai/bulwark/pkg/archive"
	"github.com/mindfort-ai/bulwark/pkg/config"
	"github.com/mindfort-ai/bulwark/pkg/detect"
	"github.com/mindfort-ai/bulwark/pkg/history"
	"github.com/mindfort-ai/bulwark/pkg/links"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
	"github.com/mindfort-ai/bulwark/pkg/telemetry"
)

const Version = "0.1.0"

// Service bundles the engine with its serving-side collaborators.
// The analyzer is mandatory; everything past it degrades gracefully
// when unconfigured or unreachable.
type Service struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	registry *patterns.Registry
	history  history.Store       // Always present: Redis when reachable, else in-process
	redis    *history.RedisStore // Retained for Close; nil when memory-backed
	archive  *archive.Archive    // Optional: requires a Postgres DSN
	reporter *telemetry.Reporter // Optional: requires a report URL
}

// NewService loads the pattern tables, builds the analyzer, and probes each
// optional integration. A bad pattern overlay or aggregation config is fatal;
// an unreachable integration is logged and skipped.
func NewService(cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	reg, err := patterns.Load(cfg.PatternOverlayPath)
	if err != nil {
		log.Fatalf("[STARTUP] Pattern tables rejected: %v", err)
	}
	an, err := analyzer.New(reg, cfg.AggregateConfig(), cfg.NegationWindow)
	if err != nil {
		log.Fatalf("[STARTUP] Analyzer init failed: %v", err)
	}

	s := &Service{cfg: cfg, analyzer: an, registry: reg}
	log.Printf("✓ pattern registry loaded (%d patterns)", reg.TotalPatterns())

	// Conversation history: shared via Redis when configured and reachable,
	// otherwise a per-process window.
	if cfg.RedisAddr != "" {
		store := history.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.HistoryTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := store.Ping(ctx)
		cancel()
		if err != nil {
			log.Printf("○ shared history disabled (%v), using in-process window", err)
			_ = store.Close()
			s.history = history.NewMemoryStore()
		} else {
			log.Printf("✓ shared history enabled (redis %s)", cfg.RedisAddr)
			s.redis = store
			s.history = store
		}
	} else {
		log.Println("○ shared history disabled (no redis configured), using in-process window")
		s.history = history.NewMemoryStore()
	}

	// Audit archive
	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		arch, err := archive.Connect(ctx, cfg.PostgresDSN)
		if err == nil {
			if err = arch.EnsureSchema(ctx); err != nil {
				arch.Close()
			}
		}
		cancel()
		if err != nil {
			log.Printf("○ audit archive disabled (%v)", err)
		} else {
			log.Println("✓ audit archive enabled (postgres)")
			s.archive = arch
		}
	} else {
		log.Println("○ audit archive disabled (no postgres DSN)")
	}

	// High-risk verdict reporting
	s.reporter = telemetry.NewReporter(cfg.ReportURL,
		time.Duration(cfg.ReportTimeoutMs)*time.Millisecond, cfg.ReportConcurrency)
	if s.reporter != nil {
		log.Printf("✓ risk reporting enabled (%s)", cfg.ReportURL)
	} else {
		log.Println("○ risk reporting disabled (no report URL)")
	}

	return s
}

// Close flushes in-flight report deliveries and releases connections.
func (s *Service) Close() {
	s.reporter.Flush()
	if stats := s.reporter.Stats(); stats.Dropped > 0 {
		log.Printf("reporter dropped %d events under pressure", stats.Dropped)
	}
	s.archive.Close()
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: bulwark scan <text>")
			os.Exit(1)
		}
		runScan(strings.Join(os.Args[2:], " "))
	case "patterns":
		runPatterns()
	case "version":
		fmt.Printf("Bulwark v%s\n", Version)
		fmt.Println("Risk Signal Aggregation Engine")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Bulwark v%s - Risk Signal Aggregation Engine\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  bulwark serve [--port N]   Start the assessment API server")
	fmt.Println("  bulwark scan <text>        Assess a message and print the verdict")
	fmt.Println("  bulwark patterns           List the loaded pattern tables")
	fmt.Println("  bulwark version            Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  bulwark serve --port 8090")
	fmt.Println("  bulwark scan \"You won $1,000,000! Click here to claim: bit.ly/abc\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  BULWARK_PORT          Listen port (default: 8090)")
	fmt.Println("  BULWARK_PATTERNS      Path to a YAML pattern overlay")
	fmt.Println("  BULWARK_REDIS_ADDR    Redis address for shared conversation history")
	fmt.Println("  BULWARK_POSTGRES_DSN  Postgres DSN for the audit archive")
	fmt.Println("  BULWARK_REPORT_URL    Webhook receiving high-risk verdicts")
	fmt.Println("  BULWARK_API_KEY       Require 'Authorization: Bearer <key>' on /v1 routes")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

// assessRequest is the POST /v1/assess body. Only text is required. Links
// omitted entirely means "extract from text"; an explicit empty list means
// "this message has no links". History in the body overrides the stored
// window for stateless callers.
type assessRequest struct {
	Text    string                   `json:"text"`
	Links   []string                 `json:"links"`
	Sender  string                   `json:"sender"`
	History []risk.ConversationEntry `json:"history"`
}

func runServe(args []string) {
	cfg := config.NewDefaultConfig()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", cfg.Port, "listen port")
	_ = fs.Parse(args)
	cfg.Port = *port

	cfg.MustValidate()
	svc := NewService(cfg)

	app := fiber.New(fiber.Config{
		AppName: "Bulwark",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "bulwark", "version": Version})
	})

	if cfg.APIKey != "" {
		app.Use("/v1", func(c fiber.Ctx) error {
			token, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer ")
			if !ok || token != cfg.APIKey {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or missing API key"})
			}
			return c.Next()
		})
	}

	// Assessment flow: fetch history, analyze, append the message to the
	// window, archive, report. Only an unparseable body fails the request;
	// integration errors are logged and the verdict is still returned.
	app.Post("/v1/assess", func(c fiber.Ctx) error {
		var req assessRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		in := detect.Input{Text: req.Text, Links: req.Links, History: req.History}
		if req.Links == nil {
			in.Links = links.Extract(req.Text)
		}
		if len(in.History) == 0 && req.Sender != "" {
			window, err := svc.history.Window(c.Context(), req.Sender)
			if err != nil {
				log.Printf("history window for %q: %v", req.Sender, err)
			} else {
				in.History = window
			}
		}

		res := svc.analyzer.Assess(in)

		if req.Sender != "" {
			entry := risk.ConversationEntry{Text: req.Text, Timestamp: time.Now().UTC()}
			if err := svc.history.Append(c.Context(), req.Sender, entry); err != nil {
				log.Printf("history append for %q: %v", req.Sender, err)
			}
		}
		if err := svc.archive.Save(c.Context(), in, &res); err != nil {
			log.Printf("archive save: %v", err)
		}
		svc.reporter.Report(&res)

		return c.JSON(res)
	})

	if svc.archive != nil {
		app.Get("/v1/assessments", func(c fiber.Ctx) error {
			limit, err := strconv.Atoi(c.Query("limit", "20"))
			if err != nil || limit <= 0 {
				limit = 20
			}
			records, err := svc.archive.Recent(c.Context(), limit)
			if err != nil {
				log.Printf("archive recent: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "archive query failed"})
			}
			return c.JSON(fiber.Map{"assessments": records, "count": len(records)})
		})
	}

	log.Printf("Bulwark v%s listening on :%s", Version, cfg.Port)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health          - Liveness probe")
	log.Printf("  POST /v1/assess       - Assess one message")
	if svc.archive != nil {
		log.Printf("  GET  /v1/assessments  - Recent audit records")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}

	svc.Close()
	log.Println("Server stopped")
}

// ============================================================================
// CLI Mode
// ============================================================================

func runScan(text string) {
	cfg := config.NewLocalConfig()

	reg, err := patterns.Load(cfg.PatternOverlayPath)
	if err != nil {
		log.Fatalf("[STARTUP] Pattern tables rejected: %v", err)
	}
	an, err := analyzer.New(reg, cfg.AggregateConfig(), cfg.NegationWindow)
	if err != nil {
		log.Fatalf("[STARTUP] Analyzer init failed: %v", err)
	}

	res := an.Assess(detect.Input{Text: text, Links: links.Extract(text)})

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}

func runPatterns() {
	cfg := config.NewLocalConfig()

	reg, err := patterns.Load(cfg.PatternOverlayPath)
	if err != nil {
		log.Fatalf("[STARTUP] Pattern tables rejected: %v", err)
	}

	fmt.Printf("Bulwark pattern registry: %d phrase-backed patterns\n\n", reg.TotalPatterns())

	fmt.Println("Semantic patterns:")
	for _, p := range reg.Semantic() {
		fmt.Printf("  %-24s severity %+.2f  %2d phrases\n", p.ID, p.Severity, len(p.Phrases))
	}

	fmt.Println("\nIntent profiles (tie-break priority order):")
	for _, p := range reg.Intents() {
		fmt.Printf("  %-24s modifier %+.2f  %2d indicators\n", p.ID, p.RiskModifier, len(p.Indicators))
	}

	fmt.Println("\nLinguistic families:")
	for _, f := range reg.Linguistic() {
		fmt.Printf("  %-24s severity %+.2f  %2d indicators (min count %d)\n",
			f.ID, f.Severity, len(f.Indicators), f.MinCount)
	}

	tech := reg.Technical()
	fmt.Printf("\nTechnical: %d shortener domains, %d suspicious TLDs\n",
		len(tech.Shorteners), len(tech.SuspiciousTLDs))

	ctxTable := reg.Contextual()
	fmt.Printf("Contextual: %d urgency indicators, %d request verbs (escalation at %d, repeat at %d)\n",
		len(ctxTable.UrgencyIndicators), len(ctxTable.RequestVerbs),
		ctxTable.EscalationMin, ctxTable.RepeatMin)
}
