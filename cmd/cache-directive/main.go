package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/cache-directive/proxy"
	"github.com/always-cache/cache-directive/rules"
	"github.com/always-cache/cache-directive/store"
)

var (
	// CLI flags
	configFilenameFlag string
	portFlag           int
	originFlag         string
	addrFlag           string
	hostFlag           string
	dbFilenameFlag     string
	seedFlag           bool
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.StringVar(&originFlag, "origin", "", "Origin URL to proxy to (overrides config, addr and host)")
	flag.StringVar(&addrFlag, "addr", "", "Origin IP address to proxy to")
	flag.StringVar(&hostFlag, "host", "", "Hostname of origin")
	flag.IntVar(&portFlag, "port", 8080, "Port to listen on (overrides config)")
	flag.StringVar(&dbFilenameFlag, "db", "", "Rule DB file name (use 'memory' for in-memory db)")
	flag.BoolVar(&seedFlag, "seed", false, "Replace the rules in the DB with the rules from the config file")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	var config Config
	if configFilenameFlag != "" {
		var err error
		if config, err = getConfig(configFilenameFlag); err != nil {
			log.Fatal().Err(err).Msg("Could not read config")
		}
	}
	if originFlag != "" {
		config.Origin = originFlag
	} else if addrFlag != "" {
		config.Origin = "https://" + addrFlag
		config.Host = hostFlag
	}
	if config.Origin == "" {
		log.Fatal().Msg("Please specify origin")
	}
	if config.Port <= 0 || isFlagSet("port") {
		config.Port = portFlag
	}

	allRules, err := loadRules(config.Rules)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load rules")
	}
	if err := allRules.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid rules")
	}

	originUrl, err := url.Parse(config.Origin)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not parse url")
	}

	p := proxy.New(proxy.Config{
		OriginURL:  *originUrl,
		OriginHost: config.Host,
		Logger:     &log.Logger,
		Rules:      allRules,
	})

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Get("/.cache-directive/rules", p.RulesHandler)
	r.Handle("/*", p)

	log.Info().Msgf("Proxying port %v to %s (with hostname '%s'), %d rule(s)", config.Port, originUrl.String(), config.Host, len(allRules))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", config.Port), r); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// loadRules returns the rules from the rule DB (if any) followed by the
// configured rules. With -seed the configured rules replace the DB rules.
func loadRules(configured rules.Rules) (rules.Rules, error) {
	if dbFilenameFlag == "" {
		return configured, nil
	}
	var s store.RuleStore
	if dbFilenameFlag == "memory" {
		s = store.NewMemStore()
	} else {
		sqlite, err := store.NewSQLiteStore(dbFilenameFlag)
		if err != nil {
			return nil, err
		}
		s = sqlite
	}
	if seedFlag {
		log.Info().Msgf("Seeding rule DB with %d rule(s)", len(configured))
		if err := s.Replace(configured); err != nil {
			return nil, err
		}
		return s.All()
	}
	stored, err := s.All()
	if err != nil {
		return nil, err
	}
	return append(stored, configured...), nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
