package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/contactkeval/option-quant/internal/batch"
	"github.com/contactkeval/option-quant/internal/chain"
	"github.com/contactkeval/option-quant/internal/logger"
	"github.com/contactkeval/option-quant/internal/pricing"
	"github.com/contactkeval/option-quant/internal/report"
)

// Config drives one batch evaluation run.
type Config struct {
	Underlying  string  `json:"underlying"`
	Expiry      string  `json:"expiry"` // YYYY-MM-DD
	Rate        float64 `json:"risk_free_rate"`
	Source      string  `json:"source"` // "massive" or "synthetic"
	OutputDir   string  `json:"output_dir"`
	Parallelism int     `json:"parallelism"`
}

func main() {
	configPath := flag.String("config", "quant.json", "path to JSON config")
	rest := flag.Bool("rest", false, "run as REST server (price/greeks/iv endpoints)")
	port := flag.String("port", ":8080", "REST server listen address")
	verbosity := flag.Int("v", 1, "log verbosity (0=error 1=info 2=debug 3=trace)")
	flag.Parse()

	logger.SetVerbosity(*verbosity)

	if *rest {
		serveREST(*port)
		return
	}

	cfgData, err := os.ReadFile(*configPath)
	if err != nil {
		logger.Errorf("reading config: %v", err)
		os.Exit(1)
	}

	var cfg Config
	if err := json.Unmarshal(cfgData, &cfg); err != nil {
		logger.Errorf("invalid config: %v", err)
		os.Exit(1)
	}

	expiry, err := time.Parse("2006-01-02", cfg.Expiry)
	if err != nil {
		logger.Errorf("invalid expiry %q: %v", cfg.Expiry, err)
		os.Exit(1)
	}

	// choose source
	var src chain.Source
	apiKey := os.Getenv("MASSIVE_API_KEY")
	if cfg.Source == "massive" && apiKey != "" {
		src = chain.NewMassiveSource(apiKey, cfg.Rate,
			chain.WithSecondary(chain.NewSyntheticSource(cfg.Rate)))
		logger.Infof("massive chain source enabled")
	} else {
		src = chain.NewSyntheticSource(cfg.Rate)
		logger.Infof("synthetic chain source enabled")
	}

	start := time.Now()
	ctx := context.Background()

	quotes, err := src.Chain(ctx, cfg.Underlying, expiry, time.Now())
	if err != nil {
		logger.Errorf("fetching chain: %v", err)
		os.Exit(1)
	}

	rows, err := batch.Evaluate(ctx, quotes, batch.Options{Parallelism: cfg.Parallelism})
	if err != nil {
		logger.Errorf("evaluating chain: %v", err)
		os.Exit(1)
	}

	outdir := cfg.OutputDir
	if outdir == "" {
		outdir = "."
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		logger.Errorf("could not create output dir %s: %v", outdir, err)
		os.Exit(1)
	}
	if err := report.WriteJSON(rows, outdir); err != nil {
		logger.Errorf("writing JSON report: %v", err)
	}
	if err := report.WriteCSV(rows, outdir); err != nil {
		logger.Errorf("writing CSV report: %v", err)
	}
	logger.Infof("finished in %v, wrote %d rows to %s", time.Since(start), len(rows), outdir)
}

// serveREST exposes the core over HTTP for the research notebooks.
// Each endpoint takes an OptionQuote JSON body and returns the result.
func serveREST(port string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/price", handle(func(q pricing.OptionQuote) (any, error) {
		return pricing.Price(q)
	}))
	mux.HandleFunc("/greeks", handle(func(q pricing.OptionQuote) (any, error) {
		return pricing.Greeks(q)
	}))
	mux.HandleFunc("/iv", handle(func(q pricing.OptionQuote) (any, error) {
		return pricing.ImpliedVolatility(q)
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	logger.Infof("starting REST server on %s", port)
	if err := http.ListenAndServe(port, mux); err != nil {
		logger.Errorf("REST server: %v", err)
		os.Exit(1)
	}
}

func handle(fn func(pricing.OptionQuote) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q pricing.OptionQuote
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := fn(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
