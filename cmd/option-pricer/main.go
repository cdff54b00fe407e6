package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/contactkeval/option-pricer/internal/chain"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/quote"
	"github.com/contactkeval/option-pricer/internal/ratecurve"
	"github.com/contactkeval/option-pricer/internal/report"
)

func main() {
	ticker := flag.String("ticker", "", "underlying ticker symbol (prompts when omitted)")
	years := flag.Float64("t", 0.5, "desired time to expiration in years")
	rule := flag.String("rule", "ATM", "strike rule: ATM, OTM_PCT, ITM_PCT")
	pct := flag.Float64("pct", 0.0, "moneyness pct for OTM_PCT / ITM_PCT rules")
	comp := flag.String("comp", "annual", "yield compounding assumption: annual or semiannual")
	dataDir := flag.String("data", "", "local CSV data directory (optional)")
	asJSON := flag.Bool("json", false, "print the quote as JSON instead of a table")
	outDir := flag.String("out", "", "also write quote.json to this directory")
	verbosity := flag.Int("v", 1, "verbosity: 0=errors,1=info,2=debug,3=trace")
	rest := flag.Bool("rest", false, "run as REST server (accept quote requests)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		logger.Debugf(".env loaded")
	}
	logger.SetVerbosity(*verbosity)

	prov := chooseProvider(*dataDir)
	quoter := quote.NewQuoter(prov)

	if *rest {
		serveREST(quoter, *port)
		return
	}

	req := quote.Request{
		Ticker:      strings.ToUpper(*ticker),
		TargetYears: *years,
		Rule:        chain.StrikeRule(strings.ToUpper(*rule)),
		Pct:         *pct,
		Compounding: ratecurve.Compounding(strings.ToLower(*comp)),
	}

	// fall back to the interactive flow when no ticker was given
	if req.Ticker == "" {
		p := NewPrompter()
		req.Ticker = strings.ToUpper(p.String("Enter the stock ticker symbol (e.g. AAPL)", "AAPL"))
		req.TargetYears = p.Float("Time to expiration in years (e.g. 0.5 for 6 months)", *years)
	}

	res, err := quoter.Quote(req)
	if err != nil {
		logger.Errorf("quote failed: %v", err)
		os.Exit(1)
	}

	if *asJSON {
		if err := report.WriteJSON(os.Stdout, res); err != nil {
			logger.Errorf("write json: %v", err)
			os.Exit(1)
		}
	} else {
		report.WriteTable(os.Stdout, res)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			logger.Errorf("could not create output dir %s: %v", *outDir, err)
		} else if err := report.SaveJSON(res, *outDir); err != nil {
			logger.Errorf("save quote.json: %v", err)
		}
	}
}

// chooseProvider picks local CSV, Massive, or synthetic data in that order
// of preference depending on what is configured.
func chooseProvider(dataDir string) data.Provider {
	if dataDir != "" {
		logger.Infof("local CSV provider enabled (dir=%s)", dataDir)
		return data.GetLocalFileDataProvider(dataDir)
	}
	if os.Getenv("POLYGON_API_KEY") != "" {
		logger.Infof("massive provider enabled")
		return data.GetMassiveDataProvider()
	}
	logger.Infof("synthetic provider enabled (no POLYGON_API_KEY set)")
	return data.NewSyntheticProvider()
}

func serveREST(quoter *quote.Quoter, port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("received /quote request")

		req := quote.Request{
			Ticker: strings.ToUpper(r.URL.Query().Get("ticker")),
			Rule:   chain.StrikeRule(strings.ToUpper(r.URL.Query().Get("rule"))),
		}
		if v, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64); err == nil {
			req.TargetYears = v
		}
		if v, err := strconv.ParseFloat(r.URL.Query().Get("pct"), 64); err == nil {
			req.Pct = v
		}
		if req.Rule == "" {
			req.Rule = chain.ATM
		}

		res, err := quoter.Quote(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })

	logger.Infof("starting REST server on %s", port)
	if err := http.ListenAndServe(port, mux); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
