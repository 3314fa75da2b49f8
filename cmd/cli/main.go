// Command traincal is a CLI client for the training-calendar service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trainingcal/internal/api"
	"trainingcal/internal/calendar"
	"trainingcal/internal/config"
	"trainingcal/internal/form"
	"trainingcal/internal/registration"
	"trainingcal/internal/store"
	"trainingcal/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `traincal CLI
Usage:
  traincal [-config file] [-base URL] [-v] <cmd> [args]

Commands:
  version
  register        -u <email> -p <password>            (saves token)
  login           -u <email> -p <password>            (saves token)
  logout
  whoami
  month           [-year Y] [-month M]
  day             -date YYYY-MM-DD
  add             -category C -location L -date D -start HH:MM -end HH:MM -max N [-desc text]
  edit            -id ID [same flags as add]
  rm              -id ID
  signup          -event ID -email E [-name N] [-manager M] [-location L]
  participants    -event ID
  unregister      -id ID
  categories
  init-categories
  export-ics      [-year Y] [-month M] [-o file]
`)
	os.Exit(2)
}

// main dispatches subcommands and wires the config, token store, API client
// and event store together.
func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "config file")
	base := flag.String("base", "", "backend base URL (overrides config)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	if *base != "" {
		cfg.BaseURL = *base
	}

	mgr := token.NewManager(token.NewFileStore(cfg.TokenPath), logger)
	client := api.New(cfg.BaseURL, mgr, logger)
	client.SetHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("traincal %s (%s)\n", version, buildDate)

	case "register", "login":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		u := fs.String("u", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}
		var tok string
		if cmd == "register" {
			tok, err = client.Register(ctx, *u, *p)
		} else {
			tok, err = client.Login(ctx, *u, *p)
		}
		if err != nil {
			fail(err)
		}
		if err := mgr.Save(tok); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "logout":
		if err := mgr.Clear(); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "whoami":
		if !mgr.IsAuthenticated() {
			fmt.Println("not authenticated")
			return
		}
		claims := mgr.Claims()
		out := map[string]any{
			"roles": mgr.Roles(),
			"admin": mgr.IsAdmin(),
		}
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			out["subject"] = sub
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			out["expires_at"] = exp.Time.Format(time.RFC3339)
		}
		printJSON(out)

	case "month":
		year, month := monthArgs(args)
		st := newStore(ctx, client, logger)
		if !st.Load(ctx, year, month) {
			fail(fmt.Errorf("%s", st.Err()))
		}
		printJSON(st.Events())

	case "day":
		fs := flag.NewFlagSet("day", flag.ExitOnError)
		date := fs.String("date", "", "date YYYY-MM-DD")
		_ = fs.Parse(args)
		if *date == "" {
			fmt.Fprintln(os.Stderr, "need -date")
			os.Exit(1)
		}
		st := newStore(ctx, client, logger)
		events, ok := st.LoadDay(ctx, *date)
		if !ok {
			fail(fmt.Errorf("%s", st.Err()))
		}
		printJSON(events)

	case "add", "edit":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "event id (edit only)")
		category := fs.String("category", "CONSULTANTA", "category id")
		location := fs.String("location", "", "location")
		date := fs.String("date", "", "date YYYY-MM-DD")
		start := fs.String("start", "09:00", "start time HH:MM")
		end := fs.String("end", "17:00", "end time HH:MM")
		maxP := fs.Int("max", 10, "max participants")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		if cmd == "edit" && *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		requireAdmin(mgr)

		st := newStore(ctx, client, logger)
		fm := form.New(st, logger, 0)
		if cmd == "edit" {
			fm.Edit(form.Fields{ID: *id})
		}
		fm.SetCategory(*category)
		fm.SetLocation(*location)
		fm.SetMaxParticipants(*maxP)
		fm.SetDescription(*desc)
		fm.SetDate(*date)
		fm.SetStartTime(*start)
		fm.SetEndTime(*end)
		if err := fm.Validate(); err != nil {
			fail(err)
		}
		fm.CheckConflicts(ctx)
		if fm.TimeConflict() {
			fail(fmt.Errorf("%s", fm.Err()))
		}
		req := fm.Request()
		in := store.Input{
			ID:              *id,
			EventDate:       req.EventDate,
			CategoryID:      req.CategoryID,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Location:        req.Location,
			MaxParticipants: req.MaxParticipants,
			Description:     req.Description,
		}
		var out any
		if cmd == "edit" {
			out, err = st.Update(ctx, in)
		} else {
			out, err = st.Add(ctx, in)
		}
		if err != nil {
			fail(fmt.Errorf("%s", st.Err()))
		}
		printJSON(out)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "event id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		requireAdmin(mgr)
		st := newStore(ctx, client, logger)
		if !st.Delete(ctx, *id) {
			fail(fmt.Errorf("%s", st.Err()))
		}
		fmt.Println("ok")

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		event := fs.String("event", "", "event id")
		email := fs.String("email", "", "participant email")
		name := fs.String("name", "", "participant name")
		manager := fs.String("manager", "", "manager email")
		location := fs.String("location", "", "participant location")
		_ = fs.Parse(args)
		if *event == "" || *email == "" {
			fmt.Fprintln(os.Stderr, "need -event and -email")
			os.Exit(1)
		}
		st := newStore(ctx, client, logger)
		if !st.LoadAll(ctx) {
			fail(fmt.Errorf("%s", st.Err()))
		}
		flow := registration.NewFlow(st, client, logger)
		res := flow.Register(ctx, registration.Input{
			EventID:          *event,
			ParticipantEmail: *email,
			ParticipantName:  *name,
			ManagerEmail:     *manager,
			Location:         *location,
		})
		fmt.Println(res.Message)
		if !res.OK {
			os.Exit(1)
		}

	case "participants":
		fs := flag.NewFlagSet("participants", flag.ExitOnError)
		event := fs.String("event", "", "event id")
		_ = fs.Parse(args)
		if *event == "" {
			fmt.Fprintln(os.Stderr, "need -event")
			os.Exit(1)
		}
		ps, err := client.ParticipantsByEvent(ctx, *event)
		if err != nil {
			fail(err)
		}
		printJSON(ps)

	case "unregister":
		fs := flag.NewFlagSet("unregister", flag.ExitOnError)
		id := fs.String("id", "", "participant id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := client.RemoveParticipant(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "categories":
		cats, err := client.Categories(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(cats)

	case "init-categories":
		requireAdmin(mgr)
		if err := client.InitializeCategories(ctx); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "export-ics":
		fs := flag.NewFlagSet("export-ics", flag.ExitOnError)
		year := fs.Int("year", time.Now().Year(), "year")
		month := fs.Int("month", int(time.Now().Month()), "month 1-12")
		out := fs.String("o", "", "output file ('' = stdout)")
		_ = fs.Parse(args)
		st := newStore(ctx, client, logger)
		if !st.Load(ctx, *year, *month) {
			fail(fmt.Errorf("%s", st.Err()))
		}
		doc, err := calendar.ExportICS(st.Events())
		if err != nil {
			fail(err)
		}
		if *out == "" {
			fmt.Print(doc)
			return
		}
		if err := os.WriteFile(*out, []byte(doc), 0o644); err != nil {
			fail(err)
		}
		fmt.Printf("wrote %s\n", *out)

	default:
		usage()
	}
}

// ---- helpers ----

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newStore(ctx context.Context, client *api.Client, logger *zap.Logger) *store.Store {
	st := store.New(client, logger)
	st.FetchCategories(ctx)
	return st
}

func monthArgs(args []string) (int, int) {
	now := time.Now()
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "year")
	month := fs.Int("month", int(now.Month()), "month 1-12")
	_ = fs.Parse(args)
	return *year, *month
}

// requireAdmin gates admin commands locally. Advisory only: the backend
// enforces authorization regardless.
func requireAdmin(mgr *token.Manager) {
	if !mgr.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "login required")
		os.Exit(1)
	}
	if !mgr.IsAdmin() {
		fmt.Fprintln(os.Stderr, "admin role required")
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
