package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"canteen/internal/adapters/api"
	"canteen/internal/adapters/api/perf"
	"canteen/internal/adapters/storage"
	attendanceStore "canteen/internal/adapters/storage/attendance"
	ratingStore "canteen/internal/adapters/storage/rating"
	"canteen/internal/application/orchestrators"
	"canteen/internal/application/planner"
	"canteen/internal/application/projections"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/policy"
	"canteen/internal/env"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const usage = `canteen %s — cafeteria booking client

Usage: canteen [-stats] <command> [flags]

Commands:
  week        show the week menu with selection and lock state
  toggle      flip attendance for one or more days and save
  rate        rate a served dish
  unrate      retract a rating
  chef-day    show one day as the chef sees it
  chef-add    put a dish on the menu for one or more days
  chef-remove take dish-on-date pairings off a day
  search      look up existing dishes by name
`

type app struct {
	client    *api.Client
	days      attendanceStore.Store
	ratings   ratingStore.Store
	collector *perf.Collector
	today     dates.DateKey
	clock     func() time.Time
}

func main() {
	env.Load()
	setupLogging()

	showStats := flag.Bool("stats", false, "print timing stats after the command")
	flag.Usage = func() { fmt.Fprintf(os.Stderr, usage, version) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	dbPath := env.GetString(env.KeyDBPath, "canteen.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		fatal("open database: %v", err)
	}
	defer db.Close()
	if err := storage.InitDB(db); err != nil {
		fatal("init database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, env.GetInt(env.KeySlowQueryMs, storage.DefaultSlowQueryMs))

	backendURL := env.GetString(env.KeyBackendURL, "http://localhost:8000/")
	timeout := env.GetDuration(env.KeyHTTPTimeout, api.DefaultTimeout)

	a := &app{
		client:    api.NewClient(backendURL, timeout, collector),
		days:      attendanceStore.NewSQLiteStore(timedDB),
		ratings:   ratingStore.NewSQLiteStore(timedDB),
		collector: collector,
		today:     dates.FromTime(time.Now()),
		clock:     time.Now,
	}

	ctx := context.Background()
	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fatal("%v", err)
	}

	if *showStats {
		a.printStats()
	}
}

func setupLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(env.GetString(env.KeyLogLevel, "warn")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "week":
		return a.cmdWeek(ctx, args)
	case "toggle":
		return a.cmdToggle(ctx, args)
	case "rate":
		return a.cmdRate(ctx, args)
	case "unrate":
		return a.cmdUnrate(ctx, args)
	case "chef-day":
		return a.cmdChefDay(ctx, args)
	case "chef-add":
		return a.cmdChefAdd(ctx, args)
	case "chef-remove":
		return a.cmdChefRemove(ctx, args)
	case "search":
		return a.cmdSearch(ctx, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdWeek(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("week", flag.ExitOnError)
	anchor := fs.String("date", a.today.String(), "any date inside the week to show")
	fs.Parse(args)

	key, err := dates.Parse(*anchor)
	if err != nil {
		return err
	}

	week, err := projections.QueryWeekMenu(ctx, projections.WeekMenuInput{
		Anchor:        key,
		Today:         a.today,
		LockAheadDays: policy.BookingLockAheadDays,
	}, projections.WeekMenuDeps{API: a.client, Selection: a.days, Ratings: a.ratings})
	if err != nil {
		return err
	}

	fmt.Printf("Week %s\n", week.Window.Label)
	for _, day := range week.Days {
		marker := " "
		if day.Selected {
			marker = "x"
		}
		suffix := ""
		if day.Locked {
			suffix = " (locked)"
		}
		fmt.Printf("\n[%s] %s %s%s\n", marker, day.Name, day.Date, suffix)
		for _, category := range day.Categories {
			fmt.Printf("  %s\n", category.Category)
			for _, d := range category.Dishes {
				fmt.Printf("    #%-5d %s%s%s\n", d.DateHasDishID, d.Dish.Name, ratingSummary(d.AverageRating, d.RatingCount), ownRating(d))
			}
		}
	}
	return nil
}

func ratingSummary(avg *float64, count int) string {
	if avg == nil {
		return ""
	}
	return fmt.Sprintf("  %.1f (%d)", *avg, count)
}

func ownRating(d projections.DishView) string {
	if d.OwnRating == nil {
		return ""
	}
	note := ""
	if !d.RatingEditable {
		note = ", final"
	}
	return fmt.Sprintf("  [yours: %d%s]", *d.OwnRating, note)
}

func (a *app) cmdToggle(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("toggle: at least one date is required")
	}

	p := planner.New(planner.BookingConfig(), a.client, a.days, a.clock)
	if err := p.Load(ctx); err != nil {
		return err
	}
	for _, arg := range args {
		key, err := dates.Parse(arg)
		if err != nil {
			return err
		}
		if !p.Toggle(key) {
			return fmt.Errorf("toggle: %s is locked or outside the current week", key)
		}
	}

	result, err := p.Save(ctx)
	if err != nil {
		return err
	}
	if !result.Saved {
		fmt.Println("No changes to save.")
		return nil
	}
	if result.AddErr != nil || result.RemoveErr != nil {
		fmt.Println("Saved locally; the backend could not be updated for every day.")
	} else {
		fmt.Printf("Saved: +%d -%d days.\n", len(result.Applied.ToAdd), len(result.Applied.ToRemove))
	}
	return nil
}

func (a *app) cmdRate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	id := fs.Int64("id", 0, "dish-on-date id")
	date := fs.String("date", "", "date the dish was served (YYYY-MM-DD)")
	value := fs.Int("value", 0, "rating 1..5")
	fs.Parse(args)

	key, err := dates.Parse(*date)
	if err != nil {
		return err
	}

	result, err := orchestrators.ExecuteRateDish(ctx, orchestrators.RateDishInput{
		DateHasDishID: *id,
		Date:          key,
		Value:         *value,
		Today:         a.today,
	}, orchestrators.RateDishDeps{API: a.client, Cache: a.ratings})
	if err != nil {
		return err
	}

	verb := "Rated"
	if result.Revised {
		verb = "Re-rated"
	}
	fmt.Printf("%s dish #%d with %d.%s\n", verb, *id, *value, aggregateSummary(result.Aggregate))
	return nil
}

func (a *app) cmdUnrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unrate", flag.ExitOnError)
	id := fs.Int64("id", 0, "dish-on-date id")
	date := fs.String("date", "", "date the dish was served (YYYY-MM-DD)")
	fs.Parse(args)

	key, err := dates.Parse(*date)
	if err != nil {
		return err
	}

	result, err := orchestrators.ExecuteDeleteRating(ctx, orchestrators.DeleteRatingInput{
		DateHasDishID: *id,
		Date:          key,
		Today:         a.today,
	}, orchestrators.DeleteRatingDeps{API: a.client, Cache: a.ratings})
	if err != nil {
		return err
	}
	fmt.Printf("Retracted your %d for dish #%d.%s\n", result.Removed, *id, aggregateSummary(result.Aggregate))
	return nil
}

func aggregateSummary(agg api.RatingAggregate) string {
	if agg.AverageRating == nil {
		return ""
	}
	return fmt.Sprintf(" Now averaging %.1f over %d ratings.", *agg.AverageRating, agg.RatingCount)
}

func (a *app) cmdChefDay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chef-day", flag.ExitOnError)
	date := fs.String("date", a.today.String(), "day to show (YYYY-MM-DD)")
	fs.Parse(args)

	key, err := dates.Parse(*date)
	if err != nil {
		return err
	}

	day, err := projections.QueryChefDay(ctx,
		projections.ChefDayInput{Date: key, Today: a.today},
		projections.ChefDayDeps{API: a.client})
	if err != nil {
		return err
	}

	suffix := ""
	if day.Locked {
		suffix = " (locked)"
	}
	fmt.Printf("%s %s%s\n", key.DayName(), key, suffix)
	if day.Attendance != nil {
		fmt.Printf("Booked visitors: %d\n", *day.Attendance)
	} else {
		fmt.Println("Booked visitors: none yet")
	}
	for _, category := range day.Categories {
		fmt.Printf("\n%s\n", category.Category)
		if len(category.Dishes) == 0 {
			fmt.Println("  (empty)")
			continue
		}
		for _, d := range category.Dishes {
			fmt.Printf("  #%-5d %s%s\n", d.DateHasDishID, d.Dish.Name, ratingSummary(d.AverageRating, d.RatingCount))
		}
	}
	return nil
}

func (a *app) cmdChefAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chef-add", flag.ExitOnError)
	dateList := fs.String("dates", "", "comma-separated target dates (YYYY-MM-DD)")
	existing := fs.Int64("existing", 0, "attach this existing dish id instead of creating")
	name := fs.String("name", "", "dish name")
	description := fs.String("desc", "", "dish description")
	category := fs.String("category", "", `course category ("Soup", "Main Course", "Side", "Dessert", "Water")`)
	calories := fs.Int("calories", 0, "calories per serving")
	light := fs.Bool("light", false, "mark as light & healthy")
	sugarFree := fs.Bool("sugarfree", false, "mark as sugar free")
	fs.Parse(args)

	days, err := parseDateList(*dateList)
	if err != nil {
		return err
	}

	result, err := orchestrators.ExecuteCreateDish(ctx, orchestrators.CreateDishInput{
		ExistingDishID: *existing,
		Name:           *name,
		Description:    *description,
		Category:       *category,
		Calories:       *calories,
		LightHealthy:   *light,
		SugarFree:      *sugarFree,
		Dates:          days,
		Today:          a.today,
	}, orchestrators.CreateDishDeps{API: a.client})
	if err != nil {
		return err
	}

	if result.Attached {
		fmt.Printf("Attached dish #%d to %d day(s).\n", *existing, len(result.Dates))
	} else {
		fmt.Printf("Created %q on %d day(s).\n", *name, len(result.Dates))
	}
	return nil
}

func (a *app) cmdChefRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chef-remove", flag.ExitOnError)
	date := fs.String("date", "", "day the pairings belong to (YYYY-MM-DD)")
	idList := fs.String("ids", "", "comma-separated dish-on-date ids")
	fs.Parse(args)

	key, err := dates.Parse(*date)
	if err != nil {
		return err
	}
	ids, err := parseIDList(*idList)
	if err != nil {
		return err
	}

	err = orchestrators.ExecuteDeleteDishFromDate(ctx, orchestrators.DeleteDishFromDateInput{
		DateHasDishIDs: ids,
		Date:           key,
		Today:          a.today,
	}, orchestrators.DeleteDishFromDateDeps{API: a.client})
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d pairing(s) from %s.\n", len(ids), key)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "name fragment to search for")
	category := fs.String("category", "", "optional course category filter")
	fs.Parse(args)

	result, err := orchestrators.ExecuteSearchDishes(ctx, orchestrators.SearchDishesInput{
		Query:    *query,
		Category: dish.Category(*category),
	}, orchestrators.SearchDishesDeps{API: a.client})
	if err != nil {
		return err
	}

	if len(result.Dishes) == 0 {
		fmt.Println("No matching dishes.")
		return nil
	}
	for _, d := range result.Dishes {
		fmt.Printf("#%-5d %-12s %s (%d kcal)\n", d.ID, d.Category, d.Name, d.Calories)
	}
	return nil
}

func (a *app) printStats() {
	snapshot := a.collector.Snapshot(time.Time{}, 10)
	fmt.Fprintf(os.Stderr, "\n%d timing entries recorded\n", snapshot.TotalRecorded)
	for _, s := range snapshot.BackendCalls {
		fmt.Fprintf(os.Stderr, "  backend %-40s n=%-3d fail=%-3d avg=%.1fms max=%.1fms\n",
			s.Op, s.Count, s.Failures, s.AvgMs, s.MaxMs)
	}
	for _, s := range snapshot.LocalQueries {
		fmt.Fprintf(os.Stderr, "  local   %-40s n=%-3d fail=%-3d avg=%.1fms max=%.1fms\n",
			s.Op, s.Count, s.Failures, s.AvgMs, s.MaxMs)
	}
}

func parseDateList(list string) ([]dates.DateKey, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var days []dates.DateKey
	for _, part := range strings.Split(list, ",") {
		key, err := dates.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		days = append(days, key)
	}
	return days, nil
}

func parseIDList(list string) ([]int64, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(list, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad dish-on-date id %q: %v", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
