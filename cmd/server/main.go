package main // Entry point package

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/config"
    "github.com/iliyamo/ticket-inventory/internal/database"
    "github.com/iliyamo/ticket-inventory/internal/handler"
    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/lock"
    "github.com/iliyamo/ticket-inventory/internal/middleware"
    "github.com/iliyamo/ticket-inventory/internal/payment"
    "github.com/iliyamo/ticket-inventory/internal/queue"
    "github.com/iliyamo/ticket-inventory/internal/repository"
    "github.com/iliyamo/ticket-inventory/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    engineCfg := config.LoadEngineConfig()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    users := repository.NewUserRepo(db)
    movies := repository.NewMovieRepo(db)
    theatres := repository.NewTheatreRepo(db)
    shows := repository.NewShowRepo(db)

    // The seat inventory is in-memory, so existing shows need their
    // layouts rebuilt before the server takes traffic.
    store := inventory.NewStore()
    startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
    ids, err := shows.ListIDs(startupCtx)
    cancelStartup()
    if err != nil {
        log.Fatalf("list shows: %v", err)
    }
    for _, id := range ids {
        if err := store.Materialize(id); err != nil {
            log.Fatalf("materialize show %d: %v", id, err)
        }
    }
    log.Printf("materialized seat inventory for %d shows", len(ids))

    locks := lock.NewManager(store, engineCfg.HoldTTL)
    bookings := booking.NewService(store, users, shows)
    ledger := payment.NewLedger(bookings)

    rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    go locks.RunSweeper(rootCtx, engineCfg.SweepInterval)
    if engineCfg.BookingTTL > 0 {
        go bookings.RunExpiry(rootCtx, engineCfg.BookingTTL, engineCfg.ExpiryEvery)
    }
    go func() {
        if err := queue.StartSettlementConsumer(); err != nil {
            log.Printf("settlement consumer stopped: %v", err)
        }
    }()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, rate limiting disabled")
    }
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    e := echo.New()
    e.HideBanner = true

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
    router.RegisterAPI(e,
        handler.NewCatalogHandler(movies, theatres),
        handler.NewShowHandler(shows, movies, theatres, store),
        handler.NewSeatHandler(store, locks),
        handler.NewBookingHandler(bookings),
        handler.NewPaymentHandler(ledger, bookings, store),
        limiter,
        cfg.JWTSecret,
    )

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    go func() {
        if err := e.Start(addr); err != nil {
            log.Printf("server stopped: %v", err)
        }
    }()

    <-rootCtx.Done()
    log.Println("shutting down")

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Fatalf("shutdown: %v", err)
    }
}
