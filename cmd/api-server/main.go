package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dancehub/internal/auth"
	"dancehub/internal/carousel"
	"dancehub/internal/chat"
	"dancehub/internal/events"
	"dancehub/internal/leaderboard"
	"dancehub/internal/notify"
	"dancehub/internal/playcount"
	"dancehub/internal/playlists"
	"dancehub/internal/profile"
	"dancehub/internal/songs"
	"dancehub/pkg/database"
	"dancehub/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	// The catalog is a startup precondition: no carousel request is served
	// without it.
	songRepo := songs.NewRepo(db)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	all, err := songRepo.LoadAll(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatalf("catalog load failed: %v", err)
	}
	catalog := songs.NewCatalog(all)
	log.Printf("catalog loaded: %d songs", catalog.Len())

	playlistCfg, err := loadPlaylists(srvCfg.PlaylistsPath)
	if err != nil {
		log.Fatalf("playlist config failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the TCP event feed first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(srvCfg.EventsAddr, hub)

	registry := notify.NewRegistry()
	notifySrv := notify.NewServer(srvCfg.NotifyAddr, registry, nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "songs": catalog.Len()})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          dbCfg.Path,
			"songs":       catalog.Len(),
			"week":        playcount.CurrentWeek(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Songs (public)
	songHandler := songs.NewHandler(catalog)
	songHandler.RegisterRoutes(router.Group("/songs"))
	router.GET("/songdb", songs.DatabaseHandler(catalog))

	// Auth / tickets
	authCfg := utils.LoadAuthConfig()
	ticketSvc := auth.TicketService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, ticketSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	requireTicket := auth.AuthMiddleware(ticketSvc, authRepo)
	optionalTicket := auth.OptionalAuthMiddleware(ticketSvc, authRepo)

	// Carousel: ticket optional, anonymous players get the fallback shelves.
	profileRepo := profile.NewRepo(db)
	countRepo := playcount.NewRepo(db)
	composer := carousel.NewComposer(catalog, profileRepo, countRepo, playlistCfg, srvCfg.DisplayName)
	carouselHandler := carousel.NewHandler(composer)
	carouselGroup := router.Group("/carousel")
	carouselGroup.Use(optionalTicket)
	carouselHandler.RegisterRoutes(carouselGroup)

	// Leaderboards (top is public, own rank needs a ticket)
	lbHandler := leaderboard.NewHandler(leaderboard.NewRepo(db))
	lbHandler.RegisterRoutes(router.Group("/leaderboard"), requireTicket)

	// Chat floors (ticket optional)
	chatHub := chat.NewHub(0)
	chatGroup := router.Group("/chat")
	chatGroup.GET("/ws", optionalTicket, chat.WSHandler(chatHub))
	chatGroup.GET("/history", chat.HistoryHandler(chatHub))

	// Protected profile routes
	protected := router.Group("/users")
	protected.Use(requireTicket)

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	profileHandler := profile.NewHandler(profileRepo, catalog, countRepo, hub, notifySrv)
	profileHandler.RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifySrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}
	if err := notifySrv.Close(); err != nil {
		log.Printf("udp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}

func loadPlaylists(path string) (*playlists.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No playlist file means no playlist shelves; that's fine.
		log.Printf("playlist config %s not found, starting without playlists", path)
		return playlists.Empty(), nil
	}
	return playlists.Load(path)
}
