package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"genmock-studio/core"
	"genmock-studio/events"
	"genmock-studio/genai"
	"genmock-studio/handlers/api/generate"
	integrationsAPI "genmock-studio/handlers/api/integrations"
	libraryAPI "genmock-studio/handlers/api/library"
	"genmock-studio/handlers/api/listings"
	projectsAPI "genmock-studio/handlers/api/projects"
	"genmock-studio/handlers/auth"
	"genmock-studio/integrations"
	"genmock-studio/library"
	"genmock-studio/marketplace"
	authMiddleware "genmock-studio/middleware"
	"genmock-studio/persist"
	"genmock-studio/project"
	"genmock-studio/stores"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func setupRouter(
	gen genai.Generator,
	projectStore *project.Store,
	libraryStore *library.Store,
	marketStore *marketplace.Store,
	integrationStore *integrations.Store,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-CSRF-Token", "Token", "session", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.AuthJWT)

		r.Route("/generate", func(r chi.Router) {
			r.Post("/design", generate.HandleGenerateDesign(gen, projectStore))
			r.Post("/mockup", generate.HandleGenerateMockup(gen, projectStore))
			r.Post("/analyze", generate.HandleAnalyzeDesign(gen))
			r.Post("/edit", generate.HandleEditDesign(gen))
			r.Post("/listing", generate.HandleGenerateListing(gen))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectsAPI.HandleList(projectStore))
			r.Get("/current", projectsAPI.HandleGetCurrent(projectStore))
			r.Put("/current", projectsAPI.HandleSetCurrent(projectStore))
			r.Get("/{id}", projectsAPI.HandleGet(projectStore))
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/", libraryAPI.HandleListItems(libraryStore))
			r.Post("/", libraryAPI.HandleCreateItem(libraryStore))
			r.Post("/bulk-delete", libraryAPI.HandleBulkDelete(libraryStore))
			r.Post("/bulk-tag", libraryAPI.HandleBulkTag(libraryStore))
			r.Post("/bulk-move", libraryAPI.HandleBulkMove(libraryStore))
			r.Route("/selection", func(r chi.Router) {
				r.Get("/", libraryAPI.HandleGetSelection(libraryStore))
				r.Post("/all", libraryAPI.HandleSelectAll(libraryStore))
				r.Delete("/", libraryAPI.HandleClearSelection(libraryStore))
				r.Post("/{id}", libraryAPI.HandleToggleSelection(libraryStore))
			})
			r.Route("/filters", func(r chi.Router) {
				r.Get("/", libraryAPI.HandleGetFilters(libraryStore))
				r.Put("/", libraryAPI.HandleSetFilters(libraryStore))
				r.Delete("/", libraryAPI.HandleClearFilters(libraryStore))
			})
			r.Put("/prefs", libraryAPI.HandleSetPrefs(libraryStore))
			r.Route("/collections", func(r chi.Router) {
				r.Get("/", libraryAPI.HandleListCollections(libraryStore))
				r.Post("/", libraryAPI.HandleCreateCollection(libraryStore))
				r.Delete("/{id}", libraryAPI.HandleDeleteCollection(libraryStore))
				r.Post("/{id}/items", libraryAPI.HandleAddToCollection(libraryStore))
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", libraryAPI.HandleGetItem(libraryStore))
				r.Put("/", libraryAPI.HandleUpdateItem(libraryStore))
				r.Delete("/", libraryAPI.HandleDeleteItem(libraryStore))
				r.Post("/views", libraryAPI.HandleIncrementViews(libraryStore))
				r.Post("/downloads", libraryAPI.HandleIncrementDownloads(libraryStore))
			})
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listings.HandleList(marketStore))
			r.Post("/", listings.HandleCreate(marketStore))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listings.HandleGet(marketStore))
				r.Put("/", listings.HandleUpdate(marketStore))
				r.Delete("/", listings.HandleDelete(marketStore))
				r.Post("/publish", listings.HandlePublish(marketStore))
			})
		})

		r.Route("/integrations", func(r chi.Router) {
			r.Get("/", integrationsAPI.HandleList(integrationStore))
			r.Post("/", integrationsAPI.HandleConnect(integrationStore))
			r.Delete("/{id}", integrationsAPI.HandleDisconnect(integrationStore))
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", auth.HandleLogin)
		r.Get("/callback", auth.HandleCallback)
	})

	return r
}

func storageLimit() int64 {
	raw := os.Getenv("STORAGE_LIMIT_BYTES")
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logrus.WithField("value", raw).Warn("Invalid STORAGE_LIMIT_BYTES, using default")
		return 0
	}
	return limit
}

func waitForShutdown(hub *events.Hub) {
	exit := make(chan struct{})
	signalC := make(chan os.Signal, 1)

	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-signalC
		close(exit)
	}()

	<-exit
	hub.Close()
	os.Exit(0)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	auth.InitAuth()

	kv := stores.GetKV()
	manager := persist.NewManager(kv)

	projectStore := project.NewStore(manager, storageLimit())
	libraryStore := library.NewStore(manager)
	marketStore := marketplace.NewStore(manager)
	integrationStore := integrations.NewStore(manager)

	ctx := context.Background()
	if err := projectStore.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load projects")
	}
	if err := libraryStore.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load library")
	}
	if err := marketStore.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load listings")
	}
	if err := integrationStore.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load integrations")
	}

	hub := events.NewHub()

	// Every project mutation flows into the library and out to clients.
	projectStore.Subscribe(func(projects []*core.Project) {
		libraryStore.SyncProjects(context.Background(), projects)
		hub.ProjectChange(len(projects))
		hub.LibrarySync(len(libraryStore.Items()))
	})
	marketStore.OnChange(func(count int) {
		hub.ListingChange(count)
	})

	// Seed the library from whatever survived the last run.
	libraryStore.SyncProjects(ctx, projectStore.Projects())

	gen := genai.NewClient()

	r := setupRouter(gen, projectStore, libraryStore, marketStore, integrationStore)
	r.Mount("/socket.io/", hub.Server().ServeHandler(nil))

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddress, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(hub)
}
