package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption-marketplace/docs"
	"pet-adoption-marketplace/internal/adapters/blob/local"
	mem "pet-adoption-marketplace/internal/adapters/storage/memory"
	"pet-adoption-marketplace/internal/domain/listings"
	"pet-adoption-marketplace/internal/domain/users"
	"pet-adoption-marketplace/internal/middleware"
	"pet-adoption-marketplace/internal/platform/logger"
	"pet-adoption-marketplace/internal/ports/auth"
	"pet-adoption-marketplace/internal/ports/blob"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Issuer       auth.TokenIssuer  // puede ser nil: signup/login sin token

	// Opcionales: si no vienen, in-memory.
	Listings listings.Repository
	Users    users.Repository

	// Si no viene, disco local bajo el tmp del sistema.
	Blobs blob.Storage

	Logger logger.Logger
}

// Services expone los servicios armados, para el bootstrap (admin inicial) y tests.
type Services struct {
	Listings *listings.Service
	Users    *users.Service
}

func NewRouter(opts Options) http.Handler {
	h, _ := New(opts)
	return h
}

// New arma el router y devuelve también los servicios que cuelgan de él.
func New(opts Options) (http.Handler, Services) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	listingRepo := opts.Listings
	if listingRepo == nil {
		listingRepo = mem.NewListingRepo()
	}
	userRepo := opts.Users
	if userRepo == nil {
		userRepo = mem.NewUserRepo()
	}
	blobs := opts.Blobs
	if blobs == nil {
		s, err := local.New(filepath.Join(os.TempDir(), "petpal-uploads"))
		if err != nil {
			panic("router: no blob storage: " + err.Error())
		}
		blobs = s
	}

	// Services por módulo
	svcs := Services{
		Listings: listings.NewService(listingRepo, log),
		Users:    users.NewService(userRepo, opts.Issuer, log),
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log.With(map[string]any{"component": "http"})))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		listings.RegisterRoutes(api, svcs.Listings, blobs, log)
		users.RegisterRoutes(api, svcs.Users)
	})
	listings.RegisterUploadRoutes(r, blobs)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r, svcs
}
