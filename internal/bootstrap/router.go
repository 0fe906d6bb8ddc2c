package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/studioform/portfolio-admin-backend/config"
	"github.com/studioform/portfolio-admin-backend/internal/admin/controller"
	adminhttp "github.com/studioform/portfolio-admin-backend/internal/admin/http"
	httpapi "github.com/studioform/portfolio-admin-backend/internal/api/http"
	"github.com/studioform/portfolio-admin-backend/internal/api/http/middleware"
	"github.com/studioform/portfolio-admin-backend/internal/auth"
	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
	"github.com/studioform/portfolio-admin-backend/internal/session"
	"github.com/studioform/portfolio-admin-backend/internal/uploads"
	"github.com/studioform/portfolio-admin-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Objects     objectstore.Store
}

// BuildRouter wires the public surface (health, login, upload) and the
// session-gated admin surface. It returns the dashboard so the caller can
// kick off the initial fetch.
func BuildRouter(dep RouterDeps) (*gin.Engine, *controller.Dashboard) {
	cfg := dep.Config

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	sessions := session.NewStore(dep.Redis, cfg.Auth.SessionTTL)
	store := recordstore.NewPostgres(dep.DB)

	authHandler := auth.NewHandler(sessions, userRepo, cfg.Auth.CookieName, cfg.Auth.CookieSecure, cfg.Auth.SessionTTL)
	auth.Register(r, authHandler)

	uploads.NewHandler(dep.Objects, cfg.Storage.UploadPrefix, cfg.Upload.MaxBytes, cfg.Upload.RequestsPerMin).Register(r)

	projects := controller.NewProjectController(store, dep.Objects, cfg.Storage.UploadPrefix)
	dash := controller.NewDashboard(store, sessions, projects)

	admin := r.Group("/admin")
	admin.Use(auth.RequireSuperAdmin(cfg.Auth.CookieName, sessions, userRepo))
	adminhttp.NewHandler(dash, cfg.Auth.CookieName).Register(admin)

	return r, dash
}
