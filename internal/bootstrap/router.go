package bootstrap

import (
	"database/sql"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/openforge-dev/openforge-backend/config"
	"github.com/openforge-dev/openforge-backend/internal/cache"
	"github.com/openforge-dev/openforge-backend/internal/clerk"
	dashhttp "github.com/openforge-dev/openforge-backend/internal/dashboard/http"
	dashrepo "github.com/openforge-dev/openforge-backend/internal/dashboard/repository"
	dashservice "github.com/openforge-dev/openforge-backend/internal/dashboard/service"
	"github.com/openforge-dev/openforge-backend/internal/github"
	markethttp "github.com/openforge-dev/openforge-backend/internal/marketplace/http"
	marketservice "github.com/openforge-dev/openforge-backend/internal/marketplace/service"
	projhttp "github.com/openforge-dev/openforge-backend/internal/projects/http"
	projrepo "github.com/openforge-dev/openforge-backend/internal/projects/repository"
	projservice "github.com/openforge-dev/openforge-backend/internal/projects/service"
	usershttp "github.com/openforge-dev/openforge-backend/internal/users/http"
	usersrepo "github.com/openforge-dev/openforge-backend/internal/users/repository"
)

// RouterDeps carries the process-lifetime dependencies into the router.
type RouterDeps struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
}

// BuildRouter wires every feature into one gin engine.
func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = dep.Config.AllowedOrigins()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	NewHealthHandler("openforge-backend", dep.Config.App.Version, dep.DB).RegisterRoutes(r)

	store := pickCacheStore(dep)

	ghClient := github.NewClient(dep.Config.GitHub.Token)

	var oauth github.OAuthTokenProvider
	if dep.Config.Clerk.SecretKey != "" {
		oauth = clerk.NewClient(dep.Config.Clerk.SecretKey)
	}
	resolver := github.NewTokenResolver(oauth, dep.Config.GitHub.Token, ghClient)

	verifier, err := clerk.NewSessionVerifier(dep.Config.Clerk.JWTPublicKeyPEM)
	if err != nil {
		return nil, err
	}

	projectRepo := projrepo.NewProjectRepository(dep.DB)
	starRepo := projrepo.NewStarRepository(dep.DB)
	membershipRepo := projrepo.NewMembershipRepository(dep.DB)
	metricsRepo := projrepo.NewMetricsRepository(dep.DB)
	userRepo := usersrepo.NewUserRepository(dep.DB)
	contributionRepo := dashrepo.NewContributionRepository(dep.DB)

	provisioning := projservice.NewProvisioningService(resolver, ghClient, projectRepo, metricsRepo)
	catalog := projservice.NewCatalogService(projectRepo, starRepo, membershipRepo)
	marketplace := marketservice.NewService(ghClient, store)
	dashboard := dashservice.NewService(userRepo, contributionRepo, catalog)

	api := r.Group("/api")

	// Marketplace browsing is public.
	markethttp.NewHandler(marketplace).Register(api.Group("/marketplace"))

	authed := api.Group("")
	authed.Use(verifier.Middleware())
	projhttp.NewHandler(provisioning, catalog).Register(authed)
	dashhttp.NewHandler(dashboard).Register(authed)
	usershttp.NewHandler(userRepo).Register(authed)

	return r, nil
}

// pickCacheStore prefers Redis, falls back to the Postgres-backed store and
// degrades to a no-op when neither is available.
func pickCacheStore(dep RouterDeps) cache.Store {
	if dep.Redis != nil {
		log.Println("bootstrap: using redis response cache")
		return cache.NewRedisStore(dep.Redis)
	}
	if dep.DB != nil {
		log.Println("bootstrap: using postgres response cache")
		return cache.NewPostgresStore(dep.DB)
	}
	log.Println("bootstrap: no cache backend available, caching disabled")
	return cache.Noop{}
}
