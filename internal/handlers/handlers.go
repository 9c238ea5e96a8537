package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"backoffice/api/internal/config"
	"backoffice/api/internal/mailer"
	"backoffice/api/internal/middleware"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/service"
)

type HandlerSet struct {
	log                zerolog.Logger
	cfg                *config.AppConfig
	authService        *service.AuthService
	db                 *pgxpool.Pool
	cache              *redis.Client
	operators          *repository.OperatorRepository
	companies          *repository.CompanyRepository
	modules            *repository.ModuleRepository
	menus              *repository.MenuRepository
	companyModules     *repository.CompanyModuleRepository
	companyModuleMenus *repository.CompanyModuleMenuRepository
	groups             *repository.OperatorGroupRepository
	warehouses         *repository.OperatorWarehouseRepository
	pointsOfSale       *repository.OperatorPointOfSaleRepository
	sessions           *repository.SessionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, mail *mailer.Mailer, cfg *config.AppConfig) HandlerSet {
	operatorRepo := repository.NewOperatorRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	limiter := service.NewRedisVerifyLimiter(cache, cfg.Security.VerifyMaxAttempts, cfg.Security.VerifyWindow)
	auth := service.NewAuthService(operatorRepo, sessionRepo, entitlementRepo, mail, limiter, cfg, log)

	return HandlerSet{
		log:                log,
		cfg:                cfg,
		authService:        auth,
		db:                 db,
		cache:              cache,
		operators:          operatorRepo,
		companies:          repository.NewCompanyRepository(db),
		modules:            repository.NewModuleRepository(db),
		menus:              repository.NewMenuRepository(db),
		companyModules:     repository.NewCompanyModuleRepository(db),
		companyModuleMenus: repository.NewCompanyModuleMenuRepository(db),
		groups:             repository.NewOperatorGroupRepository(db),
		warehouses:         repository.NewOperatorWarehouseRepository(db),
		pointsOfSale:       repository.NewOperatorPointOfSaleRepository(db),
		sessions:           sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	operadores := router.Group("/operadores")
	{
		operadores.POST("/validar", h.Validate)
		operadores.POST("/verificar", h.Verify)
		operadores.GET("/logout", h.Logout)
		operadores.GET("/sesiones-activas-token", h.SessionByCookie)
		operadores.GET("/sesiones-activas-token/:token", h.SessionByTokenParam)
		operadores.DELETE("/sesiones-activas-token/:token", h.DeleteSessionByTokenParam)
	}

	guard := middleware.SessionAuth(h.cfg, h.operators, h.sessions)

	protected := router.Group("/operadores", guard)
	{
		protected.GET("/operadores", h.ListOperators)
		protected.POST("/operadores", h.CreateOperator)
		protected.GET("/operadores/:id", h.GetOperator)
		protected.PUT("/operadores/:id", h.UpdateOperator)
		protected.DELETE("/operadores/:id", h.DeleteOperator)

		protected.GET("/operadores-grupos", h.ListOperatorGroups)
		protected.POST("/operadores-grupos", h.CreateOperatorGroup)
		protected.GET("/operadores-grupos/:id", h.GetOperatorGroup)
		protected.PUT("/operadores-grupos/:id", h.UpdateOperatorGroup)
		protected.DELETE("/operadores-grupos/:id", h.DeleteOperatorGroup)

		protected.GET("/operadores-bodegas", h.ListOperatorWarehouses)
		protected.POST("/operadores-bodegas", h.CreateOperatorWarehouse)
		protected.GET("/operadores-bodegas/:id", h.GetOperatorWarehouse)
		protected.DELETE("/operadores-bodegas/:id", h.DeleteOperatorWarehouse)

		protected.GET("/operadores-punto-venta", h.ListOperatorPointsOfSale)
		protected.POST("/operadores-punto-venta", h.CreateOperatorPointOfSale)
		protected.GET("/operadores-punto-venta/:id", h.GetOperatorPointOfSale)
		protected.DELETE("/operadores-punto-venta/:id", h.DeleteOperatorPointOfSale)

		// The login audit log is append-only: read endpoints only.
		protected.GET("/sesiones", h.ListLoginAudits)
		protected.GET("/sesiones/:id", h.GetLoginAudit)

		protected.GET("/sesiones-activas", h.ListActiveSessions)
		protected.GET("/sesiones-activas/:id", h.GetActiveSession)
		protected.DELETE("/sesiones-activas/:id", h.DeleteActiveSession)
	}

	coreempresas := router.Group("/coreempresas", guard)
	{
		coreempresas.GET("/empresa", h.ListCompanies)
		coreempresas.POST("/empresa", h.CreateCompany)
		coreempresas.GET("/empresa/:id", h.GetCompany)
		coreempresas.PUT("/empresa/:id", h.UpdateCompany)
		coreempresas.DELETE("/empresa/:id", h.DeleteCompany)
	}

	configuracion := router.Group("/configuracion", guard, middleware.RequireAdmin())
	{
		configuracion.GET("/modulos", h.ListModules)
		configuracion.POST("/modulos", h.CreateModule)
		configuracion.GET("/modulos/:id", h.GetModule)
		configuracion.PUT("/modulos/:id", h.UpdateModule)
		configuracion.DELETE("/modulos/:id", h.DeleteModule)

		configuracion.GET("/menus", h.ListMenus)
		configuracion.POST("/menus", h.CreateMenu)
		configuracion.GET("/menus/:id", h.GetMenu)
		configuracion.PUT("/menus/:id", h.UpdateMenu)
		configuracion.DELETE("/menus/:id", h.DeleteMenu)

		configuracion.GET("/empresa-modulos", h.ListCompanyModules)
		configuracion.POST("/empresa-modulos", h.CreateCompanyModule)
		configuracion.GET("/empresa-modulos/:id", h.GetCompanyModule)
		configuracion.PUT("/empresa-modulos/:id", h.UpdateCompanyModule)
		configuracion.DELETE("/empresa-modulos/:id", h.DeleteCompanyModule)

		configuracion.GET("/empresa-modulos-menu", h.ListCompanyModuleMenus)
		configuracion.POST("/empresa-modulos-menu", h.CreateCompanyModuleMenu)
		configuracion.GET("/empresa-modulos-menu/:id", h.GetCompanyModuleMenu)
		configuracion.DELETE("/empresa-modulos-menu/:id", h.DeleteCompanyModuleMenu)
	}
}
