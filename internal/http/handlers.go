package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vivesbank/internal/backup"
	"vivesbank/internal/config"
	"vivesbank/internal/currency"
	"vivesbank/internal/mapper"
	"vivesbank/internal/metrics"
	"vivesbank/internal/models"
	"vivesbank/internal/notify"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
	"vivesbank/internal/storage"
)

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Store     repository.Store
	Users     *service.UserService
	Clients   *service.ClientService
	Accounts  *service.AccountService
	Cards     *service.CardService
	Movements *service.MovementService
	Products  *service.ProductService
	Backup    *backup.Exporter
	Hub       *notify.Hub
	Currency  *currency.Client
	Files     *storage.Files
	Metrics   *metrics.Metrics
	Log       *slog.Logger
}

type Server struct {
	Deps
	cfg     *config.Config
	log     *slog.Logger
	schemas schemas
}

func NewServer(cfg *config.Config, deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{Deps: deps, cfg: cfg, log: log, schemas: loadSchemas()}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(cors(cfg))
	r.Use(logging(log, deps.Metrics))

	r.POST("/v1/auth/signup", s.signUp)
	r.POST("/v1/auth/signin", s.signIn)

	authorized := r.Group("/v1")
	authorized.Use(AuthMiddleware(deps.Users))
	{
		authorized.GET("/users/me", s.me)
		authorized.PATCH("/users/me/profile-image", s.uploadProfileImage)

		authorized.POST("/clients", s.createClient)
		authorized.GET("/clients/me", s.myClient)
		authorized.PUT("/clients/me", s.updateMyClient)
		authorized.DELETE("/clients/me", s.deleteMyClient)
		authorized.POST("/clients/me/dni-photo", s.uploadDNIPhoto)

		authorized.POST("/accounts", s.createAccount)
		authorized.GET("/accounts/me", s.myAccounts)
		authorized.DELETE("/accounts/me/:iban", s.deleteMyAccount)
		authorized.GET("/accounts/:iban/movements", s.accountMovements)

		authorized.POST("/cards", s.createCard)
		authorized.POST("/cards/:id/attach", s.attachCard)
		authorized.POST("/cards/:id/detach", s.detachCard)
		authorized.PATCH("/cards/:id/pin", s.updateCardPin)
		authorized.DELETE("/cards/:id", s.deleteMyCard)

		authorized.POST("/movements", s.createMyMovement)
		authorized.POST("/movements/reverse", s.reverseMyMovement)
		authorized.GET("/movements/me", s.myMovements)
		authorized.GET("/movements/me/sent", s.mySentMovements)
		authorized.GET("/movements/me/received", s.myReceivedMovements)
		authorized.GET("/movements/me/type/:type", s.myMovementsByType)
		authorized.GET("/movements/me/pdf", s.myStatementPDF)
		authorized.GET("/movements/me/pdf/sent", s.mySentStatementPDF)
		authorized.GET("/movements/me/pdf/received", s.myReceivedStatementPDF)
		authorized.GET("/movements/me/pdf/:id", s.myMovementPDF)

		authorized.GET("/products", s.listProducts)
		authorized.GET("/products/:id", s.getProduct)

		authorized.GET("/currency/latest", s.latestRates)
		authorized.GET("/currency/convert", s.convertCurrency)
		authorized.GET("/currency/currencies", s.currencies)
	}

	admin := r.Group("/v1/admin")
	admin.Use(AuthMiddleware(deps.Users), RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", s.listUsers)
		admin.DELETE("/users/:guuid", s.deleteUser)

		admin.GET("/clients", s.listClients)
		admin.GET("/clients/:id", s.getClient)
		admin.GET("/clients/dni/:dni", s.getClientByDNI)
		admin.DELETE("/clients/:id", s.deleteClient)

		admin.GET("/accounts", s.listAccounts)
		admin.GET("/accounts/:id", s.getAccount)
		admin.GET("/accounts/iban/:iban", s.getAccountByIBAN)
		admin.DELETE("/accounts/:iban", s.deleteAccount)

		admin.GET("/cards", s.listCards)
		admin.GET("/cards/:id", s.getCard)
		admin.DELETE("/cards/:id", s.deleteCard)

		admin.POST("/movements", s.createMovementAsAdmin)
		admin.POST("/movements/reverse", s.reverseMovement)
		admin.GET("/movements", s.listMovements)
		admin.GET("/movements/export", s.exportMovements)
		admin.GET("/movements/pdf", s.ledgerPDF)
		admin.GET("/movements/:id", s.getMovement)
		admin.GET("/movements/:id/pdf", s.movementPDF)
		admin.GET("/movements/client/:clientId", s.clientMovements)

		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:id", s.updateProduct)
		admin.DELETE("/products/:id", s.deleteProduct)

		admin.GET("/backup/export", s.exportBackup)
	}

	ws := r.Group("/ws/v1")
	ws.Use(AuthMiddleware(deps.Users))
	{
		ws.GET("/accounts", s.subscribe(notify.EntityBankAccount))
		ws.GET("/movements", s.subscribe(notify.EntityMovements))
	}

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	r.GET("/health", s.health)
	return r
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout())
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(200, gin.H{"ok": true})
}

func (s *Server) subscribe(topic notify.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if err := s.Hub.ServeWS(c.Writer, c.Request, topic, user.GUUID, user.HasRole(models.RoleAdmin)); err != nil {
			s.log.Warn("websocket upgrade failed", "topic", topic, "err", err)
		}
	}
}

func (s *Server) latestRates(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout())
	defer cancel()

	var symbols []string
	if v := c.Query("symbols"); v != "" {
		symbols = strings.Split(v, ",")
	}
	rates, err := s.Currency.Latest(ctx, c.DefaultQuery("base", "EUR"), symbols)
	if err != nil {
		s.currencyFailed(c, err)
		return
	}
	c.JSON(200, rates)
}

func (s *Server) convertCurrency(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout())
	defer cancel()

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, "amount must be a number")
		return
	}
	from, to := c.DefaultQuery("from", "EUR"), c.Query("to")
	if to == "" {
		badRequest(c, "to is required")
		return
	}
	out, err := s.Currency.Convert(ctx, from, to, amount)
	if err != nil {
		s.currencyFailed(c, err)
		return
	}
	c.JSON(200, out)
}

func (s *Server) currencies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout())
	defer cancel()

	out, err := s.Currency.Currencies(ctx)
	if err != nil {
		s.currencyFailed(c, err)
		return
	}
	c.JSON(200, out)
}

func (s *Server) currencyFailed(c *gin.Context, err error) {
	if errors.Is(err, currency.ErrInvalidAmount) {
		s.fail(c, err)
		return
	}
	s.log.Warn("currency api failed", "err", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "currency_unavailable"})
}

// pageParams reads ?page=&size=. Bad numbers write a 400.
func pageParams(c *gin.Context) (repository.Page, bool) {
	number, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		badRequest(c, "page must be a number")
		return repository.Page{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(repository.DefaultPageSize)))
	if err != nil {
		badRequest(c, "size must be a number")
		return repository.Page{}, false
	}
	return repository.NewPage(number, size), true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, name+" must be a number")
		return 0, false
	}
	return uint(id), true
}

// list maps items for a JSON array response; nil becomes [].
func list[S, D any](items []S, fn func(*S) *D) []D {
	if out := mapper.Many(items, fn); out != nil {
		return out
	}
	return []D{}
}
