package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/favorites"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService  *service.CatalogService
	authService     *service.AuthService
	checkoutService *service.CheckoutService
	carts           *cart.Service
	favorites       *favorites.Service
	publisher       *broker.EventPublisher
	jwtSecret       string
	adminToken      string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	authService *service.AuthService,
	checkoutService *service.CheckoutService,
	carts *cart.Service,
	favs *favorites.Service,
	publisher *broker.EventPublisher,
	jwtSecret, adminToken string,
) *Handler {
	return &Handler{
		catalogService:  catalogService,
		authService:     authService,
		checkoutService: checkoutService,
		carts:           carts,
		favorites:       favs,
		publisher:       publisher,
		jwtSecret:       jwtSecret,
		adminToken:      adminToken,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/filters", h.getFilters)
		api.POST("/events", h.trackEvent)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", h.signup)
			authRoutes.POST("/login", h.login)
			authRoutes.GET("/me", auth.Middleware(h.jwtSecret), h.me)
		}

		owned := api.Group("", auth.OptionalMiddleware(h.jwtSecret))
		{
			owned.GET("/cart", h.getCart)
			owned.POST("/cart/items", h.addCartItem)
			owned.PUT("/cart/items/:key", h.updateCartItem)
			owned.DELETE("/cart/items/:key", h.removeCartItem)
			owned.DELETE("/cart", h.clearCart)

			owned.GET("/favorites", h.listFavorites)
			owned.POST("/favorites", h.addFavorite)
			owned.DELETE("/favorites/:id", h.removeFavorite)
			owned.DELETE("/favorites", h.clearFavorites)

			owned.POST("/checkout", h.checkout)
			owned.GET("/orders", h.listOrders)
			owned.GET("/orders/:id", h.getOrder)
		}

		admin := api.Group("/admin", auth.AdminMiddleware(h.adminToken))
		{
			admin.POST("/products", h.createProduct)
			admin.PUT("/products/:id", h.updateProduct)
			admin.DELETE("/products/:id", h.deleteProduct)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"time":          time.Now().Unix(),
		"productsCount": len(h.catalogService.AllProducts()),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns the catalog filtered by the query parameters. With no
// parameters it is the full catalog in order.
func (h *Handler) listProducts(c *gin.Context) {
	query, err := queryFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid filter parameters",
			"details": err.Error(),
		})
		return
	}

	products := h.catalogService.Search(c.Request.Context(), query)

	if query.SearchQuery != "" {
		userID, anonID := actorIDs(c)
		h.publisher.Track(c.Request.Context(), models.EventTypeSearch, userID, anonID, "", map[string]interface{}{
			"query":        query.SearchQuery,
			"resultsCount": len(products),
		})
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct handles product lookup by ID
func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalogService.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// getFilters returns the refinement index and category taxonomy
func (h *Handler) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"refinements": h.catalogService.RefinementIndex(),
		"taxonomy":    catalog.Taxonomy,
	})
}

type trackEventRequest struct {
	Type      string                 `json:"type" binding:"required"`
	UserID    string                 `json:"userId"`
	AnonID    string                 `json:"anonId"`
	ProductID string                 `json:"productId"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// trackEvent accepts a client analytics event and forwards it to the broker
func (h *Handler) trackEvent(c *gin.Context) {
	var req trackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if !models.KnownEventTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event type"})
		return
	}

	h.publisher.Track(c.Request.Context(), req.Type, req.UserID, req.AnonID, req.ProductID, req.Metadata)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// signup registers a new user
func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	h.publisher.Track(c.Request.Context(), models.EventTypeSignup, result.User.ID, "", "", nil)
	c.JSON(http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// login authenticates an existing user
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	h.publisher.Track(c.Request.Context(), models.EventTypeLogin, result.User.ID, "", "", nil)
	c.JSON(http.StatusOK, result)
}

// me returns the authenticated user
func (h *Handler) me(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	user, err := h.authService.User(c.Request.Context(), userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// getCart returns the owner's current cart
func (h *Handler) getCart(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.carts.Get(c.Request.Context(), ownerID))
}

type addCartItemRequest struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
	Image string  `json:"image"`
	Size  string  `json:"size"`
	Color string  `json:"color"`
}

// addCartItem adds one unit of a product variant to the cart
func (h *Handler) addCartItem(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state := h.carts.AddItem(c.Request.Context(), ownerID, cart.LineItem{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
		Size:  req.Size,
		Color: req.Color,
	})

	userID, anonID := actorIDs(c)
	h.publisher.Track(c.Request.Context(), models.EventTypeCartAdd, userID, anonID, req.ID, nil)

	c.JSON(http.StatusOK, state)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// updateCartItem sets a line item's quantity; zero or less removes it
func (h *Handler) updateCartItem(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state := h.carts.UpdateQuantity(c.Request.Context(), ownerID, c.Param("key"), *req.Quantity)

	userID, anonID := actorIDs(c)
	h.publisher.Track(c.Request.Context(), models.EventTypeCartUpdate, userID, anonID, "", map[string]interface{}{
		"key":      c.Param("key"),
		"quantity": *req.Quantity,
	})

	c.JSON(http.StatusOK, state)
}

// removeCartItem drops a line item
func (h *Handler) removeCartItem(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	state := h.carts.RemoveItem(c.Request.Context(), ownerID, c.Param("key"))

	userID, anonID := actorIDs(c)
	h.publisher.Track(c.Request.Context(), models.EventTypeCartRemove, userID, anonID, "", map[string]interface{}{
		"key": c.Param("key"),
	})

	c.JSON(http.StatusOK, state)
}

// clearCart empties the owner's cart
func (h *Handler) clearCart(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.carts.Clear(c.Request.Context(), ownerID))
}

// listFavorites returns the owner's favorites, newest first
func (h *Handler) listFavorites(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.Get(c.Request.Context(), ownerID)})
}

type addFavoriteRequest struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
	Image string  `json:"image"`
}

// addFavorite favorites a product; duplicates are no-ops
func (h *Handler) addFavorite(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	list := h.favorites.Add(c.Request.Context(), ownerID, favorites.Item{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})

	userID, anonID := actorIDs(c)
	h.publisher.Track(c.Request.Context(), models.EventTypeFavoriteAdd, userID, anonID, req.ID, nil)

	c.JSON(http.StatusOK, gin.H{"favorites": list})
}

// removeFavorite unfavorites a product
func (h *Handler) removeFavorite(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	productID := c.Param("id")
	list := h.favorites.Remove(c.Request.Context(), ownerID, productID)

	userID, anonID := actorIDs(c)
	h.publisher.Track(c.Request.Context(), models.EventTypeFavoriteRemove, userID, anonID, productID, nil)

	c.JSON(http.StatusOK, gin.H{"favorites": list})
}

// clearFavorites removes every favorite for the owner
func (h *Handler) clearFavorites(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.Clear(c.Request.Context(), ownerID)})
}

// checkout turns the owner's cart into an order
func (h *Handler) checkout(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	userID := ""
	if id, authed := auth.CurrentUserID(c); authed {
		userID = id.String()
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), ownerID, userID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		if errors.Is(err, service.ErrDuplicateCheckout) {
			c.JSON(http.StatusConflict, gin.H{"error": "Checkout already processed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Checkout failed",
			"details": err.Error(),
		})
		return
	}

	status := http.StatusCreated
	if result.Status != models.OrderStatusPaid {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, result)
}

// listOrders returns the owner's orders, newest first
func (h *Handler) listOrders(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	orders, err := h.checkoutService.Orders(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles get order by ID. Owners can only see their own orders.
func (h *Handler) getOrder(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, items, err := h.checkoutService.GetOrder(c.Request.Context(), orderID)
	if err != nil || order.OwnerID != ownerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

type productRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"min=0"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Category    string   `json:"category" binding:"required"`
	SubCategory string   `json:"subCategory"`
	Gender      string   `json:"gender"`
	ProductType string   `json:"productType"`
	Brand       string   `json:"brand"`
	Tags        []string `json:"tags"`
	Material    []string `json:"material"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	PriceRange  string   `json:"priceRange"`
	Season      string   `json:"season"`
}

func (r *productRequest) toModel() *models.Product {
	return &models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Images:      r.Images,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Gender:      r.Gender,
		ProductType: r.ProductType,
		Brand:       r.Brand,
		Tags:        r.Tags,
		Material:    r.Material,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
		PriceRange:  r.PriceRange,
		Season:      r.Season,
	}
}

// createProduct handles admin product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := req.toModel()
	if err := h.catalogService.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// updateProduct handles admin product updates
func (h *Handler) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := req.toModel()
	product.ID = c.Param("id")

	if err := h.catalogService.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to update product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// deleteProduct handles admin product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to delete product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// queryFromRequest builds filter query state from request parameters. Facet
// params use their singular names and repeat for multiple selections.
func queryFromRequest(c *gin.Context) (catalog.QueryState, error) {
	query := catalog.NewQueryState()
	query.SetSearchQuery(c.Query("q"))
	query.SetActiveCategory(c.Query("category"))

	for _, name := range []string{"brand", "material", "color", "priceRange", "season"} {
		values := c.QueryArray(name)
		if len(values) == 0 {
			continue
		}
		facet, err := catalog.ParseFacet(name)
		if err != nil {
			return catalog.QueryState{}, err
		}
		for _, v := range values {
			query.UpdateRefinement(facet, v, true)
		}
	}

	return query, nil
}

func requireOwner(c *gin.Context) (string, bool) {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing owner identity: authenticate or send " + auth.AnonIDHeader,
		})
		return "", false
	}
	return ownerID, true
}

func actorIDs(c *gin.Context) (userID, anonID string) {
	if id, ok := auth.CurrentUserID(c); ok {
		return id.String(), ""
	}
	return "", c.GetHeader(auth.AnonIDHeader)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
