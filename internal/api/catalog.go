package api

import (
	"net/http"

	"qr-table-service/internal/models"
	"qr-table-service/internal/service"

	"github.com/gin-gonic/gin"
)

// getRestaurant returns the public tenant profile
func (h *Handler) getRestaurant(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.GetRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

type restaurantRequest struct {
	Name         string  `json:"name" binding:"required"`
	Slogan       string  `json:"slogan"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	OpeningHours string  `json:"opening_hours"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	LogoURL      string  `json:"logo_url"`
}

// updateRestaurant applies profile changes (admin only)
func (h *Handler) updateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	restaurant := &models.Restaurant{
		ID:           CurrentSession(c).RestaurantID,
		Name:         req.Name,
		Slogan:       req.Slogan,
		Description:  req.Description,
		Address:      req.Address,
		Phone:        req.Phone,
		OpeningHours: req.OpeningHours,
		Lat:          req.Lat,
		Lng:          req.Lng,
		LogoURL:      req.LogoURL,
	}
	if err := h.restaurantSvc.UpdateRestaurant(c.Request.Context(), restaurant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// listCategories returns the active menu categories
func (h *Handler) listCategories(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	categories, err := h.catalogService.ListCategories(c.Request.Context(), restaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// listAllCategories returns every category for the admin screen
func (h *Handler) listAllCategories(c *gin.Context) {
	categories, err := h.catalogService.ListAllCategories(c.Request.Context(), CurrentSession(c).RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// getCategory returns one category
func (h *Handler) getCategory(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), restaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// createCategory inserts a category (admin only)
func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	category := &models.Category{
		RestaurantID: CurrentSession(c).RestaurantID,
		Name:         req.Name,
		Icon:         req.Icon,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
	if err := h.catalogService.CreateCategory(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// updateCategory updates a category (admin only)
func (h *Handler) updateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	category := &models.Category{
		ID:           c.Param("id"),
		RestaurantID: CurrentSession(c).RestaurantID,
		Name:         req.Name,
		Icon:         req.Icon,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
	if err := h.catalogService.UpdateCategory(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// deleteCategory hard-deletes an unreferenced category (admin only)
func (h *Handler) deleteCategory(c *gin.Context) {
	err := h.catalogService.DeleteCategory(c.Request.Context(), CurrentSession(c).RestaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// listProducts returns available products, optionally per category
func (h *Handler) listProducts(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), restaurantID, c.Query("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct returns one product
func (h *Handler) getProduct(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), restaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	CategoryID  string  `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	ImageURL    string  `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
	SortOrder   int     `json:"sort_order"`
}

func (h *Handler) productFromRequest(c *gin.Context, req *productRequest) (*models.Product, error) {
	cents, err := models.CentsFromDecimal(req.Price)
	if err != nil {
		return nil, err
	}
	return &models.Product{
		RestaurantID: CurrentSession(c).RestaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   cents,
		ImageURL:     req.ImageURL,
		IsAvailable:  req.IsAvailable,
		SortOrder:    req.SortOrder,
	}, nil
}

// createProduct inserts a product (admin only)
func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.productFromRequest(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalogService.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct updates a product (admin only)
func (h *Handler) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.productFromRequest(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	product.ID = c.Param("id")
	if err := h.catalogService.UpdateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a product (admin only)
func (h *Handler) deleteProduct(c *gin.Context) {
	err := h.catalogService.DeleteProduct(c.Request.Context(), CurrentSession(c).RestaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// listUsers returns the staff accounts (admin only)
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), CurrentSession(c).RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// getUser returns one staff account (admin only)
func (h *Handler) getUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), CurrentSession(c).RestaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// createUser inserts a staff account (admin only)
func (h *Handler) createUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), CurrentSession(c).RestaurantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// updateUser updates a staff account (admin only)
func (h *Handler) updateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), CurrentSession(c).RestaurantID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser removes a staff account (admin only)
func (h *Handler) deleteUser(c *gin.Context) {
	err := h.userService.DeleteUser(c.Request.Context(), CurrentSession(c).RestaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
