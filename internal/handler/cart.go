package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nordvik/go-shop-api/internal/dto"
	"github.com/nordvik/go-shop-api/internal/middleware"
	"github.com/nordvik/go-shop-api/internal/model"
	"github.com/nordvik/go-shop-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.svc.CreateCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, dto.CartResponse{ID: cart.ID, UserID: cart.UserID, Items: []dto.CartItemResponse{}})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, ok := parseID(c, "id")
	if !ok {
		return
	}

	cart, items, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c), cartID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart, items))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), cartID, req.ProductID, req.Quantity)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartItemResponse(*item))
}

func (h *CartHandler) ListItems(c *gin.Context) {
	cartID, ok := parseID(c, "id")
	if !ok {
		return
	}

	_, items, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c), cartID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	resp := make([]dto.CartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toCartItemResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.UpdateItem(c.Request.Context(), middleware.GetUserID(c), itemID, req.Quantity); err != nil {
		if writeValidationError(c, err) {
			return
		}
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated"})
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		h.writeCartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	case errors.Is(err, service.ErrCartAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toCartResponse(cart *model.Cart, items []model.CartItem) dto.CartResponse {
	resp := dto.CartResponse{ID: cart.ID, UserID: cart.UserID, Items: make([]dto.CartItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toCartItemResponse(item))
	}
	return resp
}

func toCartItemResponse(item model.CartItem) dto.CartItemResponse {
	return dto.CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}
}
