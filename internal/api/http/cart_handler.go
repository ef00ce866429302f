package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

type CartHandler struct {
	cartSvc     service.CartService
	wishlistSvc service.WishlistService
}

func NewCartHandler(cartSvc service.CartService, wishlistSvc service.WishlistService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, wishlistSvc: wishlistSvc}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cartSvc.List(r.Context(), CustomerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	req := cartItemRequest{Quantity: 1}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.cartSvc.Add(r.Context(), CustomerIDFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Added to cart", "item": line})
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.cartSvc.UpdateQuantity(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cart updated", "item": line})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.cartSvc.Remove(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Removed from cart"})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartSvc.Clear(r.Context(), CustomerIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Cart cleared"})
}

func (h *CartHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlistSvc.List(r.Context(), CustomerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CartHandler) AddWishlist(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.wishlistSvc.Add(r.Context(), CustomerIDFromContext(r.Context()), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Added to wishlist", "item": item})
}

func (h *CartHandler) RemoveWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistSvc.Remove(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["productId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Removed from wishlist"})
}
