package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/service"
)

type AdminProductHandler struct {
	productSvc service.ProductAdminService
}

func NewAdminProductHandler(productSvc service.ProductAdminService) *AdminProductHandler {
	return &AdminProductHandler{productSvc: productSvc}
}

type createProductRequest struct {
	Name          string                  `json:"name"`
	CharacterName string                  `json:"character_name"`
	CategoryID    string                  `json:"category_id"`
	Description   string                  `json:"description"`
	Size          string                  `json:"size"`
	Images        []string                `json:"images"`
	DailyPrice    decimal.Decimal         `json:"daily_price"`
	WeeklyPrice   decimal.NullDecimal     `json:"weekly_price"`
	DepositAmount *decimal.Decimal        `json:"deposit_amount"`
	TotalQuantity int                     `json:"total_quantity"`
	Condition     domain.ProductCondition `json:"condition"`
}

type productPatchRequest struct {
	Name              *string                  `json:"name"`
	CharacterName     *string                  `json:"character_name"`
	CategoryID        *string                  `json:"category_id"`
	Description       *string                  `json:"description"`
	Size              *string                  `json:"size"`
	Images            []string                 `json:"images"`
	DailyPrice        *decimal.Decimal         `json:"daily_price"`
	WeeklyPrice       *decimal.Decimal         `json:"weekly_price"`
	DepositAmount     *decimal.Decimal         `json:"deposit_amount"`
	TotalQuantity     *int                     `json:"total_quantity"`
	AvailableQuantity *int                     `json:"available_quantity"`
	Condition         *domain.ProductCondition `json:"condition"`
}

func (p productPatchRequest) patch() repository.ProductPatch {
	return repository.ProductPatch{
		Name:              p.Name,
		CharacterName:     p.CharacterName,
		CategoryID:        p.CategoryID,
		Description:       p.Description,
		Size:              p.Size,
		Images:            p.Images,
		DailyPrice:        p.DailyPrice,
		WeeklyPrice:       p.WeeklyPrice,
		DepositAmount:     p.DepositAmount,
		TotalQuantity:     p.TotalQuantity,
		AvailableQuantity: p.AvailableQuantity,
		Condition:         p.Condition,
	}
}

type bulkUpdateRequest struct {
	ProductIDs []string            `json:"product_ids"`
	Updates    productPatchRequest `json:"updates"`
}

func (h *AdminProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category_id"),
		Condition:  domain.ProductCondition(q.Get("condition")),
		Sort:       parseSort(r),
		Page:       parsePage(r),
	}
	products, total, err := h.productSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.ProductSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"pagination": newPagination(filter.Page, total),
	})
}

func (h *AdminProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *AdminProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.productSvc.Create(r.Context(), adminActor(r), service.ProductInput{
		Name:          req.Name,
		CharacterName: req.CharacterName,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Size:          req.Size,
		Images:        req.Images,
		DailyPrice:    req.DailyPrice,
		WeeklyPrice:   req.WeeklyPrice,
		DepositAmount: req.DepositAmount,
		TotalQuantity: req.TotalQuantity,
		Condition:     req.Condition,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Product created successfully", "product": product})
}

func (h *AdminProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.productSvc.Update(r.Context(), adminActor(r), mux.Vars(r)["id"], req.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Product updated successfully", "product": product})
}

func (h *AdminProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productSvc.Delete(r.Context(), adminActor(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

func (h *AdminProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productSvc.Stats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminProductHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.productSvc.BulkUpdate(r.Context(), adminActor(r), req.ProductIDs, req.Updates.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Products updated successfully", "updated": n})
}
