package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

type RentalHandler struct {
	orderSvc      service.OrderService
	catalogSvc    service.CatalogService
	settlementSvc service.SettlementService
}

func NewRentalHandler(orderSvc service.OrderService, catalogSvc service.CatalogService, settlementSvc service.SettlementService) *RentalHandler {
	return &RentalHandler{orderSvc: orderSvc, catalogSvc: catalogSvc, settlementSvc: settlementSvc}
}

type availabilityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type createOrderRequest struct {
	RentalStartDate string `json:"rental_start_date"`
	RentalEndDate   string `json:"rental_end_date"`
	ShippingAddress string `json:"shipping_address"`
	DeliveryMethod  string `json:"delivery_method"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

type confirmReturnRequest struct {
	ActualReturnDate string                  `json:"actual_return_date"`
	Condition        domain.ProductCondition `json:"condition"`
	LateFee          decimal.Decimal         `json:"late_fee"`
	DamageFee        decimal.Decimal         `json:"damage_fee"`
	Notes            string                  `json:"notes"`
}

func (h *RentalHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	req := availabilityRequest{Quantity: 1}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	available, err := h.catalogSvc.CheckAvailability(r.Context(), req.ProductID, req.Quantity, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.CreateOrder(r.Context(), CustomerIDFromContext(r.Context()), service.CreateOrderInput{
		RentalStartDate: req.RentalStartDate,
		RentalEndDate:   req.RentalEndDate,
		ShippingAddress: req.ShippingAddress,
		DeliveryMethod:  req.DeliveryMethod,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Rental order created successfully", "order": order})
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.ListOwnOrders(r.Context(), CustomerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.RentalOrder{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetOwnOrder(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.CancelOwnOrder(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Rental order cancelled successfully", "order": order})
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	var req confirmReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	settlement, err := h.settlementSvc.ConfirmReturn(r.Context(), CustomerIDFromContext(r.Context()), mux.Vars(r)["id"], service.ReturnRequest{
		ActualReturnDate: req.ActualReturnDate,
		Notes:            req.Notes,
		Condition:        req.Condition,
		LateFee:          req.LateFee,
		DamageFee:        req.DamageFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Return confirmed successfully",
		"refund_amount": settlement.RefundAmount,
	})
}
