package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/service"
)

type AdminOrderHandler struct {
	orderSvc      service.OrderAdminService
	settlementSvc service.SettlementService
}

func NewAdminOrderHandler(orderSvc service.OrderAdminService, settlementSvc service.SettlementService) *AdminOrderHandler {
	return &AdminOrderHandler{orderSvc: orderSvc, settlementSvc: settlementSvc}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
	Notes  string             `json:"notes"`
}

type paymentRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type itemConditionRequest struct {
	ProductID string                  `json:"product_id"`
	Condition domain.ProductCondition `json:"condition"`
	Notes     string                  `json:"notes"`
	DamageFee decimal.Decimal         `json:"damage_fee"`
}

type processReturnRequest struct {
	ActualReturnDate string                 `json:"actual_return_date"`
	ItemsCondition   []itemConditionRequest `json:"items_condition"`
	Notes            string                 `json:"notes"`
}

func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := repository.OrderFilter{
		Status:        domain.OrderStatus(q.Get("status")),
		PaymentStatus: domain.PaymentStatus(q.Get("payment_status")),
		Search:        q.Get("search"),
		StartDate:     start,
		EndDate:       end,
		Sort:          parseSort(r),
		Page:          parsePage(r),
	}
	orders, total, err := h.orderSvc.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.RentalOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":     orders,
		"pagination": newPagination(filter.Page, total),
	})
}

func (h *AdminOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.UpdateStatus(r.Context(), adminActor(r), mux.Vars(r)["id"], req.Status, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Order status updated successfully", "order": order})
}

func (h *AdminOrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.UpdatePaymentStatus(r.Context(), adminActor(r), mux.Vars(r)["id"], req.PaymentStatus)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Payment status updated successfully", "order": order})
}

func (h *AdminOrderHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	var req processReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]service.ItemCondition, 0, len(req.ItemsCondition))
	for _, it := range req.ItemsCondition {
		items = append(items, service.ItemCondition{
			ProductID: it.ProductID,
			Condition: it.Condition,
			Notes:     it.Notes,
			DamageFee: it.DamageFee,
		})
	}
	settlement, err := h.settlementSvc.ProcessReturn(r.Context(), adminActor(r), mux.Vars(r)["id"], service.ReturnRequest{
		ActualReturnDate: req.ActualReturnDate,
		Notes:            req.Notes,
		Items:            items,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Return processed successfully",
		"late_fee":      settlement.LateFee,
		"damage_fee":    settlement.DamageFee,
		"refund_amount": settlement.RefundAmount,
	})
}

func (h *AdminOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.orderSvc.Cancel(r.Context(), adminActor(r), mux.Vars(r)["id"], req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Order cancelled successfully"})
}
