package domain

import "time"

// Actor identifies the admin performing a back office action.
type Actor struct {
	AdminID   string
	Role      AdminRole
	IPAddress string
	UserAgent string
}

type ActivityLog struct {
	ID         string         `json:"id"`
	AdminID    string         `json:"admin_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Activity builds an audit entry attributed to the actor.
func (a Actor) Activity(action, entityType, entityID string, details map[string]any) *ActivityLog {
	return &ActivityLog{
		AdminID:    a.AdminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  a.IPAddress,
		UserAgent:  a.UserAgent,
	}
}

const (
	ActionUpdateOrderStatus   = "update_order_status"
	ActionProcessReturn       = "process_return"
	ActionCancelOrder         = "cancel_order"
	ActionUpdatePaymentStatus = "update_payment_status"
	ActionCreateProduct       = "create_product"
	ActionUpdateProduct       = "update_product"
	ActionDeleteProduct       = "delete_product"
	ActionBulkUpdateProducts  = "bulk_update_products"
	ActionUpdateUser          = "update_user"
	ActionResetUserPassword   = "reset_user_password"
	ActionDeleteUser          = "delete_user"
	ActionAdminLogin          = "admin_login"
	ActionCreateAdmin         = "create_admin"
	ActionUpdateAdmin         = "update_admin"
)
