package ws

import "encoding/json"

// StockAlerts pushes stock events onto the hub. All methods are fire
// and forget: a full buffer or a dead hub never propagates an error
// back into the transaction that produced the event.
type StockAlerts struct {
	hub *Hub
}

func NewStockAlerts(hub *Hub) *StockAlerts {
	return &StockAlerts{hub: hub}
}

func (a *StockAlerts) NotifyLowStock(product string, available, minimum int) {
	a.publish(map[string]interface{}{
		"type":      "low_stock_alert",
		"product":   product,
		"available": available,
		"minimum":   minimum,
	})
}

func (a *StockAlerts) NotifyStockChanged(product string, onHand, reserved int) {
	a.publish(map[string]interface{}{
		"type":     "stock_update",
		"product":  product,
		"on_hand":  onHand,
		"reserved": reserved,
	})
}

func (a *StockAlerts) publish(payload map[string]interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	a.hub.Publish(msg)
}
