// Package jobs defines the queued background jobs.
package jobs

import (
	"fmt"

	"github.com/zaikahq/zaika/config"
	"github.com/zaikahq/zaika/pkg/mail"
)

// StockAlertJob notifies the operations inbox that a product just sold out.
// Dispatched by the cart service when a claim drives stock to zero.
type StockAlertJob struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

func (j *StockAlertJob) Handle() error {
	to := config.AlertEmail()
	if to == "" {
		return nil
	}

	return mail.To(to).
		Subject(fmt.Sprintf("Sold out: %s", j.Name)).
		Text(fmt.Sprintf("Product #%d (%s) has no stock left. Restock it to keep it orderable.", j.ProductID, j.Name)).
		Send()
}
