// Package notify is the local-notification side channel fired on checkout.
package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Channel and copy used for the checkout notification.
const (
	DefaultChannelID = "default"
	CheckoutTitle    = "Compra finalizada"
	CheckoutBody     = "Sua compra foi realizada com sucesso!"
)

// Notification is a single message to display to the user.
type Notification struct {
	ChannelID string
	Title     string
	Body      string
}

// Checkout returns the static checkout-complete notification.
func Checkout() Notification {
	return Notification{
		ChannelID: DefaultChannelID,
		Title:     CheckoutTitle,
		Body:      CheckoutBody,
	}
}

// Notifier delivers a notification. Failures are reported to the caller,
// which decides whether to surface them; the stores never see them.
type Notifier interface {
	Display(ctx context.Context, n Notification) error
}

// LogNotifier delivers notifications to the service log (dummy mode).
type LogNotifier struct{}

// Display logs the notification.
func (LogNotifier) Display(ctx context.Context, n Notification) error {
	log.WithFields(log.Fields{
		"channel": n.ChannelID,
		"title":   n.Title,
	}).Info(n.Body)
	return nil
}
