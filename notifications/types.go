// SPDX-License-Identifier: GPL-3.0-only

package notifications

import "time"

type NotificationTypes string

const (
	Email NotificationTypes = "EMAIL"
	SMS   NotificationTypes = "SMS"
)

type NotificationData struct {
	To        string         `json:"to"`
	ToName    *string        `json:"to_name,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Template  string         `json:"template,omitempty"`
	Body      string         `json:"body,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

type NotificationProviders string

const (
	SMTP     NotificationProviders = "smtp"
	RabbitMQ NotificationProviders = "rabbitmq"
	Mock     NotificationProviders = "mock"
)

// QueuedSMS is the payload published to the SMS queue. An out-of-process
// gateway picks it up and talks to the carrier.
type QueuedSMS struct {
	MID         string    `json:"mid"`
	PhoneNumber string    `json:"phone_number"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
