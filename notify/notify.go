// Package notify sends best-effort order summaries by email. Failures are
// logged and never propagated into the checkout or reconciliation flow.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/MuhdAdnan/jj-halal-farms/models"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	msg := []byte("From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}

func orderSummary(order models.Order, customerEmail string) (string, string) {
	subject := fmt.Sprintf("JJ Halal Farms Order #%d", order.ID)

	var items []string
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("- %s x%d @ ₦%s", item.ProductName, item.Quantity, item.Price.StringFixed(2)))
	}
	itemsText := "- None"
	if len(items) > 0 {
		itemsText = strings.Join(items, "\n")
	}

	body := fmt.Sprintf(
		"Order ID: %d\n"+
			"Customer: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Delivery Method: %s\n"+
			"Address: %s\n"+
			"Payment Method: %s\n"+
			"Status: %s\n"+
			"Total: ₦%s\n"+
			"Items:\n%s\n",
		order.ID, order.FullName, customerEmail, orDash(order.Phone),
		order.DeliveryMethod, orDash(order.DeliveryAddress), order.PaymentMethod,
		order.Status, order.TotalAmount.StringFixed(2), itemsText,
	)
	return subject, body
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SendOrderNotifications mails a summary to the customer and the shop admin.
func SendOrderNotifications(m Mailer, order models.Order, customerEmail, adminEmail string) {
	subject, body := orderSummary(order, customerEmail)

	if customerEmail != "" {
		if err := m.Send(customerEmail, subject, body); err != nil {
			log.Printf("notify: failed to email customer for order %d: %v", order.ID, err)
		}
	}
	if adminEmail != "" {
		if err := m.Send(adminEmail, "[Admin] "+subject, body); err != nil {
			log.Printf("notify: failed to email admin for order %d: %v", order.ID, err)
		}
	}
}

// SendVerificationEmail mails the account activation link.
func SendVerificationEmail(m Mailer, email, token, baseURL string) {
	link := fmt.Sprintf("%s/auth/verify/%s", strings.TrimRight(baseURL, "/"), token)
	body := "Welcome to JJ Halal Farms!\n\n" +
		"Click the link below to verify your email and activate your account:\n\n" +
		link + "\n"
	if err := m.Send(email, "Verify your JJ Halal Farms account", body); err != nil {
		log.Printf("notify: failed to send verification email to %s: %v", email, err)
	}
}
