package notify

import (
	"fmt"
	"net/smtp"
	"time"
)

// Mailer sends best-effort transactional email over plain SMTP. Delivery
// failures are the caller's to log; they never affect the payment pipeline.
type Mailer struct {
	From     string
	Password string
	Host     string
	Port     string
}

// NewMailer returns nil when SMTP is not configured, which disables email.
func NewMailer(from, password, host, port string) *Mailer {
	if from == "" || host == "" {
		return nil
	}
	return &Mailer{From: from, Password: password, Host: host, Port: port}
}

func (m *Mailer) SendPaymentConfirmation(to string, plan string, expiry time.Time) error {
	subject := "Your HustleHack AI plan is active 🚀"
	body := fmt.Sprintf(
		"Thanks for your purchase!\n\nPlan: %s\nActive until: %s\n\nLog in to your dashboard to start using your tools.",
		plan, expiry.Format("2 Jan 2006"),
	)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to string, subject string, body string) error {
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, message)
	if err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
	return err
}
