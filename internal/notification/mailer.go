// Package notification e-mails administrators when an order is placed.
package notification

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"hoodies-be/internal/logger"
	"hoodies-be/internal/money"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	ShopName       = "Under the Hoodies"
	notProvided    = "Not provided"
	orderDateStyle = "Monday, 2 January 2006 at 3:04 PM"
)

//go:embed templates/order_placed.html
var templateFS embed.FS

var orderPlacedTemplate = template.Must(template.ParseFS(templateFS, "templates/order_placed.html"))

// Sender delivers composed messages; *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// AdminDirectory lists the notification recipients.
type AdminDirectory interface {
	Emails(ctx context.Context) ([]string, error)
}

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, order OrderPlaced) error
}

type Mailer struct {
	sender Sender
	admins AdminDirectory
	from   string
}

func NewMailer(sender Sender, admins AdminDirectory, from string) *Mailer {
	return &Mailer{sender: sender, admins: admins, from: from}
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// NewSMTPClient builds a go-mail client. Credentials enable SMTP AUTH and
// mandatory TLS; without them the relay is used as-is.
func NewSMTPClient(cfg SMTPConfig) (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(cfg.Host, opts...)
}

// NotifyOrderPlaced sends one message addressed to every admin. It is a
// no-op when there are no admins.
func (m *Mailer) NotifyOrderPlaced(ctx context.Context, order OrderPlaced) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("method", "NotifyOrderPlaced"),
		zap.Int64s("order_ids", order.OrderIDs),
	)

	if len(order.OrderIDs) == 0 {
		return ErrNoOrderIDs
	}

	recipients, err := m.admins.Emails(ctx)
	if err != nil {
		return fmt.Errorf("fetch admin emails: %w", err)
	}
	if len(recipients) == 0 {
		log.Info("no admins found, skipping email notification")
		return nil
	}

	msg, err := m.buildMessage(recipients, order)
	if err != nil {
		return err
	}

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send order notification: %w", err)
	}

	log.Info("order notification sent", zap.Int("recipients", len(recipients)))
	return nil
}

func (m *Mailer) buildMessage(recipients []string, order OrderPlaced) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(Subject(order))

	if err := msg.SetBodyHTMLTemplate(orderPlacedTemplate, newView(order)); err != nil {
		return nil, fmt.Errorf("render order notification: %w", err)
	}
	return msg, nil
}

// Subject is "New Order #<first id> - ₹<total>".
func Subject(order OrderPlaced) string {
	first := ""
	if len(order.OrderIDs) > 0 {
		first = strconv.FormatInt(order.OrderIDs[0], 10)
	}
	return fmt.Sprintf("New Order #%s - %s", first, money.FormatAmount(order.TotalAmount))
}

type itemView struct {
	ProductName string
	Size        string
	Quantity    int
	Price       string
}

type view struct {
	Shop          string
	OrderIDs      string
	OrderDate     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	State         string
	PostalCode    string
	Country       string
	Items         []itemView
	TotalAmount   string
}

func newView(order OrderPlaced) view {
	ids := make([]string, len(order.OrderIDs))
	for i, id := range order.OrderIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	items := make([]itemView, len(order.Items))
	for i, it := range order.Items {
		items[i] = itemView{
			ProductName: it.ProductName,
			Size:        it.Size,
			Quantity:    it.Quantity,
			Price:       money.FormatAmount(it.Price),
		}
	}

	return view{
		Shop:          ShopName,
		OrderIDs:      strings.Join(ids, ", "),
		OrderDate:     order.OrderDate.Format(orderDateStyle),
		CustomerName:  orDefault(order.CustomerName),
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: orDefault(order.CustomerPhone),
		Address:       order.Address,
		City:          order.City,
		State:         order.State,
		PostalCode:    order.PostalCode,
		Country:       order.Country,
		Items:         items,
		TotalAmount:   money.FormatAmount(order.TotalAmount),
	}
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
