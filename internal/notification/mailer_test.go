package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type mockSender struct {
	mock.Mock
	sent []*mail.Msg
}

func (m *mockSender) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	m.sent = append(m.sent, messages...)
	return m.Called(ctx, len(messages)).Error(0)
}

type stubAdmins struct {
	emails []string
	err    error
}

func (s stubAdmins) Emails(context.Context) ([]string, error) {
	return s.emails, s.err
}

func sampleOrder() OrderPlaced {
	return OrderPlaced{
		OrderIDs:      []int64{41, 42},
		CustomerName:  "Asha <Rao>",
		CustomerEmail: "asha@example.com",
		Address:       "12 MG Road",
		City:          "Pune",
		State:         "MH",
		PostalCode:    "411001",
		Country:       "India",
		Items: []Item{
			{ProductName: "Classic Hoodie", Size: "M", Quantity: 2, Price: decimal.NewFromInt(1000)},
			{ProductName: "Zip Hoodie", Size: "L", Quantity: 1, Price: decimal.NewFromInt(1250)},
		},
		TotalAmount: decimal.NewFromInt(2250),
		OrderDate:   time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC),
	}
}

func render(order OrderPlaced) (string, error) {
	var buf bytes.Buffer
	if err := orderPlacedTemplate.Execute(&buf, newView(order)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "New Order #41 - ₹2,250", Subject(sampleOrder()))

	o := sampleOrder()
	o.OrderIDs = []int64{7}
	o.TotalAmount = decimal.NewFromInt(123456)
	assert.Equal(t, "New Order #7 - ₹1,23,456", Subject(o))
}

func TestRender(t *testing.T) {
	body, err := render(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, body, "41, 42")
	assert.Contains(t, body, "Sunday, 18 October 2026 at 3:04 PM")
	assert.Contains(t, body, "Classic Hoodie")
	assert.Contains(t, body, "₹1,250")
	assert.Contains(t, body, "₹2,250")
	assert.Contains(t, body, "Pune, MH - 411001")
	assert.Contains(t, body, "Asha &lt;Rao&gt;", "customer input is escaped")
	assert.Contains(t, body, notProvided, "missing phone falls back")
}

func TestRender_FractionalPrices(t *testing.T) {
	o := sampleOrder()
	o.Items = []Item{{ProductName: "Classic Hoodie", Size: "M", Quantity: 1, Price: decimal.RequireFromString("1299.50")}}
	o.TotalAmount = decimal.RequireFromString("1299.50")

	body, err := render(o)
	require.NoError(t, err)
	assert.Contains(t, body, "₹1,299.5<")
	assert.Equal(t, "New Order #41 - ₹1,299.5", Subject(o))
}

func TestMailer_NotifyOrderPlaced(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsOneMessageToAllAdmins", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("DialAndSendWithContext", ctx, 1).Return(nil)
		m := NewMailer(sender, stubAdmins{emails: []string{"owner@example.com", "ops@example.com"}}, "Shop <orders@example.com>")

		require.NoError(t, m.NotifyOrderPlaced(ctx, sampleOrder()))
		require.Len(t, sender.sent, 1)

		msg := sender.sent[0]
		rcpts, err := msg.GetRecipients()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"owner@example.com", "ops@example.com"}, rcpts)
		assert.Equal(t, []string{"New Order #41 - ₹2,250"}, msg.GetGenHeader(mail.HeaderSubject))
		sender.AssertExpectations(t)
	})

	t.Run("NoAdminsSkips", func(t *testing.T) {
		sender := new(mockSender)
		m := NewMailer(sender, stubAdmins{}, "orders@example.com")

		require.NoError(t, m.NotifyOrderPlaced(ctx, sampleOrder()))
		sender.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
	})

	t.Run("AdminLookupError", func(t *testing.T) {
		sender := new(mockSender)
		m := NewMailer(sender, stubAdmins{err: errors.New("db down")}, "orders@example.com")

		assert.Error(t, m.NotifyOrderPlaced(ctx, sampleOrder()))
		sender.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
	})

	t.Run("SendError", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("DialAndSendWithContext", ctx, 1).Return(errors.New("smtp: 421"))
		m := NewMailer(sender, stubAdmins{emails: []string{"owner@example.com"}}, "orders@example.com")

		assert.Error(t, m.NotifyOrderPlaced(ctx, sampleOrder()))
	})

	t.Run("NoOrderIDs", func(t *testing.T) {
		m := NewMailer(new(mockSender), stubAdmins{emails: []string{"owner@example.com"}}, "orders@example.com")

		o := sampleOrder()
		o.OrderIDs = nil
		assert.ErrorIs(t, m.NotifyOrderPlaced(ctx, o), ErrNoOrderIDs)
	})

	t.Run("InvalidSender", func(t *testing.T) {
		m := NewMailer(new(mockSender), stubAdmins{emails: []string{"owner@example.com"}}, "not an address")
		assert.Error(t, m.NotifyOrderPlaced(ctx, sampleOrder()))
	})
}

func TestNewSMTPClient(t *testing.T) {
	c, err := NewSMTPClient(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = NewSMTPClient(SMTPConfig{Host: "localhost", Port: 1025})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
