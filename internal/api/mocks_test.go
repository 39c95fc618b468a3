package api

import (
	"context"
	"io"

	"hoodies-be/internal/cart"
	"hoodies-be/internal/checkout"
	"hoodies-be/internal/order"
	"hoodies-be/internal/product"
	"hoodies-be/internal/profile"

	"github.com/stretchr/testify/mock"
)

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *mockProducts) Featured(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *mockProducts) Get(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProducts) Create(ctx context.Context, input product.Input) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProducts) Update(ctx context.Context, id int64, input product.Input) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProducts) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProducts) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockCarts struct {
	mock.Mock
}

func (m *mockCarts) view(args mock.Arguments) (*cart.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.View), args.Error(1)
}

func (m *mockCarts) Get(ctx context.Context, sessionID string) (*cart.View, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *mockCarts) Add(ctx context.Context, params cart.AddParams) (*cart.View, error) {
	return m.view(m.Called(ctx, params))
}

func (m *mockCarts) UpdateQuantity(ctx context.Context, params cart.UpdateParams) (*cart.View, error) {
	return m.view(m.Called(ctx, params))
}

func (m *mockCarts) Remove(ctx context.Context, sessionID string, productID int64, size string) (*cart.View, error) {
	return m.view(m.Called(ctx, sessionID, productID, size))
}

func (m *mockCarts) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) Defaults(ctx context.Context, userID, sessionID string) (*checkout.Form, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Form), args.Error(1)
}

func (m *mockCheckout) PlaceOrder(ctx context.Context, req checkout.Request) (*checkout.Confirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Confirmation), args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) MyOrders(ctx context.Context, userID string) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrders) AdminList(ctx context.Context, status string) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrders) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrders) Stats(ctx context.Context) (*order.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Stats), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *mockProfiles) Update(ctx context.Context, userID, email string, params profile.UpdateParams) (*profile.Profile, error) {
	args := m.Called(ctx, userID, email, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadProductImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(filename, contentType, string(data), size)
	return args.String(0), args.Error(1)
}

type mockAdmins struct {
	mock.Mock
}

func (m *mockAdmins) IsAdmin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
