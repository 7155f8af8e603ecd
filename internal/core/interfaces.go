package core

import (
	"context"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

type (
	OrderService interface {
		SubmitOrder(ctx context.Context, form model.OrderForm) (*model.Order, error)
		ListOrders(ctx context.Context) ([]*model.Order, error)
		GetOrder(ctx context.Context, id int64) (*model.Order, error)
		RemoveOrder(ctx context.Context, id int64) (bool, error)
		// Wait blocks until notifications still in flight have finished.
		Wait()
	}

	Notifier interface {
		Notify(ctx context.Context, order *model.Order) error
	}

	Decorator interface {
		Decorate(ctx context.Context) model.Decoration
	}
)
