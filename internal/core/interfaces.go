package core

// Package core declares the repository and collaborator interfaces consumed
// by services. Implementations live in internal/data and internal/adapters;
// mocks are generated from these interfaces (see internal/mocks).

import (
	"context"
	"time"

	"github.com/solenne/boutique/internal/domain/model"
)

// ProductRepository provides catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]*model.Product, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

// OrderRepository provides order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, lines []model.OrderLine) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	Lines(ctx context.Context, orderID string) ([]model.OrderLine, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Order, error)
	AttachCertificate(ctx context.Context, orderID, certificateID string) error
}

// MessageRepository provides message-thread persistence.
type MessageRepository interface {
	Insert(ctx context.Context, msg *model.Message) (*model.Message, error)
	ListThread(ctx context.Context, threadID string, limit, offset int) ([]*model.Message, error)
	MarkRead(ctx context.Context, threadID, readerID string) error
}

// CacheRepository provides byte-value caching with TTL.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// QuoteSource fetches a spot quote for a symbol from the price oracle.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// CertificateIssuer requests a certificate of authenticity for an order
// from the external certificate service. Rendering is out of scope.
type CertificateIssuer interface {
	Issue(ctx context.Context, order *model.Order, lines []model.OrderLine) (certificateID string, err error)
}

// NoticePublisher publishes a new-message notice to interested subscribers.
type NoticePublisher interface {
	Publish(ctx context.Context, notice model.MessageNotice) error
}

// NoticeSubscriber delivers new-message notices for a user until the context
// is cancelled. Implementations must release the underlying subscription when
// the context ends.
type NoticeSubscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan model.MessageNotice, error)
}
