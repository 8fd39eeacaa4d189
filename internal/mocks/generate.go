// Package mocks provides mock implementations for testing the boutique services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and collaborator interfaces in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProductRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "id").Return(piece, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=product_repository_mock.go github.com/solenne/boutique/internal/core ProductRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=order_repository_mock.go github.com/solenne/boutique/internal/core OrderRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=message_repository_mock.go github.com/solenne/boutique/internal/core MessageRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/solenne/boutique/internal/core CacheRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=quote_source_mock.go github.com/solenne/boutique/internal/core QuoteSource

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=certificate_issuer_mock.go github.com/solenne/boutique/internal/core CertificateIssuer

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=notice_publisher_mock.go github.com/solenne/boutique/internal/core NoticePublisher
