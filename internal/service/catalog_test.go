package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/mocks"
)

func newCatalogService(t *testing.T) (*mocks.MockProductRepository, *CatalogService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	products := mocks.NewMockProductRepository(ctrl)
	return products, NewCatalogService(products)
}

func TestCatalogService_AddPiece(t *testing.T) {
	t.Parallel()

	products, svc := newCatalogService(t)
	ctx := context.Background()

	req := &model.CreateProductRequest{
		Title:      "Tourbillon Squelette",
		House:      "Maison Vermeil",
		AssetClass: model.AssetClassTimepiece,
		Price:      42000,
	}
	products.EXPECT().Create(ctx, req).Return(&model.Product{ID: "p1", Title: req.Title}, nil)

	piece, err := svc.AddPiece(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "p1", piece.ID)
}

func TestCatalogService_AddPiece_NilRequest(t *testing.T) {
	t.Parallel()

	_, svc := newCatalogService(t)

	_, err := svc.AddPiece(context.Background(), nil)
	assert.Error(t, err)
}

func TestCatalogService_GetPiece(t *testing.T) {
	t.Parallel()

	products, svc := newCatalogService(t)
	ctx := context.Background()

	products.EXPECT().GetByID(ctx, "p1").Return(&model.Product{ID: "p1"}, nil)

	piece, err := svc.GetPiece(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", piece.ID)

	_, err = svc.GetPiece(ctx, "")
	assert.Error(t, err)
}

func TestCatalogService_ListPieces(t *testing.T) {
	t.Parallel()

	products, svc := newCatalogService(t)
	ctx := context.Background()

	products.EXPECT().List(ctx, 20, 40).Return([]*model.Product{{ID: "p1"}, {ID: "p2"}}, nil)

	pieces, err := svc.ListPieces(ctx, 20, 40)
	require.NoError(t, err)
	assert.Len(t, pieces, 2)
}

func TestCatalogService_SetAvailability(t *testing.T) {
	t.Parallel()

	products, svc := newCatalogService(t)
	ctx := context.Background()

	products.EXPECT().SetAvailability(ctx, "p1", false).Return(nil)
	assert.NoError(t, svc.SetAvailability(ctx, "p1", false))

	products.EXPECT().SetAvailability(ctx, "p2", true).Return(errors.New("pg down"))
	assert.Error(t, svc.SetAvailability(ctx, "p2", true))

	assert.Error(t, svc.SetAvailability(ctx, "", true))
}
