package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/solenne/boutique/internal/data"
	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/gate"
	"github.com/solenne/boutique/internal/mocks"
	"github.com/solenne/boutique/internal/service"
)

func newCatalogHandlers(t *testing.T) (*mocks.MockProductRepository, *CatalogHandlers) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	products := mocks.NewMockProductRepository(ctrl)
	return products, &CatalogHandlers{Svc: service.NewCatalogService(products)}
}

// withVisitor attaches a resolved visitor to the request, standing in for the
// gate middleware.
func withVisitor(req *http.Request, userID string, role domainauth.Role) *http.Request {
	identity := domainauth.Identity{UserID: userID, Email: userID + "@example.com"}
	return req.WithContext(gate.WithVisitor(req.Context(), &identity, role))
}

func TestCatalogHandlers_List(t *testing.T) {
	t.Parallel()

	products, h := newCatalogHandlers(t)
	products.EXPECT().List(gomock.Any(), 10, 20).Return([]*model.Product{{ID: "p1"}}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/catalog?limit=10&offset=20", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"p1"`)
}

func TestCatalogHandlers_Get_NotFound(t *testing.T) {
	t.Parallel()

	products, h := newCatalogHandlers(t)
	products.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, data.ErrProductNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/gone", nil)
	req.SetPathValue("id", "gone")

	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandlers_Create_RequiresAdmin(t *testing.T) {
	t.Parallel()

	_, h := newCatalogHandlers(t)

	body := `{"title":"Tourbillon","house":"Maison Vermeil","asset_class":"timepiece","price":42000}`

	// Anonymous: 401.
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/catalog", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Member: 403.
	rec = httptest.NewRecorder()
	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/catalog", strings.NewReader(body)), "user-1", domainauth.RoleMember)
	h.Create(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatalogHandlers_Create_AsAdmin(t *testing.T) {
	t.Parallel()

	products, h := newCatalogHandlers(t)
	products.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Product{ID: "p1", Title: "Tourbillon"}, nil)

	body := `{"title":"Tourbillon","house":"Maison Vermeil","asset_class":"timepiece","price":42000}`
	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/catalog", strings.NewReader(body)), "admin-1", domainauth.RoleAdmin)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"p1"`)
}

func TestCatalogHandlers_Create_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, h := newCatalogHandlers(t)

	body := `{"title":"x","bogus":true}`
	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/catalog", strings.NewReader(body)), "admin-1", domainauth.RoleAdmin)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestCatalogHandlers_SetAvailability(t *testing.T) {
	t.Parallel()

	products, h := newCatalogHandlers(t)
	products.EXPECT().SetAvailability(gomock.Any(), "p1", false).Return(nil)

	req := withVisitor(httptest.NewRequest(http.MethodPut, "/api/catalog/p1/availability",
		strings.NewReader(`{"available":false}`)), "admin-1", domainauth.RoleAdmin)
	req.SetPathValue("id", "p1")

	rec := httptest.NewRecorder()
	h.SetAvailability(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
