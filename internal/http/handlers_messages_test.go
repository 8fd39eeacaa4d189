package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/mocks"
	"github.com/solenne/boutique/internal/service"
)

// fakeNoticeSubscriber hands out a pre-built channel of notices.
type fakeNoticeSubscriber struct {
	ch      chan model.MessageNotice
	gotUser string
}

func (f *fakeNoticeSubscriber) Subscribe(_ context.Context, userID string) (<-chan model.MessageNotice, error) {
	f.gotUser = userID
	return f.ch, nil
}

type messageHandlerMocks struct {
	messages *mocks.MockMessageRepository
	notices  *fakeNoticeSubscriber
}

func newMessageHandlers(t *testing.T) (messageHandlerMocks, *MessageHandlers) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := messageHandlerMocks{
		messages: mocks.NewMockMessageRepository(ctrl),
		notices:  &fakeNoticeSubscriber{ch: make(chan model.MessageNotice, 1)},
	}
	svc := service.NewMessageService(service.MessageServiceOptions{Messages: m.messages})
	return m, NewMessageHandlers(svc, m.notices, nil)
}

func TestMessageHandlers_Send_DefaultsToOwnThread(t *testing.T) {
	t.Parallel()

	m, h := newMessageHandlers(t)
	m.messages.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg *model.Message) (*model.Message, error) {
			assert.Equal(t, "user-1", msg.ThreadID)
			stored := *msg
			stored.ID = "msg-1"
			return &stored, nil
		})

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/messages",
		strings.NewReader(`{"body":"Is the tourbillon available?"}`)), "user-1", domainauth.RoleMember)

	rec := httptest.NewRecorder()
	h.Send(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"msg-1"`)
}

func TestMessageHandlers_Send_MemberCannotTargetOtherThread(t *testing.T) {
	t.Parallel()

	_, h := newMessageHandlers(t)

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/messages",
		strings.NewReader(`{"thread_id":"user-2","body":"hi"}`)), "user-1", domainauth.RoleMember)

	rec := httptest.NewRecorder()
	h.Send(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageHandlers_Send_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, h := newMessageHandlers(t)

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"body":"hi"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMessageHandlers_Thread_DefaultsToOwnThread(t *testing.T) {
	t.Parallel()

	m, h := newMessageHandlers(t)
	m.messages.EXPECT().ListThread(gomock.Any(), "user-1", 0, 0).Return([]*model.Message{{ID: "msg-1"}}, nil)
	m.messages.EXPECT().MarkRead(gomock.Any(), "user-1", "user-1").Return(nil)

	req := withVisitor(httptest.NewRequest(http.MethodGet, "/api/messages", nil), "user-1", domainauth.RoleMember)

	rec := httptest.NewRecorder()
	h.Thread(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"msg-1"`)
}

func TestMessageHandlers_Thread_AdminReadsMemberThread(t *testing.T) {
	t.Parallel()

	m, h := newMessageHandlers(t)
	m.messages.EXPECT().ListThread(gomock.Any(), "user-1", 0, 0).Return(nil, nil)
	m.messages.EXPECT().MarkRead(gomock.Any(), "user-1", "concierge-1").Return(nil)

	req := withVisitor(httptest.NewRequest(http.MethodGet, "/api/messages/user-1", nil), "concierge-1", domainauth.RoleAdmin)
	req.SetPathValue("thread", "user-1")

	rec := httptest.NewRecorder()
	h.Thread(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMessageHandlers_Notifications_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, h := newMessageHandlers(t)

	rec := httptest.NewRecorder()
	h.Notifications(rec, httptest.NewRequest(http.MethodGet, "/api/messages/notifications", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMessageHandlers_Notifications_UnavailableWithoutSubscriber(t *testing.T) {
	t.Parallel()

	svc := service.NewMessageService(service.MessageServiceOptions{})
	h := NewMessageHandlers(svc, nil, nil)

	req := withVisitor(httptest.NewRequest(http.MethodGet, "/api/messages/notifications", nil), "user-1", domainauth.RoleMember)

	rec := httptest.NewRecorder()
	h.Notifications(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMessageHandlers_Notifications_StreamsNotices(t *testing.T) {
	t.Parallel()

	m, h := newMessageHandlers(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Notifications(w, withVisitor(r, "user-1", domainauth.RoleMember))
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	defer resp.Body.Close()

	m.notices.ch <- model.MessageNotice{ThreadID: "user-1", MessageID: "msg-1"}

	var notice model.MessageNotice
	require.NoError(t, conn.ReadJSON(&notice))
	assert.Equal(t, "msg-1", notice.MessageID)
	assert.Equal(t, "user-1", m.notices.gotUser)
}
