package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
	"github.com/Pledgebase/pledgebase/pkg/export"
)

func setupContactListHandler(t *testing.T) (*mocks.MockContactListService, *http.ServeMux) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mocks.NewMockContactListService(ctrl)
	handler := NewContactListHandler(svc, stubVerifier{actor: testActor}, newTestLogger(ctrl))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return svc, mux
}

func TestContactListHandler_RequiresToken(t *testing.T) {
	_, mux := setupContactListHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contactLists.list?team_id=t1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/contactLists.list?team_id=t1", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, w)["error"])
}

func TestContactListHandler_List(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().ListLists(gomock.Any(), "t1").
		Return([]*domain.ContactList{{ID: "l1", Name: "Volunteers", Type: domain.ContactListTypeManual, ContactCount: 3}}, nil)

	w := call(mux, http.MethodGet, "/api/contactLists.list?team_id=t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	lists := decodeBody(t, w)["lists"].([]interface{})
	assert.Len(t, lists, 1)
	assert.Equal(t, float64(3), lists[0].(map[string]interface{})["contact_count"])

	w = call(mux, http.MethodGet, "/api/contactLists.list", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(mux, http.MethodPost, "/api/contactLists.list?team_id=t1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestContactListHandler_Get(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().GetListByID(gomock.Any(), "t1", "l1").Return(&domain.ContactListWithContacts{
		ContactList: &domain.ContactList{ID: "l1", Name: "Volunteers", ContactCount: 1},
		Contacts:    []*domain.Contact{{ID: "c1", Name: "Ann"}},
	}, nil)
	svc.EXPECT().GetListByID(gomock.Any(), "t1", "nope").Return(nil, domain.NewNotFoundError("contact list", "nope"))

	w := call(mux, http.MethodGet, "/api/contactLists.get?team_id=t1&id=l1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["list"].(map[string]interface{})
	assert.Equal(t, "Volunteers", list["name"])
	assert.Len(t, list["contacts"], 1)

	w = call(mux, http.MethodGet, "/api/contactLists.get?team_id=t1&id=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactListHandler_Create(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().CreateList(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.CreateContactListRequest) (*domain.ContactList, error) {
			assert.Equal(t, domain.ContactListTypeSmart, req.Type)
			assert.Equal(t, domain.ContactFilters{domain.GroupFilter{GroupID: "g1"}}, req.Filters)
			return &domain.ContactList{ID: "l1", Name: req.Name, Type: req.Type, Filters: req.Filters}, nil
		})

	w := call(mux, http.MethodPost, "/api/contactLists.create",
		`{"team_id":"t1","name":"Board","type":"SMART","filters":[{"type":"group","groupId":"g1"}]}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(mux, http.MethodPost, "/api/contactLists.create", `{"team_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactListHandler_Members(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().AddContactsToList(gomock.Any(), "t1", "l1", []string{"c1"}).Return(nil)
	svc.EXPECT().RemoveContactsFromList(gomock.Any(), "t1", "l2", []string{"c1"}).
		Return(domain.NewInvariantViolation(domain.MsgSmartListContactMutation))

	w := call(mux, http.MethodPost, "/api/contactLists.addContacts", map[string]interface{}{
		"team_id": "t1", "list_id": "l1", "contact_ids": []string{"c1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(mux, http.MethodPost, "/api/contactLists.removeContacts", map[string]interface{}{
		"team_id": "t1", "list_id": "l2", "contact_ids": []string{"c1"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.MsgSmartListContactMutation, decodeBody(t, w)["error"])

	w = call(mux, http.MethodPost, "/api/contactLists.addContacts", map[string]interface{}{
		"team_id": "t1", "list_id": "l1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactListHandler_Delete(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().DeleteLists(gomock.Any(), "t1", []string{"l1", "l2"}).Return(nil)

	w := call(mux, http.MethodPost, "/api/contactLists.delete", map[string]interface{}{"team_id": "t1", "ids": []string{"l1", "l2"}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(mux, http.MethodPost, "/api/contactLists.delete", map[string]interface{}{"team_id": "t1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactListHandler_Export(t *testing.T) {
	svc, mux := setupContactListHandler(t)
	svc.EXPECT().ExportList(gomock.Any(), "t1", "l1").Return("Volunteers.xlsx", []byte("PK\x03\x04"), nil)

	w := call(mux, http.MethodGet, "/api/contactLists.export?team_id=t1&id=l1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Volunteers.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}
