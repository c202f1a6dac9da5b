package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
)

func setupGroupHandler(t *testing.T) (*mocks.MockGroupService, *http.ServeMux) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mocks.NewMockGroupService(ctrl)
	handler := NewGroupHandler(svc, stubVerifier{actor: testActor}, newTestLogger(ctrl))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return svc, mux
}

func TestGroupHandler_List(t *testing.T) {
	svc, mux := setupGroupHandler(t)
	svc.EXPECT().ListGroups(gomock.Any(), "t1").Return([]*domain.Group{
		{ID: "def", TeamID: "t1", Name: "Everyone", IsDefaultGroup: true, UserIDs: []string{"alice"}},
		{ID: "g1", TeamID: "t1", Name: "Board"},
	}, nil)

	w := call(mux, http.MethodGet, "/api/groups.list?team_id=t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	groups := decodeBody(t, w)["groups"].([]interface{})
	require.Len(t, groups, 2)
	assert.Equal(t, true, groups[0].(map[string]interface{})["is_default_group"])
}

func TestGroupHandler_Permissions(t *testing.T) {
	svc, mux := setupGroupHandler(t)
	svc.EXPECT().GetUserPermissions(gomock.Any(), "t1").Return(&domain.UserPermissions{
		TeamID:            "t1",
		UserID:            "alice",
		Modules:           domain.Modules{domain.ModuleCRM},
		ContactSubmodules: domain.ContactSubmodules{domain.SubmoduleLists},
	}, nil)
	svc.EXPECT().GetUserPermissions(gomock.Any(), "t2").
		Return(nil, domain.NewPermissionError("t2", "user is not a member of the team"))

	w := call(mux, http.MethodGet, "/api/groups.permissions?team_id=t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	perms := decodeBody(t, w)["permissions"].(map[string]interface{})
	assert.Equal(t, []interface{}{"CRM"}, perms["modules"])
	assert.Equal(t, false, perms["can_access_all_contacts"])

	w = call(mux, http.MethodGet, "/api/groups.permissions?team_id=t2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGroupHandler_CreateAndUpdate(t *testing.T) {
	svc, mux := setupGroupHandler(t)
	svc.EXPECT().CreateGroup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.CreateGroupRequest) (*domain.Group, error) {
			assert.Equal(t, domain.Modules{domain.ModuleCRM, domain.ModuleEvents}, req.Modules)
			assert.Equal(t, []string{"bob"}, req.UserIDs)
			return &domain.Group{ID: "g1", TeamID: req.TeamID, Name: req.Name, Modules: req.Modules}, nil
		})
	svc.EXPECT().UpdateGroup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.UpdateGroupRequest) (*domain.Group, error) {
			require.NotNil(t, req.CanAccessAllContacts)
			assert.True(t, *req.CanAccessAllContacts)
			assert.Nil(t, req.Name)
			return &domain.Group{ID: req.ID, CanAccessAllContacts: true}, nil
		})

	w := call(mux, http.MethodPost, "/api/groups.create",
		`{"team_id":"t1","name":"Board","modules":["CRM","EVENTS"],"user_ids":["bob"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(mux, http.MethodPost, "/api/groups.update", `{"team_id":"t1","id":"g1","can_access_all_contacts":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["group"].(map[string]interface{})["can_access_all_contacts"])
}

func TestGroupHandler_Delete(t *testing.T) {
	svc, mux := setupGroupHandler(t)
	svc.EXPECT().DeleteGroups(gomock.Any(), "t1", []string{"def"}).
		Return(domain.NewInvariantViolation(domain.MsgDefaultGroupDelete))

	w := call(mux, http.MethodPost, "/api/groups.delete", map[string]interface{}{"team_id": "t1", "ids": []string{"def"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.MsgDefaultGroupDelete, decodeBody(t, w)["error"])

	w = call(mux, http.MethodPost, "/api/groups.delete", map[string]interface{}{"team_id": "t1", "ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupHandler_Users(t *testing.T) {
	svc, mux := setupGroupHandler(t)
	svc.EXPECT().AddUsersToGroup(gomock.Any(), "t1", "g1", []string{"bob"}).Return(nil)
	svc.EXPECT().RemoveUsersFromGroup(gomock.Any(), "t1", "def", []string{"bob"}).
		Return(domain.NewInvariantViolation(domain.MsgDefaultGroupRemove))

	w := call(mux, http.MethodPost, "/api/groups.addUsers", map[string]interface{}{
		"team_id": "t1", "group_id": "g1", "user_ids": []string{"bob"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(mux, http.MethodPost, "/api/groups.removeUsers", map[string]interface{}{
		"team_id": "t1", "group_id": "def", "user_ids": []string{"bob"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
