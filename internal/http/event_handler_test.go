package http

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
)

func setupEventHandler(t *testing.T) (*mocks.MockEventService, *http.ServeMux) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mocks.NewMockEventService(ctrl)
	mux := http.NewServeMux()
	NewEventHandler(svc, stubVerifier{actor: testActor}, newTestLogger(ctrl)).RegisterRoutes(mux)
	return svc, mux
}

func TestEventHandler_Participants(t *testing.T) {
	svc, mux := setupEventHandler(t)
	svc.EXPECT().ListParticipants(gomock.Any(), "t1", "e1").Return([]*domain.EventParticipant{
		{EventID: "e1", ContactID: "c1", EventRoleID: "r1", RoleName: "Volunteer"},
	}, nil)

	w := call(mux, http.MethodGet, "/api/events.participants?team_id=t1&event_id=e1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	participants := decodeBody(t, w)["participants"].([]interface{})
	require.Len(t, participants, 1)
	assert.Equal(t, "Volunteer", participants[0].(map[string]interface{})["role_name"])

	w = call(mux, http.MethodGet, "/api/events.participants?team_id=t1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_AddParticipant(t *testing.T) {
	svc, mux := setupEventHandler(t)
	req := &domain.AddParticipantRequest{TeamID: "t1", EventID: "e1", ContactID: "c1", EventRoleID: "r1"}
	svc.EXPECT().AddParticipant(gomock.Any(), req).
		Return(&domain.EventParticipant{EventID: "e1", ContactID: "c1", EventRoleID: "r1", RoleName: "Volunteer"}, nil)

	w := call(mux, http.MethodPost, "/api/events.addParticipant", req)
	assert.Equal(t, http.StatusCreated, w.Code)

	hidden := &domain.AddParticipantRequest{TeamID: "t1", EventID: "e1", ContactID: "c9", EventRoleID: "r1"}
	svc.EXPECT().AddParticipant(gomock.Any(), hidden).Return(nil, domain.NewNotFoundError("contact", "c9"))

	w = call(mux, http.MethodPost, "/api/events.addParticipant", hidden)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
