package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type contactListFixture struct {
	repo       *mocks.MockContactListRepository
	evaluator  *mocks.MockFilterEvaluator
	visibility *mocks.MockVisibilityResolver
	auth       *mocks.MockAuthService
	svc        *ContactListService
	actor      *domain.Actor
}

func setupContactListTest(t *testing.T) *contactListFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &contactListFixture{
		repo:       mocks.NewMockContactListRepository(ctrl),
		evaluator:  mocks.NewMockFilterEvaluator(ctrl),
		visibility: mocks.NewMockVisibilityResolver(ctrl),
		auth:       mocks.NewMockAuthService(ctrl),
		actor:      &domain.Actor{UserID: "bob", Roles: []domain.PlatformRole{domain.PlatformRoleUser}},
	}
	f.auth.EXPECT().AuthenticateUserForTeam(gomock.Any(), teamID).Return(f.actor, nil).AnyTimes()
	f.svc = NewContactListService(f.repo, f.evaluator, f.visibility, f.auth, logger.NewTestLogger(t))
	return f
}

var restricted = domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIsNull}

func (f *contactListFixture) expectVisibility() {
	f.visibility.EXPECT().
		ResolveContactVisibility(gomock.Any(), teamID, "bob", f.actor.Roles).
		Return(restricted, nil)
}

func smartList(id string, filters ...domain.ContactFilter) *domain.ContactList {
	return &domain.ContactList{ID: id, TeamID: teamID, Name: "Smart " + id, Type: domain.ContactListTypeSmart, Filters: filters}
}

func manualList(id string) *domain.ContactList {
	return &domain.ContactList{ID: id, TeamID: teamID, Name: "Manual " + id, Type: domain.ContactListTypeManual}
}

func TestContactListService_CreateList(t *testing.T) {
	ctx := context.Background()

	t.Run("manual lists drop filters and keep seed contacts", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().CreateList(gomock.Any(), gomock.Any(), []string{"c1", "c2"}).
			DoAndReturn(func(_ context.Context, list *domain.ContactList, _ []string) error {
				assert.Nil(t, list.Filters)
				list.ID = "l1"
				return nil
			})

		list, err := f.svc.CreateList(ctx, &domain.CreateContactListRequest{
			TeamID:     teamID,
			Name:       " Volunteers ",
			Filters:    domain.ContactFilters{domain.GroupFilter{GroupID: "g1"}},
			ContactIDs: []string{"c1", "c2", "c1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "l1", list.ID)
		assert.Equal(t, "Volunteers", list.Name)
		assert.Equal(t, domain.ContactListTypeManual, list.Type)
	})

	t.Run("smart lists drop seed contacts", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().CreateList(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil)

		list, err := f.svc.CreateList(ctx, &domain.CreateContactListRequest{
			TeamID:     teamID,
			Name:       "Berlin",
			Type:       domain.ContactListTypeSmart,
			ContactIDs: []string{"c1"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ContactFilters{}, list.Filters)
	})

	t.Run("blank name", func(t *testing.T) {
		f := setupContactListTest(t)
		_, err := f.svc.CreateList(ctx, &domain.CreateContactListRequest{TeamID: teamID, Name: "  "})
		require.Error(t, err)
		assert.True(t, domain.IsInvariantViolation(err))
		assert.Equal(t, domain.MsgListNameRequired, err.Error())
	})
}

func TestContactListService_GetListByID(t *testing.T) {
	ctx := context.Background()

	t.Run("manual lists are scoped to their members", func(t *testing.T) {
		f := setupContactListTest(t)
		contacts := []*domain.Contact{{ID: "c1"}, {ID: "c2"}}
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.expectVisibility()
		f.evaluator.EXPECT().EvaluateContacts(gomock.Any(), domain.EvaluateContactsRequest{
			TeamID:     teamID,
			Visibility: restricted,
			Scope:      domain.ListMembership{ListID: "l1"},
			Roles:      f.actor.Roles,
		}).Return(contacts, nil)

		result, err := f.svc.GetListByID(ctx, teamID, "l1")
		require.NoError(t, err)
		assert.Equal(t, contacts, result.Contacts)
		assert.Equal(t, 2, result.ContactCount)
	})

	t.Run("smart lists are evaluated from their filters", func(t *testing.T) {
		f := setupContactListTest(t)
		filters := domain.ContactFilters{domain.GroupFilter{GroupID: "g1"}}
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l2").Return(smartList("l2", filters...), nil)
		f.expectVisibility()
		f.evaluator.EXPECT().EvaluateContacts(gomock.Any(), domain.EvaluateContactsRequest{
			TeamID:     teamID,
			Visibility: restricted,
			Filters:    filters,
			Roles:      f.actor.Roles,
		}).Return([]*domain.Contact{}, nil)

		result, err := f.svc.GetListByID(ctx, teamID, "l2")
		require.NoError(t, err)
		assert.Empty(t, result.Contacts)
		assert.Zero(t, result.ContactCount)
	})

	t.Run("not found", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "nope").Return(nil, domain.NewNotFoundError("contact list", "nope"))

		_, err := f.svc.GetListByID(ctx, teamID, "nope")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("authentication failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthService(ctrl)
		auth.EXPECT().AuthenticateUserForTeam(gomock.Any(), teamID).Return(nil, domain.ErrUnauthenticated)
		svc := NewContactListService(nil, nil, nil, auth, logger.NewTestLogger(t))

		_, err := svc.GetListByID(ctx, teamID, "l1")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestContactListService_ListLists(t *testing.T) {
	ctx := context.Background()

	t.Run("counts every list for the acting user", func(t *testing.T) {
		f := setupContactListTest(t)
		lists := []*domain.ContactList{manualList("l1"), smartList("l2"), manualList("l3")}
		f.repo.EXPECT().ListLists(gomock.Any(), teamID).Return(lists, nil)
		f.expectVisibility()

		var mu sync.Mutex
		seen := map[string]bool{}
		f.evaluator.EXPECT().CountContacts(gomock.Any(), gomock.Any()).Times(3).
			DoAndReturn(func(_ context.Context, req domain.EvaluateContactsRequest) (int, error) {
				assert.Equal(t, restricted, req.Visibility)
				mu.Lock()
				defer mu.Unlock()
				if m, ok := req.Scope.(domain.ListMembership); ok {
					seen[m.ListID] = true
					return len(m.ListID), nil
				}
				seen["smart"] = true
				return 7, nil
			})

		got, err := f.svc.ListLists(ctx, teamID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 2, got[0].ContactCount)
		assert.Equal(t, 7, got[1].ContactCount)
		assert.Equal(t, map[string]bool{"l1": true, "smart": true, "l3": true}, seen)
	})

	t.Run("no lists skip visibility", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().ListLists(gomock.Any(), teamID).Return([]*domain.ContactList{}, nil)

		got, err := f.svc.ListLists(ctx, teamID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("count failure", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().ListLists(gomock.Any(), teamID).Return([]*domain.ContactList{manualList("l1")}, nil)
		f.expectVisibility()
		f.evaluator.EXPECT().CountContacts(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		_, err := f.svc.ListLists(ctx, teamID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count list contacts")
	})
}

func TestContactListService_UpdateList(t *testing.T) {
	ctx := context.Background()

	t.Run("smart to manual clears filters", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").
			Return(smartList("l1", domain.GroupFilter{GroupID: "g1"}), nil)
		f.repo.EXPECT().UpdateList(gomock.Any(), gomock.Any()).Return(nil)

		manual := domain.ContactListTypeManual
		list, err := f.svc.UpdateList(ctx, &domain.UpdateContactListRequest{TeamID: teamID, ID: "l1", Type: &manual})
		require.NoError(t, err)
		assert.Equal(t, domain.ContactListTypeManual, list.Type)
		assert.Nil(t, list.Filters)
	})

	t.Run("manual to smart starts with the given filters", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.repo.EXPECT().UpdateList(gomock.Any(), gomock.Any()).Return(nil)

		smart := domain.ContactListTypeSmart
		filters := domain.ContactFilters{domain.EventRoleFilter{EventRoleID: "r1"}}
		list, err := f.svc.UpdateList(ctx, &domain.UpdateContactListRequest{TeamID: teamID, ID: "l1", Type: &smart, Filters: &filters})
		require.NoError(t, err)
		assert.Equal(t, filters, list.Filters)
	})

	t.Run("blank name is rejected before loading", func(t *testing.T) {
		f := setupContactListTest(t)
		name := " "
		_, err := f.svc.UpdateList(ctx, &domain.UpdateContactListRequest{TeamID: teamID, ID: "l1", Name: &name})
		assert.True(t, domain.IsInvariantViolation(err))
	})

	t.Run("filters on a manual list are dropped", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.repo.EXPECT().UpdateList(gomock.Any(), gomock.Any()).Return(nil)

		filters := domain.ContactFilters{domain.GroupFilter{GroupID: "g1"}}
		list, err := f.svc.UpdateList(ctx, &domain.UpdateContactListRequest{TeamID: teamID, ID: "l1", Filters: &filters})
		require.NoError(t, err)
		assert.Nil(t, list.Filters)
	})
}

func TestContactListService_DeleteLists(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unique ids", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().DeleteLists(gomock.Any(), teamID, []string{"l1", "l2"}).Return(int64(2), nil)
		require.NoError(t, f.svc.DeleteLists(ctx, teamID, []string{"l1", "l2", "l1"}))
	})

	t.Run("nothing deleted", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().DeleteLists(gomock.Any(), teamID, []string{"other-team"}).Return(int64(0), nil)
		assert.True(t, domain.IsNotFound(f.svc.DeleteLists(ctx, teamID, []string{"other-team"})))
	})

	t.Run("empty ids", func(t *testing.T) {
		f := setupContactListTest(t)
		assert.True(t, domain.IsValidationError(f.svc.DeleteLists(ctx, teamID, nil)))
	})
}

func TestContactListService_Membership(t *testing.T) {
	ctx := context.Background()

	t.Run("add to manual list", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.repo.EXPECT().AddMembers(gomock.Any(), teamID, "l1", []string{"c1", "c2"}).Return(nil)
		require.NoError(t, f.svc.AddContactsToList(ctx, teamID, "l1", []string{"c1", "c2", "c2"}))
	})

	t.Run("remove from manual list", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.repo.EXPECT().RemoveMembers(gomock.Any(), teamID, "l1", []string{"c1"}).Return(nil)
		require.NoError(t, f.svc.RemoveContactsFromList(ctx, teamID, "l1", []string{"c1"}))
	})

	t.Run("smart lists refuse explicit members", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l2").Return(smartList("l2"), nil).Times(2)

		err := f.svc.AddContactsToList(ctx, teamID, "l2", []string{"c1"})
		require.True(t, domain.IsInvariantViolation(err))
		assert.Equal(t, domain.MsgSmartListContactMutation, err.Error())

		err = f.svc.RemoveContactsFromList(ctx, teamID, "l2", []string{"c1"})
		assert.True(t, domain.IsInvariantViolation(err))
	})

	t.Run("list turned smart before the write", func(t *testing.T) {
		f := setupContactListTest(t)
		f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(manualList("l1"), nil)
		f.repo.EXPECT().AddMembers(gomock.Any(), teamID, "l1", []string{"c1"}).
			Return(domain.NewInvariantViolation(domain.MsgSmartListContactMutation))

		err := f.svc.AddContactsToList(ctx, teamID, "l1", []string{"c1"})
		require.True(t, domain.IsInvariantViolation(err))
		assert.Equal(t, domain.MsgSmartListContactMutation, err.Error())
	})

	t.Run("empty contact ids", func(t *testing.T) {
		f := setupContactListTest(t)
		assert.True(t, domain.IsValidationError(f.svc.AddContactsToList(ctx, teamID, "l1", []string{})))
	})
}

func TestContactListService_ExportList(t *testing.T) {
	ctx := context.Background()
	f := setupContactListTest(t)

	list := manualList("l1")
	list.Name = "Spring Fair / Helpers"
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	f.repo.EXPECT().GetList(gomock.Any(), teamID, "l1").Return(list, nil)
	f.expectVisibility()
	f.evaluator.EXPECT().EvaluateContacts(gomock.Any(), gomock.Any()).Return([]*domain.Contact{
		{ID: "c1", Name: "Ann", Email: strPtr("ann@example.org"), City: strPtr("Berlin"), CreatedAt: created},
	}, nil)

	name, data, err := f.svc.ExportList(ctx, teamID, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Spring_Fair__Helpers.xlsx", name)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Ann", rows[1][0])
	assert.Equal(t, "ann@example.org", rows[1][1])
	assert.Equal(t, "", rows[1][2])
	assert.Equal(t, "Berlin", rows[1][4])
	assert.Equal(t, "2024-03-01T09:30:00Z", rows[1][8])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Volunteers.xlsx", exportFilename("Volunteers"))
	assert.Equal(t, "Bücher-Club_2024.xlsx", exportFilename(" Bücher-Club 2024 "))
	assert.Equal(t, "contacts.xlsx", exportFilename("../"))
}

func TestContactListService_SmartListIsLive(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := &memContactStore{}
	for _, c := range []*domain.Contact{
		{ID: "c1", TeamID: teamID, Name: "Ann", GroupID: strPtr("g1")},
		{ID: "c2", TeamID: teamID, Name: "Ben", GroupID: strPtr("g2")},
		{ID: "c3", TeamID: teamID, Name: "Cem"},
	} {
		require.NoError(t, store.CreateContact(ctx, c))
	}

	actor := &domain.Actor{UserID: "bob", Roles: []domain.PlatformRole{domain.PlatformRoleUser}}
	auth := mocks.NewMockAuthService(ctrl)
	auth.EXPECT().AuthenticateUserForTeam(gomock.Any(), teamID).Return(actor, nil).AnyTimes()
	visibility := mocks.NewMockVisibilityResolver(ctrl)
	visibility.EXPECT().ResolveContactVisibility(gomock.Any(), teamID, "bob", actor.Roles).Return(nil, nil).AnyTimes()

	var stored *domain.ContactList
	repo := mocks.NewMockContactListRepository(ctrl)
	repo.EXPECT().CreateList(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, list *domain.ContactList, contactIDs []string) error {
			assert.Empty(t, contactIDs)
			list.ID = "smart-1"
			stored = list
			return nil
		})
	repo.EXPECT().GetList(gomock.Any(), teamID, "smart-1").
		DoAndReturn(func(context.Context, string, string) (*domain.ContactList, error) {
			copied := *stored
			return &copied, nil
		}).AnyTimes()
	repo.EXPECT().ListLists(gomock.Any(), teamID).
		DoAndReturn(func(context.Context, string) ([]*domain.ContactList, error) {
			copied := *stored
			return []*domain.ContactList{&copied}, nil
		}).AnyTimes()
	repo.EXPECT().AddMembers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	evaluator := NewFilterEvaluator(store, mocks.NewMockCentroidLocator(ctrl), logger.NewTestLogger(t))
	svc := NewContactListService(repo, evaluator, visibility, auth, logger.NewTestLogger(t))

	list, err := svc.CreateList(ctx, &domain.CreateContactListRequest{
		TeamID:  teamID,
		Name:    "Group one",
		Type:    domain.ContactListTypeSmart,
		Filters: domain.ContactFilters{domain.GroupFilter{GroupID: "g1"}},
	})
	require.NoError(t, err)

	ids := func(contacts []*domain.Contact) []string {
		out := []string{}
		for _, c := range contacts {
			out = append(out, c.ID)
		}
		return out
	}

	before, err := svc.GetListByID(ctx, teamID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids(before.Contacts))
	assert.Equal(t, 1, before.ContactCount)

	require.NoError(t, store.CreateContact(ctx, &domain.Contact{ID: "c4", TeamID: teamID, Name: "Dora", GroupID: strPtr("g1")}))

	after, err := svc.GetListByID(ctx, teamID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c4"}, ids(after.Contacts))
	assert.Equal(t, before.ContactCount+1, after.ContactCount)

	summaries, err := svc.ListLists(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].ContactCount)

	// the result equals a direct evaluation of the stored filters
	direct, err := evaluator.EvaluateContacts(ctx, domain.EvaluateContactsRequest{TeamID: teamID, Filters: stored.Filters})
	require.NoError(t, err)
	assert.Equal(t, ids(direct), ids(after.Contacts))
}
