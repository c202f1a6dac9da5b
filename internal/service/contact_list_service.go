package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/export"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// listCountConcurrency bounds the concurrent count queries of ListLists
const listCountConcurrency = 4

type ContactListService struct {
	repo        domain.ContactListRepository
	evaluator   domain.FilterEvaluator
	visibility  domain.VisibilityResolver
	authService domain.AuthService
	logger      logger.Logger
}

func NewContactListService(
	repo domain.ContactListRepository,
	evaluator domain.FilterEvaluator,
	visibility domain.VisibilityResolver,
	authService domain.AuthService,
	logger logger.Logger,
) *ContactListService {
	return &ContactListService{
		repo:        repo,
		evaluator:   evaluator,
		visibility:  visibility,
		authService: authService,
		logger:      logger,
	}
}

func (s *ContactListService) CreateList(ctx context.Context, req *domain.CreateContactListRequest) (*domain.ContactList, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	list, contactIDs, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateList(ctx, list, contactIDs); err != nil {
		s.logger.WithField("team_id", req.TeamID).Error(fmt.Sprintf("Failed to create contact list: %v", err))
		return nil, fmt.Errorf("failed to create contact list: %w", err)
	}
	return list, nil
}

// GetListByID returns the list with the contacts the acting user may see
func (s *ContactListService) GetListByID(ctx context.Context, teamID, id string) (*domain.ContactListWithContacts, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	list, err := s.getList(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	vis, err := actorVisibility(ctx, s.visibility, teamID, actor)
	if err != nil {
		return nil, err
	}

	contacts, err := s.evaluator.EvaluateContacts(ctx, listEvaluation(list, vis, actor))
	if err != nil {
		s.logger.WithField("list_id", id).Error(fmt.Sprintf("Failed to load list contacts: %v", err))
		return nil, fmt.Errorf("failed to load list contacts: %w", err)
	}
	list.ContactCount = len(contacts)
	return &domain.ContactListWithContacts{ContactList: list, Contacts: contacts}, nil
}

// ListLists returns every list of the team with its contact count for the acting user
func (s *ContactListService) ListLists(ctx context.Context, teamID string) ([]*domain.ContactList, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	lists, err := s.repo.ListLists(ctx, teamID)
	if err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to list contact lists: %v", err))
		return nil, fmt.Errorf("failed to list contact lists: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	vis, err := actorVisibility(ctx, s.visibility, teamID, actor)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listCountConcurrency)
	for _, list := range lists {
		g.Go(func() error {
			count, err := s.evaluator.CountContacts(gctx, listEvaluation(list, vis, actor))
			if err != nil {
				return fmt.Errorf("list %s: %w", list.ID, err)
			}
			list.ContactCount = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to count list contacts: %v", err))
		return nil, fmt.Errorf("failed to count list contacts: %w", err)
	}
	return lists, nil
}

func (s *ContactListService) UpdateList(ctx context.Context, req *domain.UpdateContactListRequest) (*domain.ContactList, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	list, err := s.getList(ctx, req.TeamID, req.ID)
	if err != nil {
		return nil, err
	}
	req.Apply(list)
	if err := list.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateList(ctx, list); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("list_id", req.ID).Error(fmt.Sprintf("Failed to update contact list: %v", err))
		return nil, fmt.Errorf("failed to update contact list: %w", err)
	}
	return list, nil
}

// DeleteLists removes the lists of the team among ids; membership rows cascade
func (s *ContactListService) DeleteLists(ctx context.Context, teamID string, ids []string) error {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	ids = domain.UniqueStrings(ids)
	if len(ids) == 0 {
		return domain.NewValidationError("ids must not be empty")
	}

	deleted, err := s.repo.DeleteLists(ctx, teamID, ids)
	if err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to delete contact lists: %v", err))
		return fmt.Errorf("failed to delete contact lists: %w", err)
	}
	if deleted == 0 {
		return domain.NewNotFoundError("contact list", strings.Join(ids, ","))
	}
	return nil
}

func (s *ContactListService) AddContactsToList(ctx context.Context, teamID, listID string, contactIDs []string) error {
	list, contactIDs, err := s.manualListForMutation(ctx, teamID, listID, contactIDs)
	if err != nil {
		return err
	}
	if err := s.repo.AddMembers(ctx, teamID, list.ID, contactIDs); err != nil {
		// the list changed type or vanished since it was loaded
		if domain.IsInvariantViolation(err) || domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("list_id", listID).Error(fmt.Sprintf("Failed to add contacts to list: %v", err))
		return fmt.Errorf("failed to add contacts to list: %w", err)
	}
	return nil
}

func (s *ContactListService) RemoveContactsFromList(ctx context.Context, teamID, listID string, contactIDs []string) error {
	list, contactIDs, err := s.manualListForMutation(ctx, teamID, listID, contactIDs)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveMembers(ctx, teamID, list.ID, contactIDs); err != nil {
		// the list changed type or vanished since it was loaded
		if domain.IsInvariantViolation(err) || domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("list_id", listID).Error(fmt.Sprintf("Failed to remove contacts from list: %v", err))
		return fmt.Errorf("failed to remove contacts from list: %w", err)
	}
	return nil
}

// manualListForMutation loads the list and refuses explicit membership
// changes on SMART lists
func (s *ContactListService) manualListForMutation(ctx context.Context, teamID, listID string, contactIDs []string) (*domain.ContactList, []string, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	contactIDs = domain.UniqueStrings(contactIDs)
	if len(contactIDs) == 0 {
		return nil, nil, domain.NewValidationError("contact_ids must not be empty")
	}

	list, err := s.getList(ctx, teamID, listID)
	if err != nil {
		return nil, nil, err
	}
	if list.IsSmart() {
		return nil, nil, domain.NewInvariantViolation(domain.MsgSmartListContactMutation)
	}
	return list, contactIDs, nil
}

var exportHeaders = []string{
	"Name", "Email", "Phone", "Address", "City", "Postal Code", "State", "Country", "Created At",
}

// ExportList renders the contacts of the list visible to the acting user as a workbook
func (s *ContactListService) ExportList(ctx context.Context, teamID, id string) (string, []byte, error) {
	result, err := s.GetListByID(ctx, teamID, id)
	if err != nil {
		return "", nil, err
	}

	rows := make([][]interface{}, 0, len(result.Contacts))
	for _, c := range result.Contacts {
		rows = append(rows, []interface{}{
			c.Name,
			cellValue(c.Email),
			cellValue(c.Phone),
			cellValue(c.Address),
			cellValue(c.City),
			cellValue(c.PostalCode),
			cellValue(c.State),
			cellValue(c.Country),
			c.CreatedAt,
		})
	}

	data, err := export.WriteXLSX(export.Sheet{
		Name:    "Contacts",
		Headers: exportHeaders,
		Widths:  []float64{25, 30, 18, 30, 18, 12, 15, 10, 22},
		Rows:    rows,
	})
	if err != nil {
		s.logger.WithField("list_id", id).Error(fmt.Sprintf("Failed to export contact list: %v", err))
		return "", nil, fmt.Errorf("failed to export contact list: %w", err)
	}
	return exportFilename(result.Name), data, nil
}

func (s *ContactListService) getList(ctx context.Context, teamID, id string) (*domain.ContactList, error) {
	list, err := s.repo.GetList(ctx, teamID, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("list_id", id).Error(fmt.Sprintf("Failed to get contact list: %v", err))
		return nil, fmt.Errorf("failed to get contact list: %w", err)
	}
	return list, nil
}

// listEvaluation describes the members of a list: SMART lists are evaluated
// from their filters, MANUAL lists from their membership rows
func listEvaluation(list *domain.ContactList, vis domain.Predicate, actor *domain.Actor) domain.EvaluateContactsRequest {
	req := domain.EvaluateContactsRequest{
		TeamID:     list.TeamID,
		Visibility: vis,
		Roles:      actor.Roles,
	}
	if list.IsSmart() {
		req.Filters = list.Filters
	} else {
		req.Scope = domain.ListMembership{ListID: list.ID}
	}
	return req
}

func cellValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// exportFilename turns a list name into a safe file name
func exportFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, strings.TrimSpace(name))
	if slug == "" {
		slug = "contacts"
	}
	return slug + ".xlsx"
}
