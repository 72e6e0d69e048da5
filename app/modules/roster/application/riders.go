package rosterservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	rosterdomain "github.com/zrl-league/zrl-manager/app/modules/roster/domain"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func ok[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// CreateRider registers a rider under their ZwiftPower id.
func (s *RosterService) CreateRider(ctx context.Context, req CreateRiderRequest) (*rosterdb.Rider, error) {
	return execute(s, ctx, "CreateRider", id(req.ID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Rider, error], error) {
		if req.ID <= 0 {
			return fail[*rosterdb.Rider](&domainerr.ValidationError{Field: "id", Reason: "must be positive"})
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fail[*rosterdb.Rider](&domainerr.ValidationError{Field: "name", Reason: "is required"})
		}
		category, err := rosterdomain.ParseCategory(req.Category)
		if err != nil {
			return fail[*rosterdb.Rider](&domainerr.ValidationError{Field: "category", Reason: err.Error()})
		}

		rider := &rosterdb.Rider{
			ID:       req.ID,
			Name:     name,
			Category: string(category),
			Active:   true,
			Email:    strings.TrimSpace(req.Email),
			FTP:      req.FTP,
			Country:  strings.TrimSpace(req.Country),
		}
		if err := s.repo.CreateRider(ctx, db, rider); err != nil {
			if errors.Is(err, rosterdb.ErrAlreadyExists) {
				return fail[*rosterdb.Rider](&domainerr.ConflictError{Entity: "rider", Key: id(req.ID)})
			}
			return results.OperationResult[*rosterdb.Rider, error]{}, err
		}
		return ok(rider)
	})
}

func (s *RosterService) GetRider(ctx context.Context, riderID int64) (*rosterdb.Rider, error) {
	return execute(s, ctx, "GetRider", id(riderID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Rider, error], error) {
		rider, err := s.repo.GetRider(ctx, db, riderID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*rosterdb.Rider](domainerr.NewNotFound("rider", riderID))
			}
			return results.OperationResult[*rosterdb.Rider, error]{}, err
		}
		return ok(rider)
	})
}

// ListRiders returns riders matching q, ordered by name.
func (s *RosterService) ListRiders(ctx context.Context, q RiderQuery) ([]rosterdb.Rider, error) {
	return execute(s, ctx, "ListRiders", q.Category, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]rosterdb.Rider, error], error) {
		filter := rosterdb.RiderFilter{
			TeamID: q.TeamID,
			Active: q.Active,
			Search: strings.TrimSpace(q.Search),
			Limit:  q.Limit,
			Offset: q.Offset,
		}
		if q.Category != "" {
			category, err := rosterdomain.NormalizeCategory(q.Category)
			if err != nil {
				return fail[[]rosterdb.Rider](&domainerr.ValidationError{Field: "category", Reason: err.Error()})
			}
			filter.Categories = rosterdomain.StoredValues(category)
		}

		riders, err := s.repo.ListRiders(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]rosterdb.Rider, error]{}, err
		}
		return ok(riders)
	})
}

// SetRiderActive flips the active flag. Lineup rows of a deactivated rider are
// kept; the rider fails roster validation on the next proposal.
func (s *RosterService) SetRiderActive(ctx context.Context, riderID int64, active bool) (*rosterdb.Rider, error) {
	rider, err := execute(s, ctx, "SetRiderActive", id(riderID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Rider, error], error) {
		rider, err := s.repo.GetRiderForUpdate(ctx, db, riderID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*rosterdb.Rider](domainerr.NewNotFound("rider", riderID))
			}
			return results.OperationResult[*rosterdb.Rider, error]{}, err
		}
		if err := s.repo.SetRiderActive(ctx, db, riderID, active); err != nil {
			return results.OperationResult[*rosterdb.Rider, error]{}, err
		}
		rider.Active = active
		return ok(rider)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RosterRiderStatusV1, events.RosterRiderStatusPayloadV1{RiderID: riderID, Active: active})
	return rider, nil
}

// ImportRiders upserts riders from a CSV or XLSX export. Every row is validated
// before the first write; a bad row rejects the whole file.
func (s *RosterService) ImportRiders(ctx context.Context, filename string, data []byte) (*ImportSummary, error) {
	summary, err := execute(s, ctx, "ImportRiders", filename, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ImportSummary, error], error) {
		parser, err := s.parsers.GetParser(filename)
		if err != nil {
			return fail[*ImportSummary](&domainerr.ValidationError{Field: "file", Reason: err.Error()})
		}
		rows, err := parser.Parse(data)
		if err != nil {
			return fail[*ImportSummary](&domainerr.ValidationError{Field: "file", Reason: err.Error()})
		}

		riders := make([]*rosterdb.Rider, 0, len(rows))
		for _, row := range rows {
			category, err := rosterdomain.ParseCategory(row.Category)
			if err != nil {
				return fail[*ImportSummary](&domainerr.ValidationError{
					Field:  "category",
					Reason: fmt.Sprintf("line %d: %v", row.Line, err),
				})
			}
			riders = append(riders, &rosterdb.Rider{
				ID:       row.ID,
				Name:     row.Name,
				Category: string(category),
				Active:   true,
				Email:    row.Email,
				FTP:      row.FTP,
				Country:  row.Country,
			})
		}

		summary := &ImportSummary{Total: len(riders)}
		for _, rider := range riders {
			created, err := s.repo.UpsertRider(ctx, db, rider)
			if err != nil {
				return results.OperationResult[*ImportSummary, error]{}, fmt.Errorf("rider %d: %w", rider.ID, err)
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return ok(summary)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RosterRidersImportedV1, events.RosterRidersImportedPayloadV1{
		Created: summary.Created,
		Updated: summary.Updated,
	})
	return summary, nil
}
