package rosterdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/zrl-league/zrl-manager/app/shared/dbutil"
)

var (
	// ErrNotFound is returned when a rider, team or league does not exist.
	ErrNotFound = errors.New("roster record not found")
	// ErrAlreadyExists is returned when an insert hits a unique key.
	ErrAlreadyExists = errors.New("roster record already exists")
	// ErrInUse is returned when a delete is blocked by rows still referencing it.
	ErrInUse = errors.New("roster record still referenced")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new roster repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func expectRows(res sql.Result, what string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", what, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Riders ---

func (r *Impl) GetRider(ctx context.Context, db bun.IDB, riderID int64) (*Rider, error) {
	db = r.resolveDB(db)
	rider := new(Rider)
	if err := db.NewSelect().Model(rider).Where("r.id = ?", riderID).Scan(ctx); err != nil {
		return nil, notFound(err, "rider")
	}
	return rider, nil
}

func (r *Impl) GetRiderForUpdate(ctx context.Context, db bun.IDB, riderID int64) (*Rider, error) {
	db = r.resolveDB(db)
	rider := new(Rider)
	if err := db.NewSelect().Model(rider).Where("r.id = ?", riderID).For("UPDATE").Scan(ctx); err != nil {
		return nil, notFound(err, "rider")
	}
	return rider, nil
}

func (r *Impl) ListRiders(ctx context.Context, db bun.IDB, filter RiderFilter) ([]Rider, error) {
	db = r.resolveDB(db)
	var riders []Rider
	q := db.NewSelect().Model(&riders)

	if len(filter.Categories) > 0 {
		q = q.Where("r.category IN (?)", bun.In(filter.Categories))
	}
	if filter.TeamID != 0 {
		q = q.Where("r.id IN (?)", db.NewSelect().
			Model((*Membership)(nil)).
			Column("rider_id").
			Where("team_id = ?", filter.TeamID))
	}
	if filter.Active != nil {
		q = q.Where("r.active = ?", *filter.Active)
	}
	if filter.Search != "" {
		q = q.Where("r.name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	if err := q.Order("r.name ASC", "r.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}
	return riders, nil
}

func (r *Impl) CreateRider(ctx context.Context, db bun.IDB, rider *Rider) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	rider.CreatedAt, rider.UpdatedAt = now, now
	if _, err := db.NewInsert().Model(rider).Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create rider: %w", err)
	}
	return nil
}

func (r *Impl) UpsertRider(ctx context.Context, db bun.IDB, rider *Rider) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().Model((*Rider)(nil)).Where("r.id = ?", rider.ID).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check rider: %w", err)
	}

	now := time.Now().UTC()
	rider.UpdatedAt = now
	if !exists {
		rider.CreatedAt = now
	}
	_, err = db.NewInsert().
		Model(rider).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("category = EXCLUDED.category").
		Set("email = COALESCE(EXCLUDED.email, r.email)").
		Set("ftp = COALESCE(EXCLUDED.ftp, r.ftp)").
		Set("country = COALESCE(EXCLUDED.country, r.country)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to upsert rider: %w", err)
	}
	return !exists, nil
}

func (r *Impl) SetRiderActive(ctx context.Context, db bun.IDB, riderID int64, active bool) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Rider)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", riderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set rider active: %w", err)
	}
	return expectRows(res, "rider")
}

func (r *Impl) SetRiderCaptainFlag(ctx context.Context, db bun.IDB, riderID int64, captain bool) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Rider)(nil)).
		Set("is_captain = ?", captain).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", riderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set captain flag: %w", err)
	}
	return expectRows(res, "rider")
}

// --- Leagues ---

func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, leagueID int64) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	if err := db.NewSelect().Model(league).Where("l.id = ?", leagueID).Scan(ctx); err != nil {
		return nil, notFound(err, "league")
	}
	return league, nil
}

func (r *Impl) ListLeagues(ctx context.Context, db bun.IDB) ([]League, error) {
	db = r.resolveDB(db)
	var leagues []League
	if err := db.NewSelect().Model(&leagues).Order("l.type ASC", "l.region ASC", "l.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

func (r *Impl) CreateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	league.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(league).Returning("id").Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (r *Impl) UpdateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(league).
		Column("name", "type", "region").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update league: %w", err)
	}
	return expectRows(res, "league")
}

// DeleteLeague removes the league. Teams in it are detached by the foreign key;
// scheduled events block the delete with ErrInUse.
func (r *Impl) DeleteLeague(ctx context.Context, db bun.IDB, leagueID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*League)(nil)).
		Where("id = ?", leagueID).
		Exec(ctx)
	if err != nil {
		if dbutil.IsForeignKeyViolation(err, "") {
			return ErrInUse
		}
		return fmt.Errorf("failed to delete league: %w", err)
	}
	return expectRows(res, "league")
}

// --- Teams ---

func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	if err := db.NewSelect().Model(team).Where("t.id = ?", teamID).Scan(ctx); err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

func (r *Impl) GetTeamForUpdate(ctx context.Context, db bun.IDB, teamID int64) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	if err := db.NewSelect().Model(team).Where("t.id = ?", teamID).For("UPDATE").Scan(ctx); err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

func (r *Impl) ListTeams(ctx context.Context, db bun.IDB, filter TeamFilter) ([]Team, error) {
	db = r.resolveDB(db)
	var teams []Team
	q := db.NewSelect().Model(&teams)
	if filter.LeagueID != 0 {
		q = q.Where("t.league_id = ?", filter.LeagueID)
	}
	if filter.Category != "" {
		q = q.Where("t.category = ?", filter.Category)
	}
	if filter.Division != "" {
		q = q.Where("t.division = ?", filter.Division)
	}
	if err := q.Order("t.category ASC", "t.division ASC", "t.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	team.CreatedAt, team.UpdatedAt = now, now
	if _, err := db.NewInsert().Model(team).Returning("id").Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Impl) UpdateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	team.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(team).
		Column("name", "category", "division", "division_number", "league_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if dbutil.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	return expectRows(res, "team")
}

// DeleteTeam removes the team. Memberships, lineup assignments and availability
// answers cascade with it.
func (r *Impl) DeleteTeam(ctx context.Context, db bun.IDB, teamID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Team)(nil)).
		Where("id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return expectRows(res, "team")
}

func (r *Impl) SetTeamCaptain(ctx context.Context, db bun.IDB, teamID int64, riderID *int64) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Team)(nil)).
		Set("captain_rider_id = ?", riderID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set team captain: %w", err)
	}
	return expectRows(res, "team")
}

func (r *Impl) TeamCaptainedBy(ctx context.Context, db bun.IDB, riderID int64, excludeTeamID int64) (int64, error) {
	db = r.resolveDB(db)
	var teamID int64
	err := db.NewSelect().
		Model((*Team)(nil)).
		Column("t.id").
		Where("t.captain_rider_id = ?", riderID).
		Where("t.id <> ?", excludeTeamID).
		Limit(1).
		Scan(ctx, &teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to look up captained team: %w", err)
	}
	return teamID, nil
}

func (r *Impl) ClearTeamCaptainFlags(ctx context.Context, db bun.IDB, teamID int64) ([]int64, error) {
	db = r.resolveDB(db)
	var ids []int64
	err := db.NewSelect().
		Model((*Rider)(nil)).
		Column("r.id").
		Where("r.is_captain").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("r.id = (SELECT captain_rider_id FROM teams WHERE id = ?)", teamID).
				WhereOr("r.id IN (SELECT rider_id FROM rider_teams WHERE team_id = ?) AND NOT EXISTS (SELECT 1 FROM teams AS t2 WHERE t2.captain_rider_id = r.id AND t2.id <> ?)", teamID, teamID)
		}).
		Order("r.id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find team captains: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	_, err = db.NewUpdate().
		Model((*Rider)(nil)).
		Set("is_captain = FALSE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear captain flags: %w", err)
	}
	return ids, nil
}

// --- Memberships ---

func (r *Impl) TeamIDsForRider(ctx context.Context, db bun.IDB, riderID int64) ([]int64, error) {
	db = r.resolveDB(db)
	var ids []int64
	err := db.NewSelect().
		Model((*Membership)(nil)).
		Column("rt.team_id").
		Where("rt.rider_id = ?", riderID).
		Order("rt.team_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list rider teams: %w", err)
	}
	return ids, nil
}

func (r *Impl) UpsertMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) error {
	db = r.resolveDB(db)
	m := &Membership{RiderID: riderID, TeamID: teamID, CreatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(m).
		On("CONFLICT (rider_id, team_id) DO UPDATE").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

func (r *Impl) DeleteMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Membership)(nil)).
		Where("rider_id = ?", riderID).
		Where("team_id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete membership: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *Impl) IsActiveMember(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error) {
	db = r.resolveDB(db)
	ok, err := db.NewSelect().
		Model((*Membership)(nil)).
		Join("JOIN riders AS r ON r.id = rt.rider_id").
		Where("rt.team_id = ?", teamID).
		Where("rt.rider_id = ?", riderID).
		Where("r.active").
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}

func (r *Impl) ListRoster(ctx context.Context, db bun.IDB, teamID int64) ([]Rider, error) {
	db = r.resolveDB(db)
	var riders []Rider
	err := db.NewSelect().
		Model(&riders).
		Join("JOIN rider_teams AS rt ON rt.rider_id = r.id").
		Where("rt.team_id = ?", teamID).
		Order("r.name ASC", "r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return riders, nil
}
