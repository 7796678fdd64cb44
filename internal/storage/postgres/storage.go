package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage needs; pgxmock satisfies
// it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type itemRepository struct {
	storage *Storage
}

type withdrawalRepository struct {
	storage *Storage
}

type purchaseRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Items() repository.ItemRepository {
	return &itemRepository{storage: s}
}

func (s *Storage) Withdrawals() repository.WithdrawalRepository {
	return &withdrawalRepository{storage: s}
}

func (s *Storage) Purchases() repository.PurchaseRepository {
	return &purchaseRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            scout_group TEXT NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            last_login_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id SERIAL PRIMARY KEY,
            category TEXT NOT NULL,
            level TEXT NOT NULL DEFAULT 'none',
            description TEXT NOT NULL,
            quantity BIGINT NOT NULL CHECK (quantity >= 0),
            unit_value DOUBLE PRECISION NOT NULL CHECK (unit_value >= 0),
            total_value DOUBLE PRECISION NOT NULL DEFAULT 0,
            branch TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS withdrawal_requests (
            id SERIAL PRIMARY KEY,
            requester_id BIGINT NOT NULL REFERENCES users(id),
            lines JSONB NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            note TEXT NOT NULL DEFAULT '',
            user_confirmed_at TIMESTAMPTZ,
            admin_confirmed_by BIGINT REFERENCES users(id),
            admin_confirmed_at TIMESTAMPTZ,
            admin_note TEXT NOT NULL DEFAULT '',
            cancel_reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS purchase_requests (
            id SERIAL PRIMARY KEY,
            requester_id BIGINT NOT NULL REFERENCES users(id),
            lines JSONB NOT NULL,
            justification TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL DEFAULT 'medium',
            status TEXT NOT NULL DEFAULT 'pending',
            reviewed_by BIGINT REFERENCES users(id),
            reviewed_at TIMESTAMPTZ,
            admin_note TEXT NOT NULL DEFAULT '',
            rejection_reason TEXT NOT NULL DEFAULT '',
            supplier TEXT NOT NULL DEFAULT '',
            total_cost DOUBLE PRECISION,
            purchased_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawal_requests_requester ON withdrawal_requests(requester_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_requests_requester ON purchase_requests(requester_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash, role, scout_group)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, active, created_at, updated_at`
	stored := *user
	err := r.storage.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role, user.ScoutGroup).
		Scan(&stored.ID, &stored.Active, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &stored, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, scout_group, active, last_login_at, created_at, updated_at
                   FROM users WHERE email=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, scout_group, active, last_login_at, created_at, updated_at
                   FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ScoutGroup, &u.Active, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int64) error {
	const query = `UPDATE users SET last_login_at=NOW(), updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ItemRepository implementation ---

const itemColumns = `id, category, level, description, quantity, unit_value, total_value, branch, created_at, updated_at`

func scanItem(row pgx.Row) (*model.Item, error) {
	var item model.Item
	err := row.Scan(&item.ID, &item.Category, &item.Level, &item.Description, &item.Quantity,
		&item.UnitValue, &item.TotalValue, &item.Branch, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	const query = `INSERT INTO items (category, level, description, quantity, unit_value, total_value, branch)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING ` + itemColumns
	return scanItem(r.storage.pool.QueryRow(ctx, query,
		item.Category, item.Level, item.Description, item.Quantity, item.UnitValue, item.TotalValue, item.Branch))
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE id=$1`
	return scanItem(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]*model.Item, len(ids))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *itemRepository) List(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error) {
	where := " WHERE TRUE"
	args := []any{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where += fmt.Sprintf(" AND category=$%d", len(args))
	}
	if filter.Level != nil {
		args = append(args, *filter.Level)
		where += fmt.Sprintf(" AND level=$%d", len(args))
	}
	if filter.Branch != nil {
		args = append(args, *filter.Branch)
		where += fmt.Sprintf(" AND branch=$%d", len(args))
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, "SELECT COUNT(*) FROM items"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf("SELECT "+itemColumns+" FROM items"+where+
		" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Item, 0, pageSize)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewPage(items, page, pageSize, total), nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	const query = `UPDATE items
                   SET category=$2, level=$3, description=$4, quantity=$5, unit_value=$6,
                       total_value=$5::bigint * $6, branch=$7, updated_at=NOW()
                   WHERE id=$1
                   RETURNING ` + itemColumns
	return scanItem(r.storage.pool.QueryRow(ctx, query,
		item.ID, item.Category, item.Level, item.Description, item.Quantity, item.UnitValue, item.Branch))
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// decrementQuery applies only when current stock covers the amount; the
// conditional update is the authoritative guard against overselling.
const decrementQuery = `UPDATE items
                        SET quantity = quantity - $2,
                            total_value = (quantity - $2) * unit_value,
                            updated_at = NOW()
                        WHERE id=$1 AND quantity >= $2`

func (r *itemRepository) DecrementStock(ctx context.Context, itemID, amount int64) error {
	tag, err := r.storage.pool.Exec(ctx, decrementQuery, itemID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.storage.decrementShortfall(ctx, r.storage.pool, itemID, amount)
	}
	return nil
}

type execQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// decrementShortfall resolves why a conditional decrement matched no row:
// missing item or not enough stock.
func (s *Storage) decrementShortfall(ctx context.Context, q execQuerier, itemID, amount int64) error {
	var description string
	var available int64
	err := q.QueryRow(ctx, `SELECT description, quantity FROM items WHERE id=$1`, itemID).
		Scan(&description, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return &domainErrors.InsufficientStockError{Shortfalls: []model.Shortfall{
		{ItemID: itemID, Description: description, Requested: amount, Available: available},
	}}
}

// --- WithdrawalRepository implementation ---

const withdrawalColumns = `id, requester_id, lines, status, note, user_confirmed_at,
                           admin_confirmed_by, admin_confirmed_at, admin_note, cancel_reason,
                           created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*model.WithdrawalRequest, error) {
	var req model.WithdrawalRequest
	err := row.Scan(&req.ID, &req.RequesterID, &req.Lines, &req.Status, &req.Note, &req.UserConfirmedAt,
		&req.AdminConfirmedBy, &req.AdminConfirmedAt, &req.AdminNote, &req.CancelReason,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *withdrawalRepository) Create(ctx context.Context, req *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	const query = `INSERT INTO withdrawal_requests (requester_id, lines, status, note)
                   VALUES ($1, $2, $3, $4)
                   RETURNING ` + withdrawalColumns
	return scanWithdrawal(r.storage.pool.QueryRow(ctx, query,
		req.RequesterID, req.Lines, model.WithdrawalStatusPending, req.Note))
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id=$1`
	return scanWithdrawal(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *withdrawalRepository) List(ctx context.Context, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	where := " WHERE TRUE"
	args := []any{}
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		where += fmt.Sprintf(" AND requester_id=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status=$%d", len(args))
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, "SELECT COUNT(*) FROM withdrawal_requests"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf("SELECT "+withdrawalColumns+" FROM withdrawal_requests"+where+
		" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]model.WithdrawalRequest, 0, pageSize)
	for rows.Next() {
		req, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewPage(requests, page, pageSize, total), nil
}

func (r *withdrawalRepository) MarkUserConfirmed(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	const query = `UPDATE withdrawal_requests
                   SET status=$2,
                       user_confirmed_at=COALESCE(user_confirmed_at, NOW()),
                       updated_at=NOW()
                   WHERE id=$1 AND status=$3
                   RETURNING ` + withdrawalColumns
	req, err := scanWithdrawal(r.storage.pool.QueryRow(ctx, query,
		id, model.WithdrawalStatusUserConfirmed, model.WithdrawalStatusPending))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return req, nil
}

func (r *withdrawalRepository) Cancel(ctx context.Context, id int64, reason string) (*model.WithdrawalRequest, error) {
	const query = `UPDATE withdrawal_requests
                   SET status=$2, cancel_reason=$3, updated_at=NOW()
                   WHERE id=$1 AND status = ANY($4)
                   RETURNING ` + withdrawalColumns
	cancellable := []model.WithdrawalStatus{model.WithdrawalStatusPending, model.WithdrawalStatusUserConfirmed}
	req, err := scanWithdrawal(r.storage.pool.QueryRow(ctx, query,
		id, model.WithdrawalStatusCancelled, reason, cancellable))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return req, nil
}

// transitionFailure distinguishes a missing request from a status guard that
// no longer holds.
func (r *withdrawalRepository) transitionFailure(ctx context.Context, id int64) error {
	var status model.WithdrawalStatus
	err := r.storage.pool.QueryRow(ctx, `SELECT status FROM withdrawal_requests WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrInvalidTransition
}

// ConfirmAdmin performs the whole admin confirmation as one transaction:
// lock the request row, re-check the status guard, lock and re-check stock
// for every line, decrement conditionally, then commit the status change.
// Any shortfall or storage fault rolls everything back.
func (r *withdrawalRepository) ConfirmAdmin(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	var confirmed *model.WithdrawalRequest
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id=$1 FOR UPDATE`
		req, err := scanWithdrawal(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			return err
		}
		if req.Status != model.WithdrawalStatusUserConfirmed {
			return domainErrors.ErrInvalidTransition
		}

		shortfalls, err := lockAndCheckStock(ctx, tx, req.Lines)
		if err != nil {
			return err
		}
		if len(shortfalls) > 0 {
			return &domainErrors.InsufficientStockError{Shortfalls: shortfalls}
		}

		for _, line := range req.Lines {
			tag, err := tx.Exec(ctx, decrementQuery, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return r.storage.decrementShortfall(ctx, tx, line.ItemID, line.Quantity)
			}
		}

		const commitQuery = `UPDATE withdrawal_requests
                             SET status=$2, admin_confirmed_by=$3,
                                 admin_confirmed_at=COALESCE(admin_confirmed_at, NOW()),
                                 admin_note=$4, updated_at=NOW()
                             WHERE id=$1 AND status=$5
                             RETURNING ` + withdrawalColumns
		confirmed, err = scanWithdrawal(tx.QueryRow(ctx, commitQuery,
			id, model.WithdrawalStatusAdminConfirmed, adminID, note, model.WithdrawalStatusUserConfirmed))
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.ErrInvalidTransition
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// lockAndCheckStock locks the referenced item rows in a stable order and
// returns the shortfall set for the given lines.
func lockAndCheckStock(ctx context.Context, tx pgx.Tx, lines []model.WithdrawalLine) ([]model.Shortfall, error) {
	requested := make(map[int64]int64, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ItemID]; !seen {
			ids = append(ids, line.ItemID)
		}
		requested[line.ItemID] += line.Quantity
	}

	const query = `SELECT id, description, quantity FROM items WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	available := make(map[int64]int64, len(ids))
	descriptions := make(map[int64]string, len(ids))
	for rows.Next() {
		var itemID, quantity int64
		var description string
		if err := rows.Scan(&itemID, &description, &quantity); err != nil {
			return nil, err
		}
		available[itemID] = quantity
		descriptions[itemID] = description
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var shortfalls []model.Shortfall
	for _, itemID := range ids {
		if _, ok := available[itemID]; !ok {
			return nil, domainErrors.ErrNotFound
		}
		if available[itemID] < requested[itemID] {
			shortfalls = append(shortfalls, model.Shortfall{
				ItemID:      itemID,
				Description: descriptions[itemID],
				Requested:   requested[itemID],
				Available:   available[itemID],
			})
		}
	}
	return shortfalls, nil
}

// --- PurchaseRepository implementation ---

const purchaseColumns = `id, requester_id, lines, justification, priority, status,
                         reviewed_by, reviewed_at, admin_note, rejection_reason,
                         supplier, total_cost, purchased_at, created_at, updated_at`

func scanPurchase(row pgx.Row) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	err := row.Scan(&req.ID, &req.RequesterID, &req.Lines, &req.Justification, &req.Priority, &req.Status,
		&req.ReviewedBy, &req.ReviewedAt, &req.AdminNote, &req.RejectionReason,
		&req.Supplier, &req.TotalCost, &req.PurchasedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *purchaseRepository) Create(ctx context.Context, req *model.PurchaseRequest) (*model.PurchaseRequest, error) {
	const query = `INSERT INTO purchase_requests (requester_id, lines, justification, priority, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING ` + purchaseColumns
	return scanPurchase(r.storage.pool.QueryRow(ctx, query,
		req.RequesterID, req.Lines, req.Justification, req.Priority, model.PurchaseStatusPending))
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*model.PurchaseRequest, error) {
	const query = `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE id=$1`
	return scanPurchase(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *purchaseRepository) List(ctx context.Context, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	where := " WHERE TRUE"
	args := []any{}
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		where += fmt.Sprintf(" AND requester_id=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		where += fmt.Sprintf(" AND priority=$%d", len(args))
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_requests"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf("SELECT "+purchaseColumns+" FROM purchase_requests"+where+
		" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]model.PurchaseRequest, 0, pageSize)
	for rows.Next() {
		req, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewPage(requests, page, pageSize, total), nil
}

func (r *purchaseRepository) Review(ctx context.Context, id, adminID int64, status model.PurchaseStatus, adminNote, rejectionReason string) (*model.PurchaseRequest, error) {
	const query = `UPDATE purchase_requests
                   SET status=$2, reviewed_by=$3,
                       reviewed_at=COALESCE(reviewed_at, NOW()),
                       admin_note=$4, rejection_reason=$5, updated_at=NOW()
                   WHERE id=$1 AND status=$6
                   RETURNING ` + purchaseColumns
	req, err := scanPurchase(r.storage.pool.QueryRow(ctx, query,
		id, status, adminID, adminNote, rejectionReason, model.PurchaseStatusPending))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return req, nil
}

func (r *purchaseRepository) MarkPurchased(ctx context.Context, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error) {
	const query = `UPDATE purchase_requests
                   SET status=$2, supplier=$3, total_cost=$4,
                       purchased_at=COALESCE(purchased_at, NOW()), updated_at=NOW()
                   WHERE id=$1 AND status=$5
                   RETURNING ` + purchaseColumns
	req, err := scanPurchase(r.storage.pool.QueryRow(ctx, query,
		id, model.PurchaseStatusPurchased, supplier, totalCost, model.PurchaseStatusApproved))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return req, nil
}

func (r *purchaseRepository) transitionFailure(ctx context.Context, id int64) error {
	var status model.PurchaseStatus
	err := r.storage.pool.QueryRow(ctx, `SELECT status FROM purchase_requests WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrInvalidTransition
}
