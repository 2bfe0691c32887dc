package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

// pgxPool abstracts the pgx pool so tests can substitute a mock.
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

type buyerRepository struct {
	storage *Storage
}

type itemRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
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
func (s *Storage) Buyers() repository.BuyerRepository {
	return &buyerRepository{storage: s}
}

func (s *Storage) Items() repository.ItemRepository {
	return &itemRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS buyers (
            id SERIAL PRIMARY KEY,
            name TEXT,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'buyer',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id SERIAL PRIMARY KEY,
            seller_id BIGINT NOT NULL REFERENCES buyers(id),
            name TEXT NOT NULL,
            species TEXT NOT NULL DEFAULT 'unknown',
            breed TEXT,
            age_months INT,
            price NUMERIC(12,2) NOT NULL DEFAULT 0,
            available BOOLEAN NOT NULL DEFAULT TRUE,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
            id SERIAL PRIMARY KEY,
            buyer_id BIGINT NOT NULL REFERENCES buyers(id),
            item_id BIGINT NOT NULL REFERENCES items(id),
            quantity INT NOT NULL DEFAULT 1,
            price NUMERIC(12,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (buyer_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            buyer_id BIGINT NOT NULL REFERENCES buyers(id),
            status TEXT NOT NULL,
            total NUMERIC(12,2) NOT NULL DEFAULT 0,
            paid BOOLEAN NOT NULL DEFAULT FALSE,
            checkout_key UUID UNIQUE NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            item_id BIGINT NOT NULL REFERENCES items(id),
            quantity INT NOT NULL DEFAULT 1,
            price NUMERIC(12,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            buyer_id BIGINT NOT NULL REFERENCES buyers(id),
            amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            provider TEXT NOT NULL DEFAULT 'mpesa',
            status TEXT NOT NULL DEFAULT 'pending',
            external_ref TEXT UNIQUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_items_seller ON items(seller_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_lines_buyer ON cart_lines(buyer_id, item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- BuyerRepository implementation ---

func (r *buyerRepository) Create(ctx context.Context, name, email, passwordHash string, role model.Role) (*model.Buyer, error) {
	const query = `INSERT INTO buyers (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var b model.Buyer
	err := r.storage.pool.QueryRow(ctx, query, name, email, passwordHash, role).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	b.Name = name
	b.Email = email
	b.PasswordHash = passwordHash
	b.Role = role
	b.Active = true
	return &b, nil
}

func (r *buyerRepository) GetByEmail(ctx context.Context, email string) (*model.Buyer, error) {
	const query = `SELECT id, name, email, password_hash, role, active, created_at FROM buyers WHERE email=$1`
	return r.scanBuyer(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *buyerRepository) GetByID(ctx context.Context, id int64) (*model.Buyer, error) {
	const query = `SELECT id, name, email, password_hash, role, active, created_at FROM buyers WHERE id=$1`
	return r.scanBuyer(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *buyerRepository) scanBuyer(row pgx.Row) (*model.Buyer, error) {
	var b model.Buyer
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.PasswordHash, &b.Role, &b.Active, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// --- ItemRepository implementation ---

const itemColumns = `id, seller_id, name, species, breed, age_months, price, available, active, created_at, updated_at`

func scanItem(row pgx.Row) (*model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.SellerID, &it.Name, &it.Species, &it.Breed, &it.AgeMonths,
		&it.Price, &it.Available, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	const query = `INSERT INTO items (seller_id, name, species, breed, age_months, price)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING ` + itemColumns
	return scanItem(r.storage.pool.QueryRow(ctx, query,
		item.SellerID, item.Name, item.Species, item.Breed, item.AgeMonths, item.Price))
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE id=$1 AND active`
	return scanItem(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *itemRepository) ListAvailable(ctx context.Context) ([]model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE available AND active ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *itemRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE seller_id=$1 AND active ORDER BY created_at DESC`
	return r.list(ctx, query, sellerID)
}

func (r *itemRepository) list(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	const query = `UPDATE items SET name=$1, species=$2, breed=$3, age_months=$4, price=$5, updated_at=NOW()
                   WHERE id=$6 AND active`
	tag, err := r.storage.pool.Exec(ctx, query,
		item.Name, item.Species, item.Breed, item.AgeMonths, item.Price, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes an item. Rows are never removed because
// order lines keep referencing them.
func (r *itemRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE items SET active=FALSE, available=FALSE, updated_at=NOW() WHERE id=$1 AND active`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// TryReserve flips availability with a single conditional UPDATE, the
// only mutual-exclusion point in the system. The price returned is the
// one observed by the same statement.
func (r *itemRepository) TryReserve(ctx context.Context, id int64) (decimal.Decimal, error) {
	const reserve = `UPDATE items SET available=FALSE, updated_at=NOW()
                     WHERE id=$1 AND available AND active
                     RETURNING price`
	var price decimal.Decimal
	err := r.storage.pool.QueryRow(ctx, reserve, id).Scan(&price)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, err
	}

	const probe = `SELECT active FROM items WHERE id=$1`
	var active bool
	if probeErr := r.storage.pool.QueryRow(ctx, probe, id).Scan(&active); probeErr != nil {
		if errors.Is(probeErr, pgx.ErrNoRows) {
			return decimal.Decimal{}, domainErrors.ErrNotFound
		}
		return decimal.Decimal{}, probeErr
	}
	if !active {
		return decimal.Decimal{}, domainErrors.ErrNotFound
	}
	return decimal.Decimal{}, domainErrors.ItemUnavailableError{ItemID: id}
}

func (r *itemRepository) Release(ctx context.Context, id int64) error {
	const query = `UPDATE items SET available=TRUE, updated_at=NOW() WHERE id=$1 AND active`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CartRepository implementation ---

const cartColumns = `id, buyer_id, item_id, quantity, price, created_at, updated_at`

func scanCartLine(row pgx.Row) (*model.CartLine, error) {
	var l model.CartLine
	err := row.Scan(&l.ID, &l.BuyerID, &l.ItemID, &l.Quantity, &l.Price, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *cartRepository) LinesFor(ctx context.Context, buyerID int64) ([]model.CartLine, error) {
	const query = `SELECT ` + cartColumns + ` FROM cart_lines WHERE buyer_id=$1 ORDER BY item_id`
	rows, err := r.storage.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Upsert(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	const query = `INSERT INTO cart_lines (buyer_id, item_id, quantity, price)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (buyer_id, item_id) DO UPDATE
                   SET quantity = cart_lines.quantity + EXCLUDED.quantity,
                       price = EXCLUDED.price,
                       updated_at = NOW()
                   RETURNING ` + cartColumns
	return scanCartLine(r.storage.pool.QueryRow(ctx, query,
		line.BuyerID, line.ItemID, line.Quantity, line.Price))
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error) {
	const query = `UPDATE cart_lines SET quantity=$1, updated_at=NOW()
                   WHERE id=$2 AND buyer_id=$3
                   RETURNING ` + cartColumns
	return scanCartLine(r.storage.pool.QueryRow(ctx, query, quantity, lineID, buyerID))
}

func (r *cartRepository) Delete(ctx context.Context, buyerID, lineID int64) error {
	const query = `DELETE FROM cart_lines WHERE id=$1 AND buyer_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, lineID, buyerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteLines(ctx context.Context, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	const query = `DELETE FROM cart_lines WHERE id = ANY($1)`
	_, err := r.storage.pool.Exec(ctx, query, lineIDs)
	return err
}

// --- OrderRepository implementation ---

const orderColumns = `id, buyer_id, status, total, paid, checkout_key, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.Status, &o.Total, &o.Paid, &o.CheckoutKey, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, lines []model.OrderLine) (*model.Order, error) {
	created := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (buyer_id, status, total, paid, checkout_key)
                             VALUES ($1, $2, $3, $4, $5)
                             ON CONFLICT (checkout_key) DO NOTHING
                             RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.BuyerID, order.Status, order.Total, order.Paid, order.CheckoutKey).
			Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertLine = `INSERT INTO order_lines (order_id, item_id, quantity, price)
                            VALUES ($1, $2, $3, $4)`
		for _, line := range lines {
			if _, err := tx.Exec(ctx, insertLine, created.ID, line.ItemID, line.Quantity, line.Price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByCheckoutKey(ctx context.Context, key uuid.UUID) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE checkout_key=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, key))
}

func (r *orderRepository) GetForBuyer(ctx context.Context, orderID, buyerID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 AND buyer_id=$2`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, buyerID))
}

func (r *orderRepository) Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	const query = `SELECT id, order_id, item_id, quantity, price, created_at
                   FROM order_lines WHERE order_id=$1 ORDER BY item_id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.Price, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectStatus = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, selectStatus, orderID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if !current.CanTransitionTo(status) {
			return domainErrors.ErrInvalidTransition
		}

		const update = `UPDATE orders SET status=$1, paid=(CASE WHEN $1='paid' THEN TRUE ELSE paid END), updated_at=NOW() WHERE id=$2`
		_, err := tx.Exec(ctx, update, status, orderID)
		return err
	})
}

// --- PaymentRepository implementation ---

const paymentColumns = `id, order_id, buyer_id, amount, provider, status, COALESCE(external_ref, ''), created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.BuyerID, &p.Amount, &p.Provider, &p.Status, &p.ExternalRef, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments (order_id, buyer_id, amount, provider, status, external_ref)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING ` + paymentColumns
	return scanPayment(r.storage.pool.QueryRow(ctx, query,
		payment.OrderID, payment.BuyerID, payment.Amount, payment.Provider, payment.Status, payment.ExternalRef))
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkCompleted finalizes a payment and marks its order paid in one
// transaction, so no observer ever sees a completed payment against an
// unpaid order. Row locks on both records serialize competing attempts.
func (r *paymentRepository) MarkCompleted(ctx context.Context, paymentID int64) (*model.Payment, error) {
	var result *model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectPayment = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1 FOR UPDATE`
		p, err := scanPayment(tx.QueryRow(ctx, selectPayment, paymentID))
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			return domainErrors.ErrInvalidTransition
		}

		const selectOrder = `SELECT status, paid FROM orders WHERE id=$1 FOR UPDATE`
		var (
			status model.OrderStatus
			paid   bool
		)
		if err := tx.QueryRow(ctx, selectOrder, p.OrderID).Scan(&status, &paid); err != nil {
			return err
		}
		if paid {
			return domainErrors.ErrOrderAlreadyPaid
		}
		if !status.CanTransitionTo(model.OrderStatusPaid) {
			return domainErrors.ErrInvalidTransition
		}

		const updatePayment = `UPDATE payments SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`
		if err := tx.QueryRow(ctx, updatePayment, model.PaymentStatusCompleted, paymentID).Scan(&p.UpdatedAt); err != nil {
			return err
		}

		const updateOrder = `UPDATE orders SET status=$1, paid=TRUE, updated_at=NOW() WHERE id=$2`
		if _, err := tx.Exec(ctx, updateOrder, model.OrderStatusPaid, p.OrderID); err != nil {
			return err
		}

		p.Status = model.PaymentStatusCompleted
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID int64) (*model.Payment, error) {
	var result *model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectPayment = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1 FOR UPDATE`
		p, err := scanPayment(tx.QueryRow(ctx, selectPayment, paymentID))
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			return domainErrors.ErrInvalidTransition
		}

		const updatePayment = `UPDATE payments SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`
		if err := tx.QueryRow(ctx, updatePayment, model.PaymentStatusFailed, paymentID).Scan(&p.UpdatedAt); err != nil {
			return err
		}

		p.Status = model.PaymentStatusFailed
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	const selectQuery = `SELECT ` + paymentColumns + `
                         FROM payments
                         WHERE status='pending' AND external_ref IS NOT NULL
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var payments []model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			payments = append(payments, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
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
