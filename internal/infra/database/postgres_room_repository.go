package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/rent"
)

// Custom errors
var (
	ErrRoomNotFound    = fmt.Errorf("room not found")
	ErrTenancyNotFound = fmt.Errorf("tenancy not found")
	ErrRoomOccupied    = fmt.Errorf("room already has an active tenancy")
)

// PostgresRoomRepository implements rent.Repository on PostgreSQL.
type PostgresRoomRepository struct {
	db *sql.DB
}

func NewPostgresRoomRepository(db *sql.DB) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

// ListRoomsWithTenanciesAndPayments loads all rooms, each with its latest
// tenancy and full payment history, in three queries.
func (r *PostgresRoomRepository) ListRoomsWithTenanciesAndPayments(ctx context.Context) ([]*rent.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, owner_id FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*rent.Room
	byID := make(map[string]*rent.Room)
	for rows.Next() {
		room := &rent.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.OwnerID); err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, room)
		byID[room.ID] = room
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	if err := r.attachTenancies(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, byID); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *PostgresRoomRepository) attachTenancies(ctx context.Context, byID map[string]*rent.Room) error {
	// Latest tenancy per room; earlier (closed) ones only matter to history.
	query := `SELECT DISTINCT ON (room_id)
	                 id, room_id, renter_id, renter_name,
	                 move_in_year, move_in_month, move_in_day,
	                 move_out_year, move_out_month, move_out_day, due_day
	          FROM tenancies
	          ORDER BY room_id, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error listing tenancies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, roomID, err := scanTenancy(rows)
		if err != nil {
			return err
		}
		if room, ok := byID[roomID]; ok {
			room.Tenancy = t
		}
	}
	return rows.Err()
}

func (r *PostgresRoomRepository) attachPayments(ctx context.Context, byID map[string]*rent.Room) error {
	query := `SELECT room_id, year, month_index, is_paid, COALESCE(renter_id, '')
	          FROM rent_payments ORDER BY year, month_index`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error listing rent payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec rent.PaymentRecord
		if err := rows.Scan(&rec.RoomID, &rec.Year, &rec.Month, &rec.IsPaid, &rec.RenterID); err != nil {
			return fmt.Errorf("error scanning rent payment: %w", err)
		}
		if room, ok := byID[rec.RoomID]; ok {
			room.Payments = append(room.Payments, rec)
		}
	}
	return rows.Err()
}

func (r *PostgresRoomRepository) GetRoom(ctx context.Context, roomID string) (*rent.Room, error) {
	room := &rent.Room{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id FROM rooms WHERE id = $1`, roomID,
	).Scan(&room.ID, &room.Name, &room.OwnerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("error getting room: %w", err)
	}

	byID := map[string]*rent.Room{room.ID: room}
	query := `SELECT id, room_id, renter_id, renter_name,
	                 move_in_year, move_in_month, move_in_day,
	                 move_out_year, move_out_month, move_out_day, due_day
	          FROM tenancies WHERE room_id = $1
	          ORDER BY created_at DESC LIMIT 1`
	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("error getting tenancy: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, _, err := scanTenancy(rows)
		if err != nil {
			return nil, err
		}
		room.Tenancy = t
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenancy: %w", err)
	}

	if err := r.attachPaymentsForRoom(ctx, byID, roomID); err != nil {
		return nil, err
	}
	return room, nil
}

func (r *PostgresRoomRepository) attachPaymentsForRoom(ctx context.Context, byID map[string]*rent.Room, roomID string) error {
	query := `SELECT room_id, year, month_index, is_paid, COALESCE(renter_id, '')
	          FROM rent_payments WHERE room_id = $1 ORDER BY year, month_index`
	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return fmt.Errorf("error listing payments for room: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec rent.PaymentRecord
		if err := rows.Scan(&rec.RoomID, &rec.Year, &rec.Month, &rec.IsPaid, &rec.RenterID); err != nil {
			return fmt.Errorf("error scanning rent payment: %w", err)
		}
		if room, ok := byID[rec.RoomID]; ok {
			room.Payments = append(room.Payments, rec)
		}
	}
	return rows.Err()
}

func (r *PostgresRoomRepository) CreateRoom(ctx context.Context, room *rent.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, owner_id) VALUES ($1, $2, $3)`,
		room.ID, room.Name, room.OwnerID)
	if err != nil {
		return fmt.Errorf("error creating room: %w", err)
	}
	return nil
}

// AssignTenancy creates a tenancy. The partial unique index on open
// tenancies enforces the no-overlap invariant: one active tenancy per room.
func (r *PostgresRoomRepository) AssignTenancy(ctx context.Context, t *rent.Tenancy) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.DueDay == 0 {
		t.DueDay = t.MoveIn.Day
	}
	query := `INSERT INTO tenancies
	            (id, room_id, renter_id, renter_name,
	             move_in_year, move_in_month, move_in_day, due_day)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.RoomID, t.RenterID, t.RenterName,
		t.MoveIn.Year, t.MoveIn.Month, t.MoveIn.Day, t.DueDay)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ErrRoomOccupied
		}
		return fmt.Errorf("error assigning tenancy: %w", err)
	}
	return nil
}

func (r *PostgresRoomRepository) EndTenancy(ctx context.Context, tenancyID string, moveOut calendar.EthiopianDate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenancies
	     SET move_out_year = $1, move_out_month = $2, move_out_day = $3
	     WHERE id = $4 AND move_out_year IS NULL`,
		moveOut.Year, moveOut.Month, moveOut.Day, tenancyID)
	if err != nil {
		return fmt.Errorf("error ending tenancy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error ending tenancy: %w", err)
	}
	if n == 0 {
		return ErrTenancyNotFound
	}
	return nil
}

// SetPayment upserts on the (room_id, year, month_index) unique key.
func (r *PostgresRoomRepository) SetPayment(ctx context.Context, rec *rent.PaymentRecord) error {
	query := `INSERT INTO rent_payments (room_id, year, month_index, is_paid, renter_id)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	          ON CONFLICT (room_id, year, month_index)
	          DO UPDATE SET is_paid = EXCLUDED.is_paid, renter_id = EXCLUDED.renter_id`
	if _, err := r.db.ExecContext(ctx, query,
		rec.RoomID, rec.Year, rec.Month, rec.IsPaid, rec.RenterID); err != nil {
		return fmt.Errorf("error upserting rent payment: %w", err)
	}
	return nil
}

func scanTenancy(rows *sql.Rows) (*rent.Tenancy, string, error) {
	var (
		t                         rent.Tenancy
		roomID                    string
		outYear, outMonth, outDay sql.NullInt64
	)
	err := rows.Scan(&t.ID, &roomID, &t.RenterID, &t.RenterName,
		&t.MoveIn.Year, &t.MoveIn.Month, &t.MoveIn.Day,
		&outYear, &outMonth, &outDay, &t.DueDay)
	if err != nil {
		return nil, "", fmt.Errorf("error scanning tenancy: %w", err)
	}
	t.RoomID = roomID
	if outYear.Valid {
		t.MoveOut = &calendar.EthiopianDate{
			Year:  int(outYear.Int64),
			Month: int(outMonth.Int64),
			Day:   int(outDay.Int64),
		}
	}
	return &t, roomID, nil
}
