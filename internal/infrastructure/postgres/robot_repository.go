package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/robot"
)

// RobotRepository implements robot.Repository.
type RobotRepository struct {
	pool *pgxpool.Pool
}

func NewRobotRepository(pool *pgxpool.Pool) *RobotRepository {
	return &RobotRepository{pool: pool}
}

const robotColumns = `robot_id, name, motor_ip, camera_ip, motor_mdns, camera_mdns,
	wallet_address, owner_wallet, created_at, updated_at, deleted_at`

func (r *RobotRepository) Create(ctx context.Context, rb *robot.Robot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO robots
		(robot_id, name, motor_ip, camera_ip, motor_mdns, camera_mdns, wallet_address, owner_wallet, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, rb.RobotID, rb.Name, rb.MotorIP, rb.CameraIP, rb.MotorMDNS, rb.CameraMDNS,
		rb.WalletAddress, rb.OwnerWallet, rb.CreatedAt, rb.UpdatedAt)
	return err
}

func (r *RobotRepository) GetByID(ctx context.Context, robotID uuid.UUID) (*robot.Robot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+robotColumns+` FROM robots WHERE robot_id=$1
	`, robotID)
	return scanRobot(row)
}

func (r *RobotRepository) GetByName(ctx context.Context, name string) (*robot.Robot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+robotColumns+` FROM robots WHERE name=$1 AND deleted_at IS NULL
	`, name)
	return scanRobot(row)
}

func (r *RobotRepository) GetByHost(ctx context.Context, host string) (*robot.Robot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+robotColumns+` FROM robots
		WHERE (lower(motor_mdns)=$1 OR motor_ip=$1 OR lower(name)=$1) AND deleted_at IS NULL
	`, host)
	return scanRobot(row)
}

func (r *RobotRepository) GetByMDNS(ctx context.Context, mdns string) (*robot.Robot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+robotColumns+` FROM robots WHERE lower(motor_mdns)=lower($1)
	`, mdns)
	return scanRobot(row)
}

func (r *RobotRepository) List(ctx context.Context) ([]*robot.Robot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+robotColumns+` FROM robots WHERE deleted_at IS NULL ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	robots := make([]*robot.Robot, 0)
	for rows.Next() {
		rb, err := scanRobot(rows)
		if err != nil {
			return nil, err
		}
		robots = append(robots, rb)
	}
	return robots, rows.Err()
}

func (r *RobotRepository) Update(ctx context.Context, rb *robot.Robot) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE robots SET name=$2, motor_ip=$3, camera_ip=$4, motor_mdns=$5, camera_mdns=$6,
			owner_wallet=$7, updated_at=$8, deleted_at=$9
		WHERE robot_id=$1
	`, rb.RobotID, rb.Name, rb.MotorIP, rb.CameraIP, rb.MotorMDNS, rb.CameraMDNS,
		rb.OwnerWallet, rb.UpdatedAt, rb.DeletedAt)
	return err
}

func (r *RobotRepository) SoftDelete(ctx context.Context, robotID uuid.UUID) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE robots SET deleted_at=$1, updated_at=$1 WHERE robot_id=$2 AND deleted_at IS NULL
	`, time.Now().UTC(), robotID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func scanRobot(row pgx.Row) (*robot.Robot, error) {
	var rb robot.Robot
	if err := row.Scan(&rb.RobotID, &rb.Name, &rb.MotorIP, &rb.CameraIP, &rb.MotorMDNS, &rb.CameraMDNS,
		&rb.WalletAddress, &rb.OwnerWallet, &rb.CreatedAt, &rb.UpdatedAt, &rb.DeletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rb, nil
}
