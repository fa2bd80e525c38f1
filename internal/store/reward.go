package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueira/nossoapp/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

// --- Reward methods ---

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var approvedBy sql.NullInt64
	var cost sql.NullInt64
	var active int
	var decidedAt sql.NullTime

	err := scanner.Scan(
		&r.ID, &r.CoupleID, &r.SuggestedFor, &r.CreatedBy, &approvedBy,
		&r.Title, &r.Description, &r.SuggestedCost, &cost, &r.Status,
		&r.PhotoPath, &active, &r.CreatedAt, &decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		r.ApprovedBy = &approvedBy.Int64
	}
	if cost.Valid {
		c := int(cost.Int64)
		r.Cost = &c
	}
	r.Active = active != 0
	if decidedAt.Valid {
		r.DecidedAt = &decidedAt.Time
	}
	return &r, nil
}

const rewardCols = `id, couple_id, suggested_for, created_by, approved_by, title, description, suggested_cost, cost, status, photo_path, active, created_at, decided_at`

func (s *RewardStore) Create(coupleID, suggestedFor, createdBy int64, title, description string, suggestedCost int, photoPath string) (*model.Reward, error) {
	result, err := s.db.Exec(
		`INSERT INTO rewards (couple_id, suggested_for, created_by, title, description, suggested_cost, photo_path) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		coupleID, suggestedFor, createdBy, title, description, suggestedCost, photoPath,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// GetForCouple returns the reward only if it belongs to the given couple.
func (s *RewardStore) GetForCouple(id, coupleID int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ? AND couple_id = ?`, id, coupleID)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward for couple: %w", err)
	}
	return r, nil
}

// ListForUser returns the user's active rewards with the given status.
// Approved rewards are ordered cheapest first, others newest first.
func (s *RewardStore) ListForUser(coupleID, userID int64, status model.RewardStatus) ([]model.Reward, error) {
	order := `created_at DESC, id DESC`
	if status == model.RewardApproved {
		order = `cost ASC, id ASC`
	}
	return s.listRewards(
		`SELECT `+rewardCols+` FROM rewards WHERE couple_id = ? AND suggested_for = ? AND status = ? AND active = 1 ORDER BY `+order,
		coupleID, userID, string(status),
	)
}

// ListPendingForApproval returns the partner's pending suggestions,
// i.e. active pending rewards in the couple not suggested for the approver.
func (s *RewardStore) ListPendingForApproval(coupleID, approverID int64) ([]model.Reward, error) {
	return s.listRewards(
		`SELECT `+rewardCols+` FROM rewards WHERE couple_id = ? AND suggested_for != ? AND status = 'pending' AND active = 1 ORDER BY created_at DESC, id DESC`,
		coupleID, approverID,
	)
}

func (s *RewardStore) listRewards(query string, args ...any) ([]model.Reward, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// Approve sets the final cost, approver, and approval timestamp.
func (s *RewardStore) Approve(id, approverID int64, cost int, decidedAt time.Time) (*model.Reward, error) {
	_, err := s.db.Exec(
		`UPDATE rewards SET status = 'approved', cost = ?, approved_by = ?, decided_at = ? WHERE id = ?`,
		cost, approverID, decidedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("approve reward: %w", err)
	}
	return s.GetByID(id)
}

// Reject records the rejection; the reward is kept for history.
func (s *RewardStore) Reject(id, approverID int64, decidedAt time.Time) (*model.Reward, error) {
	_, err := s.db.Exec(
		`UPDATE rewards SET status = 'rejected', approved_by = ?, decided_at = ? WHERE id = ?`,
		approverID, decidedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("reject reward: %w", err)
	}
	return s.GetByID(id)
}

// SoftDelete hides the reward from listings while preserving its history.
func (s *RewardStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(`UPDATE rewards SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("soft delete reward: %w", err)
	}
	return nil
}

// --- Redemption methods ---

func scanVoucher(scanner interface{ Scan(...any) error }) (*model.Voucher, error) {
	var v model.Voucher
	var used int

	err := scanner.Scan(&v.ID, &v.RewardID, &v.RedeemedBy, &v.Cost, &used, &v.RedeemedAt, &v.RewardTitle)
	if err != nil {
		return nil, err
	}

	v.Used = used != 0
	return &v, nil
}

const voucherCols = `r.id, r.reward_id, r.redeemed_by, r.cost, r.used, r.redeemed_at, w.title`

// Redeem inserts a redemption with the cost snapshotted from the reward.
func (s *RewardStore) Redeem(rewardID, userID int64, cost int) (*model.Voucher, error) {
	result, err := s.db.Exec(
		`INSERT INTO redemptions (reward_id, redeemed_by, cost) VALUES (?, ?, ?)`,
		rewardID, userID, cost,
	)
	if err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetVoucher(id)
}

func (s *RewardStore) GetVoucher(id int64) (*model.Voucher, error) {
	row := s.db.QueryRow(
		`SELECT `+voucherCols+` FROM redemptions r JOIN rewards w ON w.id = r.reward_id WHERE r.id = ?`,
		id,
	)
	v, err := scanVoucher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// GetVoucherForCouple returns the voucher only if its reward belongs to the couple.
func (s *RewardStore) GetVoucherForCouple(id, coupleID int64) (*model.Voucher, error) {
	row := s.db.QueryRow(
		`SELECT `+voucherCols+` FROM redemptions r JOIN rewards w ON w.id = r.reward_id WHERE r.id = ? AND w.couple_id = ?`,
		id, coupleID,
	)
	v, err := scanVoucher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher for couple: %w", err)
	}
	return v, nil
}

// ListVouchersByUser returns the user's redemptions, newest first.
func (s *RewardStore) ListVouchersByUser(coupleID, userID int64) ([]model.Voucher, error) {
	return s.listVouchers(
		`SELECT `+voucherCols+` FROM redemptions r JOIN rewards w ON w.id = r.reward_id WHERE w.couple_id = ? AND r.redeemed_by = ? ORDER BY r.redeemed_at DESC, r.id DESC`,
		coupleID, userID,
	)
}

// ListUnusedVouchersByUser returns the user's outstanding (unused) vouchers.
func (s *RewardStore) ListUnusedVouchersByUser(coupleID, userID int64) ([]model.Voucher, error) {
	return s.listVouchers(
		`SELECT `+voucherCols+` FROM redemptions r JOIN rewards w ON w.id = r.reward_id WHERE w.couple_id = ? AND r.redeemed_by = ? AND r.used = 0 ORDER BY r.redeemed_at DESC, r.id DESC`,
		coupleID, userID,
	)
}

func (s *RewardStore) listVouchers(query string, args ...any) ([]model.Voucher, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []model.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, *v)
	}
	return vouchers, rows.Err()
}

// MarkVoucherUsed flips the used flag. One-way; there is no reset.
func (s *RewardStore) MarkVoucherUsed(id int64) error {
	_, err := s.db.Exec(`UPDATE redemptions SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark voucher used: %w", err)
	}
	return nil
}

// --- Point balance ---

// PointBalance computes earned − spent for the user from completed
// tasks and redemptions. Always recomputed, never stored.
func (s *RewardStore) PointBalance(userID int64) (*model.PointBalance, error) {
	var earned sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points), 0) FROM tasks WHERE assigned_to = ? AND completed = 1`,
		userID,
	).Scan(&earned)
	if err != nil {
		return nil, fmt.Errorf("sum points earned: %w", err)
	}

	var spent sql.NullInt64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(cost), 0) FROM redemptions WHERE redeemed_by = ?`,
		userID,
	).Scan(&spent)
	if err != nil {
		return nil, fmt.Errorf("sum points spent: %w", err)
	}

	return &model.PointBalance{
		UserID:  userID,
		Earned:  int(earned.Int64),
		Spent:   int(spent.Int64),
		Balance: int(earned.Int64) - int(spent.Int64),
	}, nil
}
