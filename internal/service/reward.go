package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/store"
)

// DecideAction is the partner's verdict on a suggested reward.
type DecideAction string

const (
	ActionApprove DecideAction = "approve"
	ActionReject  DecideAction = "reject"
)

// Rewards runs the reward workflow: suggestion, partner approval with
// final pricing, soft deletion, redemption against balance, and
// voucher usage.
type Rewards struct {
	rewards *store.RewardStore
	users   *store.UserStore
	ledger  *Ledger
	logger  *slog.Logger
}

func NewRewards(rs *store.RewardStore, us *store.UserStore, ledger *Ledger, logger *slog.Logger) *Rewards {
	return &Rewards{rewards: rs, users: us, ledger: ledger, logger: logger}
}

// Suggest creates a pending reward. The suggester is also the
// beneficiary: they propose something they want, and the partner
// decides whether (and at what cost) to grant it.
func (s *Rewards) Suggest(ac auth.AuthContext, title, description string, suggestedCost int, photoPath string) (*model.Reward, error) {
	if ac.CoupleID == 0 {
		return nil, authf("you need a couple before suggesting rewards")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if suggestedCost <= 0 {
		return nil, validationf("suggested cost must be positive")
	}

	reward, err := s.rewards.Create(ac.CoupleID, ac.UserID, ac.UserID, title, description, suggestedCost, photoPath)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reward suggested", "reward_id", reward.ID, "couple_id", ac.CoupleID)
	return reward, nil
}

// Decide approves or rejects a pending reward. The beneficiary can
// never decide on their own suggestion. Approval requires a positive
// final cost; the final cost is only ever set here.
func (s *Rewards) Decide(ac auth.AuthContext, rewardID int64, action DecideAction, finalCost int) (*model.Reward, error) {
	reward, err := s.rewards.GetForCouple(rewardID, ac.CoupleID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, notFoundf("reward not found")
	}
	if reward.SuggestedFor == ac.UserID {
		return nil, authf("you cannot decide on your own reward")
	}
	if reward.Status != model.RewardPending {
		return nil, statef("reward has already been %s", reward.Status)
	}

	now := time.Now().UTC()
	switch action {
	case ActionApprove:
		if finalCost <= 0 {
			return nil, validationf("final cost must be positive")
		}
		reward, err = s.rewards.Approve(rewardID, ac.UserID, finalCost, now)
	case ActionReject:
		reward, err = s.rewards.Reject(rewardID, ac.UserID, now)
	default:
		return nil, validationf("unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("reward decided", "reward_id", rewardID, "action", string(action), "approver", ac.UserID)
	return reward, nil
}

// Delete soft-deletes the reward, keeping its history. Only the
// creator may delete. The reward is returned for photo cleanup.
func (s *Rewards) Delete(ac auth.AuthContext, rewardID int64) (*model.Reward, error) {
	reward, err := s.rewards.GetForCouple(rewardID, ac.CoupleID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, notFoundf("reward not found")
	}
	if reward.CreatedBy != ac.UserID {
		return nil, authf("only the creator can delete this reward")
	}

	if err := s.rewards.SoftDelete(rewardID); err != nil {
		return nil, err
	}
	return reward, nil
}

// Redeem claims an approved reward against the actor's balance,
// snapshotting the approved cost into the redemption. An approved
// reward stays on the shelf and may be redeemed again later, each time
// re-checked against the balance.
func (s *Rewards) Redeem(ac auth.AuthContext, rewardID int64) (*model.Voucher, error) {
	reward, err := s.rewards.GetForCouple(rewardID, ac.CoupleID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, notFoundf("reward not found")
	}
	if reward.SuggestedFor != ac.UserID {
		return nil, authf("this reward is not yours to redeem")
	}
	if reward.Status != model.RewardApproved || !reward.Active || reward.Cost == nil {
		return nil, statef("reward is not redeemable")
	}

	balance, err := s.ledger.Balance(ac.UserID)
	if err != nil {
		return nil, err
	}
	if balance.Balance < *reward.Cost {
		return nil, &InsufficientFundsError{Balance: balance.Balance, Cost: *reward.Cost}
	}

	voucher, err := s.rewards.Redeem(rewardID, ac.UserID, *reward.Cost)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reward redeemed", "reward_id", rewardID, "voucher_id", voucher.ID, "cost", voucher.Cost)
	return voucher, nil
}

// MarkVoucherUsed flips the voucher's used flag. Only the redeemer may
// do this, and there is no way back.
func (s *Rewards) MarkVoucherUsed(ac auth.AuthContext, voucherID int64) (*model.Voucher, error) {
	voucher, err := s.rewards.GetVoucherForCouple(voucherID, ac.CoupleID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, notFoundf("voucher not found")
	}
	if voucher.RedeemedBy != ac.UserID {
		return nil, authf("this voucher is not yours")
	}

	if err := s.rewards.MarkVoucherUsed(voucherID); err != nil {
		return nil, err
	}
	return s.rewards.GetVoucher(voucherID)
}

// Suggestions returns the actor's active rewards with the given status.
func (s *Rewards) Suggestions(ac auth.AuthContext, status model.RewardStatus) ([]model.Reward, error) {
	return s.rewards.ListForUser(ac.CoupleID, ac.UserID, status)
}

// Approvals returns the partner's pending suggestions awaiting the
// actor's decision.
func (s *Rewards) Approvals(ac auth.AuthContext) ([]model.Reward, error) {
	return s.rewards.ListPendingForApproval(ac.CoupleID, ac.UserID)
}

// StoreItems returns the actor's redeemable rewards, cheapest first.
func (s *Rewards) StoreItems(ac auth.AuthContext) ([]model.Reward, error) {
	return s.rewards.ListForUser(ac.CoupleID, ac.UserID, model.RewardApproved)
}

// Vouchers returns the actor's redemption history, newest first.
func (s *Rewards) Vouchers(ac auth.AuthContext) ([]model.Voucher, error) {
	return s.rewards.ListVouchersByUser(ac.CoupleID, ac.UserID)
}

// PartnerVouchers returns the partner's outstanding (unused) vouchers,
// i.e. what the actor still owes.
func (s *Rewards) PartnerVouchers(ac auth.AuthContext) ([]model.Voucher, error) {
	partner, err := s.users.GetPartner(ac.CoupleID, ac.UserID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, nil
	}
	return s.rewards.ListUnusedVouchersByUser(ac.CoupleID, partner.ID)
}
