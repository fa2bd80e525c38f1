package store

import (
	"testing"
	"time"

	"github.com/mfigueira/nossoapp/internal/model"
)

func TestRewardCreateAndApprove(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	reward, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "my pick", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if reward.Status != model.RewardPending {
		t.Fatalf("status = %q, want pending", reward.Status)
	}
	if reward.Cost != nil {
		t.Fatal("final cost must be unset while pending")
	}
	if !reward.Active {
		t.Fatal("new reward should be active")
	}

	approved, err := rewards.Approve(reward.ID, brunoID, 25, time.Now().UTC())
	if err != nil {
		t.Fatalf("approve reward: %v", err)
	}
	if approved.Status != model.RewardApproved {
		t.Fatalf("status = %q, want approved", approved.Status)
	}
	if approved.Cost == nil || *approved.Cost != 25 {
		t.Fatalf("cost = %v, want 25", approved.Cost)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != brunoID {
		t.Fatalf("approved_by = %v, want %d", approved.ApprovedBy, brunoID)
	}
	if approved.DecidedAt == nil {
		t.Fatal("decided_at should be set")
	}
	if approved.SuggestedCost != 30 {
		t.Fatalf("suggested_cost = %d, want 30 (unchanged)", approved.SuggestedCost)
	}
}

func TestRewardReject(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	reward, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	rejected, err := rewards.Reject(reward.ID, brunoID, time.Now().UTC())
	if err != nil {
		t.Fatalf("reject reward: %v", err)
	}
	if rejected.Status != model.RewardRejected {
		t.Fatalf("status = %q, want rejected", rejected.Status)
	}
	if rejected.Cost != nil {
		t.Fatal("rejected reward must not gain a cost")
	}
}

func TestRewardListPendingForApproval(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	mine, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := rewards.Create(coupleID, brunoID, brunoID, "Sleep in", "", 20, ""); err != nil {
		t.Fatalf("create reward: %v", err)
	}

	// Bruno approves: only Ana's suggestion shows up
	approvals, err := rewards.ListPendingForApproval(coupleID, brunoID)
	if err != nil {
		t.Fatalf("list approvals: %v", err)
	}
	if len(approvals) != 1 || approvals[0].ID != mine.ID {
		t.Fatalf("approvals = %+v, want only reward %d", approvals, mine.ID)
	}
}

func TestRewardSoftDelete(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, _ := seedCouple(t, db)

	reward, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	if err := rewards.SoftDelete(reward.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Row survives with active=false
	got, err := rewards.GetByID(reward.ID)
	if err != nil {
		t.Fatalf("get reward: %v", err)
	}
	if got == nil {
		t.Fatal("soft delete must keep the row")
	}
	if got.Active {
		t.Fatal("reward should be inactive")
	}

	// And disappears from listings
	listed, err := rewards.ListForUser(coupleID, anaID, model.RewardPending)
	if err != nil {
		t.Fatalf("list rewards: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("listed = %+v, want empty", listed)
	}
}

func TestRewardStoreOrderedByCost(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	now := time.Now().UTC()
	for _, tc := range []struct {
		title string
		cost  int
	}{
		{"Expensive", 50},
		{"Cheap", 10},
		{"Middle", 30},
	} {
		r, err := rewards.Create(coupleID, anaID, anaID, tc.title, "", tc.cost, "")
		if err != nil {
			t.Fatalf("create reward: %v", err)
		}
		if _, err := rewards.Approve(r.ID, brunoID, tc.cost, now); err != nil {
			t.Fatalf("approve reward: %v", err)
		}
	}

	items, err := rewards.ListForUser(coupleID, anaID, model.RewardApproved)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if *items[i-1].Cost > *items[i].Cost {
			t.Fatalf("items not ordered by cost: %d before %d", *items[i-1].Cost, *items[i].Cost)
		}
	}
}

func TestRedeemSnapshotsCost(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	reward, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := rewards.Approve(reward.ID, brunoID, 25, time.Now().UTC()); err != nil {
		t.Fatalf("approve reward: %v", err)
	}

	voucher, err := rewards.Redeem(reward.ID, anaID, 25)
	if err != nil {
		t.Fatalf("redeem reward: %v", err)
	}
	if voucher.Cost != 25 {
		t.Fatalf("voucher cost = %d, want 25", voucher.Cost)
	}
	if voucher.Used {
		t.Fatal("fresh voucher must be unused")
	}
	if voucher.RewardTitle != "Movie night" {
		t.Fatalf("voucher title = %q", voucher.RewardTitle)
	}
}

func TestVoucherListsAndUse(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	reward, err := rewards.Create(coupleID, anaID, anaID, "Movie night", "", 30, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := rewards.Approve(reward.ID, brunoID, 25, time.Now().UTC()); err != nil {
		t.Fatalf("approve reward: %v", err)
	}
	voucher, err := rewards.Redeem(reward.ID, anaID, 25)
	if err != nil {
		t.Fatalf("redeem reward: %v", err)
	}

	unused, err := rewards.ListUnusedVouchersByUser(coupleID, anaID)
	if err != nil {
		t.Fatalf("list unused: %v", err)
	}
	if len(unused) != 1 || unused[0].ID != voucher.ID {
		t.Fatalf("unused = %+v", unused)
	}

	if err := rewards.MarkVoucherUsed(voucher.ID); err != nil {
		t.Fatalf("mark used: %v", err)
	}

	unused, err = rewards.ListUnusedVouchersByUser(coupleID, anaID)
	if err != nil {
		t.Fatalf("list unused: %v", err)
	}
	if len(unused) != 0 {
		t.Fatalf("unused after use = %+v, want empty", unused)
	}

	all, err := rewards.ListVouchersByUser(coupleID, anaID)
	if err != nil {
		t.Fatalf("list vouchers: %v", err)
	}
	if len(all) != 1 || !all[0].Used {
		t.Fatalf("all vouchers = %+v, want one used voucher", all)
	}
}

func TestPointBalanceDerived(t *testing.T) {
	db := setupDB(t)
	rewards := NewRewardStore(db)
	tasks := NewTaskStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	// Ana earns 10 + 5
	for _, points := range []int{10, 5} {
		task, err := tasks.Create(coupleID, anaID, brunoID, "Chore", "", points, nil)
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		if _, _, err := tasks.Complete(task.ID, "", time.Now().UTC()); err != nil {
			t.Fatalf("complete task: %v", err)
		}
	}

	// Open tasks never count
	if _, err := tasks.Create(coupleID, anaID, brunoID, "Open chore", "", 100, nil); err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Ana spends 8
	reward, err := rewards.Create(coupleID, anaID, anaID, "Treat", "", 8, "")
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := rewards.Approve(reward.ID, brunoID, 8, time.Now().UTC()); err != nil {
		t.Fatalf("approve reward: %v", err)
	}
	if _, err := rewards.Redeem(reward.ID, anaID, 8); err != nil {
		t.Fatalf("redeem reward: %v", err)
	}

	balance, err := rewards.PointBalance(anaID)
	if err != nil {
		t.Fatalf("point balance: %v", err)
	}
	if balance.Earned != 15 {
		t.Fatalf("earned = %d, want 15", balance.Earned)
	}
	if balance.Spent != 8 {
		t.Fatalf("spent = %d, want 8", balance.Spent)
	}
	if balance.Balance != 7 {
		t.Fatalf("balance = %d, want 7", balance.Balance)
	}

	// Bruno earned nothing
	brunoBalance, err := rewards.PointBalance(brunoID)
	if err != nil {
		t.Fatalf("point balance: %v", err)
	}
	if brunoBalance.Balance != 0 {
		t.Fatalf("bruno balance = %d, want 0", brunoBalance.Balance)
	}
}
