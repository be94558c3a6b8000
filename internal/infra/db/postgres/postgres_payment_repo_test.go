//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

func TestPaymentRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPaymentRepo(testPool)
	accounts := NewAccountRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()
	cleanup(t)

	acct, _ := model.NewAccount("", "Karim", "karim@example.com", "+8801733333333", "hash")
	if err := accounts.Save(ctx, repository.NoTX, acct); err != nil {
		t.Fatalf("Failed to save account: %v", err)
	}
	channel, _ := model.NewPaymentChannel("", "bKash")
	if err := channels.Save(ctx, repository.NoTX, channel); err != nil {
		t.Fatalf("Failed to save channel: %v", err)
	}

	payment, err := model.NewPayment("", acct.ID, channel.ID, "TXN-001", 10000)
	if err != nil {
		t.Fatalf("model.NewPayment() failed: %v", err)
	}

	t.Run("should create and read a pending payment", func(t *testing.T) {
		if err := repo.Save(ctx, repository.NoTX, payment); err != nil {
			t.Fatalf("Failed to save payment: %v", err)
		}

		found, err := repo.FindByID(ctx, repository.NoTX, payment.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Status != model.PaymentStatusPending || found.Amount != 10000 {
			t.Errorf("mismatch, got status %q amount %d", found.Status, found.Amount)
		}
		if found.RejectReason != nil {
			t.Error("pending payment must have no reject reason")
		}
	})

	t.Run("should reject a duplicate transaction id", func(t *testing.T) {
		dup, _ := model.NewPayment("", acct.ID, channel.ID, "TXN-001", 500)
		err := repo.Save(ctx, repository.NoTX, dup)
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict for duplicate transaction id, got %v", err)
		}
	})

	t.Run("should find by transaction id", func(t *testing.T) {
		found, err := repo.FindByTransactionID(ctx, repository.NoTX, "TXN-001")
		if err != nil {
			t.Fatalf("FindByTransactionID failed: %v", err)
		}
		if found.ID != payment.ID {
			t.Errorf("wrong payment, want %s got %s", payment.ID, found.ID)
		}
	})

	t.Run("should update status with a reject reason", func(t *testing.T) {
		reason := "screenshot does not match"
		if err := repo.UpdateStatus(ctx, repository.NoTX, payment.ID, model.PaymentStatusRejected, &reason); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}

		found, err := repo.FindByID(ctx, repository.NoTX, payment.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Status != model.PaymentStatusRejected {
			t.Errorf("status mismatch, want rejected got %q", found.Status)
		}
		if found.RejectReason == nil || *found.RejectReason != reason {
			t.Errorf("reject reason not persisted, got %v", found.RejectReason)
		}
	})

	t.Run("should count payments per channel", func(t *testing.T) {
		n, err := repo.CountByChannel(ctx, repository.NoTX, channel.ID)
		if err != nil {
			t.Fatalf("CountByChannel failed: %v", err)
		}
		if n != 1 {
			t.Errorf("count mismatch, want 1 got %d", n)
		}

		other, _ := model.NewPaymentChannel("", "Nagad")
		if err := channels.Save(ctx, repository.NoTX, other); err != nil {
			t.Fatalf("Failed to save second channel: %v", err)
		}
		n, err = repo.CountByChannel(ctx, repository.NoTX, other.ID)
		if err != nil {
			t.Fatalf("CountByChannel failed: %v", err)
		}
		if n != 0 {
			t.Errorf("count mismatch, want 0 got %d", n)
		}
	})

	t.Run("should list by account", func(t *testing.T) {
		list, err := repo.ListByAccount(ctx, repository.NoTX, acct.ID)
		if err != nil {
			t.Fatalf("ListByAccount failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("list length mismatch, want 1 got %d", len(list))
		}
	})
}
