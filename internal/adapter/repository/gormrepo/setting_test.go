package gormrepo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/setting"
)

func TestSettingRepository_Upsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, setting.KeyDefaultInterestRate); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound before first write, got %v", err)
	}

	for _, v := range []string{"0.12", "0.15"} {
		if err := repo.Upsert(ctx, &setting.Setting{Key: setting.KeyDefaultInterestRate, Value: v}); err != nil {
			t.Fatalf("Upsert(%s): %v", v, err)
		}
	}

	got, err := repo.Get(ctx, setting.KeyDefaultInterestRate)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != "0.15" {
		t.Fatalf("value = %q, want 0.15", got.Value)
	}

	var n int64
	db.Model(&setting.Setting{}).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}
