package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Each migration owns frozen copies of the tables it creates so later edits
// to the domain structs never rewrite history.

type schemaMigration struct {
	Version   int       `gorm:"column:version;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;size:128;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type v1User struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	UserID       string    `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id"`
	Name         string    `gorm:"column:name;size:120;not null"`
	Phone        string    `gorm:"column:phone;size:32;not null;uniqueIndex:ux_users_phone"`
	Email        *string   `gorm:"column:email;size:255;uniqueIndex:ux_users_email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (v1User) TableName() string { return "users" }

type v2Loan struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	LoanID          string    `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id"`
	UserID          uint64    `gorm:"column:user_id;not null;index:idx_loans_user_id"`
	BorrowerName    string    `gorm:"column:borrower_name;size:120;not null"`
	FatherName      string    `gorm:"column:father_name;size:120"`
	Phone           string    `gorm:"column:phone;size:32;not null"`
	CNIC            string    `gorm:"column:cnic;size:32;not null"`
	Address         string    `gorm:"column:address;type:text"`
	UserImagePath   string    `gorm:"column:user_image_path;type:text"`
	CNICImagePath   string    `gorm:"column:cnic_image_path;type:text"`
	Principal       float64   `gorm:"column:principal;type:decimal(18,2);not null"`
	InterestRate    float64   `gorm:"column:interest_rate;type:decimal(8,6);not null"`
	Days            int       `gorm:"column:days;not null"`
	TotalPayable    float64   `gorm:"column:total_payable;type:decimal(18,2);not null"`
	Status          string    `gorm:"column:status;size:16;not null;index:idx_loans_due"`
	PaymentStatus   string    `gorm:"column:payment_status;size:16;not null;index:idx_loans_due"`
	DueDate         time.Time `gorm:"column:due_date;type:date;not null;index:idx_loans_due"`
	ReceiptNo       *string   `gorm:"column:receipt_no;size:32"`
	InstallmentPlan string    `gorm:"column:installment_plan;type:text"`
	StatusUpdatedAt time.Time `gorm:"column:status_updated_at"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (v2Loan) TableName() string { return "loans" }

type v3Payment struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	PaymentID string    `gorm:"column:payment_id;size:32;uniqueIndex:ux_payments_payment_id"`
	LoanID    uint64    `gorm:"column:loan_id;not null;index:idx_payments_loan_id"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2);not null"`
	Method    string    `gorm:"column:method;size:64;not null"`
	Receipt   string    `gorm:"column:receipt;size:32;not null;uniqueIndex:ux_payments_receipt"`
	PaidAt    time.Time `gorm:"column:paid_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (v3Payment) TableName() string { return "payments" }

type v4Decision struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	DecisionID string    `gorm:"column:decision_id;size:32;not null;uniqueIndex:ux_loan_decisions_decision_id"`
	LoanID     uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan_id"`
	AdminID    uint64    `gorm:"column:admin_id;not null"`
	Outcome    string    `gorm:"column:outcome;size:16;not null"`
	Note       string    `gorm:"column:note;type:text"`
	DecidedAt  time.Time `gorm:"column:decided_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (v4Decision) TableName() string { return "loan_decisions" }

type v5Setting struct {
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (v5Setting) TableName() string { return "settings" }

type migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

func createTable(models ...any) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error { return tx.Migrator().CreateTable(models...) }
}

type foreignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
}

func (fk foreignKey) clause() string {
	return fmt.Sprintf("CONSTRAINT `%s` FOREIGN KEY (`%s`) REFERENCES `%s`(`%s`) ON UPDATE CASCADE ON DELETE RESTRICT",
		fk.Name, fk.Column, fk.RefTable, fk.RefColumn)
}

// createTableWithKeys creates model's table and then attaches keys to it.
// SQLite cannot add a constraint to an existing table, so the freshly
// created (empty) table is rebuilt from its own DDL with the keys appended.
func createTableWithKeys(model any, table string, keys ...foreignKey) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if err := tx.Migrator().CreateTable(model); err != nil {
			return err
		}
		if tx.Dialector.Name() == "sqlite" {
			return rebuildSQLiteWithKeys(tx, table, keys)
		}
		for _, fk := range keys {
			if err := tx.Exec("ALTER TABLE `" + table + "` ADD " + fk.clause()).Error; err != nil {
				return fmt.Errorf("add %s: %w", fk.Name, err)
			}
		}
		return nil
	}
}

func rebuildSQLiteWithKeys(tx *gorm.DB, table string, keys []foreignKey) error {
	var ddl string
	if err := tx.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error; err != nil {
		return fmt.Errorf("read %s ddl: %w", table, err)
	}
	end := strings.LastIndex(ddl, ")")
	if end < 0 {
		return fmt.Errorf("unexpected ddl for %s: %q", table, ddl)
	}
	var indexes []string
	if err := tx.Raw("SELECT sql FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL", table).
		Scan(&indexes).Error; err != nil {
		return fmt.Errorf("read %s indexes: %w", table, err)
	}

	clauses := make([]string, len(keys))
	for i, fk := range keys {
		clauses[i] = fk.clause()
	}
	rebuilt := ddl[:end] + "," + strings.Join(clauses, ",") + ddl[end:]

	stmts := append([]string{"DROP TABLE `" + table + "`", rebuilt}, indexes...)
	for _, q := range stmts {
		if err := tx.Exec(q).Error; err != nil {
			return fmt.Errorf("rebuild %s: %w", table, err)
		}
	}
	return nil
}

var migrations = []migration{
	{1, "create_users", createTable(&v1User{})},
	{2, "create_loans", createTableWithKeys(&v2Loan{}, "loans",
		foreignKey{"fk_loans_user", "user_id", "users", "id"})},
	{3, "create_payments", createTableWithKeys(&v3Payment{}, "payments",
		foreignKey{"fk_payments_loan", "loan_id", "loans", "id"})},
	{4, "create_loan_decisions", createTableWithKeys(&v4Decision{}, "loan_decisions",
		foreignKey{"fk_loan_decisions_loan", "loan_id", "loans", "id"},
		foreignKey{"fk_loan_decisions_admin", "admin_id", "users", "id"})},
	{5, "create_settings", createTable(&v5Setting{})},
}

// Migrate applies every pending migration in its own transaction and returns
// the versions it applied.
func Migrate(ctx context.Context, gdb *gorm.DB, log *zap.Logger) ([]int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db := gdb.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []schemaMigration
	if err := db.Order("version").Find(&done).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	seen := make(map[int]bool, len(done))
	for _, m := range done {
		seen[m.Version] = true
	}

	var applied []int
	for _, m := range migrations {
		if seen[m.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration %d %s: %w", m.Version, m.Name, err)
		}
		log.Info("migration applied", zap.Int("version", m.Version), zap.String("name", m.Name))
		applied = append(applied, m.Version)
	}
	return applied, nil
}

// LatestVersion is the highest version known to this build.
func LatestVersion() int { return migrations[len(migrations)-1].Version }
