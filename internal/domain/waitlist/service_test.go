package waitlist

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"potterystudio/internal/domain/entitlement"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:waitlist_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db, NewRepository(db)), db
}

var slotStart = time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

func join(t *testing.T, svc *Service, customerID int64) *Entry {
	t.Helper()
	passID := uuid.New()
	entry, err := svc.Join(context.Background(), JoinRequest{
		CustomerID: customerID,
		ResourceID: 1,
		SessionID:  10,
		StartTime:  slotStart,
		EndTime:    slotStart.Add(2 * time.Hour),
		Ref:        entitlement.Ref{PunchPassID: &passID},
	})
	if err != nil {
		t.Fatalf("join for customer %d failed: %v", customerID, err)
	}
	return entry
}

func TestJoinAssignsSequentialPositions(t *testing.T) {
	svc, _ := setupTestService(t)

	a := join(t, svc, 201)
	b := join(t, svc, 202)
	c := join(t, svc, 203)

	if a.Position != 1 || b.Position != 2 || c.Position != 3 {
		t.Fatalf("expected positions 1,2,3, got %d,%d,%d", a.Position, b.Position, c.Position)
	}
}

func TestLeaveKeepsGapsAndNewJoinersGoBehind(t *testing.T) {
	svc, _ := setupTestService(t)

	join(t, svc, 201)
	b := join(t, svc, 202)
	join(t, svc, 203)

	if _, err := svc.Leave(context.Background(), b.ID, 202, "member"); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	line, err := svc.SlotLine(context.Background(), 1, 10, slotStart)
	if err != nil {
		t.Fatalf("slot line failed: %v", err)
	}
	if len(line) != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", len(line))
	}
	// No compaction: positions 1 and 3 survive unchanged.
	if line[0].Position != 1 || line[1].Position != 3 {
		t.Fatalf("expected positions 1,3 after departure, got %d,%d", line[0].Position, line[1].Position)
	}

	d := join(t, svc, 204)
	if d.Position != 4 {
		t.Fatalf("new joiner must go behind the highest ever issued, got %d", d.Position)
	}
}

func TestJoinRejectsDuplicateActiveEntry(t *testing.T) {
	svc, _ := setupTestService(t)

	join(t, svc, 201)
	passID := uuid.New()
	_, err := svc.Join(context.Background(), JoinRequest{
		CustomerID: 201,
		ResourceID: 1,
		SessionID:  10,
		StartTime:  slotStart,
		EndTime:    slotStart.Add(time.Hour),
		Ref:        entitlement.Ref{PunchPassID: &passID},
	})
	if !errors.Is(err, ErrAlreadyWaitlisted) {
		t.Fatalf("expected ErrAlreadyWaitlisted, got %v", err)
	}
}

func TestJoinAllowsSameCustomerOnDifferentSlot(t *testing.T) {
	svc, _ := setupTestService(t)

	join(t, svc, 201)
	passID := uuid.New()
	other, err := svc.Join(context.Background(), JoinRequest{
		CustomerID: 201,
		ResourceID: 2, // different wheel group
		SessionID:  10,
		StartTime:  slotStart,
		EndTime:    slotStart.Add(time.Hour),
		Ref:        entitlement.Ref{PunchPassID: &passID},
	})
	if err != nil {
		t.Fatalf("join on different slot failed: %v", err)
	}
	if other.Position != 1 {
		t.Fatalf("lines are per slot, expected position 1, got %d", other.Position)
	}
}

func TestJoinValidatesRefAndWindow(t *testing.T) {
	svc, _ := setupTestService(t)

	if _, err := svc.Join(context.Background(), JoinRequest{
		CustomerID: 201, ResourceID: 1, SessionID: 10,
		StartTime: slotStart, EndTime: slotStart.Add(time.Hour),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing ref, got %v", err)
	}

	passID := uuid.New()
	if _, err := svc.Join(context.Background(), JoinRequest{
		CustomerID: 201, ResourceID: 1, SessionID: 10,
		StartTime: slotStart, EndTime: slotStart,
		Ref: entitlement.Ref{PunchPassID: &passID},
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty window, got %v", err)
	}
}

func TestLeaveChecksOwnership(t *testing.T) {
	svc, _ := setupTestService(t)
	a := join(t, svc, 201)

	if _, err := svc.Leave(context.Background(), a.ID, 999, "member"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Leave(context.Background(), a.ID, 999, "staff"); err != nil {
		t.Fatalf("staff removal failed: %v", err)
	}
	if _, err := svc.Leave(context.Background(), a.ID, 201, "member"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for already removed entry, got %v", err)
	}
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) Publish(_ int64, eventType string, _ any) {
	r.events = append(r.events, eventType)
}

func TestPromoteHeadNotifiesLowestPosition(t *testing.T) {
	svc, db := setupTestService(t)
	sink := &recordingSink{}
	svc.SetEventSink(sink)

	a := join(t, svc, 201)
	join(t, svc, 202)

	if err := svc.PromoteHead(context.Background(), 1, 10, slotStart); err != nil {
		t.Fatalf("promote failed: %v", err)
	}

	var head Entry
	if err := db.First(&head, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("reload head: %v", err)
	}
	if head.NotifiedAt == nil {
		t.Fatal("head entry must be marked notified")
	}
	if len(sink.events) != 1 || sink.events[0] != "waitlist.slot_opened" {
		t.Fatalf("expected one slot_opened event, got %v", sink.events)
	}

	// The notified entry is out of the line; the next promotion moves on.
	if err := svc.PromoteHead(context.Background(), 1, 10, slotStart); err != nil {
		t.Fatalf("second promote failed: %v", err)
	}
	line, err := svc.SlotLine(context.Background(), 1, 10, slotStart)
	if err != nil {
		t.Fatalf("slot line failed: %v", err)
	}
	if len(line) != 0 {
		t.Fatalf("expected empty line after both promotions, got %d", len(line))
	}
}

func TestPromoteHeadOnEmptyLineIsNoOp(t *testing.T) {
	svc, _ := setupTestService(t)
	sink := &recordingSink{}
	svc.SetEventSink(sink)

	if err := svc.PromoteHead(context.Background(), 1, 10, slotStart); err != nil {
		t.Fatalf("promote on empty line failed: %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("expected no events, got %v", sink.events)
	}
}
