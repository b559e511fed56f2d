package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"potterystudio/internal/database"
	"potterystudio/internal/domain/booking"
	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
	"potterystudio/internal/domain/waitlist"
)

func main() {
	db, err := database.Connect("openstudio.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&resource.Resource{},
		&session.Session{},
		&session.ResourceHold{},
		&entitlement.Subscription{},
		&entitlement.PunchPass{},
		&booking.Booking{},
		&waitlist.Entry{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM waitlist_entries")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM resource_holds")
	db.Exec("DELETE FROM punch_passes")
	db.Exec("DELETE FROM subscriptions")
	db.Exec("DELETE FROM open_studio_sessions")
	db.Exec("DELETE FROM resources")

	// ================== RESOURCES ==================
	log.Println("Creating resources...")
	resources := []resource.Resource{
		{StudioID: 1, Name: "Pottery Wheel", Quantity: 8, IsActive: true},
		{StudioID: 1, Name: "Handbuilding Table", Quantity: 12, IsActive: true},
		{StudioID: 1, Name: "Kiln Shelf Slot", Quantity: 20, IsActive: true},
		{StudioID: 1, Name: "Glazing Station", Quantity: 4, IsActive: true},
	}
	for i := range resources {
		db.Create(&resources[i])
	}

	// ================== SESSIONS ==================
	log.Println("Creating open studio sessions...")
	today := time.Now().UTC().Truncate(24 * time.Hour)
	sessions := make([]session.Session, 0, 14)
	for day := 0; day < 14; day++ {
		date := today.AddDate(0, 0, day)
		s := session.Session{
			StudioID:  1,
			StartTime: date.Add(10 * time.Hour),
			EndTime:   date.Add(21 * time.Hour),
		}
		db.Create(&s)
		sessions = append(sessions, s)
	}

	// A wheel-throwing class holds half the wheels on day 2, 18:00-20:00
	log.Println("Creating class holds...")
	db.Create(&session.ResourceHold{
		SessionID:  sessions[2].ID,
		ResourceID: resources[0].ID,
		Quantity:   4,
		StartTime:  sessions[2].StartTime.Add(8 * time.Hour),
		EndTime:    sessions[2].StartTime.Add(10 * time.Hour),
		Reason:     "Wheel Throwing 101",
	})

	// ================== SUBSCRIPTIONS ==================
	log.Println("Creating subscriptions...")
	standardBenefits, _ := json.Marshal(map[string]any{
		"max_block_minutes":     180,
		"max_bookings_per_week": 4,
		"advance_booking_days":  7,
		"walk_in_allowed":       true,
		"premium_time_access":   false,
	})
	unlimitedBenefits, _ := json.Marshal(map[string]any{
		"max_block_minutes":     300,
		"max_bookings_per_week": 10,
		"advance_booking_days":  14,
		"walk_in_allowed":       true,
		"premium_time_access":   true,
	})

	subs := []entitlement.Subscription{
		{
			CustomerID:         101,
			MembershipID:       1,
			Status:             entitlement.StatusActive,
			CurrentPeriodStart: today.AddDate(0, 0, -10),
			CurrentPeriodEnd:   today.AddDate(0, 0, 20),
			BenefitsRaw:        standardBenefits,
		},
		{
			CustomerID:         102,
			MembershipID:       2,
			Status:             entitlement.StatusActive,
			CurrentPeriodStart: today.AddDate(0, 0, -5),
			CurrentPeriodEnd:   today.AddDate(0, 0, 25),
			BenefitsRaw:        unlimitedBenefits,
		},
		{
			CustomerID:         103,
			MembershipID:       1,
			Status:             entitlement.StatusPastDue,
			CurrentPeriodStart: today.AddDate(0, -1, 0),
			CurrentPeriodEnd:   today.AddDate(0, 0, -1),
			BenefitsRaw:        standardBenefits,
		},
	}
	for i := range subs {
		db.Create(&subs[i])
		log.Printf("Subscription for customer %d: %s", subs[i].CustomerID, subs[i].Status)
	}

	// ================== PUNCH PASSES ==================
	log.Println("Creating punch passes...")
	passes := []entitlement.PunchPass{
		{CustomerID: 201, ProductID: 10, PunchesRemaining: 5, TotalPunches: 10, ExpiresAt: today.AddDate(0, 3, 0)},
		{CustomerID: 202, ProductID: 10, PunchesRemaining: 1, TotalPunches: 10, ExpiresAt: today.AddDate(0, 1, 0)},
		{CustomerID: 203, ProductID: 11, PunchesRemaining: 0, TotalPunches: 5, ExpiresAt: today.AddDate(0, 2, 0)},
	}
	for i := range passes {
		db.Create(&passes[i])
	}

	fmt.Println()
	log.Printf("Seed complete: %d resources, %d sessions, %d subscriptions, %d passes",
		len(resources), len(sessions), len(subs), len(passes))
}
