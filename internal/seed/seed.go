// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Skip if data already exists
	existing, _ := repos.UserRepo.FindByEmail(ctx, "ana.kovac@nightwatch.dev")
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data with real scenarios...")

	// ============================================
	// CREATE USERS (3 team members)
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. ANA - Group creator (Admin)
	ana := &repository.User{
		Email:    "ana.kovac@nightwatch.dev",
		Password: string(password),
		Name:     stringPtr("Ana Kovac"),
		Status:   types.UserOnline,
	}
	repos.UserRepo.Create(ctx, ana)

	// 2. BEN - Regular member
	ben := &repository.User{
		Email:    "ben.okafor@nightwatch.dev",
		Password: string(password),
		Name:     stringPtr("Ben Okafor"),
		Status:   types.UserOnline,
	}
	repos.UserRepo.Create(ctx, ben)

	// 3. CARLA - Not in the group (tests Forbidden paths)
	carla := &repository.User{
		Email:    "carla.mendez@nightwatch.dev",
		Password: string(password),
		Name:     stringPtr("Carla Mendez"),
		Status:   types.UserAway,
	}
	repos.UserRepo.Create(ctx, carla)

	log.Printf("✅ Created 3 users: Ana (admin), Ben (member), Carla (outside)")

	// ============================================
	// SCENARIO 1: CREATE GROUP
	// Ana creates "Nightshift" and becomes its sole admin
	// ============================================
	nightshift := &repository.Group{
		Name:  "Nightshift",
		Email: "nightshift@nightwatch.dev",
	}
	repos.GroupRepo.CreateWithAdmin(ctx, nightshift, ana.ID)

	// Ben joins as a regular member
	repos.GroupRepo.AddMember(ctx, &repository.GroupMember{
		GroupID: nightshift.ID,
		UserID:  ben.ID,
		Role:    types.RoleUser,
	})

	// ❌ Carla NOT added (no access to Nightshift)

	log.Printf("✅ Created group: Nightshift")
	log.Printf("   └─ Members: Ana (ADMIN), Ben (USER)")
	log.Printf("   └─ NOT in group: Carla")

	// ============================================
	// SCENARIO 2: CREATE SHIFTS
	// A week of coverage starting tomorrow
	// ============================================
	now := time.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 22, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	shifts := []struct {
		Start    time.Time
		End      time.Time
		Assignee string
	}{
		{tomorrow, tomorrow.Add(8 * time.Hour), ana.ID},
		{tomorrow.AddDate(0, 0, 1), tomorrow.AddDate(0, 0, 1).Add(8 * time.Hour), ben.ID},
		{tomorrow.AddDate(0, 0, 2), tomorrow.AddDate(0, 0, 2).Add(8 * time.Hour), ana.ID},
		{tomorrow.AddDate(0, 0, 3), tomorrow.AddDate(0, 0, 3).Add(8 * time.Hour), ""},
	}

	for _, s := range shifts {
		shift := &repository.Shift{
			GroupID:   nightshift.ID,
			StartDate: s.Start,
			EndDate:   s.End,
		}
		repos.ShiftRepo.Create(ctx, shift)
		if s.Assignee != "" {
			repos.ShiftRepo.AttachUser(ctx, shift.ID, s.Assignee)
		}
	}

	log.Printf("✅ Created 4 shifts (3 assigned, 1 open)")

	// ============================================
	// FINAL SUMMARY
	// ============================================
	log.Println("")
	log.Println("🎉 ============================================")
	log.Println("🎉 SEED COMPLETE - ACCESS SUMMARY")
	log.Println("🎉 ============================================")
	log.Println("")
	log.Println("👤 ANA KOVAC (ana.kovac@nightwatch.dev)")
	log.Println("   ✅ Group: Nightshift (ADMIN)")
	log.Println("")
	log.Println("👤 BEN OKAFOR (ben.okafor@nightwatch.dev)")
	log.Println("   ✅ Group: Nightshift (USER)")
	log.Println("")
	log.Println("👤 CARLA MENDEZ (carla.mendez@nightwatch.dev)")
	log.Println("   ❌ Group: Nightshift (no access)")
	log.Println("")
	log.Println("🎯 Test Credentials:")
	log.Println("   Email: any of the above")
	log.Println("   Password: password123")
	log.Println("")
}

// Helper function to create string pointers
func stringPtr(s string) *string {
	return &s
}
