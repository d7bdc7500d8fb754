package seeds

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/model"
	userModel "volunteerhub_backend/internals/features/users/model"
)

// RunIfRequested provisions demo data when SEED_ON_BOOT=true. Safe to
// run twice: it bails out as soon as it sees an existing user.
func RunIfRequested(db *gorm.DB) {
	if os.Getenv("SEED_ON_BOOT") != "true" {
		return
	}

	var count int64
	if err := db.Model(&userModel.UserModel{}).Count(&count).Error; err != nil {
		log.Printf("[ERROR] seed: count users: %v", err)
		return
	}
	if count > 0 {
		log.Println("[SEED] users exist, skipping")
		return
	}

	if err := run(db); err != nil {
		log.Printf("[ERROR] seed: %v", err)
		return
	}
	log.Println("[SEED] demo data provisioned")
}

func run(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := userModel.UserModel{
			FullName:     "Platform Admin",
			Email:        "admin@volunteerhub.local",
			PasswordHash: string(hash),
			Role:         constants.RoleAdmin,
		}
		orgUser := userModel.UserModel{
			FullName:     "Green City Coordinator",
			Email:        "org@volunteerhub.local",
			PasswordHash: string(hash),
			Role:         constants.RoleOrg,
		}
		volunteers := []userModel.UserModel{
			{FullName: "Alice Volunteer", Email: "alice@volunteerhub.local", PasswordHash: string(hash), Role: constants.RoleMember},
			{FullName: "Bob Volunteer", Email: "bob@volunteerhub.local", PasswordHash: string(hash), Role: constants.RoleMember},
		}
		for _, u := range []*userModel.UserModel{&admin, &orgUser} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&volunteers).Error; err != nil {
			return err
		}

		org := userModel.OrganizationModel{
			OrganizationName: "Green City Initiative",
			OrganizationType: "NGO",
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		part := userModel.ParticipationModel{
			ParticipationUserID:         orgUser.ID,
			ParticipationOrganizationID: org.OrganizationID,
		}
		if err := tx.Create(&part).Error; err != nil {
			return err
		}

		soon := time.Now().Add(48 * time.Hour)
		end := soon.Add(4 * time.Hour)
		events := []eventModel.EventModel{
			{
				EventTitle:          "Riverside Cleanup",
				EventDescription:    "Bring gloves. Bags provided.",
				EventAddress:        "Riverside Park, Gate 2",
				EventStartDate:      soon,
				EventEndDate:        &end,
				EventStatus:         eventModel.EventStatusUpcoming,
				EventIsApproved:     true,
				EventMaxVolunteers:  30,
				EventOrganizationID: org.OrganizationID,
			},
			{
				EventTitle:          "Food Bank Sorting",
				EventDescription:    "Evening shift at the warehouse.",
				EventAddress:        "12 Market Street",
				EventStartDate:      soon.Add(72 * time.Hour),
				EventStatus:         eventModel.EventStatusUpcoming,
				EventOrganizationID: org.OrganizationID,
			},
		}
		return tx.Create(&events).Error
	})
}
