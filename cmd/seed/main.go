package main

import (
	"fmt"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"
	"collabnet/pkg/config"
	"collabnet/pkg/database"
	"collabnet/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testIndividuals := []struct {
		email    string
		username string
		password string
	}{
		{"alice@test.com", "alice_dev", "password123"},
		{"bob@test.com", "bob_design", "password123"},
		{"charlie@test.com", "charlie_pm", "password123"},
		{"diana@test.com", "diana_data", "password123"},
	}

	individualIDs := make([]string, 0, len(testIndividuals))
	for _, data := range testIndividuals {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(data.password), bcrypt.DefaultCost)

		individual := &model.IndividualModel{
			Email:    data.email,
			Username: data.username,
			Password: string(hashedPassword),
			IsActive: true,
		}

		var existing model.IndividualModel
		result := db.Where("email = ? OR username = ?", individual.Email, individual.Username).First(&existing)
		if result.Error == nil {
			log.Info("Individual %s already exists, skipping", individual.Username)
			individualIDs = append(individualIDs, existing.ID)
			continue
		}

		if err := db.Create(individual).Error; err != nil {
			log.Error("Failed to create individual %s: %v", individual.Username, err)
			continue
		}

		log.Info("Created individual: %s (%s)", individual.Username, individual.Email)
		individualIDs = append(individualIDs, individual.ID)
	}

	testOrganizations := []struct {
		email  string
		name   string
		sector string
	}{
		{"contact@acme.test", "Acme Robotics", "manufacturing"},
		{"hello@nimbus.test", "Nimbus Cloud", "technology"},
	}

	organizationIDs := make([]string, 0, len(testOrganizations))
	for _, data := range testOrganizations {
		organization := &model.OrganizationModel{
			Email:    data.email,
			Name:     data.name,
			Sector:   data.sector,
			IsActive: true,
		}

		var existing model.OrganizationModel
		result := db.Where("email = ?", organization.Email).First(&existing)
		if result.Error == nil {
			log.Info("Organization %s already exists, skipping", organization.Name)
			organizationIDs = append(organizationIDs, existing.ID)
			continue
		}

		if err := db.Create(organization).Error; err != nil {
			log.Error("Failed to create organization %s: %v", organization.Name, err)
			continue
		}

		log.Info("Created organization: %s", organization.Name)
		organizationIDs = append(organizationIDs, organization.ID)
	}

	// Every individual follows every organization, and the first individual
	// follows everyone else.
	for _, individualID := range individualIDs {
		for _, organizationID := range organizationIDs {
			if err := createFollow(db, entity.IndividualRef(individualID), entity.OrganizationRef(organizationID)); err != nil {
				log.Error("Failed to create follow: %v", err)
			}
		}
	}
	for _, individualID := range individualIDs[1:] {
		if err := createFollow(db, entity.IndividualRef(individualIDs[0]), entity.IndividualRef(individualID)); err != nil {
			log.Error("Failed to create follow: %v", err)
		}
	}
	log.Info("Created follow links")

	// A pending invitation between the last two individuals.
	if len(individualIDs) >= 2 {
		sender := individualIDs[len(individualIDs)-2]
		receiver := individualIDs[len(individualIDs)-1]

		var existing model.FollowInvitationModel
		result := db.Where("sender_id = ? AND receiver_id = ? AND status = ?", sender, receiver, entity.ReviewPending).First(&existing)
		if result.Error != nil {
			invitation := &model.FollowInvitationModel{
				SenderID:     sender,
				SenderKind:   string(entity.ActorIndividual),
				ReceiverID:   receiver,
				ReceiverKind: string(entity.ActorIndividual),
				Status:       string(entity.ReviewPending),
				Message:      "Let's connect!",
				ExpiresAt:    time.Now().Add(30 * 24 * time.Hour),
			}
			if err := db.Create(invitation).Error; err != nil {
				log.Error("Failed to create invitation: %v", err)
			} else {
				log.Info("Created pending invitation")
			}
		}
	}

	return nil
}

func createFollow(db *gorm.DB, follower, followee entity.ActorRef) error {
	var existing model.FollowLinkModel
	result := db.Where(
		"follower_id = ? AND follower_kind = ? AND followee_id = ? AND followee_kind = ?",
		follower.ID, follower.Kind, followee.ID, followee.Kind,
	).First(&existing)
	if result.Error == nil {
		return nil
	}

	link := &model.FollowLinkModel{
		FollowerID:   follower.ID,
		FollowerKind: string(follower.Kind),
		FolloweeID:   followee.ID,
		FolloweeKind: string(followee.Kind),
		NotifyOnPost: true,
	}
	return db.Create(link).Error
}
