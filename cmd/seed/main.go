package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"induohouse/internal/config"
	"induohouse/internal/db"
	"induohouse/internal/model"
	"induohouse/internal/repository"
)

const demoPassword = "password123"

func intPtr(v int) *int { return &v }

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Property{}, &model.PropertyImage{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)

	users := demoUsers()
	createdUsers := 0
	for i := range users {
		existing, err := userRepo.FindByEmail(ctx, users[i].Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("Error checking user %s: %v", users[i].Email, err)
		}
		if existing != nil {
			users[i] = *existing
			continue
		}
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Fatalf("Error creating user %s: %v", users[i].Email, err)
		}
		createdUsers++
	}

	properties := demoProperties(users)
	createdProperties := 0
	for i := range properties {
		if err := propertyRepo.Create(ctx, &properties[i]); err != nil {
			log.Fatalf("Error creating property %q: %v", properties[i].Title, err)
		}
		createdProperties++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", createdUsers)
	log.Printf("  - Listings created: %d", createdProperties)
}

func demoUsers() []model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	return []model.User{
		{
			Email:           "anna.kowalska@example.com",
			PasswordHash:    string(hash),
			FirstName:       "Anna",
			LastName:        "Kowalska",
			PhoneNumber:     "+48 600 100 200",
			Role:            model.RoleUser,
			IsEmailVerified: true,
		},
		{
			Email:           "jan.nowak@example.com",
			PasswordHash:    string(hash),
			FirstName:       "Jan",
			LastName:        "Nowak",
			PhoneNumber:     "+48 600 300 400",
			Role:            model.RoleUser,
			IsEmailVerified: true,
		},
	}
}

func demoProperties(users []model.User) []model.Property {
	return []model.Property{
		{
			UserID:          users[0].ID,
			Title:           "Sunny two-room apartment near the old town",
			Description:     "Renovated apartment with a balcony, five minutes from the market square.",
			Price:           decimal.NewFromInt(520000),
			Area:            decimal.NewFromFloat(48.5),
			City:            "Krakow",
			Street:          "Dluga 12",
			PostalCode:      "31-146",
			NumberOfRooms:   intPtr(2),
			Floor:           intPtr(3),
			TotalFloors:     intPtr(5),
			TransactionType: model.TransactionSale,
			PropertyType:    model.PropertyApartment,
			Status:          model.StatusActive,
		},
		{
			UserID:          users[0].ID,
			Title:           "Family house with a garden",
			Description:     "Detached house on a quiet street, garage for two cars.",
			Price:           decimal.NewFromInt(1250000),
			Area:            decimal.NewFromFloat(180),
			City:            "Warszawa",
			Street:          "Polna 7",
			PostalCode:      "00-625",
			NumberOfRooms:   intPtr(6),
			TransactionType: model.TransactionSale,
			PropertyType:    model.PropertyHouse,
			Status:          model.StatusActive,
		},
		{
			UserID:          users[1].ID,
			Title:           "Studio for rent in the city center",
			Price:           decimal.NewFromInt(2800),
			Area:            decimal.NewFromFloat(32),
			City:            "Krakow",
			Street:          "Karmelicka 3",
			PostalCode:      "31-128",
			NumberOfRooms:   intPtr(1),
			Floor:           intPtr(4),
			TotalFloors:     intPtr(8),
			TransactionType: model.TransactionRent,
			PropertyType:    model.PropertyApartment,
			Status:          model.StatusActive,
		},
		{
			UserID:          users[1].ID,
			Title:           "Building plot on the edge of town",
			Price:           decimal.NewFromInt(340000),
			Area:            decimal.NewFromFloat(1100),
			City:            "Wroclaw",
			TransactionType: model.TransactionSale,
			PropertyType:    model.PropertyLand,
			Status:          model.StatusActive,
		},
	}
}
