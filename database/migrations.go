package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	log.Println("Running database migrations...")

	// AutoMigrate will create tables if they don't exist
	if err := DB.AutoMigrate(
		&User{},
		&Supplier{},
		&FasTag{},
		&Ticket{},
		&Payment{},
		&AuditLog{},
	); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultAdmin creates a default admin if none exists
func SeedDefaultAdmin() {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to check existing admin: %v", err)
		return
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash default admin password: %v", err)
			return
		}

		admin := User{
			Name:         "Super Admin",
			Email:        "admin@nh360fastag.com",
			PasswordHash: string(hash),
			Role:         RoleAdmin,
			Status:       UserStatusActive,
			Phone:        "9999999999",
			Pincode:      "679321",
			Address:      "Admin HQ",
			City:         "Palakkad",
			State:        "Kerala",
		}

		if err := DB.Create(&admin).Error; err != nil {
			log.Printf("❌ Failed to create admin: %v", err)
		} else {
			log.Println("✅ Default admin user created successfully.")
		}
	} else {
		log.Println("ℹ️ Admin user already exists.")
	}
}
