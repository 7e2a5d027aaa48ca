package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"studyshare/internal/config"
	"studyshare/internal/db"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

var starterBooks = []model.Book{
	{Title: "Introduction to Algorithms", Description: "Foundations of algorithm design and analysis."},
	{Title: "Linear Algebra Done Right", Description: "Vector spaces, linear maps, and eigenvalues without determinant worship."},
	{Title: "Operating System Concepts", Description: "Processes, scheduling, memory, and file systems."},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Material{},
		&model.Announcement{},
		&model.BookRequest{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	announcementRepo := repository.NewAnnouncementRepository(gormDB)

	admin, err := seedAdmin(ctx, userRepo, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, err := seedBooks(ctx, bookRepo, admin)
	if err != nil {
		log.Fatalf("Failed to seed books: %v", err)
	}

	if err := seedWelcomeAnnouncement(ctx, announcementRepo, admin); err != nil {
		log.Fatalf("Failed to seed announcement: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Admin user: %s", admin.Email)
	log.Printf("  - New books created: %d", created)
}

// seedAdmin ensures the configured admin account exists, promoting an
// existing account with that email if needed.
func seedAdmin(ctx context.Context, repo repository.UserRepository, email string) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			if _, err := repo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, err
			}
			existing.Role = model.RoleAdmin
			log.Printf("Promoted existing user %s to admin", email)
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin := &model.User{
		Email:    email,
		Name:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("Created admin user %s", email)
	return admin, nil
}

// seedBooks inserts the starter catalog, skipping titles that already exist.
func seedBooks(ctx context.Context, repo repository.BookRepository, admin *model.User) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, b := range existing {
		titles[b.Title] = true
	}

	created := 0
	for _, book := range starterBooks {
		if titles[book.Title] {
			continue
		}
		book.CreatedBy = admin.ID
		if err := repo.Create(ctx, &book); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// seedWelcomeAnnouncement posts the welcome notice once.
func seedWelcomeAnnouncement(ctx context.Context, repo repository.AnnouncementRepository, admin *model.User) error {
	active, err := repo.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, a := range active {
		if a.Title == "Welcome to StudyShare" {
			return nil
		}
	}

	return repo.Create(ctx, &model.Announcement{
		Title:     "Welcome to StudyShare",
		Content:   "Upload study materials for your courses and browse what others have shared. Uploads are reviewed before they appear.",
		Type:      model.AnnouncementInfo,
		CreatedBy: admin.ID,
		IsActive:  true,
	})
}
