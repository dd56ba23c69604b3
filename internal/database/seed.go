package database

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

const seedPostText = "In publishing and graphic design, Lorem ipsum is a placeholder text commonly used to demonstrate " +
	"the visual form of a document or a typeface without relying on meaningful content. Lorem ipsum may be used " +
	"as a placeholder before final copy is available."

var seedUsers = []models.User{
	{FirstName: "Shehan", LastName: "Jude", Email: "shehan@ysjcs.net", Handle: "shehan", ProfanityFilter: true},
	{FirstName: "Keshanth", LastName: "Jude", Email: "keshan@ysjcs.net", Handle: "keshanspec"},
	{FirstName: "Jathusa", LastName: "Thiruchelvam", Email: "jathu@ysjcs.net", Handle: "jathusa", ProfanityFilter: true},
}

// Seed fills an empty database with demo users, posts and a small reply thread.
// It is a no-op when any user already exists.
func Seed(db *gorm.DB, password string, posts int, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Info("users already seeded, skipping")
		return nil
	}
	if password == "" {
		return errors.New("seed password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, len(seedUsers))
		copy(users, seedUsers)
		for i := range users {
			users[i].Password = string(hash)
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}

		for i := 0; i < posts; i++ {
			post := models.Post{
				UserID: users[i%len(users)].ID,
				Title:  fmt.Sprintf("This is a test post #%d", i+1),
				Text:   seedPostText,
			}
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("create post: %w", err)
			}
		}

		if posts == 0 {
			return nil
		}

		var first models.Post
		if err := tx.Order("id asc").First(&first).Error; err != nil {
			return fmt.Errorf("load first post: %w", err)
		}

		root := models.Comment{PostID: first.ID, UserID: users[1].ID, Text: "First!"}
		if err := tx.Create(&root).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		reply := models.Comment{PostID: first.ID, UserID: users[2].ID, ParentID: &root.ID, Text: "Welcome to the board."}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("create reply: %w", err)
		}

		log.Info("seeded demo data", "users", len(users), "posts", posts)
		return nil
	})
}
