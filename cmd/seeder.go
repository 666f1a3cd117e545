package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.DB.Close()

		db := deps.GormDB

		if clearData {
			for _, table := range []string{"meeting_participants", "meetings", "meeting_specs", "user_subscriptions", "subscription_time_slots", "subscription_rules", "meeting_subscriptions", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		users := []struct {
			Username string
			Email    string
			Meta     string
		}{
			{"maria", "maria@example.com", `{"department": "engineering", "office": "berlin"}`},
			{"jonas", "jonas@example.com", `{"department": "engineering", "office": "berlin"}`},
			{"priya", "priya@example.com", `{"department": "product", "office": "london"}`},
			{"tomasz", "tomasz@example.com", `{"department": "sales", "office": "london"}`},
			{"aiko", "aiko@example.com", `{"department": "design", "office": "tokyo"}`},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE username = ?", u.Username).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO users (username, email, meta_data, is_active, created_at, updated_at) VALUES (?, ?, ?::jsonb, true, now(), now())", u.Username, u.Email, u.Meta).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, err)
			}
			fmt.Println("Seeded user:", u.Username)
		}

		subTitle := "Weekly Coffee Chats"
		var subID int64
		row := db.Raw("SELECT id FROM meeting_subscriptions WHERE title = ?", subTitle).Row()
		if err := row.Scan(&subID); err != nil {
			if err := db.Exec("INSERT INTO meeting_subscriptions (title, timezone, cooldown_weeks, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", subTitle, "Europe/Berlin", 10).Error; err != nil {
				log.Fatalf("failed to insert subscription: %v", err)
			}
			if err := db.Raw("SELECT id FROM meeting_subscriptions WHERE title = ?", subTitle).Row().Scan(&subID); err != nil {
				log.Fatalf("subscription not found after insert: %v", err)
			}
			fmt.Println("Seeded subscription:", subTitle)
		}

		var ruleExists int
		if err := db.Raw("SELECT 1 FROM subscription_rules WHERE subscription_id = ?", subID).Row().Scan(&ruleExists); err != nil {
			if err := db.Exec("INSERT INTO subscription_rules (subscription_id, name, created_at) VALUES (?, ?, now())", subID, "department").Error; err != nil {
				log.Fatalf("failed to insert subscription rule: %v", err)
			}
		}

		slots := []struct {
			Day    string
			Hour   int
			Minute int
		}{
			{"wednesday", 10, 0},
			{"thursday", 15, 30},
		}
		for _, s := range slots {
			var exists int
			row := db.Raw("SELECT 1 FROM subscription_time_slots WHERE subscription_id = ? AND day = ? AND hour = ? AND minute = ?", subID, s.Day, s.Hour, s.Minute).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO subscription_time_slots (subscription_id, day, hour, minute, created_at) VALUES (?, ?, ?, ?, now())", subID, s.Day, s.Hour, s.Minute).Error; err != nil {
					log.Fatalf("failed to insert time slot: %v", err)
				}
			}
		}

		for _, u := range users {
			var userID int64
			if err := db.Raw("SELECT id FROM users WHERE username = ?", u.Username).Row().Scan(&userID); err != nil {
				log.Fatalf("failed to lookup user id for %s: %v", u.Username, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM user_subscriptions WHERE user_id = ? AND subscription_id = ?", userID, subID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO user_subscriptions (user_id, subscription_id, created_at) VALUES (?, ?, now())", userID, subID).Error; err != nil {
				log.Fatalf("failed to subscribe user %s: %v", u.Username, err)
			}
		}

		fmt.Println("Sample data seeded successfully")
	},
}
