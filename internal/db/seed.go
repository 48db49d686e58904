package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedNames = []string{
		"Aarav Shah", "Diya Menon", "Kabir Rao", "Ananya Iyer", "Vihaan Gupta",
		"Saanvi Nair", "Arjun Das", "Meera Pillai", "Rohan Verma", "Isha Kulkarni",
		"Aditya Singh", "Kavya Reddy", "Nikhil Joshi", "Tara Bose", "Rahul Mehta",
		"Priya Sinha", "Dev Malhotra", "Riya Chatterjee", "Karan Kapoor", "Neha Jain",
	}
	seedBranches = []string{"CSE", "ECE", "ME", "CE", "EEE"}
	seedYears    = []string{"1", "2", "3", "4"}
)

// SeedTestData resets the database and populates it with demo users and submissions.
//
// Behavior:
//  1. Clears existing data in `feedback`, `submissions` and `users`.
//  2. Creates 20 users with bcrypt hashed passwords ("password").
//  3. Lets roughly two thirds of them submit three distinct targets, and in
//     every third submission makes the crush pick the submitter back so the
//     reveal has something to show.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB, bcryptCost int, log *slog.Logger) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"feedback", "submissions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE submissions AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('submissions', 'users', 'feedback')")
	}
	log.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]User, 0, len(seedNames))
	for i, name := range seedNames {
		users = append(users, User{
			Username:     fmt.Sprintf("user%d", i+1),
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			FullName:     name,
			Branch:       seedBranches[i%len(seedBranches)],
			Year:         seedYears[r.Intn(len(seedYears))],
			PasswordHash: string(hash),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Info("seeded users", "count", len(users))

	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	submitted := 0
	for i, submitter := range ids {
		if i%3 == 2 {
			continue // leave some users without a submission
		}
		targets := pickDistinct(r, ids, submitter, 3)
		if err := insertIgnore(db, &Submission{
			SubmitterID: submitter,
			CrushID:     targets[0],
			LikeID:      targets[1],
			AdoreID:     targets[2],
		}); err != nil {
			return err
		}
		submitted++

		// make the crush reciprocate every third time
		if submitted%3 == 0 {
			back := pickDistinct(r, ids, targets[0], 2, submitter)
			if err := insertIgnore(db, &Submission{
				SubmitterID: targets[0],
				CrushID:     back[0],
				LikeID:      submitter,
				AdoreID:     back[1],
			}); err != nil {
				return err
			}
		}
	}
	log.Info("seeded submissions", "submitters", submitted)

	return nil
}

// insertIgnore keeps the first submission of a user, matching production semantics.
func insertIgnore(db *gorm.DB, s *Submission) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submitter_id"}},
		DoNothing: true,
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("failed to seed submission: %w", err)
	}
	return nil
}

// pickDistinct draws n ids from pool, never returning self or any of exclude.
func pickDistinct(r *rand.Rand, pool []uint64, self uint64, n int, exclude ...uint64) []uint64 {
	skip := map[uint64]bool{self: true}
	for _, id := range exclude {
		skip[id] = true
	}

	out := make([]uint64, 0, n)
	for _, idx := range r.Perm(len(pool)) {
		id := pool[idx]
		if skip[id] {
			continue
		}
		out = append(out, id)
		if len(out) == n {
			break
		}
	}
	return out
}
