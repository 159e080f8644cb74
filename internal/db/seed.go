package db

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DemoUniversity is the university every seeded user attends.
const DemoUniversity = "University at Buffalo"

// DemoPassword is the plain password of every seeded account.
const DemoPassword = "password"

var (
	seedFirstNames  = []string{"Ava", "Ben", "Chloe", "Dev", "Emma", "Farid", "Grace", "Hiro", "Isla", "Jon", "Kara", "Liam", "Maya", "Noah", "Omar", "Priya", "Quinn", "Rosa", "Sam", "Tara"}
	seedLastNames   = []string{"Smith", "Patel", "Kim", "Garcia", "Nguyen", "Brown", "Lopez", "Chen", "Singh", "Okafor"}
	seedDepartments = []string{"Computer Science", "Biology", "Economics", "Mechanical Engineering", "Psychology", "Mathematics", "Architecture", "History"}
	seedCuisines    = []string{"italian", "thai", "mexican", "indian", "chinese", "japanese", "korean", "mediterranean", "american", "vietnamese"}
	seedDietary     = []string{"vegetarian", "vegan", "gluten-free", "halal", "kosher", "nut-free"}
	seedBudgets     = []*float64{ptr(15.0), ptr(20.0), ptr(25.0), ptr(30.0), nil}
	seedRestaurants = []string{"Campus Bistro", "Noodle Bar", "Taco Stand", "Curry House", "Dumpling Corner", "Sushi Spot", "Seoul Kitchen", "Olive Tree", "Burger Lab", "Pho Place", "Pasta Fresca", "Green Bowl"}
	seedLocations   = []string{"North Campus Commons", "South Campus Union", "Main Street", "Elmwood Avenue", "Student Center"}
)

// DemoStarters is the conversation-starter catalogue.
var DemoStarters = []ConversationStarter{
	{Question: "What's your favorite food on campus?", Category: "Food"},
	{Question: "What's your go-to order at a coffee shop?", Category: "Food"},
	{Question: "What's the best restaurant you've discovered since coming here?", Category: "Food"},
	{Question: "Do you cook? What's your signature dish?", Category: "Food"},
	{Question: "What food from home do you miss the most?", Category: "Food"},
	{Question: "What's your favorite comfort food during exam season?", Category: "Food"},
	{Question: "Sweet or savory breakfast?", Category: "Food"},
	{Question: "What's the most unusual food you've ever tried?", Category: "Food"},
	{Question: "What's your major? Are you enjoying your classes?", Category: "Education"},
	{Question: "What's your favorite place to study on campus?", Category: "Education"},
	{Question: "What are your career plans after graduation?", Category: "Education"},
	{Question: "What's been your favorite class so far?", Category: "Education"},
	{Question: "If you could have lunch with any famous person, who would it be?", Category: "General"},
	{Question: "What do you do to unwind after a long week?", Category: "General"},
	{Question: "What's the best trip you've ever taken?", Category: "General"},
	{Question: "What's a hobby you picked up recently?", Category: "General"},
}

// SeedDemoData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears every table (children first).
//  2. Creates 20 users at DemoUniversity with profiles, a primary photo,
//     lunch preferences, cuisines, dietary restrictions and weekday availability.
//  3. Creates the restaurant catalogue and conversation starters.
//  4. Adds a few mutual matches and one-way likes among the first users.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedDemoData(db *gorm.DB) ([]User, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := clearAll(db); err != nil {
		return nil, err
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]User, 0, len(seedFirstNames))
	for i, first := range seedFirstNames {
		year := 2026 + r.Intn(4)
		user := User{
			Email:        fmt.Sprintf("%s%d@buffalo.edu", strings.ToLower(first), i+1),
			PasswordHash: string(hash),
			Profile: Profile{
				FirstName:      first,
				LastName:       seedLastNames[r.Intn(len(seedLastNames))],
				University:     DemoUniversity,
				Department:     seedDepartments[r.Intn(len(seedDepartments))],
				Bio:            "Always up for trying a new lunch spot.",
				GraduationYear: &year,
			},
			Photos: []Photo{{Path: fmt.Sprintf("profiles/%d.jpg", i+1), IsPrimary: true}},
			LunchPreference: &LunchPreference{
				MaxBudget:          seedBudgets[r.Intn(len(seedBudgets))],
				PreferredGroupSize: 2 + r.Intn(3),
			},
		}
		for _, c := range sample(r, seedCuisines, 2+r.Intn(4)) {
			user.LunchPreference.Cuisines = append(user.LunchPreference.Cuisines, CuisinePreference{CuisineType: c})
		}
		if r.Intn(100) < 30 {
			for _, d := range sample(r, seedDietary, 1+r.Intn(2)) {
				user.LunchPreference.DietaryRestrictions = append(user.LunchPreference.DietaryRestrictions, DietaryRestriction{RestrictionType: d})
			}
		}
		for day := 0; day < 7; day++ {
			if r.Intn(100) >= 70 {
				continue
			}
			start := 11 + r.Intn(3)
			end := 13 + r.Intn(3)
			if end <= start {
				end = start + 1
			}
			user.Availability = append(user.Availability, AvailabilitySlot{
				DayOfWeek: day,
				StartTime: datatypes.NewTime(start, 0, 0, 0),
				EndTime:   datatypes.NewTime(end, 0, 0, 0),
			})
		}

		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users.", len(users))

	restaurants := make([]Restaurant, 0, 20)
	for i := 0; i < 20; i++ {
		name := seedRestaurants[i%len(seedRestaurants)]
		if i >= len(seedRestaurants) {
			name = fmt.Sprintf("%s %d", name, i/len(seedRestaurants)+1)
		}
		price := 1 + r.Intn(4)
		rating := float64(30+r.Intn(21)) / 10
		restaurants = append(restaurants, Restaurant{
			Name:        name,
			Location:    seedLocations[r.Intn(len(seedLocations))],
			CuisineType: strings.Join(sample(r, seedCuisines, 1+r.Intn(3)), ", "),
			PriceRange:  &price,
			Rating:      &rating,
		})
	}
	if err := db.Create(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to seed restaurants: %w", err)
	}

	starters := make([]ConversationStarter, len(DemoStarters))
	copy(starters, DemoStarters)
	if err := db.Create(&starters).Error; err != nil {
		return nil, fmt.Errorf("failed to seed conversation starters: %w", err)
	}

	// users 1-2 and 3-4 are matched, 5 liked 1
	now := time.Now().UTC()
	edges := []InterestEdge{
		{ActorUserID: users[0].ID, TargetUserID: users[1].ID, Status: StatusMatched, MatchedDate: &now},
		{ActorUserID: users[1].ID, TargetUserID: users[0].ID, Status: StatusMatched, MatchedDate: &now},
		{ActorUserID: users[2].ID, TargetUserID: users[3].ID, Status: StatusMatched, MatchedDate: &now},
		{ActorUserID: users[3].ID, TargetUserID: users[2].ID, Status: StatusMatched, MatchedDate: &now},
		{ActorUserID: users[4].ID, TargetUserID: users[0].ID, Status: StatusPending},
	}
	if err := db.Create(&edges).Error; err != nil {
		return nil, fmt.Errorf("failed to seed edges: %w", err)
	}
	log.Printf("Seeded %d restaurants, %d starters, %d edges.", len(restaurants), len(starters), len(edges))

	return users, nil
}

func clearAll(db *gorm.DB) error {
	models := All()
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(models[i]); err != nil {
			return fmt.Errorf("failed to parse model: %w", err)
		}
		table := stmt.Schema.Table
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		// Reset auto-increment sequences where the dialect allows it cheaply.
		switch db.Dialector.Name() {
		case "mysql":
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	return nil
}

func sample(r *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range r.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func ptr[T any](v T) *T { return &v }
