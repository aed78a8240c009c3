package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mnatobi/astroinsights/utils"
)

// SeedAccount describes an admin-panel account to provision at boot.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     string
}

// SeedContent populates categories, articles and horoscopes when the
// respective tables are empty. Safe to call on every boot.
func SeedContent(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(defaultCategories()).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&Article{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(defaultArticles()).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&Horoscope{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(defaultHoroscopes()).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedUsers provisions the given accounts if their usernames are not taken.
// Accounts with an empty password are skipped so production deployments can
// opt out of default credentials.
func SeedUsers(db *gorm.DB, accounts []SeedAccount) error {
	for _, acc := range accounts {
		if acc.Password == "" {
			continue
		}
		var existing User
		err := db.Where("username = ?", acc.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		hash, err := utils.HashPassword(acc.Password)
		if err != nil {
			return err
		}
		user := User{
			Username:     acc.Username,
			Email:        acc.Email,
			PasswordHash: hash,
			Role:         acc.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

func defaultCategories() []Category {
	return []Category{
		{Name: "horoscope", NameGeorgian: "ჰოროსკოპი", Description: "Daily and weekly horoscopes", Color: "celestial-gold"},
		{Name: "zodiac", NameGeorgian: "ზოდიაქო", Description: "Zodiac signs and their meanings", Color: "mystic-purple"},
		{Name: "tarot", NameGeorgian: "ტარო", Description: "Tarot card readings and interpretations", Color: "lavender"},
		{Name: "crystals", NameGeorgian: "კრისტალები", Description: "Healing crystals and their properties", Color: "stardust-gold"},
		{Name: "moon-phases", NameGeorgian: "მთვარის ფაზები", Description: "Moon phases and their influence", Color: "midnight-blue"},
		{Name: "predictions", NameGeorgian: "პროგნოზები", Description: "Astrological predictions and forecasts", Color: "deep-space"},
	}
}

func defaultArticles() []Article {
	return []Article{
		{
			Title:       "2024 წლის ასტროლოგიური პროგნოზი - რა გველოდება?",
			Excerpt:     "ახალი წელი ახალ შესაძლებლობებს მოგვანიჭებს. ასტროლოგიური კონფიგურაციები იმდენად ძლიერია, რომ ყოველი ზოდიაქოს ნიშნისთვის უნიკალური გამოცდილება გათვალისწინებულია...",
			Content:     "ახალი წელი ახალ შესაძლებლობებს მოგვანიჭებს. ასტროლოგიური კონფიგურაციები იმდენად ძლიერია, რომ ყოველი ზოდიაქოს ნიშნისთვის უნიკალური გამოცდილება გათვალისწინებულია. ამ წელს ვარსკვლავები განსაკუთრებულ ყურადღებას აქცევენ პირად ზრდასა და სულიერ განვითარებას.",
			Category:    "predictions",
			Author:      "ნინო ასტროლოგი",
			AuthorRole:  "ასტროლოგი",
			ImageURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			PublishedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Likes:       247,
			Comments:    18,
			Featured:    true,
			Views:       1520,
		},
		{
			Title:       "ტაროს კარტების საიდუმლოებები თქვენთვის",
			Excerpt:     "ტაროს კარტები ძველი ბრძნულების ცოდნას ატარებს. თითოეული კარტა უნიკალურ ენერგიას ფლობს...",
			Content:     "ტაროს კარტები ძველი ბრძნულების ცოდნას ატარებს. თითოეული კარტა უნიკალურ ენერგიას ფლობს და სიმბოლურ მესიჯებს გვაწვდის. ტაროს წაკითხვა არ არის მომავლის გაუქმებადი წინასწარმეტყველება, არამედ სულიერი გზამკვლევი.",
			Category:    "tarot",
			Author:      "მარიამ ტაროლოგი",
			AuthorRole:  "ტაროლოგი",
			ImageURL:    "https://images.unsplash.com/photo-1551009175-8a68da93d5f9?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			PublishedAt: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Likes:       89,
			Comments:    12,
			Views:       654,
		},
		{
			Title:       "მკურნალი კრისტალების ძალა",
			Excerpt:     "კრისტალები ღია ენერგიული ველების მქონე ქვებია, რომლებიც ჩვენს ჩაკრებზე მოქმედებენ...",
			Content:     "კრისტალები ღია ენერგიული ველების მქონე ქვებია, რომლებიც ჩვენს ჩაკრებზე მოქმედებენ. ისინი ძველი დროიდან გამოიყენებოდა მკურნალობისა და სულიერი განწმენდისთვის. თითოეული კრისტალი განსაკუთრებული თვისებებით ხასიათდება.",
			Category:    "crystals",
			Author:      "ანა კრისტალოთერაპევტი",
			AuthorRole:  "კრისტალოთერაპევტი",
			ImageURL:    "https://images.unsplash.com/photo-1518066000714-58c45f1a2c0a?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			PublishedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Likes:       156,
			Comments:    24,
			Views:       892,
		},
		{
			Title:       "მთვარის ფაზები და მათი გავლენა",
			Excerpt:     "მთვარის ფაზები ღრმა გავლენას ახდენენ ჩვენს ემოციურ მდგომარეობაზე და ენერგეტიკაზე...",
			Content:     "მთვარის ფაზები ღრმა გავლენას ახდენენ ჩვენს ემოციურ მდგომარეობაზე და ენერგეტიკაზე. ახალი მთვარე იდეალურია ახალი დაწყებებისთვის, ხოლო სავსე მთვარე - განზრახვების რეალიზაციისთვის.",
			Category:    "moon-phases",
			Author:      "დავით ლუნოლოგი",
			AuthorRole:  "ლუნოლოგი",
			ImageURL:    "https://images.unsplash.com/photo-1518066000714-58c45f1a2c0a?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			PublishedAt: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Likes:       203,
			Comments:    31,
			Views:       1127,
		},
		{
			Title:       "ნატალური რუკის ანალიზი",
			Excerpt:     "ნატალური რუკა თქვენი ცხოვრების გეგმას წარმოადგენს, რომელიც დაბადების მომენტში ჩაიწერა...",
			Content:     "ნატალური რუკა თქვენი ცხოვრების გეგმას წარმოადგენს, რომელიც დაბადების მომენტში ჩაიწერა. ის გვიჩვენებს ჩვენს უნარებს, გამოწვევებს და საცხოვრებელ მიმართულებებს.",
			Category:    "zodiac",
			Author:      "ნინო ასტროლოგი",
			AuthorRole:  "ასტროლოგი",
			ImageURL:    "https://images.unsplash.com/photo-1502134249126-9f3755a50d78?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Likes:       178,
			Comments:    19,
			Views:       743,
		},
	}
}

func defaultHoroscopes() []Horoscope {
	today := time.Now()
	return []Horoscope{
		{
			ZodiacSign:         "leo",
			ZodiacSignGeorgian: "ლომი",
			Content:            "დღეს შემოქმედებითი ენერგია განსაკუთრებით ძლიერია. ვარსკვლავები გირჩევენ ახალი პროექტების დაწყებას.",
			Date:               today,
		},
		{
			ZodiacSign:         "aries",
			ZodiacSignGeorgian: "ვერძი",
			Content:            "თქვენი ენერგია დღეს შეუდარებელია. სამუშაო პროექტებში დიდი წარმატება გელოდებათ.",
			Date:               today,
		},
	}
}
