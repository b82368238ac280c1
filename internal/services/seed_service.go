package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/terraincognita07/daylog/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultRosterPassword = "123456"

var DefaultRosterUsernames = []string{
	"Elisa Luhulima",
	"Ahmad Sobirin",
	"Dewi Puspita Sari",
	"Anni Samudra Wulan",
	"Nafi Alrasyid",
	"Muhamad Ichsan Kamil",
	"Oscar Gideon",
	"Rafael Yolens Putera Larung",
	"Izzat Nabela Ali",
	"Katrin Dian Lestari",
	"Diah",
	"Gary",
	"Rika",
}

// Roster is the set of accounts created on first start. Every member shares
// one password and must change it after logging in.
type Roster struct {
	Password string   `yaml:"password"`
	Users    []string `yaml:"users"`
}

func DefaultRoster() Roster {
	return Roster{
		Password: DefaultRosterPassword,
		Users:    append([]string{}, DefaultRosterUsernames...),
	}
}

// LoadRoster reads a roster file. An empty path yields the built-in roster;
// missing fields in the file fall back to the built-in values.
func LoadRoster(path string) (Roster, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRoster(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(content, &roster); err != nil {
		return Roster{}, fmt.Errorf("parse roster: %w", err)
	}
	if roster.Password == "" {
		roster.Password = DefaultRosterPassword
	}
	if len(roster.Users) == 0 {
		roster.Users = append([]string{}, DefaultRosterUsernames...)
	}
	return roster, nil
}

type SeedUserRepository interface {
	AccountCounter
	CreateBatch(users []models.User) error
}

type SeedService struct {
	users  SeedUserRepository
	logger *zap.Logger
}

func NewSeedService(users SeedUserRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{users: users, logger: logger}
}

// Seed creates the roster accounts when the users table is readable and
// empty. Read and write failures are logged and otherwise ignored; the
// returned count is the number of accounts written.
func (service *SeedService) Seed(roster Roster) int {
	status, err := InspectSetup(service.users)
	if err != nil {
		service.logger.Warn("users table unreadable, skipping roster seed", zap.Error(err))
		return 0
	}
	if !status.NeedsRoster {
		return 0
	}

	users := make([]models.User, 0, len(roster.Users))
	seen := make(map[string]struct{}, len(roster.Users))
	for _, raw := range roster.Users {
		username := NormalizeUsername(raw)
		if username == "" {
			continue
		}
		if _, duplicate := seen[username]; duplicate {
			continue
		}
		seen[username] = struct{}{}

		passwordHash, err := HashPassword(roster.Password)
		if err != nil {
			service.logger.Warn("hash roster password", zap.String("username", username), zap.Error(err))
			continue
		}
		users = append(users, models.User{
			Username:           username,
			PasswordHash:       passwordHash,
			MustChangePassword: true,
		})
	}

	if err := service.users.CreateBatch(users); err != nil {
		service.logger.Warn("write roster users", zap.Int("users", len(users)), zap.Error(err))
		return 0
	}
	service.logger.Info("seeded roster users", zap.Int("users", len(users)))
	return len(users)
}
