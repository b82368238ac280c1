package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/daylog/internal/services"
)

type RosterSeeder interface {
	Seed(roster services.Roster) int
}

// RunSeedCommand creates the roster accounts on an empty users table. It is
// a no-op once any account exists.
func RunSeedCommand(seeder RosterSeeder, rosterPath string, out io.Writer) error {
	roster, err := services.LoadRoster(rosterPath)
	if err != nil {
		return err
	}

	created := seeder.Seed(roster)
	if created == 0 {
		fmt.Fprintln(out, "No accounts created: users already exist or storage is unavailable.")
		return nil
	}
	fmt.Fprintf(out, "Created %d accounts with the roster password.\n", created)
	fmt.Fprintln(out, "Every account must change its password on first login.")
	return nil
}
