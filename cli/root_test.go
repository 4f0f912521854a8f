package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "habits", "complete", "profile", "achievements", "goals", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

// useSQLite направляет все команды теста в один файл SQLite.
func useSQLite(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "habits.db"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "app.log"))
	t.Setenv("LOG_MODE", "prod")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestHabitCompletionThroughCLI(t *testing.T) {
	useSQLite(t)

	var h struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "habits", "add", "Exercise", "--category", "health")), &h))
	assert.Equal(t, "Exercise", h.Name)

	var res struct {
		NewAchievements []struct {
			ID string `json:"id"`
		} `json:"newAchievements"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "complete", h.ID)), &res))
	require.Len(t, res.NewAchievements, 1)
	assert.Equal(t, "first_habit", res.NewAchievements[0].ID)

	var view struct {
		Profile struct {
			Points int `json:"points"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "profile")), &view))
	assert.Equal(t, 60, view.Profile.Points)

	var sum struct {
		Earned int `json:"earned"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "achievements", "--summary")), &sum))
	assert.Equal(t, 1, sum.Earned)
}

func TestGoalsThroughCLI(t *testing.T) {
	useSQLite(t)

	var g struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "goals", "add", "Read 12 books", "--target", "2099-01-01")), &g))

	var ok map[string]bool
	require.NoError(t, json.Unmarshal([]byte(run(t, "goals", "link", g.ID, "h1")), &ok))
	assert.True(t, ok["attached"])

	var goals []struct {
		ID       string   `json:"id"`
		HabitIDs []string `json:"habitIds"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "goals", "--status", "active")), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, []string{"h1"}, goals[0].HabitIDs)
}

func TestTokenCommand(t *testing.T) {
	useSQLite(t)
	t.Setenv("API_TOKEN_SECRET", "secret")

	tok := strings.TrimSpace(run(t, "token", "--subject", "ci"))
	subject, err := utils.ParseToken([]byte("secret"), tok)
	require.NoError(t, err)
	assert.Equal(t, "ci", subject)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	useSQLite(t)
	t.Setenv("API_TOKEN_SECRET", "")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"token"})
	assert.Error(t, cmd.Execute())
}
