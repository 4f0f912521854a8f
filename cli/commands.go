package cli

import (
	"fmt"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/spf13/cobra"
)

func NewHabitsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				habits, err := tr.ListHabits(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), habits)
			})
		},
	}

	var in services.HabitInput
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				h, err := tr.CreateHabit(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), h)
			})
		},
	}
	add.Flags().StringVar(&in.Description, "description", "", "habit description")
	add.Flags().StringVar(&in.Category, "category", "", "habit category (health, productivity, ...)")
	add.Flags().StringVar((*string)(&in.Frequency), "frequency", "", "daily|weekly|scheduled")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Per-habit completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				s, err := tr.HabitStats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s)
			})
		},
	}

	cmd.AddCommand(add, stats)
	return cmd
}

func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <habit-id>",
		Short: "Toggle a habit's completion for today and print the rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				res, err := tr.CompleteHabit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show points, level and earned achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				view, err := tr.Profile(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

func NewAchievementsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		f       services.CatalogFilter
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List the achievement catalog with earned flags and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				if summary {
					s, err := tr.AchievementSummary(cmd.Context())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), s)
				}
				views, err := tr.ListAchievements(cmd.Context(), f)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "match title or description")
	cmd.Flags().StringVar((*string)(&f.Category), "category", "", "streak|milestone|special|social")
	cmd.Flags().StringVar((*string)(&f.Rarity), "rarity", "", "common|rare|epic|legendary")
	cmd.Flags().BoolVar(&summary, "summary", false, "print the earned summary instead")
	return cmd
}

func NewGoalsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		q      services.GoalQuery
		status string
		sortBy string
	)
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Status = services.GoalStatus(status)
			q.Sort = services.GoalSort(sortBy)
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				goals, err := tr.ListGoals(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), goals)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", string(services.GoalStatusAll), "all|active|completed")
	cmd.Flags().StringVar(&q.Search, "search", "", "match title, description or category")
	cmd.Flags().StringVar(&sortBy, "sort", "", "date|progress|title")
	cmd.Flags().BoolVar(&q.Desc, "desc", false, "reverse the sort order")

	var in services.GoalInput
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				g, err := tr.CreateGoal(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), g)
			})
		},
	}
	add.Flags().StringVar(&in.Description, "description", "", "goal description")
	add.Flags().StringVar(&in.TargetDate, "target", "", "target date, YYYY-MM-DD or RFC 3339")
	add.Flags().StringVar(&in.Category, "category", "", "goal category")
	add.Flags().StringSliceVar(&in.HabitIDs, "habit", nil, "habit id to link (repeatable)")

	progress := &cobra.Command{
		Use:   "progress <goal-id>",
		Short: "Show a goal's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				p, err := tr.GoalProgress(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	link := &cobra.Command{
		Use:   "link <goal-id> <habit-id>",
		Short: "Attach a habit to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd.Context(), rootOpts, func(tr *services.Tracker) error {
				ok, err := tr.AttachHabit(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]bool{"attached": ok})
			})
		},
	}

	cmd.AddCommand(add, progress, link)
	return cmd
}

func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with API_TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := rootOpts.cfg.Auth.TokenSecret
			if secret == "" {
				return fmt.Errorf("API_TOKEN_SECRET is not set")
			}
			tok, err := utils.GenerateToken([]byte(secret), subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime, 0 for none")
	return cmd
}

