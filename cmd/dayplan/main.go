package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dayplan/dayplan-client/chat"
	"github.com/dayplan/dayplan-client/client"
	"github.com/dayplan/dayplan-client/internal/config"
	"github.com/dayplan/dayplan-client/remind"
	"github.com/dayplan/dayplan-client/store"
	"github.com/dayplan/dayplan-client/sync"
	"github.com/dayplan/dayplan-client/views"
)

var serviceURL string
var debug bool

const requestTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dayplan",
		Short: "Dayplan CLI for managing tasks and chatting with the assistant",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				os.Setenv("DAYPLAN_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := config.Load().ServiceURL
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", defaultURL, "Base URL of the Dayplan task service")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newDoneCmd())
	rootCmd.AddCommand(newUndoneCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newRemindCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newConversationsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// app bundles the SDK pieces a command needs.
type app struct {
	remote *client.Client
	store  *store.Store
	tasks  *sync.TaskService
}

func newApp() *app {
	cfg := config.Load()
	opts := []client.Option{}
	if cfg.AuthToken != "" {
		opts = append(opts, client.WithAuthToken(cfg.AuthToken))
	}
	rc := client.New(serviceURL, opts...)
	st := store.New()
	return &app{remote: rc, store: st, tasks: sync.NewTaskService(rc, st)}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func filterFlags(cmd *cobra.Command, f *client.Filters, s *client.Sort) {
	cmd.Flags().StringVar(&f.Search, "search", "", "Substring to match against descriptions")
	cmd.Flags().StringVar((*string)(&f.Status), "status", "all", "all | completed | incomplete")
	cmd.Flags().StringVar((*string)(&f.Priority), "priority", "all", "all | high | medium | low")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "Only tasks carrying this tag")
	cmd.Flags().StringVar((*string)(&s.Field), "sort", "createdAt", "dueDate | priority | alphabetical | createdAt")
	cmd.Flags().StringVar((*string)(&s.Direction), "dir", "desc", "asc | desc")
}

func newListCmd() *cobra.Command {
	var filters client.Filters
	var srt client.Sort

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			page, err := a.tasks.Tasks(ctx, filters, srt)
			if err != nil {
				return err
			}
			visible := views.Apply(page.Tasks, filters, srt)
			completed, total, percent := views.Progress(visible)
			log.Info().Int("completed", completed).Int("total", total).Int("percent", percent).Msg("tasks")
			return printJSON(visible)
		},
	}
	filterFlags(cmd, &filters, &srt)
	return cmd
}

func newAddCmd() *cobra.Command {
	var req client.CreateTaskRequest
	var priority, recurrence, dueDate, dueTime string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Description = args[0]
			req.Priority = client.Priority(priority)
			req.Recurrence = client.Recurrence(recurrence)
			if dueDate != "" {
				req.DueDate = &dueDate
			}
			if dueTime != "" {
				req.DueTime = &dueTime
			}

			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			task, err := a.tasks.Create(ctx, client.Filters{}, client.Sort{}, req)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "", "high | medium | low")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueTime, "at", "", "Due time (HH:MM), requires --due")
	cmd.Flags().StringVar(&recurrence, "repeat", "", "none | daily | weekly | monthly")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var description, priority, dueDate, dueTime, recurrence string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply a partial update to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateTaskRequest
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p := client.Priority(priority)
				req.Priority = &p
			}
			if cmd.Flags().Changed("tag") {
				req.Tags = tags
			}
			if cmd.Flags().Changed("due") {
				req.DueDate = &dueDate
			}
			if cmd.Flags().Changed("at") {
				req.DueTime = &dueTime
			}
			if cmd.Flags().Changed("repeat") {
				r := client.Recurrence(recurrence)
				req.Recurrence = &r
			}

			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			task, err := a.tasks.Update(ctx, client.Filters{}, client.Sort{}, args[0], req)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "high | medium | low")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replacement tag set (repeatable)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueTime, "at", "", "Due time (HH:MM)")
	cmd.Flags().StringVar(&recurrence, "repeat", "", "none | daily | weekly | monthly")
	return cmd
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			res, err := a.tasks.Complete(ctx, client.Filters{}, client.Sort{}, args[0])
			if err != nil {
				return err
			}
			if res.NextOccurrence != nil {
				log.Info().Str("next_id", res.NextOccurrence.ID).Msg("recurring task, next occurrence created")
			}
			return printJSON(res)
		},
	}
}

func newUndoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undone <id>",
		Short: "Revert a task to not-completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			task, err := a.tasks.Incomplete(ctx, client.Filters{}, client.Sort{}, args[0])
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := a.tasks.Delete(ctx, client.Filters{}, client.Sort{}, args[0]); err != nil {
				if client.IsNotFound(err) {
					log.Warn().Str("id", args[0]).Msg("task already removed")
					return nil
				}
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func newCalendarCmd() *cobra.Command {
	var view, date string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show tasks bucketed by day for a month or week view",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if date != "" {
				parsed, err := time.Parse(views.DayFormat, date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				ref = parsed
			}

			var r views.Range
			switch view {
			case "month":
				r = views.MonthRange(ref)
			case "week":
				r = views.WeekRange(ref)
			default:
				return fmt.Errorf("--view must be month or week")
			}

			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			page, err := a.tasks.Tasks(ctx, client.Filters{}, client.Sort{})
			if err != nil {
				return err
			}

			buckets := views.BucketByDay(views.VisibleTasks(page.Tasks, r))
			days := make([]string, 0, len(buckets))
			for day := range buckets {
				days = append(days, day)
			}
			sort.Strings(days)
			for _, day := range days {
				fmt.Println(day)
				for _, t := range buckets[day] {
					marker := " "
					if t.Completed {
						marker = "x"
					}
					fmt.Printf("  [%s] %s (%s)\n", marker, t.Description, t.Priority)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "month", "month | week")
	cmd.Flags().StringVar(&date, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Arm reminders for upcoming tasks and print them as they fire",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := remind.LoadConfig()
			if err != nil {
				return err
			}

			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			page, err := a.tasks.Tasks(ctx, client.Filters{Status: client.StatusIncomplete}, client.Sort{})
			cancel()
			if err != nil {
				return err
			}

			// Buffered so a timer goroutine never blocks if we bail out early.
			fired := make(chan remind.Reminder, len(page.Tasks))
			sched := remind.NewScheduler(cfg, func(r remind.Reminder) { fired <- r })
			defer sched.Stop()

			armed := 0
			for _, t := range page.Tasks {
				if t.ReminderTime == nil {
					continue
				}
				if sched.Schedule(t.ID, *t.ReminderTime, t.Description) {
					armed++
				}
			}
			if armed == 0 {
				fmt.Println("no upcoming reminders")
				return nil
			}
			log.Info().Int("armed", armed).Msg("reminders armed, waiting")

			for armed > 0 {
				select {
				case r := <-fired:
					fmt.Printf("%s  %s (%s)\n", r.At.Format("2006-01-02 15:04"), r.Description, r.TaskID)
					armed--
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var session *chat.Session
			if conversationID != "" {
				session = chat.ResumeSession(a.remote, a.store, conversationID)
			} else {
				session = chat.NewSession(a.remote, a.store)
			}

			resp, err := session.Send(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Response)
			if len(resp.ToolResults) > 0 {
				log.Info().Int("tool_results", len(resp.ToolResults)).Msg("assistant modified tasks")
			}
			log.Info().Str("conversation_id", session.ConversationID()).Msg("reply received")
			return nil
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "Continue an existing conversation")
	return cmd
}

func newConversationsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List conversation summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			list, err := a.remote.ListConversations(ctx, limit)
			if err != nil {
				return err
			}
			return printJSON(list)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum summaries to return")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Show a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			session := chat.ResumeSession(a.remote, a.store, args[0]).WithHistoryLimit(limit)
			msgs, err := session.Messages(ctx)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("%s  %-9s %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Role, m.Content)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum messages to return")
	return cmd
}
