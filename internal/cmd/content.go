package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/app"
)

// withSession runs op under the session's refresh-and-retry policy.
func withSession(ctx context.Context, env *app.Env, op func(context.Context) error) error {
	return env.Session.Do(ctx, op)
}

func courseRows(courses []api.Course) [][]string {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{itoa(c.ID), c.Title, c.Level, itoa(c.LessonCount), yesNo(c.IsPremium)})
	}
	return rows
}

var courseHeaders = []string{"ID", "Title", "Level", "Lessons", "Premium"}

func newCoursesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List published courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			courses, err := env.Client.PublicCourses(cmd.Context())
			if err != nil {
				return err
			}
			return o.output(cmd.OutOrStdout(), courses, courseHeaders, courseRows(courses))
		},
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List the courses you are enrolled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			var courses []api.Course
			err = withSession(cmd.Context(), env, func(ctx context.Context) error {
				v, err := env.Client.MyCourses(ctx)
				courses = v
				return err
			})
			if err != nil {
				return err
			}
			return o.output(cmd.OutOrStdout(), courses, courseHeaders, courseRows(courses))
		},
	}

	structure := &cobra.Command{
		Use:   "structure <course-id>",
		Short: "Show a course's chapters and lessons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid course id %q", args[0])
			}
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			var cs *api.CourseStructure
			err = withSession(cmd.Context(), env, func(ctx context.Context) error {
				v, err := env.Client.CourseStructure(ctx, id)
				cs = v
				return err
			})
			if err != nil {
				return err
			}
			if o.jsonOut {
				return printJSON(cmd.OutOrStdout(), cs)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", cs.Title)
			if cs.ShortDescription != "" {
				fmt.Fprintf(w, "%s\n", cs.ShortDescription)
			}
			for _, ch := range cs.Chapters {
				fmt.Fprintf(w, "\n%d. %s\n", ch.OrderIndex, ch.Title)
				for _, l := range ch.Lessons {
					fmt.Fprintf(w, "   %d.%d %-40s %s\n", ch.OrderIndex, l.OrderIndex, l.Title, l.ContentType)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(list, mine, structure)
	return cmd
}

func newBlogCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Read the blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var page, perPage int
	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List published posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			filter := api.BlogFilter{Search: strings.TrimSpace(search)}
			if page > 0 {
				filter.Page = &page
			}
			if perPage > 0 {
				filter.PerPage = &perPage
			}
			res, err := env.Client.BlogPosts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(res.Posts))
			for _, p := range res.Posts {
				published := ""
				if p.PublishedAt != nil {
					published = p.PublishedAt.Format("2006-01-02")
				}
				rows = append(rows, []string{p.Slug, p.Title, published, itoa(p.ReadingTimeMinutes) + " min"})
			}
			if err := o.output(cmd.OutOrStdout(), res, []string{"Slug", "Title", "Published", "Reading"}, rows); err != nil {
				return err
			}
			if !o.jsonOut && res.Pages > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d posts)\n", res.Page, res.Pages, res.Total)
			}
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 0, "page number")
	list.Flags().IntVar(&perPage, "per-page", 0, "posts per page")
	list.Flags().StringVar(&search, "search", "", "search text")

	get := &cobra.Command{
		Use:   "get <slug>",
		Short: "Print one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			post, err := env.Client.BlogPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if o.jsonOut {
				return printJSON(cmd.OutOrStdout(), post)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n%s\n\n", post.Title, strings.Repeat("=", len([]rune(post.Title))))
			if post.Excerpt != "" {
				fmt.Fprintf(w, "%s\n\n", post.Excerpt)
			}
			fmt.Fprintln(w, post.Content)
			return nil
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newUsersCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var role string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			filter := api.UserFilter{RoleName: role}
			if limit > 0 {
				filter.Limit = &limit
			}
			var users []api.AuthUser
			err = withSession(cmd.Context(), env, func(ctx context.Context) error {
				v, err := env.Client.Users(ctx, filter)
				users = v
				return err
			})
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{itoa(u.ID), u.Name, u.Email, u.RoleName, yesNo(u.HasPremiumAccess), yesNo(u.IsActive)})
			}
			return o.output(cmd.OutOrStdout(), users, []string{"ID", "Name", "Email", "Role", "Premium", "Active"}, rows)
		},
	}
	list.Flags().StringVar(&role, "role", "", "only this role (admin, alumno)")
	list.Flags().IntVar(&limit, "limit", 0, "maximum accounts to return")

	cmd.AddCommand(list)
	return cmd
}
