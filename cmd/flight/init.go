package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flight/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		name string
		cfg  templates.Config
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new blog project",
		Long: `Create a new blog project in dir (default: the current directory).

Templates:
  blog   posts in a local directory, live reload enabled
  s3     posts in an S3 bucket, metrics and JSON logs enabled
  split  a wire server and an HTML tier proxying it

Examples:
  flight init my-blog
  flight init my-blog --title "Field notes" --author "Ana"
  flight init . --template s3 --bucket my-blog --region eu-west-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			tmpl, err := templates.Get(name)
			if err != nil {
				return err
			}
			if err := tmpl.Create(dir, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s project in %s\n", tmpl.Name, dir)
			for _, p := range tmpl.Paths() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			next := "flight serve"
			if tmpl.Name == "split" {
				next = "flight serve -c wire/flight.json & flight serve -c html/flight.json"
			}
			if dir != "." {
				next = "cd " + dir + " && " + next
			}
			fmt.Fprintf(out, "\nNext: %s\n", next)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "template", "t", "blog", "Project template: "+strings.Join(templates.List(), ", "))
	flags.StringVar(&cfg.Title, "title", "", "Site title")
	flags.StringVar(&cfg.Author, "author", "", "Footer author")
	flags.StringVar(&cfg.Address, "addr", "", "Listen address")
	flags.StringVar(&cfg.Bucket, "bucket", "", "S3 bucket (s3 template)")
	flags.StringVar(&cfg.Region, "region", "", "S3 region (s3 template)")
	return cmd
}
