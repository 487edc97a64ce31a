// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridianhealth/portal/pkg/blog"
	"github.com/meridianhealth/portal/pkg/datatypes"
)

var (
	blogTitle   string
	blogExcerpt string
	blogBody    string
	blogTags    []string
)

var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "Read the health blog",
	Long: `The health blog is public: anyone can list and read posts without
logging in. Staff can publish new posts.

Examples:
  portal blog list
  portal blog read cycle-health-basics
  portal blog publish --title "..." --body "..."`,
}

var blogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/blog"); err != nil {
			return err
		}
		posts, err := blog.NewClient(portal.gw).List(cmd.Context())
		if err != nil {
			return err
		}

		headerf("Health Blog")
		if len(posts) == 0 {
			mutedf("  Nothing published yet.")
			return nil
		}
		for _, p := range posts {
			fmt.Printf("  %s  %s\n", render(styleLabel, p.Slug), p.Title)
			if p.Excerpt != "" {
				mutedf("      %s", p.Excerpt)
			}
		}
		return nil
	},
}

var blogReadCmd = &cobra.Command{
	Use:   "read <slug>",
	Short: "Read one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/blog"); err != nil {
			return err
		}
		p, err := blog.NewClient(portal.gw).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		headerf("%s", p.Title)
		mutedf("by %s, %s", p.Author, p.PublishedAt.Format("January 2, 2006"))
		fmt.Println()
		fmt.Println(p.Body)
		if len(p.Tags) > 0 {
			mutedf("tags: %s", strings.Join(p.Tags, ", "))
		}
		return nil
	},
}

var blogPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a new post (staff)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/blog/manage"); err != nil {
			return err
		}
		p, err := blog.NewClient(portal.gw).Publish(cmd.Context(), datatypes.CreateBlogPostRequest{
			Title:   blogTitle,
			Excerpt: blogExcerpt,
			Body:    blogBody,
			Tags:    blogTags,
		})
		if err != nil {
			return err
		}
		successf("Published %q as %s.", p.Title, p.Slug)
		return nil
	},
}

func init() {
	blogPublishCmd.Flags().StringVar(&blogTitle, "title", "", "Post title (required)")
	blogPublishCmd.Flags().StringVar(&blogExcerpt, "excerpt", "", "Short excerpt shown in lists")
	blogPublishCmd.Flags().StringVar(&blogBody, "body", "", "Post body (required)")
	blogPublishCmd.Flags().StringSliceVar(&blogTags, "tag", nil, "Tags (repeatable)")
	_ = blogPublishCmd.MarkFlagRequired("title")
	_ = blogPublishCmd.MarkFlagRequired("body")

	blogCmd.AddCommand(blogListCmd)
	blogCmd.AddCommand(blogReadCmd)
	blogCmd.AddCommand(blogPublishCmd)
}
