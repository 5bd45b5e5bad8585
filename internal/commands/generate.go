package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"creatorflow/internal/ai"
	"creatorflow/internal/model"
)

// generateOptions are shared by the generator subcommands.
type generateOptions struct {
	ro  *rootOptions
	raw bool
}

func addGenerate(topLevel *cobra.Command, ro *rootOptions) {
	gro := &generateOptions{ro: ro}
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate ideas, captions, hashtags and rewrites with Gemini.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVar(&gro.raw, "raw", false, "Print markdown without terminal styling")

	addIdeas(cmd, gro)
	addCaption(cmd, gro)
	addHashtags(cmd, gro)
	addRepurpose(cmd, gro)
	addBrandVoice(cmd, gro)
	topLevel.AddCommand(cmd)
}

// run loads the service, calls fn and prints the markdown it returns.
func (gro *generateOptions) run(cmd *cobra.Command, fn func(context.Context, *ai.Service) (string, error)) error {
	cfg, err := gro.ro.loadConfig()
	if err != nil {
		return err
	}
	svc, err := newAI(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	md, err := fn(cmd.Context(), svc)
	if err != nil {
		return errors.New(ai.FriendlyError(err))
	}
	return printMarkdown(cmd.OutOrStdout(), md, gro.raw)
}

func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// readSource returns the flag value, or stdin when it is "-".
func readSource(v string, stdin io.Reader) (string, error) {
	if v != "-" {
		return v, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func addIdeas(topLevel *cobra.Command, gro *generateOptions) {
	var niche, platform, goal, tone string
	cmd := &cobra.Command{
		Use:   "ideas NICHE",
		Short: "Brainstorm five content ideas.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			niche = args[0]
			return gro.run(cmd, func(ctx context.Context, svc *ai.Service) (string, error) {
				ideas, err := svc.GenerateIdeas(ctx, niche, platform, goal, tone)
				if err != nil {
					return "", err
				}
				return ideasMarkdown(niche, ideas), nil
			})
		},
	}
	cmd.Flags().StringVar(&platform, "platform", string(model.Instagram), "Target platform")
	cmd.Flags().StringVar(&goal, "goal", "engagement", "Campaign goal")
	cmd.Flags().StringVar(&tone, "tone", "friendly", "Tone of voice")
	topLevel.AddCommand(cmd)
}

func addCaption(topLevel *cobra.Command, gro *generateOptions) {
	var platform, tone, extra string
	cmd := &cobra.Command{
		Use:   "caption TOPIC",
		Short: "Write a caption for a post.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			return gro.run(cmd, func(ctx context.Context, svc *ai.Service) (string, error) {
				return svc.GenerateCaption(ctx, topic, platform, tone, extra)
			})
		},
	}
	cmd.Flags().StringVar(&platform, "platform", string(model.Instagram), "Target platform")
	cmd.Flags().StringVar(&tone, "tone", "friendly", "Tone of voice")
	cmd.Flags().StringVar(&extra, "context", "", "Extra context for the caption")
	topLevel.AddCommand(cmd)
}

func addHashtags(topLevel *cobra.Command, gro *generateOptions) {
	cmd := &cobra.Command{
		Use:   "hashtags TOPIC",
		Short: "Suggest grouped hashtags.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			return gro.run(cmd, func(ctx context.Context, svc *ai.Service) (string, error) {
				groups, err := svc.GenerateHashtags(ctx, topic)
				if err != nil {
					return "", err
				}
				return hashtagsMarkdown(topic, groups), nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addRepurpose(topLevel *cobra.Command, gro *generateOptions) {
	var (
		content    string
		sourceType string
		targets    []string
	)
	cmd := &cobra.Command{
		Use:   "repurpose",
		Short: "Rewrite long-form content for other platforms.",
		Example: `
creatorflow generate repurpose --content - --to Twitter --to LinkedIn < post.md
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(content, os.Stdin)
			if err != nil {
				return err
			}
			if strings.TrimSpace(src) == "" {
				return errors.New("content is required")
			}
			platforms := make([]model.Platform, 0, len(targets))
			for _, t := range targets {
				p, err := model.ParsePlatform(t)
				if err != nil {
					return err
				}
				platforms = append(platforms, p)
			}
			return gro.run(cmd, func(ctx context.Context, svc *ai.Service) (string, error) {
				out, err := svc.Repurpose(ctx, src, sourceType, platforms)
				if err != nil {
					return "", err
				}
				return repurposeMarkdown(platforms, out), nil
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "-", "Source text, - for stdin")
	cmd.Flags().StringVar(&sourceType, "source-type", "blog post", "What the source is")
	cmd.Flags().StringArrayVar(&targets, "to", []string{string(model.Twitter), string(model.LinkedIn)}, "Target platform (repeatable)")
	topLevel.AddCommand(cmd)
}

func addBrandVoice(topLevel *cobra.Command, gro *generateOptions) {
	var samples string
	cmd := &cobra.Command{
		Use:   "brand-voice",
		Short: "Describe the voice of sample posts.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(samples, os.Stdin)
			if err != nil {
				return err
			}
			if strings.TrimSpace(src) == "" {
				return errors.New("samples are required")
			}
			return gro.run(cmd, func(ctx context.Context, svc *ai.Service) (string, error) {
				voice, err := svc.AnalyzeBrandVoice(ctx, src)
				if err != nil {
					return "", err
				}
				return brandVoiceMarkdown(voice), nil
			})
		},
	}
	cmd.Flags().StringVar(&samples, "samples", "-", "Sample posts, - for stdin")
	topLevel.AddCommand(cmd)
}

func ideasMarkdown(niche string, ideas []ai.ContentIdea) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ideas for %s\n\n", niche)
	if len(ideas) == 0 {
		b.WriteString("_No ideas returned._\n")
	}
	for i, idea := range ideas {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, idea.Title)
		fmt.Fprintf(&b, "**Hook:** %s\n\n", idea.Hook)
		fmt.Fprintf(&b, "*%s, %s*\n\n", idea.Format, idea.Difficulty)
		fmt.Fprintf(&b, "%s\n\n", idea.Description)
	}
	return b.String()
}

func hashtagsMarkdown(topic string, groups []ai.HashtagGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Hashtags for %s\n\n", topic)
	for _, g := range groups {
		fmt.Fprintf(&b, "## %s\n\n", g.Name)
		fmt.Fprintf(&b, "Relevance %.0f%%, competition %s\n\n", g.Relevance, g.Competition)
		fmt.Fprintf(&b, "`%s`\n\n", strings.Join(g.Tags, " "))
	}
	return b.String()
}

func repurposeMarkdown(order []model.Platform, out map[string]string) string {
	var b strings.Builder
	for _, p := range order {
		text, ok := out[string(p)]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", p, text)
	}
	return b.String()
}

func brandVoiceMarkdown(v *ai.BrandVoiceAnalysis) string {
	if v == nil {
		return "_No analysis returned._\n"
	}
	var b strings.Builder
	b.WriteString("# Brand voice\n\n")
	if len(v.Descriptors) > 0 {
		fmt.Fprintf(&b, "**%s**\n\n", strings.Join(v.Descriptors, " · "))
	}
	fmt.Fprintf(&b, "%s\n\n", v.StyleGuide)
	writeList(&b, "Do", v.Dos)
	writeList(&b, "Don't", v.Donts)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
