package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/term"
)

const commandTimeout = 30 * time.Second

func (a *app) dispatch(name string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch name {
	case "feed":
		return a.cmdFeed(ctx, os.Stdout, args)
	case "comments":
		return a.cmdComments(ctx, os.Stdout, args)
	case "post":
		return a.cmdPost(ctx, os.Stdout, args)
	case "like":
		return a.cmdLike(ctx, os.Stdout, args, true)
	case "unlike":
		return a.cmdLike(ctx, os.Stdout, args, false)
	case "search":
		return a.cmdSearch(os.Stdout, args)
	case "prune":
		return a.cmdPrune(os.Stdout, args)
	case "avatar":
		return a.cmdAvatar(os.Stdout, args)
	case "reset":
		if err := a.store.InvalidateAll(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Local cache cleared")
		return nil
	default:
		return fmt.Errorf("unknown command %q (see reel -h)", name)
	}
}

func (a *app) cmdFeed(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	category := fs.String("category", string(a.defaultCategory()), "recommend, following or nearby")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", a.cfg.Feed.PageSize, "page size")
	refresh := fs.Bool("refresh", false, "bypass the cached first page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := domain.ParseCategory(*category)
	if err != nil {
		return err
	}

	p, err := a.videos.ListVideos(ctx, c, *page, *size, *refresh)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s page %d (%s, %d videos)\n", c.DisplayName(), *page, p.Origin, len(p.Items))
	for _, v := range p.Items {
		heart := " "
		if v.Liked {
			heart = "♥"
		}
		fmt.Fprintf(w, "%s %-36s %7s  %s  @%s\n", heart, v.ID, domain.FormatCount(v.LikeCount), v.Title, v.AuthorName)
	}
	if p.HasMore {
		fmt.Fprintf(w, "more: reel feed -category %s -page %d\n", c, p.NextPage)
	}
	return nil
}

func (a *app) cmdComments(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("comments", flag.ContinueOnError)
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", a.cfg.Feed.PageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: reel comments [-page n] <video-id>")
	}

	p, err := a.comments.ListComments(ctx, fs.Arg(0), *page, *size)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d comments (%s)\n", len(p.Items), p.Origin)
	for _, c := range p.Items {
		ts := time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s  %s: %s\n", ts, c.UserName, c.Content)
	}
	return nil
}

func (a *app) cmdPost(ctx context.Context, w io.Writer, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: reel post <video-id> <text...>")
	}
	content := strings.Join(args[1:], " ")
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyComment
	}

	c, err := a.comments.PostComment(ctx, args[0], content, a.profile.Author())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Posted %s as %s\n", c.ID, c.UserName)
	return nil
}

func (a *app) cmdLike(ctx context.Context, w io.Writer, args []string, liked bool) error {
	if len(args) != 1 {
		return errors.New("usage: reel like|unlike <video-id>")
	}
	if err := a.videos.SetLiked(ctx, args[0], liked); err != nil {
		return err
	}
	if v, ok := a.videos.GetVideo(args[0]); ok {
		fmt.Fprintf(w, "%s now has %s likes\n", v.Title, domain.FormatCount(v.LikeCount))
		return nil
	}
	fmt.Fprintln(w, "Done (video not cached locally)")
	return nil
}

func (a *app) cmdSearch(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	byAuthor := fs.Bool("author", false, "match author names instead of titles")
	limit := fs.Int("limit", 20, "maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if query == "" {
		return errors.New("usage: reel search [-author] <query>")
	}

	if *byAuthor {
		videos, err := a.search.ByAuthor(query)
		if err != nil {
			return err
		}
		for i, v := range videos {
			if *limit > 0 && i >= *limit {
				break
			}
			fmt.Fprintf(w, "%-36s @%s  %s\n", v.ID, v.AuthorName, v.Title)
		}
		return nil
	}

	results, err := a.search.Search(query, *limit)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(w, "%-36s %-9s %s\n", r.Video.ID, r.Video.Category, r.Video.Title)
	}
	return nil
}

func (a *app) cmdPrune(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("prune", flag.ContinueOnError)
	maxAge := fs.Duration("max-age", a.cfg.Cache.MaxAge, "drop videos older than this")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *maxAge <= 0 {
		return errors.New("max-age must be positive")
	}

	n, err := a.videos.PruneCache(*maxAge)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Pruned %d videos\n", n)
	return nil
}

func (a *app) cmdAvatar(w io.Writer, args []string) error {
	switch {
	case len(args) == 0:
		if uri, ok := a.profile.Avatar(); ok {
			fmt.Fprintln(w, uri)
		} else {
			fmt.Fprintln(w, "No avatar set")
		}
		return nil
	case args[0] == "set" && len(args) == 2:
		uri, err := a.profile.SetAvatar(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Avatar set to %s\n", uri)
		return nil
	case args[0] == "clear" && len(args) == 1:
		return a.profile.ClearAvatar()
	default:
		return errors.New("usage: reel avatar [set <uri|path> | clear]")
	}
}

// runSetup prompts for the server and identity and writes the config file.
func runSetup(cfg *adapter.Config, configFile string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println()

	suggested := cfg.Server.URL
	if suggested == "" {
		suggested = adapter.DefaultServerURL
	}
	url, err := prompt(reader, fmt.Sprintf("API server URL [%s]: ", suggested))
	if err != nil {
		return err
	}
	if url == "" {
		url = suggested
	}
	cfg.Server.URL = url

	fmt.Print("API token (optional, hidden): ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token := strings.TrimSpace(string(tokenBytes)); token != "" {
		cfg.Server.Token = token
	}

	name, err := prompt(reader, "Display name for comments (optional): ")
	if err != nil {
		return err
	}
	if name != "" {
		cfg.Profile.UserName = name
	}

	if err := adapter.SaveConfig(cfg, configFile); err != nil {
		return err
	}
	fmt.Println("✓ Configuration saved")
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}
