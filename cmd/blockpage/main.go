package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/eringen/blockpage"
	"github.com/eringen/blockpage/blocks"
	"github.com/eringen/blockpage/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		serve()
	case "render":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: blockpage render <page.yaml>")
			os.Exit(1)
		}
		if err := render(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("blockpage %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func serve() {
	ttl, err := time.ParseDuration(blockpage.EnvOr("PAGE_CACHE_TTL", "5m"))
	if err != nil {
		log.Fatalf("blockpage: invalid PAGE_CACHE_TTL: %v", err)
	}
	cfg := blockpage.SiteConfig{
		Name:          blockpage.EnvOr("SITE_NAME", "Site"),
		URL:           blockpage.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Addr:          blockpage.EnvOr("ADDR", ":3000"),
		DatabasePath:  blockpage.EnvOr("DATABASE_PATH", "data/pages.db"),
		LocalPagesDir: blockpage.EnvOr("LOCAL_PAGES_DIR", "content/pages"),
		AdminPassword: blockpage.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: blockpage.MustEnv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE"),
		TrustedHTML:   envBool("TRUSTED_HTML"),
		PageCacheTTL:  ttl,
	}

	app := blockpage.New(cfg, views.New(cfg),
		blockpage.WithStaticDir(blockpage.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// render prints the block fragment of a YAML page document.
func render(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := blockpage.ParseLocalPage(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, blocks.Render(p.Blocks))
	return err
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func printUsage() {
	fmt.Println(`blockpage - a block-based page engine built with Go, Echo, and templ

Usage:
  blockpage [command] [arguments]

Commands:
  serve             Start the server (default)
  render <file>     Print the rendered blocks of a YAML page
  version           Print the blockpage version
  help              Show this help message

Environment:
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, ADDR, DATABASE_PATH,
  LOCAL_PAGES_DIR, STATIC_DIR, ADMIN_PASSWORD, SESSION_SECRET,
  COOKIE_SECURE, TRUSTED_HTML, PAGE_CACHE_TTL`)
}
