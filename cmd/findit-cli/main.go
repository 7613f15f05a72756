// Command findit-cli is a terminal client for a findit server. It keeps the
// session token under the user config directory, so a login survives between
// invocations until it expires or is revoked.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/findithq/findit/internal/client"
	"github.com/findithq/findit/internal/filter"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/session"
)

const defaultServer = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = cmdRegister(args)
	case "login":
		err = cmdLogin(args)
	case "logout":
		err = cmdLogout(args)
	case "whoami":
		err = cmdWhoami(args)
	case "items":
		err = cmdItems(args)
	case "report":
		err = cmdReport(args)
	case "categories":
		err = cmdCategories(args)
	case "item-status":
		err = cmdItemStatus(args)
	case "item-delete":
		err = cmdItemDelete(args)
	case "users":
		err = cmdUsers(args)
	case "user-admin":
		err = cmdUserAdmin(args)
	case "category-add":
		err = cmdCategoryAdd(args)
	case "category-delete":
		err = cmdCategoryDelete(args)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stdout, `Usage: findit-cli <command> [flags]

Commands:
  register          create an account and sign in
  login             sign in
  logout            sign out
  whoami            show the signed-in profile
  items             list items, with optional filters
  report            report a lost or found item
  categories        list categories
  item-status       change an item's status
  item-delete       delete an item (admin)
  users             list profiles (admin)
  user-admin        grant or revoke admin access (admin)
  category-add      add a category (admin)
  category-delete   delete a category (admin)

Every command accepts -server <url> (default `+defaultServer+`,
or the FINDIT_SERVER environment variable).
`)
}

// flagSet creates a subcommand flag set with the shared -server flag.
func flagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	def := defaultServer
	if env := os.Getenv("FINDIT_SERVER"); env != "" {
		def = env
	}
	server := fs.String("server", def, "server base URL")
	return fs, server
}

// newStore builds the API client and session store, restoring any persisted
// token. The returned snapshot reflects the restored state.
func newStore(server string) (*client.Client, *session.Store, error) {
	c := client.New(server)
	if token, err := loadToken(); err == nil && token != "" {
		c.SetToken(token)
	}

	store := session.New(c)
	if err := store.Restore(context.Background()); err != nil {
		// An unreachable server is not fatal: the command proceeds
		// anonymous and the persisted token is kept for the next attempt.
		fmt.Fprintf(os.Stderr, "Warning: could not verify session: %v\n", err)
	} else if c.Token() == "" {
		// The restore cleared an expired or revoked token.
		_ = clearToken()
	}
	return c, store, nil
}

// requireSignIn returns the current profile or an error telling the user to
// log in.
func requireSignIn(store *session.Store) (*model.Profile, error) {
	snap := store.Snapshot()
	if snap.Phase != session.PhaseAuthenticated {
		return nil, fmt.Errorf("not signed in, run: findit-cli login")
	}
	return snap.Profile, nil
}

func cmdRegister(args []string) error {
	fs, server := flagSet("register")
	email := fs.String("email", "", "email address")
	fullName := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("-email is required")
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}

	profile, err := store.SignUp(context.Background(), *email, password, *fullName, *phone)
	if err != nil {
		return err
	}
	if err := saveToken(c.Token()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Registered and signed in as %s\n", profile.Email)
	return nil
}

func cmdLogin(args []string) error {
	fs, server := flagSet("login")
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("-email is required")
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}

	profile, err := store.SignIn(context.Background(), *email, password)
	if err != nil {
		return err
	}
	if err := saveToken(c.Token()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Signed in as %s\n", profile.Email)
	if profile.IsAdmin {
		fmt.Println("You have admin access.")
	}
	return nil
}

func cmdLogout(args []string) error {
	fs, server := flagSet("logout")
	fs.Parse(args)

	_, store, err := newStore(*server)
	if err != nil {
		return err
	}

	// Always succeeds locally; a remote revocation failure is only logged.
	store.SignOut(context.Background())
	if err := clearToken(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Println("Signed out.")
	return nil
}

func cmdWhoami(args []string) error {
	fs, server := flagSet("whoami")
	fs.Parse(args)

	_, store, err := newStore(*server)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if snap.Phase != session.PhaseAuthenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	p := snap.Profile
	fmt.Printf("Email: %s\n", p.Email)
	if p.FullName != "" {
		fmt.Printf("Name:  %s\n", p.FullName)
	}
	if p.Phone != "" {
		fmt.Printf("Phone: %s\n", p.Phone)
	}
	fmt.Printf("Admin: %v\n", p.IsAdmin)
	return nil
}

func cmdItems(args []string) error {
	fs, server := flagSet("items")
	term := fs.String("term", "", "match against title, description, and location")
	kind := fs.String("kind", "", "lost or found")
	category := fs.String("category", "", "category id")
	status := fs.String("status", "", "open, matched, or closed")
	fs.Parse(args)

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	spec := filter.Spec{
		Term:       *term,
		Kind:       filter.ParseKind(*kind),
		CategoryID: *category,
		Status:     filter.ParseStatus(*status),
	}

	items, err := c.ListItems(context.Background(), spec)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No items found.")
		return nil
	}
	for _, item := range items {
		printItem(item)
	}
	fmt.Printf("%d item(s)\n", len(items))
	return nil
}

func cmdReport(args []string) error {
	fs, server := flagSet("report")
	kind := fs.String("kind", "lost", "lost or found")
	title := fs.String("title", "", "item title")
	description := fs.String("description", "", "item description")
	location := fs.String("location", "", "where it was lost or found")
	date := fs.String("date", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	category := fs.String("category", "", "category id")
	contact := fs.String("contact", "", "contact information")
	image := fs.String("image", "", "image URL")
	fs.Parse(args)

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	item, err := c.CreateItem(context.Background(), client.ItemInput{
		Kind:         *kind,
		Title:        *title,
		Description:  *description,
		Location:     *location,
		DateReported: *date,
		CategoryID:   *category,
		ContactInfo:  *contact,
		ImageURL:     *image,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Reported %s item %q (id %s)\n", item.Kind, item.Title, item.ID)
	return nil
}

func cmdCategories(args []string) error {
	fs, server := flagSet("categories")
	fs.Parse(args)

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	categories, err := c.ListCategories(context.Background())
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, cat := range categories {
		if cat.Description != "" {
			fmt.Printf("%s  %s - %s\n", cat.ID, cat.Name, cat.Description)
		} else {
			fmt.Printf("%s  %s\n", cat.ID, cat.Name)
		}
	}
	return nil
}

func cmdItemStatus(args []string) error {
	fs, server := flagSet("item-status")
	id := fs.String("id", "", "item id")
	status := fs.String("status", "", "open, matched, or closed")
	fs.Parse(args)

	if *id == "" || *status == "" {
		return fmt.Errorf("-id and -status are required")
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	item, err := c.UpdateItemStatus(context.Background(), *id, *status)
	if err != nil {
		return err
	}

	fmt.Printf("%q is now %s\n", item.Title, item.Status)
	return nil
}

func cmdItemDelete(args []string) error {
	fs, server := flagSet("item-delete")
	id := fs.String("id", "", "item id")
	yes := fs.Bool("y", false, "skip confirmation")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	if !*yes && !confirm(fmt.Sprintf("Delete item %s? This cannot be undone.", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := c.DeleteItem(context.Background(), *id); err != nil {
		return err
	}
	fmt.Println("Item deleted.")
	return nil
}

func cmdUsers(args []string) error {
	fs, server := flagSet("users")
	fs.Parse(args)

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	profiles, err := c.ListProfiles(context.Background())
	if err != nil {
		return err
	}

	for _, p := range profiles {
		role := "user"
		if p.IsAdmin {
			role = "admin"
		}
		fmt.Printf("%s  %-30s %-20s %s\n", p.ID, p.Email, p.DisplayName(), role)
	}
	return nil
}

func cmdUserAdmin(args []string) error {
	fs, server := flagSet("user-admin")
	id := fs.String("id", "", "profile id")
	grant := fs.Bool("grant", false, "grant admin access")
	revoke := fs.Bool("revoke", false, "revoke admin access")
	yes := fs.Bool("y", false, "skip confirmation")
	fs.Parse(args)

	if *id == "" || *grant == *revoke {
		return fmt.Errorf("-id and exactly one of -grant or -revoke are required")
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	verb := "Grant admin access to"
	if *revoke {
		verb = "Revoke admin access from"
	}
	if !*yes && !confirm(fmt.Sprintf("%s profile %s?", verb, *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	profile, err := c.SetProfileAdmin(context.Background(), *id, *grant)
	if err != nil {
		return err
	}

	if profile.IsAdmin {
		fmt.Printf("%s is now an admin.\n", profile.Email)
	} else {
		fmt.Printf("%s is no longer an admin.\n", profile.Email)
	}
	return nil
}

func cmdCategoryAdd(args []string) error {
	fs, server := flagSet("category-add")
	name := fs.String("name", "", "category name")
	description := fs.String("description", "", "category description")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	category, err := c.CreateCategory(context.Background(), *name, *description)
	if err != nil {
		return err
	}
	fmt.Printf("Category %q created (id %s)\n", category.Name, category.ID)
	return nil
}

func cmdCategoryDelete(args []string) error {
	fs, server := flagSet("category-delete")
	id := fs.String("id", "", "category id")
	yes := fs.Bool("y", false, "skip confirmation")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	c, store, err := newStore(*server)
	if err != nil {
		return err
	}
	if _, err := requireSignIn(store); err != nil {
		return err
	}

	if !*yes && !confirm(fmt.Sprintf("Delete category %s? Items keep their reports but lose the category.", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := c.DeleteCategory(context.Background(), *id); err != nil {
		return err
	}
	fmt.Println("Category deleted.")
	return nil
}

func printItem(item model.Item) {
	fmt.Printf("%s  [%s/%s] %s\n", item.ID, item.Kind, item.Status, item.Title)
	fmt.Printf("    %s\n", item.Description)
	fmt.Printf("    Location: %s, date: %s", item.Location, item.DateReported.Format("2006-01-02"))
	if item.CategoryName != "" {
		fmt.Printf(", category: %s", item.CategoryName)
	}
	fmt.Println()
	reporter := item.ReporterName
	if reporter == "" {
		reporter = item.ReporterEmail
	}
	fmt.Printf("    Posted by %s", reporter)
	if item.ContactInfo != "" {
		fmt.Printf(" (%s)", item.ContactInfo)
	}
	fmt.Println()
}

// promptPassword reads a password from stdin. Terminal echo is left on.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question and returns true only on an explicit yes.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// tokenPath returns the session token file path under the user config dir.
func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config dir: %w", err)
	}
	return filepath.Join(dir, "findit", "token"), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func clearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
