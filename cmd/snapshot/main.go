// snapshot lists, exports and imports world snapshots stored in PostgreSQL.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/persist"
	"github.com/l1jgo/simcore/internal/world"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const usage = `Usage:
  snapshot list [name]
  snapshot export <id> <output.json>
  snapshot import <name> <input.json>
  snapshot inspect <input.json>`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dbCommands need a database connection.
var dbCommands = map[string]bool{"list": true, "export": true, "import": true}

func run(cmd string, args []string) error {
	if cmd == "inspect" {
		if len(args) != 1 {
			return fmt.Errorf("%s", usage)
		}
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return inspect(os.Stdout, blob)
	}
	if !dbCommands[cmd] {
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if _, err := persist.RunMigrations(ctx, db.Pool, zap.NewNop()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	repo := persist.NewSnapshotRepo(db)

	switch cmd {
	case "list":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		rows, err := repo.List(ctx, name, 50)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%6d  %-16s  %5d actors  %s  %s\n",
				r.ID, r.Name, r.ActorCount, hex.EncodeToString(r.Digest)[:12], r.CreatedAt.Format(time.RFC3339))
		}
		return nil

	case "export":
		if len(args) != 2 {
			return fmt.Errorf("%s", usage)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("snapshot id %q: %w", args[0], err)
		}
		row, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("snapshot %d not found", id)
		}
		if err := os.WriteFile(args[1], row.Blob, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote snapshot %d (%d actors) to %s\n", row.ID, row.ActorCount, args[1])
		return nil

	case "import":
		if len(args) != 2 {
			return fmt.Errorf("%s", usage)
		}
		blob, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var snap world.Snapshot
		if err := json.Unmarshal(blob, &snap); err != nil {
			return fmt.Errorf("decode %s: %w", args[1], err)
		}
		saved, err := repo.Save(ctx, args[0], blob, len(snap.ActorStates))
		if err != nil {
			return err
		}
		if !saved {
			fmt.Printf("Snapshot %s already matches %s, nothing written\n", args[0], args[1])
			return nil
		}
		fmt.Printf("Imported %d actors as %s\n", len(snap.ActorStates), args[0])
	}
	return nil
}

// inspect prints a YAML summary of a snapshot file: actor count per class
// and the component kinds in use.
func inspect(w io.Writer, blob []byte) error {
	var snap world.Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	classes := make(map[string]int)
	kinds := make(map[string]int)
	for _, a := range snap.ActorStates {
		class := a.Class
		if class == "" {
			class = "(none)"
		}
		classes[class]++
		for k := range a.State {
			kinds[k]++
		}
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)

	out, err := yaml.Marshal(struct {
		Actors     int            `yaml:"actors"`
		Classes    map[string]int `yaml:"classes"`
		Components []string       `yaml:"components"`
	}{len(snap.ActorStates), classes, names})
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
