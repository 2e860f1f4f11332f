package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"fairpass/internal/identity"
)

func identityNew(args []string, out io.Writer) error {
	fs := newFlagSet("identity new")
	path := fs.String("out", "identity.json", "where to write the identity secret")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists; pass --force to replace it", *path)
	}

	id, err := identity.Generate()
	if err != nil {
		return err
	}
	if err := saveIdentity(*path, id); err != nil {
		return err
	}

	fmt.Fprintf(out, "identity written to %s\nglobal commitment: %s\n", *path, id.Commitment().Hex())
	return nil
}

func identityCommitment(args []string, out io.Writer) error {
	fs := newFlagSet("identity commitment")
	path := fs.String("identity", "identity.json", "identity file")
	eventId := fs.String("event", "", "event to derive the commitment for")
	global := fs.Bool("global", false, "use the master identity instead of a per-event one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := scopedIdentity(*path, *eventId, *global)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id.Commitment().Hex())
	return nil
}

func saveIdentity(path string, id identity.Identity) error {
	raw, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o600)
}

func loadIdentity(path string) (identity.Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("read identity: %w", err)
	}
	var id identity.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return identity.Identity{}, fmt.Errorf("parse identity %s: %w", path, err)
	}
	return id, nil
}

// scopedIdentity returns the per-event child of the stored identity, or the master with global set.
func scopedIdentity(path, eventId string, global bool) (identity.Identity, error) {
	if !global && eventId == "" {
		return identity.Identity{}, errors.New("pass --event or --global")
	}
	master, err := loadIdentity(path)
	if err != nil {
		return identity.Identity{}, err
	}
	if global {
		return master, nil
	}
	return identity.Derive(master, eventId), nil
}
