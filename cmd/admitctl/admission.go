package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fairpass/internal/auth"
	"fairpass/internal/client"
	"fairpass/internal/events"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/snapshot"
	dtocommon "fairpass/pkg/dto_common"

	"github.com/skip2/go-qrcode"
)

const (
	requestTimeout = 2 * time.Minute
	qrSize         = 512
)

func issueToken(args []string, out io.Writer) error {
	fs := newFlagSet("token")
	secret := fs.String("secret", os.Getenv("FAIRPASS_AUTH_ORGANIZER_SECRET"), "organizer signing secret")
	eventIds := fs.StringArray("event", nil, "event the token may manage, repeatable; * for all")
	subject := fs.String("subject", "organizer", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(*eventIds) == 0 {
		return errors.New("at least one --event is required")
	}

	token, err := auth.IssueOrganizerToken([]byte(*secret), *subject, *eventIds, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func approve(args []string, out io.Writer) error {
	fs := newFlagSet("approve")
	api, token := apiFlag(fs), tokenFlag(fs)
	eventId := fs.String("event", "", "event id")
	commitment := fs.String("commitment", "", "identity commitment to approve (0x hex)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := errors.Join(required("event", *eventId), required("commitment", *commitment)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := client.NewClient(*api, client.WithToken(*token)).Approve(ctx, *eventId, *commitment); err != nil {
		return err
	}
	fmt.Fprintf(out, "approved %s for %s\n", *commitment, *eventId)
	return nil
}

func deleteEvent(args []string, out io.Writer) error {
	fs := newFlagSet("delete-event")
	api, token := apiFlag(fs), tokenFlag(fs)
	eventId := fs.String("event", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventId); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := client.NewClient(*api, client.WithToken(*token)).DeleteEvent(ctx, *eventId); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", *eventId)
	return nil
}

// buildAttempt rebuilds the group from the verified snapshot and proves membership
// locally, so the server never learns which leaf belongs to the attendee.
func buildAttempt(ctx context.Context, c *client.Client, eventId string, id identity.Identity) (dtocommon.CheckInRequestDto, error) {
	raw, cid, err := c.Snapshot(ctx, eventId)
	if err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	if err := snapshot.Verify(raw, cid); err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	view, err := snapshot.Decode(raw)
	if err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	if view.EventID != eventId {
		return dtocommon.CheckInRequestDto{}, fmt.Errorf("snapshot is for event %q", view.EventID)
	}

	local, err := group.Rebuild(view.EventID, view.Depth, nil, view.Members)
	if err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	if !local.Contains(id.Commitment()) {
		return dtocommon.CheckInRequestDto{}, fmt.Errorf("commitment %s is not approved for %s", id.Commitment().Hex(), eventId)
	}

	keys, err := c.ProvingKeys(ctx)
	if err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	proof, err := local.ProveMembership(keys, id)
	if err != nil {
		return dtocommon.CheckInRequestDto{}, err
	}
	return events.NewCheckInRequest(proof), nil
}

func prove(args []string, out io.Writer) error {
	fs := newFlagSet("prove")
	api := apiFlag(fs)
	eventId := fs.String("event", "", "event id")
	path := fs.String("identity", "identity.json", "identity file")
	global := fs.Bool("global", false, "prove with the master identity")
	outPath := fs.String("out", "", "write the check-in attempt to this file instead of stdout")
	qrPath := fs.String("qr", "", "also render the attempt as a PNG QR code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventId); err != nil {
		return err
	}

	id, err := scopedIdentity(*path, *eventId, *global)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	attempt, err := buildAttempt(ctx, client.NewClient(*api), *eventId, id)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	if *qrPath != "" {
		if err := writeQR(*qrPath, raw); err != nil {
			return err
		}
	}
	if *outPath != "" {
		return os.WriteFile(*outPath, append(raw, '\n'), 0o600)
	}
	fmt.Fprintln(out, string(raw))
	return nil
}

func writeQR(path string, content []byte) error {
	if err := qrcode.WriteFile(string(content), qrcode.Low, qrSize, path); err != nil {
		return fmt.Errorf("render qr code: %w", err)
	}
	return nil
}

func checkIn(args []string, out io.Writer) error {
	fs := newFlagSet("checkin")
	api := apiFlag(fs)
	eventId := fs.String("event", "", "event id")
	attemptPath := fs.String("attempt", "", "check-in attempt produced by prove")
	path := fs.String("identity", "", "identity file; proves and checks in in one step")
	global := fs.Bool("global", false, "prove with the master identity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventId); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	c := client.NewClient(*api)

	var attempt dtocommon.CheckInRequestDto
	switch {
	case *attemptPath != "":
		raw, err := os.ReadFile(*attemptPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return fmt.Errorf("parse attempt: %w", err)
		}
	case *path != "":
		id, err := scopedIdentity(*path, *eventId, *global)
		if err != nil {
			return err
		}
		if attempt, err = buildAttempt(ctx, c, *eventId, id); err != nil {
			return err
		}
	default:
		return errors.New("pass --attempt or --identity")
	}

	if err := c.CheckIn(ctx, *eventId, attempt); err != nil {
		return err
	}
	fmt.Fprintf(out, "checked in to %s\n", *eventId)
	return nil
}

func status(args []string, out io.Writer) error {
	fs := newFlagSet("status")
	api := apiFlag(fs)
	eventId := fs.String("event", "", "event id")
	nullifier := fs.String("nullifier", "", "nullifier to look up (0x hex)")
	path := fs.String("identity", "", "identity file to compute the nullifier from")
	global := fs.Bool("global", false, "use the master identity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventId); err != nil {
		return err
	}

	n := *nullifier
	if n == "" {
		if *path == "" {
			return errors.New("pass --nullifier or --identity")
		}
		id, err := scopedIdentity(*path, *eventId, *global)
		if err != nil {
			return err
		}
		n = id.Nullifier(*eventId).Hex()
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	st, err := client.NewClient(*api).NullifierStatus(ctx, *eventId, n)
	if err != nil {
		return err
	}
	return printJSON(out, st)
}

func members(args []string, out io.Writer) error {
	fs := newFlagSet("members")
	api := apiFlag(fs)
	eventId := fs.String("event", "", "event id")
	verify := fs.Bool("verify-snapshot", false, "also download the snapshot and check it against the listed CID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventId); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	c := client.NewClient(*api)
	list, err := c.Members(ctx, *eventId)
	if err != nil {
		return err
	}

	if *verify {
		raw, _, err := c.Snapshot(ctx, *eventId)
		if err != nil {
			return err
		}
		if err := snapshot.Verify(raw, list.SnapshotCid); err != nil {
			return err
		}
	}
	return printJSON(out, list)
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
