// admitctl is the attendee and organizer command line for the admission API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const defaultBase = "http://localhost:9000"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		usage(out)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	// Identity
	case "identity":
		if len(rest) < 1 {
			usage(out)
			return errors.New("identity needs a subcommand: new or commitment")
		}
		switch rest[0] {
		case "new":
			return identityNew(rest[1:], out)
		case "commitment":
			return identityCommitment(rest[1:], out)
		default:
			return fmt.Errorf("unknown identity subcommand: %s", rest[0])
		}

	// Organizer
	case "token":
		return issueToken(rest, out)
	case "approve":
		return approve(rest, out)
	case "delete-event":
		return deleteEvent(rest, out)

	// Attendee + door
	case "prove":
		return prove(rest, out)
	case "checkin":
		return checkIn(rest, out)
	case "status":
		return status(rest, out)
	case "members":
		return members(rest, out)

	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage(out io.Writer) {
	fmt.Fprint(out, `Usage: admitctl <command> [flags]

Identity:
  identity new         --out FILE [--force]
  identity commitment  --identity FILE (--event ID | --global)

Organizer:
  token                --secret S --event ID [--event ID ...] [--subject NAME] [--ttl 24h]
  approve              --event ID --commitment 0x.. [--token T]
  delete-event         --event ID [--token T]

Attendee:
  prove                --event ID --identity FILE [--global] [--out FILE] [--qr FILE.png]
  checkin              --event ID (--attempt FILE | --identity FILE [--global])
  status               --event ID (--nullifier 0x.. | --identity FILE [--global])
  members              --event ID [--verify-snapshot]

Every API command accepts --api URL (default $FAIRPASS_API_BASE or `+defaultBase+`).
Organizer commands read the bearer token from --token or $FAIRPASS_ORGANIZER_TOKEN.
`)
}

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func apiFlag(fs *pflag.FlagSet) *string {
	base := os.Getenv("FAIRPASS_API_BASE")
	if base == "" {
		base = defaultBase
	}
	return fs.String("api", base, "admission API base URL")
}

func tokenFlag(fs *pflag.FlagSet) *string {
	return fs.String("token", os.Getenv("FAIRPASS_ORGANIZER_TOKEN"), "organizer bearer token")
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
