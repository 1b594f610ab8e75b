// README: Interactive CLI; asks for a city and a mode, prints the proposed day trip.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"daytrip/internal/app"
	"daytrip/internal/config"
	"daytrip/internal/service"
)

type options struct {
	City    string `short:"c" long:"city" description:"City to plan around; prompts when omitted"`
	Mode    string `short:"m" long:"mode" description:"walking, bicycling, driving, bus or train; prompts when omitted"`
	EnvFile string `long:"env-file" default:".env" description:"Optional .env file with API keys"`
}

type proposer interface {
	Propose(ctx context.Context, req service.PlanRequest) service.Outcome
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, false)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := run(ctx, a.Planner, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run proposes once when both flags are given, otherwise prompts until EOF.
func run(ctx context.Context, p proposer, opts options, in io.Reader, out io.Writer) error {
	if opts.Mode != "" {
		mode, err := service.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		if opts.City != "" {
			propose(ctx, p, opts.City, mode, out)
			return nil
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		city := opts.City
		if city == "" {
			fmt.Fprint(out, "Which city would you like to visit? ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			city = scanner.Text()
		}

		mode, err := askMode(scanner, opts.Mode, out)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		propose(ctx, p, city, mode, out)

		if opts.City != "" || ctx.Err() != nil {
			return nil
		}
	}
}

// askMode prompts until the answer is a valid mode or input ends (io.EOF).
func askMode(scanner *bufio.Scanner, preset string, out io.Writer) (service.Mode, error) {
	if preset != "" {
		return service.ParseMode(preset)
	}
	labels := make([]string, 0, len(service.Modes))
	for _, m := range service.Modes {
		labels = append(labels, string(m))
	}
	for {
		fmt.Fprintf(out, "Transportation mode [%s] (default %s): ", strings.Join(labels, ", "), service.DefaultMode)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		mode, err := service.ParseMode(scanner.Text())
		if err == nil {
			return mode, nil
		}
		fmt.Fprintln(out, err)
	}
}

func propose(ctx context.Context, p proposer, city string, mode service.Mode, out io.Writer) {
	if strings.TrimSpace(city) == "" {
		return
	}
	fmt.Fprintln(out, "Generating proposal...")
	res := p.Propose(ctx, service.PlanRequest{City: city, Mode: mode})
	switch res.Status {
	case service.StatusCompleted:
		fmt.Fprintln(out, res.Itinerary)
	case service.StatusFailed:
		fmt.Fprintln(out, res.Message)
	}
}
