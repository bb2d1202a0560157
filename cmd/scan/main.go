// Command scan looks up a barcode or food name and prints its nutrition report.
//
//	scan [-json] [query...]
//
// Without a query it reads one query per line from stdin.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/macrolens/productscan/config"
	"github.com/macrolens/productscan/internal/bootstrap"
	"github.com/macrolens/productscan/internal/delivery/render"
	"github.com/macrolens/productscan/internal/domain"
)

const prompt = "Enter Barcode or Food Name: "

type lookupFunc func(ctx context.Context, query string) (*domain.Product, error)

func main() {
	asJSON := flag.Bool("json", false, "print the product and report as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	svc, err := bootstrap.NewLookupService(cfg)
	if err != nil {
		log.Fatalf("Failed to build lookup service: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if flag.NArg() > 0 {
		err = scanOnce(ctx, svc.Lookup, strings.Join(flag.Args(), " "), *asJSON, os.Stdout)
	} else {
		err = scanLoop(ctx, svc.Lookup, os.Stdin, *asJSON, os.Stdout)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("scan: %v", err)
	}
}

// scanLoop prompts for queries until EOF or cancellation
func scanLoop(ctx context.Context, lookup lookupFunc, in io.Reader, asJSON bool, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if err := scanOnce(ctx, lookup, query, asJSON, out); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// scanOnce looks up one query and writes its report; not-found is not an error
func scanOnce(ctx context.Context, lookup lookupFunc, query string, asJSON bool, out io.Writer) error {
	product, err := lookup(ctx, query)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return err
	}
	report := render.Build(product)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Product *domain.Product `json:"product"`
			Display render.Report   `json:"display"`
		}{product, report})
	}

	_, err = fmt.Fprint(out, report.Text())
	return err
}

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)
}
