package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/astei/mcschem/format"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/world"
)

func main() {
	log.SetFlags(0)
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	cfg := defaultConfig()
	return &cli.App{
		Name:      "mcschem",
		Usage:     "convert and inspect Minecraft schematics",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (defaults to $MCSCHEM_CONFIG)",
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert a schematic to another format",
				ArgsUsage: "IN OUT",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "merge", Usage: "merge all regions into one"},
					&cli.StringFlag{Name: "background", Usage: "block filling gaps between merged regions"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.New("convert needs an input and an output path")
					}
					return convert(c, cfg, c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:      "info",
				Usage:     "print a summary of a schematic",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("info needs exactly one path")
					}
					return info(c.App.Writer, c.Args().First())
				},
			},
			{
				Name:      "extract",
				Usage:     "cut a box out of a world save into a schematic",
				ArgsUsage: "OUT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "world", Usage: "world save or region directory", Required: true},
					&cli.StringFlag{Name: "from", Usage: "first corner as x,y,z", Required: true},
					&cli.StringFlag{Name: "to", Usage: "second corner as x,y,z", Required: true},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("extract needs an output path")
					}
					return extract(c, cfg, c.Args().First())
				},
			},
		},
	}
}

func convert(c *cli.Context, cfg *Config, in, out string) error {
	if _, err := format.ForPath(out); err != nil {
		return err
	}
	start := time.Now()
	s, err := format.Load(in)
	if err != nil {
		return err
	}

	merge := cfg.Merge
	if c.IsSet("merge") {
		merge = c.Bool("merge")
	}
	if merge && len(s.Regions) > 1 {
		if c.IsSet("background") {
			cfg.Background = c.String("background")
		}
		bg, err := cfg.BackgroundBlock()
		if err != nil {
			return err
		}
		if err := s.MergeRegions(bg); err != nil {
			return err
		}
		log.Printf("merged regions over %s", bg)
	}
	applyConfig(s, cfg)

	if err := format.Save(s, out); err != nil {
		return err
	}
	log.Printf("converted %s to %s in %s", in, out, time.Since(start).Round(time.Millisecond))
	return nil
}

// applyConfig fills metadata the source file did not carry.
func applyConfig(s *schem.Schematic, cfg *Config) {
	if s.Metadata.Author == "" {
		s.Metadata.Author = cfg.Author
	}
	if cfg.LitematicaVersion > 0 && s.Metadata.LitematicaVersion == 0 {
		s.Metadata.LitematicaVersion = cfg.LitematicaVersion
	}
}

func info(w io.Writer, path string) error {
	f, err := format.ForPath(path)
	if err != nil {
		return err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	s, err := format.Load(path)
	if err != nil {
		return err
	}

	shape := s.Shape()
	fmt.Fprintf(w, "%s (%s, %s)\n", filepath.Base(path), f, humanize.Bytes(uint64(stat.Size())))
	fmt.Fprintf(w, "data version: %s\n", s.DataVersion)
	if s.Metadata.Name != "" {
		fmt.Fprintf(w, "name:         %s\n", s.Metadata.Name)
	}
	if s.Metadata.Author != "" {
		fmt.Fprintf(w, "author:       %s\n", s.Metadata.Author)
	}
	fmt.Fprintf(w, "shape:        %s x %s x %s\n",
		humanize.Comma(int64(shape[0])), humanize.Comma(int64(shape[1])), humanize.Comma(int64(shape[2])))
	fmt.Fprintf(w, "volume:       %s\n", humanize.Comma(int64(s.Volume())))
	fmt.Fprintf(w, "blocks:       %s\n", humanize.Comma(int64(s.TotalBlocks(false))))
	fmt.Fprintf(w, "regions:      %d\n", len(s.Regions))
	for _, r := range s.Regions {
		fmt.Fprintf(w, "  %-16s offset %v shape %v palette %d blocks %s\n",
			r.Name, r.Offset, r.Shape(), len(r.Palette), humanize.Comma(int64(r.TotalBlocks(false))))
	}
	if dups := s.DuplicatedBlocks(); len(dups) > 0 {
		fmt.Fprintf(w, "overlapping:  %s positions\n", humanize.Comma(int64(len(dups))))
	}
	return nil
}

func extract(c *cli.Context, cfg *Config, out string) error {
	from, err := parseXYZ(c.String("from"))
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseXYZ(c.String("to"))
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	if _, err := format.ForPath(out); err != nil {
		return err
	}

	start := time.Now()
	w, err := world.OpenWorld(c.String("world"), cfg.WorkerCount())
	if err != nil {
		return err
	}
	log.Printf("discovered %s chunks in %s", humanize.Comma(int64(w.Len())), w.Name)

	s, err := w.Extract(from, to)
	if err != nil {
		return err
	}
	s.Metadata.Name = w.Name
	applyConfig(s, cfg)
	if err := format.Save(s, out); err != nil {
		return err
	}
	log.Printf("extracted %s blocks to %s in %s",
		humanize.Comma(int64(s.TotalBlocks(false))), out, time.Since(start).Round(time.Millisecond))
	return nil
}

var errBadCoordinate = errors.New("expected three comma separated integers")

func parseXYZ(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("%w, got %q", errBadCoordinate, s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, fmt.Errorf("%w, got %q", errBadCoordinate, s)
		}
		out[i] = n
	}
	return out, nil
}
